package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jperezag/stockvault/internal/domain"
)

type PortfolioRepository struct {
	db *DB
}

func NewPortfolioRepository(db *DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Create(ctx context.Context, portfolio domain.Portfolio) (domain.Portfolio, error) {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.InsertPortfolio(ctx, tx, &portfolio); err != nil {
			return fmt.Errorf("insert portfolio: %w", r.db.Dialect.TranslateError(err))
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to create portfolio", "name", portfolio.Name, "error", err)
		return domain.Portfolio{}, err
	}
	return portfolio, nil
}

func (r *PortfolioRepository) FindByID(ctx context.Context, id int64) (domain.Portfolio, error) {
	query := r.db.rebind(`SELECT id, name, created_at FROM portfolios WHERE id = $1`)

	var p domain.Portfolio
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Portfolio{}, fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("querying portfolio: %w", r.db.Dialect.TranslateError(err))
	}
	return p, nil
}

func (r *PortfolioRepository) List(ctx context.Context) ([]domain.Portfolio, error) {
	query := `SELECT id, name, created_at FROM portfolios ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying portfolios: %w", r.db.Dialect.TranslateError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var portfolios []domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// Delete removes the portfolio; its holdings go with it via cascade. Stocks
// and price history are untouched.
func (r *PortfolioRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.rebind(`DELETE FROM portfolios WHERE id = $1`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", r.db.Dialect.TranslateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
