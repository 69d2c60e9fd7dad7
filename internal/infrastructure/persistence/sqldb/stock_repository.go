package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jperezag/stockvault/internal/domain"
)

type StockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Create(ctx context.Context, stock domain.Stock) (domain.Stock, error) {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.InsertStock(ctx, tx, &stock); err != nil {
			return fmt.Errorf("insert stock: %w", r.db.Dialect.TranslateError(err))
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to create stock", "symbol", stock.Symbol, "error", err)
		return domain.Stock{}, err
	}
	return stock, nil
}

func (r *StockRepository) FindByID(ctx context.Context, id int64) (domain.Stock, error) {
	query := r.db.rebind(`SELECT id, symbol, name, created_at FROM stocks WHERE id = $1`)
	return r.scanOne(ctx, query, id)
}

func (r *StockRepository) FindBySymbol(ctx context.Context, symbol string) (domain.Stock, error) {
	query := r.db.rebind(`SELECT id, symbol, name, created_at FROM stocks WHERE symbol = $1`)
	return r.scanOne(ctx, query, domain.NormalizeSymbol(symbol))
}

func (r *StockRepository) scanOne(ctx context.Context, query string, arg any) (domain.Stock, error) {
	var s domain.Stock
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Symbol, &s.Name, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stock{}, fmt.Errorf("stock: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Stock{}, fmt.Errorf("querying stock: %w", r.db.Dialect.TranslateError(err))
	}
	return s, nil
}

func (r *StockRepository) List(ctx context.Context) ([]domain.Stock, error) {
	query := `SELECT id, symbol, name, created_at FROM stocks ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying stocks: %w", r.db.Dialect.TranslateError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var stocks []domain.Stock
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

func (r *StockRepository) Update(ctx context.Context, id int64, symbol, name string) (domain.Stock, error) {
	var updated domain.Stock
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := r.db.rebind(`UPDATE stocks SET symbol = $1, name = $2 WHERE id = $3`)
		res, err := tx.ExecContext(ctx, query, domain.NormalizeSymbol(symbol), name, id)
		if err != nil {
			return fmt.Errorf("updating stock: %w", r.db.Dialect.TranslateError(err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
		}

		sel := r.db.rebind(`SELECT id, symbol, name, created_at FROM stocks WHERE id = $1`)
		return tx.QueryRowContext(ctx, sel, id).Scan(&updated.ID, &updated.Symbol, &updated.Name, &updated.CreatedAt)
	})
	if err != nil {
		return domain.Stock{}, err
	}
	return updated, nil
}

// Delete removes the stock. Price rows and holdings referencing it go with
// it via the ON DELETE CASCADE constraints.
func (r *StockRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.rebind(`DELETE FROM stocks WHERE id = $1`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting stock: %w", r.db.Dialect.TranslateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
