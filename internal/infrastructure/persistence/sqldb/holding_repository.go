package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jperezag/stockvault/internal/domain"
)

type HoldingRepository struct {
	db *DB
}

func NewHoldingRepository(db *DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// Put upserts the (portfolio_id, stock_id) row and returns its stored
// state. An unknown portfolio or stock id surfaces as ErrReference.
func (r *HoldingRepository) Put(ctx context.Context, holding domain.Holding) (domain.Holding, error) {
	var stored domain.Holding
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.UpsertHolding(ctx, tx, &holding); err != nil {
			return fmt.Errorf("upsert holding: %w", r.db.Dialect.TranslateError(err))
		}

		query := r.db.rebind(
			`SELECT id, portfolio_id, stock_id, quantity, purchase_price, purchase_date, added_at
			 FROM portfolio_stocks WHERE portfolio_id = $1 AND stock_id = $2`)
		err := tx.QueryRowContext(ctx, query, holding.PortfolioID, holding.StockID).
			Scan(&stored.ID, &stored.PortfolioID, &stored.StockID, &stored.Quantity, &stored.PurchasePrice, &stored.PurchaseDate, &stored.AddedAt)
		if err != nil {
			return fmt.Errorf("reading back holding: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to put holding", "portfolio_id", holding.PortfolioID, "stock_id", holding.StockID, "error", err)
		return domain.Holding{}, err
	}
	return stored, nil
}

func (r *HoldingRepository) Remove(ctx context.Context, portfolioID, stockID int64) error {
	query := r.db.rebind(`DELETE FROM portfolio_stocks WHERE portfolio_id = $1 AND stock_id = $2`)
	res, err := r.db.ExecContext(ctx, query, portfolioID, stockID)
	if err != nil {
		return fmt.Errorf("removing holding: %w", r.db.Dialect.TranslateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("holding: %w", domain.ErrNotFound)
	}
	return nil
}

// Details reads the v_portfolio_details view, one row per holding.
func (r *HoldingRepository) Details(ctx context.Context, portfolioID int64) ([]domain.PortfolioDetail, error) {
	query := r.db.rebind(
		`SELECT portfolio_id, portfolio_name, symbol, stock_name, quantity, purchase_price, purchase_date
		 FROM v_portfolio_details WHERE portfolio_id = $1 ORDER BY symbol`)

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio details: %w", r.db.Dialect.TranslateError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var details []domain.PortfolioDetail
	for rows.Next() {
		var d domain.PortfolioDetail
		if err := rows.Scan(&d.PortfolioID, &d.PortfolioName, &d.Symbol, &d.StockName, &d.Quantity, &d.PurchasePrice, &d.PurchaseDate); err != nil {
			return nil, fmt.Errorf("scanning portfolio detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
