package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jperezag/stockvault/internal/domain"
)

type PriceRepository struct {
	db *DB
}

func NewPriceRepository(db *DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Record upserts the (stock_id, date) row and returns its stored state.
// The re-select runs inside the same transaction so concurrent writers
// never observe a partial row.
func (r *PriceRepository) Record(ctx context.Context, price domain.StockPrice) (domain.StockPrice, error) {
	var stored domain.StockPrice
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.UpsertPrice(ctx, tx, &price); err != nil {
			return fmt.Errorf("upsert price: %w", r.db.Dialect.TranslateError(err))
		}

		query := r.db.rebind(fmt.Sprintf(
			`SELECT id, stock_id, %[1]s, opening_price, closing_price, highest_price, lowest_price, volume, recorded_at
			 FROM stock_prices WHERE stock_id = $1 AND %[1]s = $2`, r.db.Dialect.DateCol()))
		return scanPrice(tx.QueryRowContext(ctx, query, price.StockID, price.Date), &stored)
	})
	if err != nil {
		slog.Error("failed to record price", "stock_id", price.StockID, "date", price.Date, "error", err)
		return domain.StockPrice{}, err
	}
	return stored, nil
}

// History returns price rows ordered by date ascending, optionally bounded
// by from/to (inclusive).
func (r *PriceRepository) History(ctx context.Context, stockID int64, from, to *time.Time) ([]domain.StockPrice, error) {
	dateCol := r.db.Dialect.DateCol()
	query := fmt.Sprintf(
		`SELECT id, stock_id, %[1]s, opening_price, closing_price, highest_price, lowest_price, volume, recorded_at
		 FROM stock_prices WHERE stock_id = $1`, dateCol)
	args := []any{stockID}

	if from != nil {
		query += fmt.Sprintf(" AND %s >= $%d", dateCol, len(args)+1)
		args = append(args, domain.DateOnly(*from))
	}
	if to != nil {
		query += fmt.Sprintf(" AND %s <= $%d", dateCol, len(args)+1)
		args = append(args, domain.DateOnly(*to))
	}
	query += fmt.Sprintf(" ORDER BY %s ASC", dateCol)

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", r.db.Dialect.TranslateError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var history []domain.StockPrice
	for rows.Next() {
		var p domain.StockPrice
		if err := rows.Scan(&p.ID, &p.StockID, &p.Date, &p.Open, &p.Close, &p.High, &p.Low, &p.Volume, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}
		history = append(history, p)
	}
	return history, rows.Err()
}

// Latest returns the most recent price row for the stock.
func (r *PriceRepository) Latest(ctx context.Context, stockID int64) (domain.StockPrice, error) {
	query := r.db.rebind(fmt.Sprintf(
		`SELECT id, stock_id, %[1]s, opening_price, closing_price, highest_price, lowest_price, volume, recorded_at
		 FROM stock_prices WHERE stock_id = $1
		 ORDER BY %[1]s DESC
		 FETCH FIRST 1 ROWS ONLY`, r.db.Dialect.DateCol()))

	var p domain.StockPrice
	err := scanPrice(r.db.QueryRowContext(ctx, query, stockID), &p)
	if err != nil {
		return domain.StockPrice{}, err
	}
	return p, nil
}

func scanPrice(row *sql.Row, p *domain.StockPrice) error {
	err := row.Scan(&p.ID, &p.StockID, &p.Date, &p.Open, &p.Close, &p.High, &p.Low, &p.Volume, &p.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("stock price: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("scanning price: %w", err)
	}
	return nil
}
