package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jperezag/stockvault/internal/domain"
	"github.com/jperezag/stockvault/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) DateCol() string { return "date" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s", domain.ErrReference, pgErr.ConstraintName)
	case "55P03", "55006", "40P01": // lock_not_available, object_in_use, deadlock_detected
		return fmt.Errorf("%w: %s", domain.ErrBusy, pgErr.Message)
	}
	return err
}

func (d *PostgresDialect) InsertStock(ctx context.Context, tx *sql.Tx, s *domain.Stock) error {
	query := `
		INSERT INTO stocks (symbol, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return tx.QueryRowContext(ctx, query, s.Symbol, s.Name, s.CreatedAt).Scan(&s.ID)
}

func (d *PostgresDialect) InsertPortfolio(ctx context.Context, tx *sql.Tx, p *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`
	return tx.QueryRowContext(ctx, query, p.Name, p.CreatedAt).Scan(&p.ID)
}

func (d *PostgresDialect) UpsertPrice(ctx context.Context, tx *sql.Tx, p *domain.StockPrice) error {
	query := `
		INSERT INTO stock_prices (stock_id, date, opening_price, closing_price, highest_price, lowest_price, volume, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (stock_id, date) DO UPDATE SET
			opening_price = EXCLUDED.opening_price,
			closing_price = EXCLUDED.closing_price,
			highest_price = EXCLUDED.highest_price,
			lowest_price = EXCLUDED.lowest_price,
			volume = EXCLUDED.volume,
			recorded_at = EXCLUDED.recorded_at
	`
	_, err := tx.ExecContext(ctx, query, p.StockID, p.Date, p.Open, p.Close, p.High, p.Low, p.Volume, p.RecordedAt)
	return err
}

func (d *PostgresDialect) UpsertHolding(ctx context.Context, tx *sql.Tx, h *domain.Holding) error {
	query := `
		INSERT INTO portfolio_stocks (portfolio_id, stock_id, quantity, purchase_price, purchase_date, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (portfolio_id, stock_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			purchase_price = EXCLUDED.purchase_price,
			purchase_date = EXCLUDED.purchase_date,
			added_at = EXCLUDED.added_at
	`
	_, err := tx.ExecContext(ctx, query, h.PortfolioID, h.StockID, h.Quantity, h.PurchasePrice, h.PurchaseDate, h.AddedAt)
	return err
}
