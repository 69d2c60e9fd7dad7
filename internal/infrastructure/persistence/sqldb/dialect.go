package sqldb

import (
	"context"
	"database/sql"

	"github.com/jperezag/stockvault/internal/domain"
)

// Dialect isolates the SQL that differs between engines: schema migration,
// insert-returning-id, upserts, error classification, and the quoting of
// the stock_prices date column (a reserved word on Oracle).
type Dialect interface {
	Name() string
	// Migrate idempotently creates the four tables, four indexes and the
	// v_portfolio_details view. Safe to call on every process start.
	Migrate(ctx context.Context, db *sql.DB) error
	// TranslateError maps an engine error onto the domain sentinels
	// (ErrDuplicate, ErrReference, ErrBusy). Unrecognized errors pass
	// through unchanged.
	TranslateError(err error) error
	// DateCol is the quoted name of the stock_prices date column as it must
	// appear in queries for this engine.
	DateCol() string

	InsertStock(ctx context.Context, tx *sql.Tx, s *domain.Stock) error
	InsertPortfolio(ctx context.Context, tx *sql.Tx, p *domain.Portfolio) error
	UpsertPrice(ctx context.Context, tx *sql.Tx, p *domain.StockPrice) error
	UpsertHolding(ctx context.Context, tx *sql.Tx, h *domain.Holding) error
}
