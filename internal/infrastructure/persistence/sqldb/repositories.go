package sqldb

import (
	"context"

	"github.com/jperezag/stockvault/internal/domain"
)

// Repositories bundles the four database/sql-backed repositories over one
// shared connection pool.
type Repositories struct {
	db *DB
}

func NewRepositories(db *DB) *Repositories {
	return &Repositories{db: db}
}

func (r *Repositories) Stocks() domain.StockRepository         { return NewStockRepository(r.db) }
func (r *Repositories) Prices() domain.PriceRepository         { return NewPriceRepository(r.db) }
func (r *Repositories) Portfolios() domain.PortfolioRepository { return NewPortfolioRepository(r.db) }
func (r *Repositories) Holdings() domain.HoldingRepository     { return NewHoldingRepository(r.db) }

// Migrate ensures the schema exists. Safe to call on every start.
func (r *Repositories) Migrate(ctx context.Context) error {
	return r.db.Dialect.Migrate(ctx, r.db.DB)
}
