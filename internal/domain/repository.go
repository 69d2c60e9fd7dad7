package domain

import (
	"context"
	"time"
)

// Repository interfaces for the four entities. All methods accept
// context.Context so callers can propagate timeouts and cancellation down
// to the store. Implementations translate backend failures into the
// sentinel errors of this package, and every write (including upserts)
// executes as a single atomic operation.

type StockRepository interface {
	// Create registers a new stock. A symbol already in use fails with
	// ErrDuplicate.
	Create(ctx context.Context, stock Stock) (Stock, error)
	FindByID(ctx context.Context, id int64) (Stock, error)
	FindBySymbol(ctx context.Context, symbol string) (Stock, error)
	// List returns all stocks ordered by symbol.
	List(ctx context.Context) ([]Stock, error)
	// Update edits symbol and name, re-checking symbol uniqueness.
	Update(ctx context.Context, id int64, symbol, name string) (Stock, error)
	// Delete removes the stock and, by cascade, its price rows and any
	// holdings referencing it.
	Delete(ctx context.Context, id int64) error
}

type PriceRepository interface {
	// Record upserts on (stock_id, date): a second record for the same day
	// overwrites the OHLCV fields instead of failing.
	Record(ctx context.Context, price StockPrice) (StockPrice, error)
	// History returns rows for the stock ordered by date ascending,
	// optionally bounded by from/to (inclusive).
	History(ctx context.Context, stockID int64, from, to *time.Time) ([]StockPrice, error)
	// Latest returns the row with the greatest date for the stock.
	Latest(ctx context.Context, stockID int64) (StockPrice, error)
}

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio Portfolio) (Portfolio, error)
	FindByID(ctx context.Context, id int64) (Portfolio, error)
	// List returns all portfolios ordered by creation time.
	List(ctx context.Context) ([]Portfolio, error)
	// Delete removes the portfolio and, by cascade, its holdings.
	Delete(ctx context.Context, id int64) error
}

type HoldingRepository interface {
	// Put upserts on (portfolio_id, stock_id): adding a stock already held
	// overwrites quantity, purchase price and purchase date.
	Put(ctx context.Context, holding Holding) (Holding, error)
	Remove(ctx context.Context, portfolioID, stockID int64) error
	// Details reads the v_portfolio_details view, one row per holding,
	// ordered by symbol.
	Details(ctx context.Context, portfolioID int64) ([]PortfolioDetail, error)
}
