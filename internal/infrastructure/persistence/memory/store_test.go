package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jperezag/stockvault/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_StockUniquenessAndLookup(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Stocks().Create(ctx, domain.NewStock("aapl", "Apple Inc."))
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "AAPL", created.Symbol)

	_, err = store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple again"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	found, err := store.Stocks().FindBySymbol(ctx, "  aapl ")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.Stocks().FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListStocksSorted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, s := range []string{"MSFT", "AAPL", "GOOG"} {
		_, err := store.Stocks().Create(ctx, domain.NewStock(s, s+" Corp"))
		assert.NoError(t, err)
	}

	stocks, err := store.Stocks().List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"},
		[]string{stocks[0].Symbol, stocks[1].Symbol, stocks[2].Symbol})
}

func TestStore_UpdateRejectsTakenSymbol(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple"))
	assert.NoError(t, err)
	msft, err := store.Stocks().Create(ctx, domain.NewStock("MSFT", "Microsoft"))
	assert.NoError(t, err)

	_, err = store.Stocks().Update(ctx, msft.ID, "AAPL", "Microsoft")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// renaming to its own symbol is fine
	updated, err := store.Stocks().Update(ctx, msft.ID, "MSFT", "Microsoft Corp.")
	assert.NoError(t, err)
	assert.Equal(t, "Microsoft Corp.", updated.Name)
}

func TestStore_PriceUpsertAndOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	stock, err := store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple"))
	assert.NoError(t, err)

	for _, d := range []time.Time{day(2024, 1, 4), day(2024, 1, 2), day(2024, 1, 3)} {
		_, err := store.Prices().Record(ctx, domain.NewStockPrice(stock.ID, d,
			domain.MustDecimal("100"), domain.MustDecimal("101"),
			domain.MustDecimal("102"), domain.MustDecimal("99"), 10))
		assert.NoError(t, err)
	}

	// same day again: overwrite, not append
	updated, err := store.Prices().Record(ctx, domain.NewStockPrice(stock.ID, day(2024, 1, 2),
		domain.MustDecimal("200"), domain.MustDecimal("201"),
		domain.MustDecimal("202"), domain.MustDecimal("199"), 20))
	assert.NoError(t, err)

	history, err := store.Prices().History(ctx, stock.ID, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.True(t, history[0].Date.Equal(day(2024, 1, 2)))
	assert.Equal(t, updated.ID, history[0].ID)
	assert.True(t, history[0].Open.Equal(domain.MustDecimal("200")))

	from := day(2024, 1, 3)
	bounded, err := store.Prices().History(ctx, stock.ID, &from, nil)
	assert.NoError(t, err)
	assert.Len(t, bounded, 2)

	latest, err := store.Prices().Latest(ctx, stock.ID)
	assert.NoError(t, err)
	assert.True(t, latest.Date.Equal(day(2024, 1, 4)))
}

func TestStore_PriceRequiresStock(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Prices().Record(ctx, domain.NewStockPrice(42, day(2024, 1, 2),
		domain.MustDecimal("1"), domain.MustDecimal("1"), domain.MustDecimal("1"), domain.MustDecimal("1"), 0))
	assert.ErrorIs(t, err, domain.ErrReference)
}

func TestStore_StockDeleteCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	stock, err := store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple"))
	assert.NoError(t, err)
	portfolio, err := store.Portfolios().Create(ctx, domain.NewPortfolio("Retirement"))
	assert.NoError(t, err)

	_, err = store.Prices().Record(ctx, domain.NewStockPrice(stock.ID, day(2024, 1, 2),
		domain.MustDecimal("100"), domain.MustDecimal("101"),
		domain.MustDecimal("102"), domain.MustDecimal("99"), 10))
	assert.NoError(t, err)
	_, err = store.Holdings().Put(ctx, domain.NewHolding(portfolio.ID, stock.ID, 10,
		domain.MustDecimal("150.25"), day(2024, 2, 1)))
	assert.NoError(t, err)

	err = store.Stocks().Delete(ctx, stock.ID)
	assert.NoError(t, err)

	history, err := store.Prices().History(ctx, stock.ID, nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, history)

	details, err := store.Holdings().Details(ctx, portfolio.ID)
	assert.NoError(t, err)
	assert.Empty(t, details)
}

func TestStore_HoldingUpsertRemoveDetails(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	aapl, err := store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple Inc."))
	assert.NoError(t, err)
	msft, err := store.Stocks().Create(ctx, domain.NewStock("MSFT", "Microsoft Corp."))
	assert.NoError(t, err)
	portfolio, err := store.Portfolios().Create(ctx, domain.NewPortfolio("Retirement"))
	assert.NoError(t, err)

	_, err = store.Holdings().Put(ctx, domain.NewHolding(portfolio.ID, msft.ID, 5,
		domain.MustDecimal("410.00"), day(2024, 2, 2)))
	assert.NoError(t, err)
	first, err := store.Holdings().Put(ctx, domain.NewHolding(portfolio.ID, aapl.ID, 10,
		domain.MustDecimal("150.25"), day(2024, 2, 1)))
	assert.NoError(t, err)

	second, err := store.Holdings().Put(ctx, domain.NewHolding(portfolio.ID, aapl.ID, 25,
		domain.MustDecimal("155.00"), day(2024, 3, 1)))
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	details, err := store.Holdings().Details(ctx, portfolio.ID)
	assert.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Equal(t, "AAPL", details[0].Symbol)
	assert.Equal(t, int64(25), details[0].Quantity)
	assert.Equal(t, "MSFT", details[1].Symbol)

	err = store.Holdings().Remove(ctx, portfolio.ID, aapl.ID)
	assert.NoError(t, err)
	err = store.Holdings().Remove(ctx, portfolio.ID, aapl.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PortfolioDeleteKeepsStocks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	stock, err := store.Stocks().Create(ctx, domain.NewStock("AAPL", "Apple"))
	assert.NoError(t, err)
	portfolio, err := store.Portfolios().Create(ctx, domain.NewPortfolio("Temp"))
	assert.NoError(t, err)
	_, err = store.Holdings().Put(ctx, domain.NewHolding(portfolio.ID, stock.ID, 10,
		domain.MustDecimal("150.25"), day(2024, 2, 1)))
	assert.NoError(t, err)

	err = store.Portfolios().Delete(ctx, portfolio.ID)
	assert.NoError(t, err)

	_, err = store.Stocks().FindByID(ctx, stock.ID)
	assert.NoError(t, err)

	err = store.Holdings().Remove(ctx, portfolio.ID, stock.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
