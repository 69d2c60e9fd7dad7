package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jperezag/stockvault/internal/domain"
	"github.com/jperezag/stockvault/internal/infrastructure/persistence/memory"
)

func newService() *TrackerService {
	return NewTrackerService(memory.NewStore())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTrackerService_RegisterStock(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	stock, err := svc.RegisterStock(ctx, " aapl ", "Apple Inc.")
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", stock.Symbol)

	_, err = svc.RegisterStock(ctx, "AAPL", "Apple again")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = svc.RegisterStock(ctx, "", "No Symbol Corp")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RegisterStock(ctx, "MSFT", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTrackerService_UpdateStock(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.RegisterStock(ctx, "AAPL", "Apple")
	assert.NoError(t, err)

	updated, err := svc.UpdateStock(ctx, "aapl", "AAPL", "Apple Inc.")
	assert.NoError(t, err)
	assert.Equal(t, "Apple Inc.", updated.Name)

	_, err = svc.UpdateStock(ctx, "NOPE", "NOPE", "Nope Corp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrackerService_DeleteStock(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.RegisterStock(ctx, "AAPL", "Apple")
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteStock(ctx, "AAPL"))
	assert.ErrorIs(t, svc.DeleteStock(ctx, "AAPL"), domain.ErrNotFound)
}

func TestTrackerService_RecordPrice(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.RegisterStock(ctx, "AAPL", "Apple")
	assert.NoError(t, err)

	price, err := svc.RecordPrice(ctx, "aapl", day(2024, 1, 2),
		domain.MustDecimal("185.50"), domain.MustDecimal("187.20"),
		domain.MustDecimal("188.00"), domain.MustDecimal("184.90"), 1000000)
	assert.NoError(t, err)
	assert.NotZero(t, price.ID)

	// inconsistent OHLC bounds are rejected before the store is touched
	_, err = svc.RecordPrice(ctx, "AAPL", day(2024, 1, 3),
		domain.MustDecimal("100"), domain.MustDecimal("101"),
		domain.MustDecimal("99"), domain.MustDecimal("98"), 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordPrice(ctx, "UNKNOWN", day(2024, 1, 2),
		domain.MustDecimal("1"), domain.MustDecimal("1"), domain.MustDecimal("1"), domain.MustDecimal("1"), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrackerService_PriceHistory(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.RegisterStock(ctx, "AAPL", "Apple")
	assert.NoError(t, err)

	for _, d := range []time.Time{day(2024, 1, 3), day(2024, 1, 2)} {
		_, err := svc.RecordPrice(ctx, "AAPL", d,
			domain.MustDecimal("100"), domain.MustDecimal("101"),
			domain.MustDecimal("102"), domain.MustDecimal("99"), 10)
		assert.NoError(t, err)
	}

	history, err := svc.PriceHistory(ctx, "AAPL", nil, nil)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.True(t, history[0].Date.Before(history[1].Date))

	from := day(2024, 1, 5)
	to := day(2024, 1, 1)
	_, err = svc.PriceHistory(ctx, "AAPL", &from, &to)
	assert.ErrorIs(t, err, domain.ErrValidation)

	latest, err := svc.LatestPrice(ctx, "AAPL")
	assert.NoError(t, err)
	assert.True(t, latest.Date.Equal(day(2024, 1, 3)))
}

func TestTrackerService_Portfolios(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	portfolio, err := svc.CreatePortfolio(ctx, "Retirement")
	assert.NoError(t, err)
	assert.NotZero(t, portfolio.ID)

	_, err = svc.CreatePortfolio(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := svc.ListPortfolios(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, svc.DeletePortfolio(ctx, portfolio.ID))
	assert.ErrorIs(t, svc.DeletePortfolio(ctx, portfolio.ID), domain.ErrNotFound)
}

func TestTrackerService_Holdings(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.RegisterStock(ctx, "AAPL", "Apple Inc.")
	assert.NoError(t, err)
	portfolio, err := svc.CreatePortfolio(ctx, "Retirement")
	assert.NoError(t, err)

	holding, err := svc.PutHolding(ctx, portfolio.ID, "aapl", 10,
		domain.MustDecimal("150.25"), day(2024, 2, 1))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), holding.Quantity)

	// quantity must be positive
	_, err = svc.PutHolding(ctx, portfolio.ID, "AAPL", 0,
		domain.MustDecimal("150.25"), day(2024, 2, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// overwrite
	holding, err = svc.PutHolding(ctx, portfolio.ID, "AAPL", 25,
		domain.MustDecimal("155.00"), day(2024, 3, 1))
	assert.NoError(t, err)
	assert.Equal(t, int64(25), holding.Quantity)

	details, err := svc.PortfolioDetails(ctx, portfolio.ID)
	assert.NoError(t, err)
	assert.Len(t, details, 1)
	assert.Equal(t, "AAPL", details[0].Symbol)

	assert.NoError(t, svc.RemoveHolding(ctx, portfolio.ID, "AAPL"))
	assert.ErrorIs(t, svc.RemoveHolding(ctx, portfolio.ID, "AAPL"), domain.ErrNotFound)

	// empty but existing portfolio: empty details, no error
	details, err = svc.PortfolioDetails(ctx, portfolio.ID)
	assert.NoError(t, err)
	assert.Empty(t, details)

	// missing portfolio is an error, not an empty result
	_, err = svc.PortfolioDetails(ctx, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
