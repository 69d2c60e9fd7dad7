package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jperezag/stockvault/internal/domain"
)

// Repositories bundles the four persistence interfaces a backend provides.
type Repositories interface {
	Stocks() domain.StockRepository
	Prices() domain.PriceRepository
	Portfolios() domain.PortfolioRepository
	Holdings() domain.HoldingRepository
}

// TrackerService is the application-facing surface of the DAL. It validates
// caller input (the rules the schema does not enforce), resolves symbols to
// stock ids, and delegates to the repositories. It holds no state beyond
// the repository handles.
type TrackerService struct {
	stocks     domain.StockRepository
	prices     domain.PriceRepository
	portfolios domain.PortfolioRepository
	holdings   domain.HoldingRepository
}

func NewTrackerService(repos Repositories) *TrackerService {
	return &TrackerService{
		stocks:     repos.Stocks(),
		prices:     repos.Prices(),
		portfolios: repos.Portfolios(),
		holdings:   repos.Holdings(),
	}
}

func (s *TrackerService) RegisterStock(ctx context.Context, symbol, name string) (domain.Stock, error) {
	stock := domain.NewStock(symbol, name)
	if err := stock.Validate(); err != nil {
		return domain.Stock{}, err
	}
	return s.stocks.Create(ctx, stock)
}

func (s *TrackerService) GetStock(ctx context.Context, symbol string) (domain.Stock, error) {
	return s.stocks.FindBySymbol(ctx, symbol)
}

func (s *TrackerService) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	return s.stocks.List(ctx)
}

// UpdateStock edits symbol and/or name of the stock currently registered
// under symbol. Uniqueness of the new symbol is re-checked by the store.
func (s *TrackerService) UpdateStock(ctx context.Context, symbol, newSymbol, newName string) (domain.Stock, error) {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return domain.Stock{}, err
	}
	updated := domain.NewStock(newSymbol, newName)
	if err := updated.Validate(); err != nil {
		return domain.Stock{}, err
	}
	return s.stocks.Update(ctx, stock.ID, updated.Symbol, updated.Name)
}

func (s *TrackerService) DeleteStock(ctx context.Context, symbol string) error {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	return s.stocks.Delete(ctx, stock.ID)
}

// RecordPrice upserts one trading day of OHLCV data for the stock
// registered under symbol.
func (s *TrackerService) RecordPrice(ctx context.Context, symbol string, date time.Time, open, close, high, low domain.Decimal, volume int64) (domain.StockPrice, error) {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return domain.StockPrice{}, err
	}
	price := domain.NewStockPrice(stock.ID, date, open, close, high, low, volume)
	if err := price.Validate(); err != nil {
		return domain.StockPrice{}, err
	}
	return s.prices.Record(ctx, price)
}

func (s *TrackerService) PriceHistory(ctx context.Context, symbol string, from, to *time.Time) ([]domain.StockPrice, error) {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: history range end precedes start", domain.ErrValidation)
	}
	return s.prices.History(ctx, stock.ID, from, to)
}

func (s *TrackerService) LatestPrice(ctx context.Context, symbol string) (domain.StockPrice, error) {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return domain.StockPrice{}, err
	}
	return s.prices.Latest(ctx, stock.ID)
}

func (s *TrackerService) CreatePortfolio(ctx context.Context, name string) (domain.Portfolio, error) {
	portfolio := domain.NewPortfolio(name)
	if err := portfolio.Validate(); err != nil {
		return domain.Portfolio{}, err
	}
	return s.portfolios.Create(ctx, portfolio)
}

func (s *TrackerService) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	return s.portfolios.List(ctx)
}

func (s *TrackerService) DeletePortfolio(ctx context.Context, id int64) error {
	return s.portfolios.Delete(ctx, id)
}

// PutHolding adds the stock registered under symbol to the portfolio, or
// overwrites the existing holding for that pair.
func (s *TrackerService) PutHolding(ctx context.Context, portfolioID int64, symbol string, quantity int64, purchasePrice domain.Decimal, purchaseDate time.Time) (domain.Holding, error) {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return domain.Holding{}, err
	}
	holding := domain.NewHolding(portfolioID, stock.ID, quantity, purchasePrice, purchaseDate)
	if err := holding.Validate(); err != nil {
		return domain.Holding{}, err
	}
	return s.holdings.Put(ctx, holding)
}

func (s *TrackerService) RemoveHolding(ctx context.Context, portfolioID int64, symbol string) error {
	stock, err := s.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	return s.holdings.Remove(ctx, portfolioID, stock.ID)
}

// PortfolioDetails returns the join view rows for the portfolio. The
// portfolio must exist; an empty portfolio yields an empty slice.
func (s *TrackerService) PortfolioDetails(ctx context.Context, portfolioID int64) ([]domain.PortfolioDetail, error) {
	if _, err := s.portfolios.FindByID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.holdings.Details(ctx, portfolioID)
}
