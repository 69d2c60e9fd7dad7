// Package memory provides map-backed repositories that enforce the same
// uniqueness, upsert and cascade semantics as the SQL backends. It backs
// the service and HTTP tests and is not meant for production use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jperezag/stockvault/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	stocks     map[int64]domain.Stock
	prices     map[int64]domain.StockPrice
	portfolios map[int64]domain.Portfolio
	holdings   map[int64]domain.Holding

	nextID int64
}

func NewStore() *Store {
	return &Store{
		stocks:     make(map[int64]domain.Stock),
		prices:     make(map[int64]domain.StockPrice),
		portfolios: make(map[int64]domain.Portfolio),
		holdings:   make(map[int64]domain.Holding),
	}
}

func (s *Store) Stocks() domain.StockRepository         { return &stockRepo{s} }
func (s *Store) Prices() domain.PriceRepository         { return &priceRepo{s} }
func (s *Store) Portfolios() domain.PortfolioRepository { return &portfolioRepo{s} }
func (s *Store) Holdings() domain.HoldingRepository     { return &holdingRepo{s} }

// callers must hold s.mu
func (s *Store) nextSequence() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) symbolInUse(symbol string, excludeID int64) bool {
	for _, st := range s.stocks {
		if st.Symbol == symbol && st.ID != excludeID {
			return true
		}
	}
	return false
}

type stockRepo struct{ s *Store }

func (r *stockRepo) Create(ctx context.Context, stock domain.Stock) (domain.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.symbolInUse(stock.Symbol, 0) {
		return domain.Stock{}, fmt.Errorf("symbol %s: %w", stock.Symbol, domain.ErrDuplicate)
	}
	stock.ID = r.s.nextSequence()
	r.s.stocks[stock.ID] = stock
	return stock, nil
}

func (r *stockRepo) FindByID(ctx context.Context, id int64) (domain.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stock, ok := r.s.stocks[id]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	return stock, nil
}

func (r *stockRepo) FindBySymbol(ctx context.Context, symbol string) (domain.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	symbol = domain.NormalizeSymbol(symbol)
	for _, stock := range r.s.stocks {
		if stock.Symbol == symbol {
			return stock, nil
		}
	}
	return domain.Stock{}, fmt.Errorf("stock %s: %w", symbol, domain.ErrNotFound)
}

func (r *stockRepo) List(ctx context.Context) ([]domain.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stocks := make([]domain.Stock, 0, len(r.s.stocks))
	for _, stock := range r.s.stocks {
		stocks = append(stocks, stock)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })
	return stocks, nil
}

func (r *stockRepo) Update(ctx context.Context, id int64, symbol, name string) (domain.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stock, ok := r.s.stocks[id]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	symbol = domain.NormalizeSymbol(symbol)
	if r.s.symbolInUse(symbol, id) {
		return domain.Stock{}, fmt.Errorf("symbol %s: %w", symbol, domain.ErrDuplicate)
	}
	stock.Symbol = symbol
	stock.Name = name
	r.s.stocks[id] = stock
	return stock, nil
}

func (r *stockRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stocks[id]; !ok {
		return fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.stocks, id)
	// cascade, mirroring the ON DELETE CASCADE constraints
	for pid, p := range r.s.prices {
		if p.StockID == id {
			delete(r.s.prices, pid)
		}
	}
	for hid, h := range r.s.holdings {
		if h.StockID == id {
			delete(r.s.holdings, hid)
		}
	}
	return nil
}

type priceRepo struct{ s *Store }

func (r *priceRepo) Record(ctx context.Context, price domain.StockPrice) (domain.StockPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stocks[price.StockID]; !ok {
		return domain.StockPrice{}, fmt.Errorf("stock %d: %w", price.StockID, domain.ErrReference)
	}
	price.Date = domain.DateOnly(price.Date)
	for id, existing := range r.s.prices {
		if existing.StockID == price.StockID && existing.Date.Equal(price.Date) {
			price.ID = id
			r.s.prices[id] = price
			return price, nil
		}
	}
	price.ID = r.s.nextSequence()
	r.s.prices[price.ID] = price
	return price, nil
}

func (r *priceRepo) History(ctx context.Context, stockID int64, from, to *time.Time) ([]domain.StockPrice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var history []domain.StockPrice
	for _, p := range r.s.prices {
		if p.StockID != stockID {
			continue
		}
		if from != nil && p.Date.Before(domain.DateOnly(*from)) {
			continue
		}
		if to != nil && p.Date.After(domain.DateOnly(*to)) {
			continue
		}
		history = append(history, p)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
	return history, nil
}

func (r *priceRepo) Latest(ctx context.Context, stockID int64) (domain.StockPrice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest domain.StockPrice
	found := false
	for _, p := range r.s.prices {
		if p.StockID != stockID {
			continue
		}
		if !found || p.Date.After(latest.Date) {
			latest = p
			found = true
		}
	}
	if !found {
		return domain.StockPrice{}, fmt.Errorf("stock price: %w", domain.ErrNotFound)
	}
	return latest, nil
}

type portfolioRepo struct{ s *Store }

func (r *portfolioRepo) Create(ctx context.Context, portfolio domain.Portfolio) (domain.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	portfolio.ID = r.s.nextSequence()
	r.s.portfolios[portfolio.ID] = portfolio
	return portfolio, nil
}

func (r *portfolioRepo) FindByID(ctx context.Context, id int64) (domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	portfolio, ok := r.s.portfolios[id]
	if !ok {
		return domain.Portfolio{}, fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	return portfolio, nil
}

func (r *portfolioRepo) List(ctx context.Context) ([]domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	portfolios := make([]domain.Portfolio, 0, len(r.s.portfolios))
	for _, p := range r.s.portfolios {
		portfolios = append(portfolios, p)
	}
	sort.Slice(portfolios, func(i, j int) bool { return portfolios[i].ID < portfolios[j].ID })
	return portfolios, nil
}

func (r *portfolioRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[id]; !ok {
		return fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.portfolios, id)
	for hid, h := range r.s.holdings {
		if h.PortfolioID == id {
			delete(r.s.holdings, hid)
		}
	}
	return nil
}

type holdingRepo struct{ s *Store }

func (r *holdingRepo) Put(ctx context.Context, holding domain.Holding) (domain.Holding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[holding.PortfolioID]; !ok {
		return domain.Holding{}, fmt.Errorf("portfolio %d: %w", holding.PortfolioID, domain.ErrReference)
	}
	if _, ok := r.s.stocks[holding.StockID]; !ok {
		return domain.Holding{}, fmt.Errorf("stock %d: %w", holding.StockID, domain.ErrReference)
	}
	holding.PurchaseDate = domain.DateOnly(holding.PurchaseDate)
	for id, existing := range r.s.holdings {
		if existing.PortfolioID == holding.PortfolioID && existing.StockID == holding.StockID {
			holding.ID = id
			r.s.holdings[id] = holding
			return holding, nil
		}
	}
	holding.ID = r.s.nextSequence()
	r.s.holdings[holding.ID] = holding
	return holding, nil
}

func (r *holdingRepo) Remove(ctx context.Context, portfolioID, stockID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, h := range r.s.holdings {
		if h.PortfolioID == portfolioID && h.StockID == stockID {
			delete(r.s.holdings, id)
			return nil
		}
	}
	return fmt.Errorf("holding: %w", domain.ErrNotFound)
}

func (r *holdingRepo) Details(ctx context.Context, portfolioID int64) ([]domain.PortfolioDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	portfolio, ok := r.s.portfolios[portfolioID]
	if !ok {
		return nil, nil
	}

	var details []domain.PortfolioDetail
	for _, h := range r.s.holdings {
		if h.PortfolioID != portfolioID {
			continue
		}
		stock := r.s.stocks[h.StockID]
		details = append(details, domain.PortfolioDetail{
			PortfolioID:   portfolioID,
			PortfolioName: portfolio.Name,
			Symbol:        stock.Symbol,
			StockName:     stock.Name,
			Quantity:      h.Quantity,
			PurchasePrice: h.PurchasePrice,
			PurchaseDate:  h.PurchaseDate,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Symbol < details[j].Symbol })
	return details, nil
}
