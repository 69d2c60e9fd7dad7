package persistence

import (
	"time"

	"github.com/jperezag/stockvault/internal/domain"
)

// Row types mapped onto the tables the goose migrations create. Kept
// separate from the domain structs so gorm tags stay out of the domain
// layer.

type stockRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Symbol    string    `gorm:"column:symbol"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (stockRow) TableName() string { return "stocks" }

func (r stockRow) toDomain() domain.Stock {
	return domain.Stock{ID: r.ID, Symbol: r.Symbol, Name: r.Name, CreatedAt: r.CreatedAt}
}

type stockPriceRow struct {
	ID         int64          `gorm:"column:id;primaryKey"`
	StockID    int64          `gorm:"column:stock_id"`
	Date       time.Time      `gorm:"column:date"`
	Open       domain.Decimal `gorm:"column:opening_price;type:numeric"`
	Close      domain.Decimal `gorm:"column:closing_price;type:numeric"`
	High       domain.Decimal `gorm:"column:highest_price;type:numeric"`
	Low        domain.Decimal `gorm:"column:lowest_price;type:numeric"`
	Volume     int64          `gorm:"column:volume"`
	RecordedAt time.Time      `gorm:"column:recorded_at"`
}

func (stockPriceRow) TableName() string { return "stock_prices" }

func (r stockPriceRow) toDomain() domain.StockPrice {
	return domain.StockPrice{
		ID:         r.ID,
		StockID:    r.StockID,
		Date:       r.Date,
		Open:       r.Open,
		Close:      r.Close,
		High:       r.High,
		Low:        r.Low,
		Volume:     r.Volume,
		RecordedAt: r.RecordedAt,
	}
}

func priceRowFromDomain(p domain.StockPrice) stockPriceRow {
	return stockPriceRow{
		StockID:    p.StockID,
		Date:       p.Date,
		Open:       p.Open,
		Close:      p.Close,
		High:       p.High,
		Low:        p.Low,
		Volume:     p.Volume,
		RecordedAt: p.RecordedAt,
	}
}

type portfolioRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (portfolioRow) TableName() string { return "portfolios" }

func (r portfolioRow) toDomain() domain.Portfolio {
	return domain.Portfolio{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

type holdingRow struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	PortfolioID   int64          `gorm:"column:portfolio_id"`
	StockID       int64          `gorm:"column:stock_id"`
	Quantity      int64          `gorm:"column:quantity"`
	PurchasePrice domain.Decimal `gorm:"column:purchase_price;type:numeric"`
	PurchaseDate  time.Time      `gorm:"column:purchase_date"`
	AddedAt       time.Time      `gorm:"column:added_at"`
}

func (holdingRow) TableName() string { return "portfolio_stocks" }

func (r holdingRow) toDomain() domain.Holding {
	return domain.Holding{
		ID:            r.ID,
		PortfolioID:   r.PortfolioID,
		StockID:       r.StockID,
		Quantity:      r.Quantity,
		PurchasePrice: r.PurchasePrice,
		PurchaseDate:  r.PurchaseDate,
		AddedAt:       r.AddedAt,
	}
}

func holdingRowFromDomain(h domain.Holding) holdingRow {
	return holdingRow{
		PortfolioID:   h.PortfolioID,
		StockID:       h.StockID,
		Quantity:      h.Quantity,
		PurchasePrice: h.PurchasePrice,
		PurchaseDate:  h.PurchaseDate,
		AddedAt:       h.AddedAt,
	}
}

type detailRow struct {
	PortfolioID   int64          `gorm:"column:portfolio_id"`
	PortfolioName string         `gorm:"column:portfolio_name"`
	Symbol        string         `gorm:"column:symbol"`
	StockName     string         `gorm:"column:stock_name"`
	Quantity      int64          `gorm:"column:quantity"`
	PurchasePrice domain.Decimal `gorm:"column:purchase_price;type:numeric"`
	PurchaseDate  time.Time      `gorm:"column:purchase_date"`
}

func (detailRow) TableName() string { return "v_portfolio_details" }

func (r detailRow) toDomain() domain.PortfolioDetail {
	return domain.PortfolioDetail{
		PortfolioID:   r.PortfolioID,
		PortfolioName: r.PortfolioName,
		Symbol:        r.Symbol,
		StockName:     r.StockName,
		Quantity:      r.Quantity,
		PurchasePrice: r.PurchasePrice,
		PurchaseDate:  r.PurchaseDate,
	}
}
