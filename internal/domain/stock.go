package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stock is a registered ticker. Symbols are stored upper-cased and are
// unique across the table.
type Stock struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func NewStock(symbol, name string) Stock {
	return Stock{
		Symbol:    NormalizeSymbol(symbol),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

func (s Stock) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("%w: symbol must not be empty", ErrValidation)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	return nil
}

// StockPrice is one trading day of OHLCV data for a stock. At most one row
// exists per (StockID, Date); re-recording a day overwrites the previous
// values.
type StockPrice struct {
	ID         int64     `json:"id"`
	StockID    int64     `json:"stock_id"`
	Date       time.Time `json:"date"`
	Open       Decimal   `json:"opening_price"`
	Close      Decimal   `json:"closing_price"`
	High       Decimal   `json:"highest_price"`
	Low        Decimal   `json:"lowest_price"`
	Volume     int64     `json:"volume"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DateOnly truncates t to its calendar day in UTC. Price rows are keyed by
// day, never by time of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewStockPrice(stockID int64, date time.Time, open, close, high, low Decimal, volume int64) StockPrice {
	return StockPrice{
		StockID:    stockID,
		Date:       DateOnly(date),
		Open:       open,
		Close:      close,
		High:       high,
		Low:        low,
		Volume:     volume,
		RecordedAt: time.Now().UTC(),
	}
}

// Validate checks the domain rules the schema itself does not enforce:
// positive prices, non-negative volume, and low <= open/close <= high.
func (p StockPrice) Validate() error {
	if p.Volume < 0 {
		return fmt.Errorf("%w: volume must be non-negative", ErrValidation)
	}
	for name, v := range map[string]Decimal{
		"opening_price": p.Open,
		"closing_price": p.Close,
		"highest_price": p.High,
		"lowest_price":  p.Low,
	} {
		if !v.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, name)
		}
	}
	if p.Low.Cmp(p.Open) > 0 || p.Low.Cmp(p.Close) > 0 {
		return fmt.Errorf("%w: lowest_price exceeds open or close", ErrValidation)
	}
	if p.High.Cmp(p.Open) < 0 || p.High.Cmp(p.Close) < 0 {
		return fmt.Errorf("%w: highest_price below open or close", ErrValidation)
	}
	return nil
}
