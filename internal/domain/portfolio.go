package domain

import (
	"fmt"
	"strings"
	"time"
)

// Portfolio is a named collection of holdings. Deleting a portfolio removes
// its holdings but leaves stocks and their price history untouched.
type Portfolio struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPortfolio(name string) Portfolio {
	return Portfolio{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

func (p Portfolio) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: portfolio name must not be empty", ErrValidation)
	}
	return nil
}

// Holding is one stock held in one portfolio. At most one row exists per
// (PortfolioID, StockID); re-adding a held stock overwrites quantity,
// purchase price and purchase date.
type Holding struct {
	ID            int64     `json:"id"`
	PortfolioID   int64     `json:"portfolio_id"`
	StockID       int64     `json:"stock_id"`
	Quantity      int64     `json:"quantity"`
	PurchasePrice Decimal   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	AddedAt       time.Time `json:"added_at"`
}

func NewHolding(portfolioID, stockID, quantity int64, purchasePrice Decimal, purchaseDate time.Time) Holding {
	return Holding{
		PortfolioID:   portfolioID,
		StockID:       stockID,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  DateOnly(purchaseDate),
		AddedAt:       time.Now().UTC(),
	}
}

// Validate rejects non-positive quantities. The schema does not constrain
// the sign; short positions are out of scope here.
func (h Holding) Validate() error {
	if h.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !h.PurchasePrice.IsPositive() {
		return fmt.Errorf("%w: purchase_price must be positive", ErrValidation)
	}
	return nil
}

// PortfolioDetail is one row of the v_portfolio_details join view. It is
// never persisted on its own; the store recomputes it on every read.
type PortfolioDetail struct {
	PortfolioID   int64     `json:"portfolio_id"`
	PortfolioName string    `json:"portfolio_name"`
	Symbol        string    `json:"symbol"`
	StockName     string    `json:"stock_name"`
	Quantity      int64     `json:"quantity"`
	PurchasePrice Decimal   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
}
