package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jperezag/stockvault/internal/domain"
)

// TrackerService defines the operations the handlers expose.
type TrackerService interface {
	RegisterStock(ctx context.Context, symbol, name string) (domain.Stock, error)
	GetStock(ctx context.Context, symbol string) (domain.Stock, error)
	ListStocks(ctx context.Context) ([]domain.Stock, error)
	UpdateStock(ctx context.Context, symbol, newSymbol, newName string) (domain.Stock, error)
	DeleteStock(ctx context.Context, symbol string) error

	RecordPrice(ctx context.Context, symbol string, date time.Time, open, close, high, low domain.Decimal, volume int64) (domain.StockPrice, error)
	PriceHistory(ctx context.Context, symbol string, from, to *time.Time) ([]domain.StockPrice, error)
	LatestPrice(ctx context.Context, symbol string) (domain.StockPrice, error)

	CreatePortfolio(ctx context.Context, name string) (domain.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]domain.Portfolio, error)
	DeletePortfolio(ctx context.Context, id int64) error

	PutHolding(ctx context.Context, portfolioID int64, symbol string, quantity int64, purchasePrice domain.Decimal, purchaseDate time.Time) (domain.Holding, error)
	RemoveHolding(ctx context.Context, portfolioID int64, symbol string) error
	PortfolioDetails(ctx context.Context, portfolioID int64) ([]domain.PortfolioDetail, error)
}

type Handler struct {
	service TrackerService
}

func NewHandler(service TrackerService) *Handler {
	return &Handler{service: service}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFromErr maps the domain error taxonomy onto HTTP status codes.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	slog.ErrorContext(c.Request.Context(), msg, args...)
	c.JSON(statusFromErr(err), ErrorResponse{Error: err.Error()})
}

const dateLayout = "2006-01-02"

type CreateStockRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *Handler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	stock, err := h.service.RegisterStock(c.Request.Context(), req.Symbol, req.Name)
	if err != nil {
		h.fail(c, err, "failed to register stock", "symbol", req.Symbol)
		return
	}
	c.JSON(http.StatusCreated, stock)
}

func (h *Handler) GetStock(c *gin.Context) {
	stock, err := h.service.GetStock(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, err, "failed to get stock", "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *Handler) ListStocks(c *gin.Context) {
	stocks, err := h.service.ListStocks(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list stocks")
		return
	}
	c.JSON(http.StatusOK, stocks)
}

type UpdateStockRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *Handler) UpdateStock(c *gin.Context) {
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	stock, err := h.service.UpdateStock(c.Request.Context(), c.Param("symbol"), req.Symbol, req.Name)
	if err != nil {
		h.fail(c, err, "failed to update stock", "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *Handler) DeleteStock(c *gin.Context) {
	if err := h.service.DeleteStock(c.Request.Context(), c.Param("symbol")); err != nil {
		h.fail(c, err, "failed to delete stock", "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

type RecordPriceRequest struct {
	Date   string         `json:"date" binding:"required"`
	Open   domain.Decimal `json:"opening_price" binding:"required"`
	Close  domain.Decimal `json:"closing_price" binding:"required"`
	High   domain.Decimal `json:"highest_price" binding:"required"`
	Low    domain.Decimal `json:"lowest_price" binding:"required"`
	Volume int64          `json:"volume"`
}

func (h *Handler) RecordPrice(c *gin.Context) {
	var req RecordPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
		return
	}

	price, err := h.service.RecordPrice(c.Request.Context(), c.Param("symbol"), date, req.Open, req.Close, req.High, req.Low, req.Volume)
	if err != nil {
		h.fail(c, err, "failed to record price", "symbol", c.Param("symbol"), "date", req.Date)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h *Handler) PriceHistory(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from must be formatted as YYYY-MM-DD"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must be formatted as YYYY-MM-DD"})
			return
		}
		to = &t
	}

	history, err := h.service.PriceHistory(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		h.fail(c, err, "failed to get price history", "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) LatestPrice(c *gin.Context) {
	price, err := h.service.LatestPrice(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, err, "failed to get latest price", "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusOK, price)
}

type CreatePortfolioRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreatePortfolio(c *gin.Context) {
	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	portfolio, err := h.service.CreatePortfolio(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err, "failed to create portfolio", "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, portfolio)
}

func (h *Handler) ListPortfolios(c *gin.Context) {
	portfolios, err := h.service.ListPortfolios(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list portfolios")
		return
	}
	c.JSON(http.StatusOK, portfolios)
}

func (h *Handler) portfolioID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "portfolio id must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *Handler) DeletePortfolio(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePortfolio(c.Request.Context(), id); err != nil {
		h.fail(c, err, "failed to delete portfolio", "portfolio_id", id)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

type PutHoldingRequest struct {
	Quantity      int64          `json:"quantity" binding:"required"`
	PurchasePrice domain.Decimal `json:"purchase_price" binding:"required"`
	PurchaseDate  string         `json:"purchase_date" binding:"required"`
}

func (h *Handler) PutHolding(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}
	var req PutHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "purchase_date must be formatted as YYYY-MM-DD"})
		return
	}

	holding, err := h.service.PutHolding(c.Request.Context(), id, c.Param("symbol"), req.Quantity, req.PurchasePrice, date)
	if err != nil {
		h.fail(c, err, "failed to put holding", "portfolio_id", id, "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusOK, holding)
}

func (h *Handler) RemoveHolding(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveHolding(c.Request.Context(), id, c.Param("symbol")); err != nil {
		h.fail(c, err, "failed to remove holding", "portfolio_id", id, "symbol", c.Param("symbol"))
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) PortfolioDetails(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}
	details, err := h.service.PortfolioDetails(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get portfolio details", "portfolio_id", id)
		return
	}
	if details == nil {
		details = []domain.PortfolioDetail{}
	}
	c.JSON(http.StatusOK, details)
}
