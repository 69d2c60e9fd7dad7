package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the REST surface onto the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		stocks := api.Group("/stocks")
		{
			stocks.POST("", handler.CreateStock)
			stocks.GET("", handler.ListStocks)
			stocks.GET("/:symbol", handler.GetStock)
			stocks.PUT("/:symbol", handler.UpdateStock)
			stocks.DELETE("/:symbol", handler.DeleteStock)

			stocks.POST("/:symbol/prices", handler.RecordPrice)
			stocks.GET("/:symbol/prices", handler.PriceHistory)
			stocks.GET("/:symbol/prices/latest", handler.LatestPrice)
		}

		portfolios := api.Group("/portfolios")
		{
			portfolios.POST("", handler.CreatePortfolio)
			portfolios.GET("", handler.ListPortfolios)
			portfolios.DELETE("/:id", handler.DeletePortfolio)
			portfolios.GET("/:id/details", handler.PortfolioDetails)

			portfolios.PUT("/:id/stocks/:symbol", handler.PutHolding)
			portfolios.DELETE("/:id/stocks/:symbol", handler.RemoveHolding)
		}
	}
}
