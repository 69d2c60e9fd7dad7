package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/jperezag/stockvault/internal/domain"
)

func TestOracleDialect_TranslateError(t *testing.T) {
	dialect := &OracleDialect{}

	testCases := []struct {
		name     string
		message  string
		sentinel error
	}{
		{"unique constraint", "ORA-00001: unique constraint (STOCKS.UQ_STOCKS_SYMBOL) violated", domain.ErrDuplicate},
		{"parent key not found", "ORA-02291: integrity constraint violated - parent key not found", domain.ErrReference},
		{"resource busy", "ORA-00054: resource busy and acquire with NOWAIT specified", domain.ErrBusy},
		{"wait timeout", "ORA-30006: resource busy; acquire with WAIT timeout expired", domain.ErrBusy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := dialect.TranslateError(errors.New(tc.message))
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}

	assert.NoError(t, dialect.TranslateError(nil))
	plain := errors.New("ORA-12514: listener does not currently know of service")
	assert.Equal(t, plain, dialect.TranslateError(plain))
}

func TestOracleDialect_UpsertPrice_QueryGeneration(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	dialect := &OracleDialect{}

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := domain.NewStockPrice(1, date,
		domain.MustDecimal("185.50"), domain.MustDecimal("187.20"),
		domain.MustDecimal("188.00"), domain.MustDecimal("184.90"), 1000000)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec(`MERGE INTO stock_prices sp`).
		WithArgs(
			price.StockID, price.Date, // USING
			price.Open, price.Close, price.High, price.Low, price.Volume, sqlmock.AnyArg(), // UPDATE
			price.StockID, price.Date, price.Open, price.Close, price.High, price.Low, price.Volume, sqlmock.AnyArg(), // INSERT
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ctx := context.Background()
	err = dialect.UpsertPrice(ctx, tx, &price)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleDialect_UpsertHolding_QueryGeneration(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	dialect := &OracleDialect{}

	holding := domain.NewHolding(1, 2, 10, domain.MustDecimal("150.25"),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec(`MERGE INTO portfolio_stocks ps`).
		WithArgs(
			holding.PortfolioID, holding.StockID, // USING
			holding.Quantity, holding.PurchasePrice, holding.PurchaseDate, sqlmock.AnyArg(), // UPDATE
			holding.PortfolioID, holding.StockID, holding.Quantity, holding.PurchasePrice, holding.PurchaseDate, sqlmock.AnyArg(), // INSERT
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ctx := context.Background()
	err = dialect.UpsertHolding(ctx, tx, &holding)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleDialect_DateCol(t *testing.T) {
	assert.Equal(t, `"date"`, (&OracleDialect{}).DateCol())
	assert.Equal(t, "date", (&PostgresDialect{}).DateCol())
}
