package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jperezag/stockvault/internal/domain"
	"github.com/jperezag/stockvault/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

// DATE is a reserved word on Oracle, so the column is created quoted and
// must be referenced quoted.
func (d *OracleDialect) DateCol() string { return `"date"` }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose does not support Oracle together with go-ora, so the schema
	// script is executed statement by statement, tolerating objects that
	// already exist.
	content, err := migrations.OracleFS.ReadFile("oracle/20240101000000_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	// Statements are separated by '/' as is standard in Oracle scripts.
	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) TranslateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ORA-00001"): // unique constraint violated
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, msg)
	case strings.Contains(msg, "ORA-02291"): // integrity constraint - parent key not found
		return fmt.Errorf("%w: %s", domain.ErrReference, msg)
	case strings.Contains(msg, "ORA-00054"), strings.Contains(msg, "ORA-30006"): // resource busy
		return fmt.Errorf("%w: %s", domain.ErrBusy, msg)
	}
	return err
}

func (d *OracleDialect) InsertStock(ctx context.Context, tx *sql.Tx, s *domain.Stock) error {
	query := `INSERT INTO stocks (symbol, name, created_at) VALUES (:1, :2, :3) RETURNING id INTO :4`
	_, err := tx.ExecContext(ctx, query, s.Symbol, s.Name, s.CreatedAt, sql.Out{Dest: &s.ID})
	return err
}

func (d *OracleDialect) InsertPortfolio(ctx context.Context, tx *sql.Tx, p *domain.Portfolio) error {
	query := `INSERT INTO portfolios (name, created_at) VALUES (:1, :2) RETURNING id INTO :3`
	_, err := tx.ExecContext(ctx, query, p.Name, p.CreatedAt, sql.Out{Dest: &p.ID})
	return err
}

func (d *OracleDialect) UpsertPrice(ctx context.Context, tx *sql.Tx, p *domain.StockPrice) error {
	query := `MERGE INTO stock_prices sp
             USING (SELECT :1 AS stock_id_val, :2 AS date_val FROM dual) s
             ON (sp.stock_id = s.stock_id_val AND sp."date" = s.date_val)
             WHEN MATCHED THEN
               UPDATE SET opening_price = :3, closing_price = :4, highest_price = :5, lowest_price = :6, volume = :7, recorded_at = :8
             WHEN NOT MATCHED THEN
               INSERT (stock_id, "date", opening_price, closing_price, highest_price, lowest_price, volume, recorded_at)
               VALUES (:9, :10, :11, :12, :13, :14, :15, :16)`

	_, err := tx.ExecContext(ctx, query,
		p.StockID, p.Date, // USING
		p.Open, p.Close, p.High, p.Low, p.Volume, p.RecordedAt, // UPDATE
		p.StockID, p.Date, p.Open, p.Close, p.High, p.Low, p.Volume, p.RecordedAt, // INSERT
	)
	return err
}

func (d *OracleDialect) UpsertHolding(ctx context.Context, tx *sql.Tx, h *domain.Holding) error {
	query := `MERGE INTO portfolio_stocks ps
             USING (SELECT :1 AS portfolio_id_val, :2 AS stock_id_val FROM dual) s
             ON (ps.portfolio_id = s.portfolio_id_val AND ps.stock_id = s.stock_id_val)
             WHEN MATCHED THEN
               UPDATE SET quantity = :3, purchase_price = :4, purchase_date = :5, added_at = :6
             WHEN NOT MATCHED THEN
               INSERT (portfolio_id, stock_id, quantity, purchase_price, purchase_date, added_at)
               VALUES (:7, :8, :9, :10, :11, :12)`

	_, err := tx.ExecContext(ctx, query,
		h.PortfolioID, h.StockID, // USING
		h.Quantity, h.PurchasePrice, h.PurchaseDate, h.AddedAt, // UPDATE
		h.PortfolioID, h.StockID, h.Quantity, h.PurchasePrice, h.PurchaseDate, h.AddedAt, // INSERT
	)
	return err
}
