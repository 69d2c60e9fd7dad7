// Package persistence implements the domain repositories on top of GORM.
// It is an alternative to the sqldb backend, selected with DB_BACKEND=gorm,
// and only supports Postgres. The schema comes from the same goose
// migrations as the sqldb backend; AutoMigrate is deliberately not used so
// both backends share one source of truth for tables, indexes and the view.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jperezag/stockvault/internal/domain"
	"github.com/jperezag/stockvault/internal/infrastructure/persistence/sqldb"
)

type Repositories struct {
	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{db: db}
}

func (r *Repositories) Stocks() domain.StockRepository         { return &stockRepo{r.db} }
func (r *Repositories) Prices() domain.PriceRepository         { return &priceRepo{r.db} }
func (r *Repositories) Portfolios() domain.PortfolioRepository { return &portfolioRepo{r.db} }
func (r *Repositories) Holdings() domain.HoldingRepository     { return &holdingRepo{r.db} }

// Migrate runs the goose migrations through the underlying *sql.DB.
func (r *Repositories) Migrate(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("unwrapping gorm db: %w", err)
	}
	return (&sqldb.PostgresDialect{}).Migrate(ctx, sqlDB)
}

// translate maps gorm's translated driver errors onto the domain sentinels.
// Requires gorm.Config{TranslateError: true} on the session.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrReference
	default:
		return err
	}
}

type stockRepo struct{ db *gorm.DB }

func (r *stockRepo) Create(ctx context.Context, stock domain.Stock) (domain.Stock, error) {
	row := stockRow{Symbol: stock.Symbol, Name: stock.Name, CreatedAt: stock.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Stock{}, fmt.Errorf("insert stock: %w", translate(err))
	}
	return row.toDomain(), nil
}

func (r *stockRepo) FindByID(ctx context.Context, id int64) (domain.Stock, error) {
	var row stockRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", id, translate(err))
	}
	return row.toDomain(), nil
}

func (r *stockRepo) FindBySymbol(ctx context.Context, symbol string) (domain.Stock, error) {
	var row stockRow
	err := r.db.WithContext(ctx).First(&row, "symbol = ?", domain.NormalizeSymbol(symbol)).Error
	if err != nil {
		return domain.Stock{}, fmt.Errorf("stock %s: %w", symbol, translate(err))
	}
	return row.toDomain(), nil
}

func (r *stockRepo) List(ctx context.Context) ([]domain.Stock, error) {
	var rows []stockRow
	if err := r.db.WithContext(ctx).Order("symbol").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing stocks: %w", translate(err))
	}
	stocks := make([]domain.Stock, 0, len(rows))
	for _, row := range rows {
		stocks = append(stocks, row.toDomain())
	}
	return stocks, nil
}

func (r *stockRepo) Update(ctx context.Context, id int64, symbol, name string) (domain.Stock, error) {
	var row stockRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&stockRow{}).Where("id = ?", id).
			Updates(map[string]any{"symbol": domain.NormalizeSymbol(symbol), "name": name})
		if res.Error != nil {
			return fmt.Errorf("updating stock: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
		}
		return tx.First(&row, "id = ?", id).Error
	})
	if err != nil {
		return domain.Stock{}, err
	}
	return row.toDomain(), nil
}

func (r *stockRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&stockRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting stock: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

type priceRepo struct{ db *gorm.DB }

func (r *priceRepo) Record(ctx context.Context, price domain.StockPrice) (domain.StockPrice, error) {
	var stored stockPriceRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := priceRowFromDomain(price)
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"opening_price", "closing_price", "highest_price", "lowest_price", "volume", "recorded_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert price: %w", translate(err))
		}
		return tx.First(&stored, "stock_id = ? AND date = ?", price.StockID, price.Date).Error
	})
	if err != nil {
		return domain.StockPrice{}, err
	}
	return stored.toDomain(), nil
}

func (r *priceRepo) History(ctx context.Context, stockID int64, from, to *time.Time) ([]domain.StockPrice, error) {
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID)
	if from != nil {
		q = q.Where("date >= ?", domain.DateOnly(*from))
	}
	if to != nil {
		q = q.Where("date <= ?", domain.DateOnly(*to))
	}

	var rows []stockPriceRow
	if err := q.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying price history: %w", translate(err))
	}
	history := make([]domain.StockPrice, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.toDomain())
	}
	return history, nil
}

func (r *priceRepo) Latest(ctx context.Context, stockID int64) (domain.StockPrice, error) {
	var row stockPriceRow
	err := r.db.WithContext(ctx).Where("stock_id = ?", stockID).Order("date DESC").First(&row).Error
	if err != nil {
		return domain.StockPrice{}, fmt.Errorf("stock price: %w", translate(err))
	}
	return row.toDomain(), nil
}

type portfolioRepo struct{ db *gorm.DB }

func (r *portfolioRepo) Create(ctx context.Context, portfolio domain.Portfolio) (domain.Portfolio, error) {
	row := portfolioRow{Name: portfolio.Name, CreatedAt: portfolio.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Portfolio{}, fmt.Errorf("insert portfolio: %w", translate(err))
	}
	return row.toDomain(), nil
}

func (r *portfolioRepo) FindByID(ctx context.Context, id int64) (domain.Portfolio, error) {
	var row portfolioRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Portfolio{}, fmt.Errorf("portfolio %d: %w", id, translate(err))
	}
	return row.toDomain(), nil
}

func (r *portfolioRepo) List(ctx context.Context) ([]domain.Portfolio, error) {
	var rows []portfolioRow
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", translate(err))
	}
	portfolios := make([]domain.Portfolio, 0, len(rows))
	for _, row := range rows {
		portfolios = append(portfolios, row.toDomain())
	}
	return portfolios, nil
}

func (r *portfolioRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&portfolioRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting portfolio: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

type holdingRepo struct{ db *gorm.DB }

func (r *holdingRepo) Put(ctx context.Context, holding domain.Holding) (domain.Holding, error) {
	var stored holdingRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := holdingRowFromDomain(holding)
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "portfolio_id"}, {Name: "stock_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "purchase_price", "purchase_date", "added_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert holding: %w", translate(err))
		}
		return tx.First(&stored, "portfolio_id = ? AND stock_id = ?", holding.PortfolioID, holding.StockID).Error
	})
	if err != nil {
		return domain.Holding{}, err
	}
	return stored.toDomain(), nil
}

func (r *holdingRepo) Remove(ctx context.Context, portfolioID, stockID int64) error {
	res := r.db.WithContext(ctx).Delete(&holdingRow{}, "portfolio_id = ? AND stock_id = ?", portfolioID, stockID)
	if res.Error != nil {
		return fmt.Errorf("removing holding: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("holding: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *holdingRepo) Details(ctx context.Context, portfolioID int64) ([]domain.PortfolioDetail, error) {
	var rows []detailRow
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("symbol").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying portfolio details: %w", translate(err))
	}
	details := make([]domain.PortfolioDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDomain())
	}
	return details, nil
}
