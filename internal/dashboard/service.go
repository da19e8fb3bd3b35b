package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

const trailingMonths = 6

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MonthlyMovement totals inbound and outbound stock for one calendar month.
// Quantities are absolute values; Month is formatted YYYY-MM.
type MonthlyMovement struct {
	Month    string `json:"month"`
	Inbound  int64  `json:"inbound"`
	Outbound int64  `json:"outbound"`
}

// Stats is the dashboard summary payload.
type Stats struct {
	TotalProducts   int64             `json:"total_products"`
	TotalWarehouses int64             `json:"total_warehouses"`
	TotalStock      int64             `json:"total_stock"`
	LowStockCount   int64             `json:"low_stock_count"`
	Categories      []CategoryCount   `json:"categories"`
	Movements       []MonthlyMovement `json:"movements"`
}

// Service aggregates the dashboard summary from catalog, balance, and
// ledger data.
type Service struct {
	db *gorm.DB
}

// NewService builds the dashboard service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Stats computes the dashboard summary. The trailing six month movement
// buckets are grouped in Go so the same query serves Postgres and the
// sqlite test database.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if err := s.db.WithContext(ctx).Model(&models.Warehouse{}).Count(&stats.TotalWarehouses).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count warehouses")
	}
	if err := s.db.WithContext(ctx).
		Model(&models.StockBalance{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&stats.TotalStock).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock")
	}

	lowStock, err := s.lowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = lowStock

	categories, err := s.categoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	stats.Categories = categories

	movements, err := s.trailingMovements(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	stats.Movements = movements

	return stats, nil
}

func (s *Service) lowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT p.id
			FROM products p
			LEFT JOIN stock_balances sb ON sb.product_id = p.id
			GROUP BY p.id, p.reorder_level
			HAVING COALESCE(SUM(sb.quantity), 0) <= p.reorder_level
		) low`).
		Scan(&count).
		Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}
	return count, nil
}

func (s *Service) categoryBreakdown(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "category breakdown")
	}
	return rows, nil
}

// trailingMovements buckets ledger deltas into the current month and the
// five before it. Months with no movements still appear with zero totals.
func (s *Service) trailingMovements(ctx context.Context, now time.Time) ([]MonthlyMovement, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(trailingMonths - 1), 0)

	type ledgerRow struct {
		Quantity  int64
		CreatedAt time.Time
	}
	var rows []ledgerRow
	err := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("quantity, created_at").
		Where("created_at >= ?", start).
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger window")
	}

	buckets := make(map[string]*MonthlyMovement, trailingMonths)
	months := make([]MonthlyMovement, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		months[i] = MonthlyMovement{Month: month}
		buckets[month] = &months[i]
	}

	for _, row := range rows {
		bucket, ok := buckets[row.CreatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		if row.Quantity >= 0 {
			bucket.Inbound += row.Quantity
		} else {
			bucket.Outbound += -row.Quantity
		}
	}

	return months, nil
}
