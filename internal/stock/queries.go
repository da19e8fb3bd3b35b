package stock

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

// Queries serves the read side of stock: current levels, movement history,
// and low stock alerts. It never mutates; all writes go through the Engine.
type Queries struct {
	db *gorm.DB
}

// NewQueries returns the stock read layer bound to the provided database.
func NewQueries(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// Balances lists current stock levels with product, warehouse, and location
// names joined in, newest-updated first.
func (q *Queries) Balances(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error) {
	query := q.db.WithContext(ctx).
		Table("stock_balances AS sb").
		Select(`sb.product_id,
			COALESCE(p.sku, '') AS product_sku,
			COALESCE(p.name, '') AS product_name,
			sb.warehouse_id,
			COALESCE(w.name, '') AS warehouse_name,
			sb.location_id,
			l.name AS location_name,
			sb.quantity,
			sb.updated_at`).
		Joins("LEFT JOIN products p ON p.id = sb.product_id").
		Joins("LEFT JOIN warehouses w ON w.id = sb.warehouse_id").
		Joins("LEFT JOIN locations l ON l.id = sb.location_id")

	if filter.ProductID != nil {
		query = query.Where("sb.product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("sb.warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.LocationID != nil {
		query = query.Where("sb.location_id = ?", *filter.LocationID)
	}

	var rows []BalanceRow
	if err := query.Order("sb.updated_at DESC").Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock balances")
	}
	return rows, nil
}

// History lists ledger entries newest first, twenty per page.
func (q *Queries) History(ctx context.Context, filter HistoryFilter) (*HistoryPage, error) {
	page := pagination.NormalizePage(filter.Page)
	pageSize := pagination.HistoryPageSize

	base := q.db.WithContext(ctx).Table("ledger_entries AS le")
	if filter.ProductID != nil {
		base = base.Where("le.product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		base = base.Where("le.warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.MovementType != nil {
		base = base.Where("le.movement_type = ?", *filter.MovementType)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ledger entries")
	}

	var rows []HistoryRow
	err := base.Session(&gorm.Session{}).
		Select(`le.id,
			le.product_id,
			COALESCE(p.sku, '') AS product_sku,
			COALESCE(p.name, '') AS product_name,
			le.warehouse_id,
			COALESCE(w.name, '') AS warehouse_name,
			le.location_id,
			l.name AS location_name,
			le.quantity,
			le.movement_type,
			le.document_kind,
			le.document_id,
			le.performed_by,
			COALESCE(u.name, '') AS performed_name,
			le.created_at`).
		Joins("LEFT JOIN products p ON p.id = le.product_id").
		Joins("LEFT JOIN warehouses w ON w.id = le.warehouse_id").
		Joins("LEFT JOIN locations l ON l.id = le.location_id").
		Joins("LEFT JOIN users u ON u.id = le.performed_by").
		Order("le.created_at DESC, le.id DESC").
		Limit(pageSize).
		Offset(pagination.Offset(page, pageSize)).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	return &HistoryPage{
		Entries:    rows,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: pagination.TotalPages(total, pageSize),
	}, nil
}

// LowStock lists products whose on-hand total across every warehouse sits at
// or below their reorder level. Products with no balance rows count as zero
// on hand.
func (q *Queries) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := q.db.WithContext(ctx).
		Table("products AS p").
		Select(`p.id AS product_id,
			p.sku,
			p.name,
			p.category,
			p.reorder_level,
			COALESCE(SUM(sb.quantity), 0) AS total_on_hand`).
		Joins("LEFT JOIN stock_balances sb ON sb.product_id = p.id").
		Group("p.id, p.sku, p.name, p.category, p.reorder_level").
		Having("COALESCE(SUM(sb.quantity), 0) <= p.reorder_level").
		Order("p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	return rows, nil
}
