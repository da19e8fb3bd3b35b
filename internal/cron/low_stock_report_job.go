package cron

import (
	"context"
	"fmt"

	"github.com/stocktrail/stocktrail-backend/internal/stock"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
)

type LowStockReportJobParams struct {
	Logger  *logger.Logger
	Queries lowStockLister
}

type lowStockLister interface {
	LowStock(ctx context.Context) ([]stock.LowStockRow, error)
}

// NewLowStockReportJob builds the job that surfaces products at or below
// their reorder level in the worker logs.
func NewLowStockReportJob(params LowStockReportJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Queries == nil {
		return nil, fmt.Errorf("stock queries required")
	}
	return &lowStockReportJob{
		logg:    params.Logger,
		queries: params.Queries,
	}, nil
}

type lowStockReportJob struct {
	logg    *logger.Logger
	queries lowStockLister
}

func (j *lowStockReportJob) Name() string { return "low-stock-report" }

func (j *lowStockReportJob) Run(ctx context.Context) error {
	rows, err := j.queries.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock report: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "low_stock_count", len(rows))
	if len(rows) == 0 {
		j.logg.Info(logCtx, "no products below reorder level")
		return nil
	}
	for _, row := range rows {
		rowCtx := j.logg.WithFields(logCtx, map[string]any{
			"product_id":    row.ProductID.String(),
			"sku":           row.SKU,
			"reorder_level": row.ReorderLevel,
			"total_on_hand": row.TotalOnHand,
		})
		j.logg.Warn(rowCtx, "product at or below reorder level")
	}
	return nil
}
