package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Warehouse{},
		&models.StockBalance{},
		&models.LedgerEntry{},
	))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, category string, reorderLevel int64) models.Product {
	t.Helper()
	product := models.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         "Product " + sku,
		Category:     category,
		Unit:         "pcs",
		ReorderLevel: reorderLevel,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func seedBalance(t *testing.T, conn *gorm.DB, productID, warehouseID uuid.UUID, quantity int64) {
	t.Helper()
	row := models.StockBalance{
		ID:          uuid.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, conn.Create(&row).Error)
}

func seedLedger(t *testing.T, conn *gorm.DB, productID, warehouseID, userID uuid.UUID, quantity int64, at time.Time) {
	t.Helper()
	entry := models.LedgerEntry{
		ID:           uuid.New(),
		ProductID:    productID,
		WarehouseID:  warehouseID,
		Quantity:     quantity,
		MovementType: enums.MovementTypeAdjustment,
		PerformedBy:  userID,
		CreatedAt:    at,
	}
	require.NoError(t, conn.Create(&entry).Error)
}

func TestStats(t *testing.T) {
	conn := openTestDB(t)
	service := NewService(conn)

	userID := uuid.New()
	warehouse := models.Warehouse{ID: uuid.New(), Name: "Central"}
	require.NoError(t, conn.Create(&warehouse).Error)

	lowProduct := seedProduct(t, conn, "SKU-LOW", "tools", 10)
	okProduct := seedProduct(t, conn, "SKU-OK", "tools", 5)
	seedProduct(t, conn, "SKU-SAFE", "safety", 0)

	seedBalance(t, conn, lowProduct.ID, warehouse.ID, 3)
	seedBalance(t, conn, okProduct.ID, warehouse.ID, 40)

	now := time.Now().UTC()
	seedLedger(t, conn, okProduct.ID, warehouse.ID, userID, 40, now)
	seedLedger(t, conn, lowProduct.ID, warehouse.ID, userID, -7, now)
	// Outside the six month window, must not count.
	seedLedger(t, conn, okProduct.ID, warehouse.ID, userID, 999, now.AddDate(0, -8, 0))

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalWarehouses)
	assert.Equal(t, int64(43), stats.TotalStock)
	// SKU-LOW (3 <= 10) and SKU-SAFE (0 <= 0) are low.
	assert.Equal(t, int64(2), stats.LowStockCount)

	require.Len(t, stats.Categories, 2)
	assert.Equal(t, CategoryCount{Category: "safety", Count: 1}, stats.Categories[0])
	assert.Equal(t, CategoryCount{Category: "tools", Count: 2}, stats.Categories[1])

	require.Len(t, stats.Movements, 6)
	current := stats.Movements[5]
	assert.Equal(t, now.Format("2006-01"), current.Month)
	assert.Equal(t, int64(40), current.Inbound)
	assert.Equal(t, int64(7), current.Outbound)
	for _, month := range stats.Movements[:5] {
		assert.Zero(t, month.Inbound)
		assert.Zero(t, month.Outbound)
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	service := NewService(openTestDB(t))

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.TotalStock)
	assert.Zero(t, stats.LowStockCount)
	assert.Empty(t, stats.Categories)
	assert.Len(t, stats.Movements, 6)
}
