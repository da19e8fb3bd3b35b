package documents

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocktrail/stocktrail-backend/internal/stock"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox"
)

func openTestDB(t *testing.T) *db.Client {
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
		&models.Location{},
		&models.StockBalance{},
		&models.LedgerEntry{},
		&models.Receipt{},
		&models.ReceiptItem{},
		&models.DeliveryOrder{},
		&models.DeliveryOrderItem{},
		&models.StockAdjustment{},
		&models.StockAdjustmentItem{},
		&models.StockTransfer{},
		&models.StockTransferItem{},
		&models.OutboxEvent{},
	))

	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_stock_balances_key_with_location
		ON stock_balances (product_id, warehouse_id, location_id)
		WHERE location_id IS NOT NULL`).Error)
	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_stock_balances_key_no_location
		ON stock_balances (product_id, warehouse_id)
		WHERE location_id IS NULL`).Error)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db.FromGorm(conn)
}

func newTestService(client *db.Client) *Service {
	stockMetrics := metrics.NewStockMetrics(nil)
	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	engine := stock.NewEngine(stock.NewRepository(client.DB()), events, stockMetrics, nil)
	return NewService(client, NewRepository(client.DB()), engine, events, stockMetrics, nil)
}

func seedUser(t *testing.T, client *db.Client, email string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         enums.UserRoleManager,
		IsActive:     true,
	}
	require.NoError(t, client.DB().Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, client *db.Client, sku string) models.Product {
	t.Helper()
	product := models.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         "Product " + sku,
		Category:     "general",
		Unit:         "pcs",
		ReorderLevel: 0,
	}
	require.NoError(t, client.DB().Create(&product).Error)
	return product
}

func seedWarehouse(t *testing.T, client *db.Client, name string) models.Warehouse {
	t.Helper()
	warehouse := models.Warehouse{
		ID:   uuid.New(),
		Name: name,
	}
	require.NoError(t, client.DB().Create(&warehouse).Error)
	return warehouse
}

func seedBalance(t *testing.T, client *db.Client, productID, warehouseID uuid.UUID, quantity int64) {
	t.Helper()
	row := models.StockBalance{
		ID:          uuid.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, client.DB().Create(&row).Error)
}

func balanceQuantity(t *testing.T, client *db.Client, productID, warehouseID uuid.UUID) int64 {
	t.Helper()
	var quantity int64
	err := client.DB().
		Model(&models.StockBalance{}).
		Where("product_id = ? AND warehouse_id = ? AND location_id IS NULL", productID, warehouseID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&quantity).
		Error
	require.NoError(t, err)
	return quantity
}
