package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
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
		&models.OutboxEvent{},
	))

	// Partial unique indexes come from SQL migrations in production; the
	// lazy balance insert depends on them, so mirror them here.
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

func seedUser(t *testing.T, client *db.Client, email string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         enums.UserRoleStaff,
		IsActive:     true,
	}
	require.NoError(t, client.DB().Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, client *db.Client, sku string, reorderLevel int64) models.Product {
	t.Helper()
	product := models.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         "Product " + sku,
		Category:     "general",
		Unit:         "pcs",
		ReorderLevel: reorderLevel,
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

func seedLocation(t *testing.T, client *db.Client, warehouseID uuid.UUID, name string) models.Location {
	t.Helper()
	location := models.Location{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		Name:        name,
	}
	require.NoError(t, client.DB().Create(&location).Error)
	return location
}

func seedBalance(t *testing.T, client *db.Client, productID, warehouseID uuid.UUID, locationID *uuid.UUID, quantity int64) {
	t.Helper()
	row := models.StockBalance{
		ID:          uuid.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Quantity:    quantity,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, client.DB().Create(&row).Error)
}
