package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
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

	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Warehouse{}))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return conn
}

func errorCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	return typed.Code()
}

func seedManager(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        "manager@example.com",
		PasswordHash: "x",
		Name:         "Warehouse Manager",
		Role:         enums.UserRoleManager,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func TestCreateWarehouse(t *testing.T) {
	conn := openTestDB(t)
	service := NewService(NewRepository(conn))
	manager := seedManager(t, conn)

	address := "12 Dock Road"
	warehouse, err := service.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:      "Central",
		Address:   &address,
		ManagerID: &manager.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, warehouse.ID)
	require.NotNil(t, warehouse.ManagerID)
	assert.Equal(t, manager.ID, *warehouse.ManagerID)

	loaded, err := service.GetWarehouse(context.Background(), warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", loaded.Name)
}

func TestCreateWarehouseRejectsDuplicateName(t *testing.T) {
	service := NewService(NewRepository(openTestDB(t)))

	_, err := service.CreateWarehouse(context.Background(), CreateWarehouseInput{Name: "Central"})
	require.NoError(t, err)

	_, err = service.CreateWarehouse(context.Background(), CreateWarehouseInput{Name: "Central"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, errorCode(t, err))
}

func TestCreateWarehouseRejectsUnknownManager(t *testing.T) {
	service := NewService(NewRepository(openTestDB(t)))

	stray := uuid.New()
	_, err := service.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:      "Central",
		ManagerID: &stray,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestUpdateWarehouse(t *testing.T) {
	conn := openTestDB(t)
	service := NewService(NewRepository(conn))
	manager := seedManager(t, conn)

	warehouse, err := service.CreateWarehouse(context.Background(), CreateWarehouseInput{Name: "Central"})
	require.NoError(t, err)

	newName := "Central Hub"
	updated, err := service.UpdateWarehouse(context.Background(), warehouse.ID, UpdateWarehouseInput{
		Name:      &newName,
		ManagerID: &manager.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Central Hub", updated.Name)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, manager.ID, *updated.ManagerID)

	_, err = service.UpdateWarehouse(context.Background(), uuid.New(), UpdateWarehouseInput{Name: &newName})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestListWarehousesOrderedByName(t *testing.T) {
	service := NewService(NewRepository(openTestDB(t)))

	for _, name := range []string{"East", "Central", "West"} {
		_, err := service.CreateWarehouse(context.Background(), CreateWarehouseInput{Name: name})
		require.NoError(t, err)
	}

	rows, err := service.ListWarehouses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Central", rows[0].Name)
	assert.Equal(t, "East", rows[1].Name)
	assert.Equal(t, "West", rows[2].Name)
}
