package stock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

func TestBalancesJoinsDisplayNames(t *testing.T) {
	client := openTestDB(t)
	queries := NewQueries(client.DB())

	product := seedProduct(t, client, "SKU-100", 5)
	central := seedWarehouse(t, client, "Central")
	east := seedWarehouse(t, client, "East")
	shelf := seedLocation(t, client, central.ID, "A-01")

	seedBalance(t, client, product.ID, central.ID, &shelf.ID, 12)
	seedBalance(t, client, product.ID, east.ID, nil, 4)

	rows, err := queries.Balances(context.Background(), BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byWarehouse := map[uuid.UUID]BalanceRow{}
	for _, row := range rows {
		byWarehouse[row.WarehouseID] = row
	}

	centralRow := byWarehouse[central.ID]
	assert.Equal(t, "SKU-100", centralRow.ProductSKU)
	assert.Equal(t, "Central", centralRow.WarehouseName)
	require.NotNil(t, centralRow.LocationName)
	assert.Equal(t, "A-01", *centralRow.LocationName)
	assert.Equal(t, int64(12), centralRow.Quantity)

	eastRow := byWarehouse[east.ID]
	assert.Nil(t, eastRow.LocationID)
	assert.Nil(t, eastRow.LocationName)
	assert.Equal(t, int64(4), eastRow.Quantity)
}

func TestBalancesFilterByWarehouse(t *testing.T) {
	client := openTestDB(t)
	queries := NewQueries(client.DB())

	product := seedProduct(t, client, "SKU-100", 5)
	central := seedWarehouse(t, client, "Central")
	east := seedWarehouse(t, client, "East")

	seedBalance(t, client, product.ID, central.ID, nil, 12)
	seedBalance(t, client, product.ID, east.ID, nil, 4)

	rows, err := queries.Balances(context.Background(), BalanceFilter{WarehouseID: &east.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, east.ID, rows[0].WarehouseID)
}

func TestHistoryPaginatesNewestFirst(t *testing.T) {
	client := openTestDB(t)
	queries := NewQueries(client.DB())

	user := seedUser(t, client, "clerk@example.com")
	product := seedProduct(t, client, "SKU-100", 5)
	warehouse := seedWarehouse(t, client, "Central")

	total := pagination.HistoryPageSize + 5
	base := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < total; i++ {
		entry := models.LedgerEntry{
			ID:           uuid.New(),
			ProductID:    product.ID,
			WarehouseID:  warehouse.ID,
			Quantity:     int64(i + 1),
			MovementType: enums.MovementTypeReceipt,
			PerformedBy:  user.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, client.DB().Create(&entry).Error)
	}

	first, err := queries.History(context.Background(), HistoryFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Entries, pagination.HistoryPageSize)
	assert.Equal(t, int64(total), first.TotalRows)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, int64(total), first.Entries[0].Quantity)
	assert.Equal(t, "Test User", first.Entries[0].PerformedName)

	second, err := queries.History(context.Background(), HistoryFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Entries, 5)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, int64(5), second.Entries[len(second.Entries)-1].Quantity)
}

func TestHistoryFilters(t *testing.T) {
	client := openTestDB(t)
	queries := NewQueries(client.DB())

	user := seedUser(t, client, "clerk@example.com")
	product := seedProduct(t, client, "SKU-100", 5)
	other := seedProduct(t, client, "SKU-200", 5)
	warehouse := seedWarehouse(t, client, "Central")

	entries := []models.LedgerEntry{
		{ID: uuid.New(), ProductID: product.ID, WarehouseID: warehouse.ID, Quantity: 10, MovementType: enums.MovementTypeReceipt, PerformedBy: user.ID},
		{ID: uuid.New(), ProductID: product.ID, WarehouseID: warehouse.ID, Quantity: -3, MovementType: enums.MovementTypeDelivery, PerformedBy: user.ID},
		{ID: uuid.New(), ProductID: other.ID, WarehouseID: warehouse.ID, Quantity: 8, MovementType: enums.MovementTypeReceipt, PerformedBy: user.ID},
	}
	for i := range entries {
		require.NoError(t, client.DB().Create(&entries[i]).Error)
	}

	movementType := enums.MovementTypeReceipt
	page, err := queries.History(context.Background(), HistoryFilter{
		ProductID:    &product.ID,
		MovementType: &movementType,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, int64(10), page.Entries[0].Quantity)
	assert.Equal(t, int64(1), page.TotalRows)
}

func TestLowStockAggregatesAcrossWarehouses(t *testing.T) {
	client := openTestDB(t)
	queries := NewQueries(client.DB())

	low := seedProduct(t, client, "SKU-LOW", 10)
	healthy := seedProduct(t, client, "SKU-OK", 10)
	unstocked := seedProduct(t, client, "SKU-NEW", 0)

	central := seedWarehouse(t, client, "Central")
	east := seedWarehouse(t, client, "East")

	seedBalance(t, client, low.ID, central.ID, nil, 4)
	seedBalance(t, client, low.ID, east.ID, nil, 6)
	seedBalance(t, client, healthy.ID, central.ID, nil, 40)
	seedBalance(t, client, healthy.ID, east.ID, nil, 25)

	rows, err := queries.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	bySKU := map[string]LowStockRow{}
	for _, row := range rows {
		bySKU[row.SKU] = row
	}

	lowRow, ok := bySKU["SKU-LOW"]
	require.True(t, ok, fmt.Sprintf("expected SKU-LOW in %v", rows))
	assert.Equal(t, int64(10), lowRow.TotalOnHand)
	assert.Equal(t, int64(10), lowRow.ReorderLevel)

	newRow, ok := bySKU["SKU-NEW"]
	require.True(t, ok)
	assert.Equal(t, unstocked.ID, newRow.ProductID)
	assert.Equal(t, int64(0), newRow.TotalOnHand)

	_, ok = bySKU["SKU-OK"]
	assert.False(t, ok)
}
