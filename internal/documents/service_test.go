package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

func errorCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	return typed.Code()
}

func TestCreateReceiptIncreasesStock(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	gadget := seedProduct(t, client, "SKU-G")
	warehouse := seedWarehouse(t, client, "Central")

	supplier := "Acme Supply"
	receipt, err := service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "RCPT-001",
		WarehouseID:     warehouse.ID,
		Supplier:        &supplier,
		Items: []LineInput{
			{ProductID: widget.ID, Quantity: 100, UnitPriceCents: 250},
			{ProductID: gadget.ID, Quantity: 40, UnitPriceCents: 990},
		},
		CreatedBy: user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ReceiptStatusCompleted, receipt.Status)
	assert.Len(t, receipt.Items, 2)

	assert.Equal(t, int64(100), balanceQuantity(t, client, widget.ID, warehouse.ID))
	assert.Equal(t, int64(40), balanceQuantity(t, client, gadget.ID, warehouse.ID))

	var ledgerCount int64
	require.NoError(t, client.DB().Model(&models.LedgerEntry{}).
		Where("document_id = ? AND document_kind = ?", receipt.ID, enums.DocumentKindReceipt).
		Count(&ledgerCount).Error)
	assert.Equal(t, int64(2), ledgerCount)

	var eventCount int64
	require.NoError(t, client.DB().Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.EventDocumentCreated).
		Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)

	loaded, err := service.GetReceipt(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "RCPT-001", loaded.ReferenceNumber)
	assert.Len(t, loaded.Items, 2)
}

func TestCreateDeliveryDecreasesStock(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")
	seedBalance(t, client, widget.ID, warehouse.ID, 50)

	delivery, err := service.CreateDelivery(context.Background(), CreateDeliveryInput{
		ReferenceNumber: "DEL-001",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 20}},
		CreatedBy:       user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusShipped, delivery.Status)

	assert.Equal(t, int64(30), balanceQuantity(t, client, widget.ID, warehouse.ID))

	var entry models.LedgerEntry
	require.NoError(t, client.DB().First(&entry, "document_id = ?", delivery.ID).Error)
	assert.Equal(t, int64(-20), entry.Quantity)
	assert.Equal(t, enums.MovementTypeDelivery, entry.MovementType)
}

func TestCreateDeliveryRejectsShortfall(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	gadget := seedProduct(t, client, "SKU-G")
	warehouse := seedWarehouse(t, client, "Central")
	seedBalance(t, client, widget.ID, warehouse.ID, 50)
	seedBalance(t, client, gadget.ID, warehouse.ID, 5)

	_, err := service.CreateDelivery(context.Background(), CreateDeliveryInput{
		ReferenceNumber: "DEL-002",
		WarehouseID:     warehouse.ID,
		Items: []LineInput{
			{ProductID: widget.ID, Quantity: 10},
			{ProductID: gadget.ID, Quantity: 8},
		},
		CreatedBy: user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, errorCode(t, err))

	// The whole order rolls back, including the line that had stock.
	assert.Equal(t, int64(50), balanceQuantity(t, client, widget.ID, warehouse.ID))
	assert.Equal(t, int64(5), balanceQuantity(t, client, gadget.ID, warehouse.ID))

	var deliveryCount, ledgerCount int64
	require.NoError(t, client.DB().Model(&models.DeliveryOrder{}).Count(&deliveryCount).Error)
	require.NoError(t, client.DB().Model(&models.LedgerEntry{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), deliveryCount)
	assert.Equal(t, int64(0), ledgerCount)
}

func TestCreateAdjustmentAppliesDirection(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")
	seedBalance(t, client, widget.ID, warehouse.ID, 10)

	adjustment, err := service.CreateAdjustment(context.Background(), CreateAdjustmentInput{
		ReferenceNumber: "ADJ-001",
		WarehouseID:     warehouse.ID,
		Direction:       enums.AdjustmentDirectionDecrease,
		Reason:          "cycle count shortage",
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 4}},
		CreatedBy:       user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AdjustmentStatusApproved, adjustment.Status)

	assert.Equal(t, int64(6), balanceQuantity(t, client, widget.ID, warehouse.ID))

	var entry models.LedgerEntry
	require.NoError(t, client.DB().First(&entry, "document_id = ?", adjustment.ID).Error)
	assert.Equal(t, int64(-4), entry.Quantity)
	assert.Equal(t, enums.MovementTypeAdjustment, entry.MovementType)
}

func TestCreateAdjustmentRequiresReason(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")

	_, err := service.CreateAdjustment(context.Background(), CreateAdjustmentInput{
		ReferenceNumber: "ADJ-002",
		WarehouseID:     warehouse.ID,
		Direction:       enums.AdjustmentDirectionIncrease,
		Reason:          "   ",
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 4}},
		CreatedBy:       user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errorCode(t, err))
}

func TestCreateTransferMovesStockBetweenWarehouses(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	source := seedWarehouse(t, client, "Central")
	destination := seedWarehouse(t, client, "East")
	seedBalance(t, client, widget.ID, source.ID, 10)

	transfer, err := service.CreateTransfer(context.Background(), CreateTransferInput{
		ReferenceNumber:        "TRF-001",
		SourceWarehouseID:      source.ID,
		DestinationWarehouseID: destination.ID,
		Items:                  []TransferLineInput{{ProductID: widget.ID, Quantity: 6}},
		CreatedBy:              user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusCompleted, transfer.Status)

	assert.Equal(t, int64(4), balanceQuantity(t, client, widget.ID, source.ID))
	assert.Equal(t, int64(6), balanceQuantity(t, client, widget.ID, destination.ID))

	var entries []models.LedgerEntry
	require.NoError(t, client.DB().
		Where("document_id = ?", transfer.ID).
		Order("quantity ASC").
		Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(-6), entries[0].Quantity)
	assert.Equal(t, source.ID, entries[0].WarehouseID)
	assert.Equal(t, int64(6), entries[1].Quantity)
	assert.Equal(t, destination.ID, entries[1].WarehouseID)
}

func TestCreateTransferRollsBackOnShortfall(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	source := seedWarehouse(t, client, "Central")
	destination := seedWarehouse(t, client, "East")
	seedBalance(t, client, widget.ID, source.ID, 3)

	_, err := service.CreateTransfer(context.Background(), CreateTransferInput{
		ReferenceNumber:        "TRF-002",
		SourceWarehouseID:      source.ID,
		DestinationWarehouseID: destination.ID,
		Items:                  []TransferLineInput{{ProductID: widget.ID, Quantity: 5}},
		CreatedBy:              user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, errorCode(t, err))

	assert.Equal(t, int64(3), balanceQuantity(t, client, widget.ID, source.ID))
	assert.Equal(t, int64(0), balanceQuantity(t, client, widget.ID, destination.ID))

	var transferCount, ledgerCount int64
	require.NoError(t, client.DB().Model(&models.StockTransfer{}).Count(&transferCount).Error)
	require.NoError(t, client.DB().Model(&models.LedgerEntry{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), transferCount)
	assert.Equal(t, int64(0), ledgerCount)
}

func TestCreateTransferRejectsSameWarehouse(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")

	_, err := service.CreateTransfer(context.Background(), CreateTransferInput{
		ReferenceNumber:        "TRF-003",
		SourceWarehouseID:      warehouse.ID,
		DestinationWarehouseID: warehouse.ID,
		Items:                  []TransferLineInput{{ProductID: widget.ID, Quantity: 1}},
		CreatedBy:              user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errorCode(t, err))
}

func TestDuplicateReferencePerDocumentType(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")
	seedBalance(t, client, widget.ID, warehouse.ID, 100)

	_, err := service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "REF-001",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 10}},
		CreatedBy:       user.ID,
	})
	require.NoError(t, err)

	_, err = service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "REF-001",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 10}},
		CreatedBy:       user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDuplicateReference, errorCode(t, err))

	// Uniqueness is scoped to the document type, so a delivery may reuse
	// the same reference number.
	_, err = service.CreateDelivery(context.Background(), CreateDeliveryInput{
		ReferenceNumber: "REF-001",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 5}},
		CreatedBy:       user.ID,
	})
	require.NoError(t, err)
}

func TestCreateReceiptRejectsUnknownReferences(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	warehouse := seedWarehouse(t, client, "Central")

	_, err := service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "RCPT-404",
		WarehouseID:     uuid.New(),
		Items:           []LineInput{{ProductID: widget.ID, Quantity: 1}},
		CreatedBy:       user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	_, err = service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "RCPT-404",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: uuid.New(), Quantity: 1}},
		CreatedBy:       user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	other := seedWarehouse(t, client, "East")
	strayLocation := models.Location{ID: uuid.New(), WarehouseID: other.ID, Name: "B-01"}
	require.NoError(t, client.DB().Create(&strayLocation).Error)

	_, err = service.CreateReceipt(context.Background(), CreateReceiptInput{
		ReferenceNumber: "RCPT-404",
		WarehouseID:     warehouse.ID,
		Items:           []LineInput{{ProductID: widget.ID, LocationID: &strayLocation.ID, Quantity: 1}},
		CreatedBy:       user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestGetDocumentNotFound(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	_, err := service.GetReceipt(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	_, err = service.GetTransfer(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestListReceiptsFiltersByWarehouse(t *testing.T) {
	client := openTestDB(t)
	service := newTestService(client)

	user := seedUser(t, client, "manager@example.com")
	widget := seedProduct(t, client, "SKU-W")
	central := seedWarehouse(t, client, "Central")
	east := seedWarehouse(t, client, "East")

	for i, warehouseID := range []uuid.UUID{central.ID, central.ID, east.ID} {
		_, err := service.CreateReceipt(context.Background(), CreateReceiptInput{
			ReferenceNumber: "RCPT-00" + string(rune('1'+i)),
			WarehouseID:     warehouseID,
			Items:           []LineInput{{ProductID: widget.ID, Quantity: 1}},
			CreatedBy:       user.ID,
		})
		require.NoError(t, err)
	}

	rows, total, err := service.ListReceipts(context.Background(), ListFilter{WarehouseID: &central.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, central.ID, row.WarehouseID)
	}
}
