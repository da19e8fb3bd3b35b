package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/api/responses"
	"github.com/stocktrail/stocktrail-backend/api/validators"
	documentsvc "github.com/stocktrail/stocktrail-backend/internal/documents"
	stocksvc "github.com/stocktrail/stocktrail-backend/internal/stock"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

type documentLineRequest struct {
	ProductID      uuid.UUID  `json:"product_id" validate:"required"`
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	Quantity       int64      `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int64      `json:"unit_price_cents" validate:"min=0"`
}

type createReceiptRequest struct {
	ReferenceNumber string                `json:"reference_number" validate:"required,max=100"`
	WarehouseID     uuid.UUID             `json:"warehouse_id" validate:"required"`
	Supplier        *string               `json:"supplier,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	Items           []documentLineRequest `json:"items" validate:"required,min=1,dive"`
}

type createDeliveryRequest struct {
	ReferenceNumber string                `json:"reference_number" validate:"required,max=100"`
	WarehouseID     uuid.UUID             `json:"warehouse_id" validate:"required"`
	Customer        *string               `json:"customer,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	Items           []documentLineRequest `json:"items" validate:"required,min=1,dive"`
}

type createAdjustmentRequest struct {
	ReferenceNumber string                `json:"reference_number" validate:"required,max=100"`
	WarehouseID     uuid.UUID             `json:"warehouse_id" validate:"required"`
	Direction       string                `json:"direction" validate:"required"`
	Reason          string                `json:"reason" validate:"required"`
	Items           []documentLineRequest `json:"items" validate:"required,min=1,dive"`
}

type transferLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,min=1"`
}

type createTransferRequest struct {
	ReferenceNumber        string                `json:"reference_number" validate:"required,max=100"`
	SourceWarehouseID      uuid.UUID             `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID uuid.UUID             `json:"destination_warehouse_id" validate:"required"`
	SourceLocationID       *uuid.UUID            `json:"source_location_id,omitempty"`
	DestinationLocationID  *uuid.UUID            `json:"destination_location_id,omitempty"`
	Notes                  *string               `json:"notes,omitempty"`
	Items                  []transferLineRequest `json:"items" validate:"required,min=1,dive"`
}

func toLineInputs(lines []documentLineRequest) []documentsvc.LineInput {
	items := make([]documentsvc.LineInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, documentsvc.LineInput{
			ProductID:      line.ProductID,
			LocationID:     line.LocationID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return items
}

// CreateReceipt posts an inbound receipt and applies its stock movements.
func CreateReceipt(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReceiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.CreateReceipt(r.Context(), documentsvc.CreateReceiptInput{
			ReferenceNumber: payload.ReferenceNumber,
			WarehouseID:     payload.WarehouseID,
			Supplier:        payload.Supplier,
			Notes:           payload.Notes,
			Items:           toLineInputs(payload.Items),
			CreatedBy:       actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// CreateDelivery posts an outbound delivery order and applies its stock
// movements.
func CreateDelivery(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.CreateDelivery(r.Context(), documentsvc.CreateDeliveryInput{
			ReferenceNumber: payload.ReferenceNumber,
			WarehouseID:     payload.WarehouseID,
			Customer:        payload.Customer,
			Notes:           payload.Notes,
			Items:           toLineInputs(payload.Items),
			CreatedBy:       actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, delivery)
	}
}

// CreateAdjustment posts a manual stock correction.
func CreateAdjustment(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		direction, err := enums.ParseAdjustmentDirection(strings.TrimSpace(payload.Direction))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid direction"))
			return
		}

		adjustment, err := svc.CreateAdjustment(r.Context(), documentsvc.CreateAdjustmentInput{
			ReferenceNumber: payload.ReferenceNumber,
			WarehouseID:     payload.WarehouseID,
			Direction:       direction,
			Reason:          payload.Reason,
			Items:           toLineInputs(payload.Items),
			CreatedBy:       actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, adjustment)
	}
}

// CreateTransfer posts a warehouse-to-warehouse transfer.
func CreateTransfer(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTransferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]documentsvc.TransferLineInput, 0, len(payload.Items))
		for _, line := range payload.Items {
			items = append(items, documentsvc.TransferLineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}

		transfer, err := svc.CreateTransfer(r.Context(), documentsvc.CreateTransferInput{
			ReferenceNumber:        payload.ReferenceNumber,
			SourceWarehouseID:      payload.SourceWarehouseID,
			DestinationWarehouseID: payload.DestinationWarehouseID,
			SourceLocationID:       payload.SourceLocationID,
			DestinationLocationID:  payload.DestinationLocationID,
			Notes:                  payload.Notes,
			Items:                  items,
			CreatedBy:              actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, transfer)
	}
}

type documentListResponse struct {
	Documents any   `json:"documents"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	TotalRows int64 `json:"total_rows"`
}

func listFilter(r *http.Request) (documentsvc.ListFilter, error) {
	warehouseID, err := optionalUUIDQuery(r, "warehouse_id")
	if err != nil {
		return documentsvc.ListFilter{}, err
	}
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return documentsvc.ListFilter{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return documentsvc.ListFilter{}, err
	}
	return documentsvc.ListFilter{WarehouseID: warehouseID, Page: page, PageSize: pageSize}, nil
}

// GetReceipt returns one receipt with its lines.
func GetReceipt(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, err := svc.GetReceipt(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

// ListReceipts pages through receipts, optionally per warehouse.
func ListReceipts(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipts, total, err := svc.ListReceipts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, documentListResponse{
			Documents: receipts,
			Page:      filter.Page,
			PageSize:  filter.PageSize,
			TotalRows: total,
		})
	}
}

// GetDelivery returns one delivery order with its lines.
func GetDelivery(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		delivery, err := svc.GetDelivery(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

// ListDeliveries pages through delivery orders, optionally per warehouse.
func ListDeliveries(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deliveries, total, err := svc.ListDeliveries(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, documentListResponse{
			Documents: deliveries,
			Page:      filter.Page,
			PageSize:  filter.PageSize,
			TotalRows: total,
		})
	}
}

// GetAdjustment returns one stock adjustment with its lines.
func GetAdjustment(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		adjustment, err := svc.GetAdjustment(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adjustment)
	}
}

// ListAdjustments pages through stock adjustments, optionally per warehouse.
func ListAdjustments(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		adjustments, total, err := svc.ListAdjustments(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, documentListResponse{
			Documents: adjustments,
			Page:      filter.Page,
			PageSize:  filter.PageSize,
			TotalRows: total,
		})
	}
}

// GetTransfer returns one transfer with its lines.
func GetTransfer(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		transfer, err := svc.GetTransfer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, transfer)
	}
}

// ListTransfers pages through transfers touching a warehouse on either end.
func ListTransfers(svc *documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		transfers, total, err := svc.ListTransfers(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, documentListResponse{
			Documents: transfers,
			Page:      filter.Page,
			PageSize:  filter.PageSize,
			TotalRows: total,
		})
	}
}

// StockLevels lists current balances with optional product, warehouse, and
// location filters.
func StockLevels(queries *stocksvc.Queries, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter stocksvc.BalanceFilter
		var err error
		if filter.ProductID, err = optionalUUIDQuery(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.WarehouseID, err = optionalUUIDQuery(r, "warehouse_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.LocationID, err = optionalUUIDQuery(r, "location_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := queries.Balances(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// StockHistory pages through the movement ledger, newest first.
func StockHistory(queries *stocksvc.Queries, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter stocksvc.HistoryFilter
		var err error
		if filter.ProductID, err = optionalUUIDQuery(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.WarehouseID, err = optionalUUIDQuery(r, "warehouse_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("movement_type")); raw != "" {
			movementType, parseErr := enums.ParseMovementType(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid movement_type"))
				return
			}
			filter.MovementType = &movementType
		}
		if filter.Page, err = validators.ParseQueryInt(r, "page", 1, 1, 1_000_000); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := queries.History(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LowStock lists products whose global on-hand total is at or below their
// reorder level.
func LowStock(queries *stocksvc.Queries, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := queries.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
