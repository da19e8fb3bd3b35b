package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

// CreateLocationInput holds the validated payload to create a location.
type CreateLocationInput struct {
	WarehouseID uuid.UUID
	Name        string
}

// ListLocationsInput narrows the location listing.
type ListLocationsInput struct {
	WarehouseID *uuid.UUID
}

// Service exposes location catalog operations.
type Service interface {
	CreateLocation(ctx context.Context, input CreateLocationInput) (*models.Location, error)
	ListLocations(ctx context.Context, input ListLocationsInput) ([]models.Location, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the location service.
func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) CreateLocation(ctx context.Context, input CreateLocationInput) (*models.Location, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.WarehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse id is required")
	}

	var warehouseCount int64
	err := s.db.WithContext(ctx).
		Model(&models.Warehouse{}).
		Where("id = ?", input.WarehouseID).
		Count(&warehouseCount).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse")
	}
	if warehouseCount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
	}

	var nameCount int64
	err = s.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("warehouse_id = ? AND name = ?", input.WarehouseID, name).
		Count(&nameCount).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check location name")
	}
	if nameCount > 0 {
		return nil, nameConflictError(name)
	}

	location := &models.Location{
		ID:          uuid.New(),
		WarehouseID: input.WarehouseID,
		Name:        name,
	}
	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, nameConflictError(name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return location, nil
}

func (s *service) ListLocations(ctx context.Context, input ListLocationsInput) ([]models.Location, error) {
	q := s.db.WithContext(ctx).Model(&models.Location{})
	if input.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *input.WarehouseID)
	}

	var rows []models.Location
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return rows, nil
}

func nameConflictError(name string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("location %q already exists in warehouse", name)).
		WithDetails(map[string]any{"name": name})
}
