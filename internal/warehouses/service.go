package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

// CreateWarehouseInput holds the validated payload to create a warehouse.
type CreateWarehouseInput struct {
	Name      string
	Address   *string
	ManagerID *uuid.UUID
}

// UpdateWarehouseInput holds optional mutation values for a warehouse.
type UpdateWarehouseInput struct {
	Name      *string
	Address   *string
	ManagerID *uuid.UUID
}

// Service exposes warehouse catalog operations.
type Service interface {
	CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error)
	UpdateWarehouse(ctx context.Context, warehouseID uuid.UUID, input UpdateWarehouseInput) (*models.Warehouse, error)
	GetWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
}

type service struct {
	repo *Repository
}

// NewService builds the warehouse service.
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.checkManager(ctx, input.ManagerID); err != nil {
		return nil, err
	}

	taken, err := s.repo.NameExists(ctx, name, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse name")
	}
	if taken {
		return nil, nameConflictError(name)
	}

	warehouse := &models.Warehouse{
		ID:        uuid.New(),
		Name:      name,
		Address:   input.Address,
		ManagerID: input.ManagerID,
	}
	if err := s.repo.CreateWarehouse(ctx, warehouse); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, nameConflictError(name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warehouse")
	}
	return warehouse, nil
}

func (s *service) UpdateWarehouse(ctx context.Context, warehouseID uuid.UUID, input UpdateWarehouseInput) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if name != warehouse.Name {
			taken, err := s.repo.NameExists(ctx, name, warehouseID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse name")
			}
			if taken {
				return nil, nameConflictError(name)
			}
		}
		warehouse.Name = name
	}
	if input.Address != nil {
		warehouse.Address = input.Address
	}
	if input.ManagerID != nil {
		if err := s.checkManager(ctx, input.ManagerID); err != nil {
			return nil, err
		}
		warehouse.ManagerID = input.ManagerID
	}

	if err := s.repo.UpdateWarehouse(ctx, warehouse); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, nameConflictError(warehouse.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse")
	}
	return warehouse, nil
}

func (s *service) GetWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return warehouse, nil
}

func (s *service) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	rows, err := s.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warehouses")
	}
	return rows, nil
}

func (s *service) checkManager(ctx context.Context, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	exists, err := s.repo.UserExists(ctx, *managerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check manager")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "manager user not found")
	}
	return nil
}

func nameConflictError(name string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("warehouse %q already exists", name)).
		WithDetails(map[string]any{"name": name})
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
}
