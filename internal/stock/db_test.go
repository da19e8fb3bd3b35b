package stock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
)

func openPostgresTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv("STOCKTRAIL_DB_DSN")
	if dsn == "" {
		t.Skip("STOCKTRAIL_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db.FromGorm(conn)
}

// Two deliveries race for the same balance row; the conditional update is the
// only serialization point, so exactly one may pass the floor.
func TestConcurrentDeliveriesSerializeOnBalanceFloor(t *testing.T) {
	client := openPostgresTestDB(t)
	conn := client.DB()

	user := models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("st_test_%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		Name:         "Race Test Clerk",
		Role:         enums.UserRoleStaff,
		IsActive:     true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	product := models.Product{
		ID:       uuid.New(),
		SKU:      fmt.Sprintf("st_test_%s", uuid.NewString()),
		Name:     "Race Test Product",
		Category: "general",
		Unit:     "pcs",
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	warehouse := models.Warehouse{
		ID:   uuid.New(),
		Name: fmt.Sprintf("st_test_wh_%s", uuid.NewString()),
	}
	if err := conn.Create(&warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	t.Cleanup(func() {
		conn.Where("product_id = ?", product.ID).Delete(&models.LedgerEntry{})
		conn.Where("product_id = ?", product.ID).Delete(&models.StockBalance{})
		conn.Delete(&models.Product{}, "id = ?", product.ID)
		conn.Delete(&models.Warehouse{}, "id = ?", warehouse.ID)
		conn.Delete(&models.User{}, "id = ?", user.ID)
	})

	seed := models.StockBalance{
		ID:          uuid.New(),
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Quantity:    10,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := conn.Create(&seed).Error; err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	engine := NewEngine(NewRepository(conn), nil, metrics.NewStockMetrics(nil), nil)

	start := make(chan struct{})
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = client.WithTx(context.Background(), func(tx *gorm.DB) error {
				_, err := engine.ApplyMovement(context.Background(), tx, Movement{
					ProductID:    product.ID,
					WarehouseID:  warehouse.ID,
					Quantity:     -8,
					MovementType: enums.MovementTypeDelivery,
					PerformedBy:  user.ID,
				})
				return err
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var typed *pkgerrors.Error
		if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeInsufficientStock {
			t.Fatalf("unexpected delivery error: %v", err)
		}
		rejected++
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one delivery to win, got %d succeeded / %d rejected", succeeded, rejected)
	}

	balance, err := Balance(context.Background(), conn, product.ID, warehouse.ID, nil)
	if err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Quantity != 2 {
		t.Fatalf("expected final balance 2, got %d", balance.Quantity)
	}

	var ledgerCount int64
	if err := conn.Model(&models.LedgerEntry{}).Where("product_id = ?", product.ID).Count(&ledgerCount).Error; err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	if ledgerCount != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", ledgerCount)
	}
}
