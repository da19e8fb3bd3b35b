package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/users"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	dbpkg "github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/security"
)

// EnsureAdmin creates the initial administrator account at startup when the
// users table is empty. The emptiness check and the insert share one
// transaction so concurrent process starts cannot both seed an admin.
func EnsureAdmin(ctx context.Context, client *dbpkg.Client, bootstrapCfg config.BootstrapConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if bootstrapCfg.AdminEmail == "" || bootstrapCfg.AdminPassword == "" {
			if logg != nil {
				logg.Warn(ctx, "users table is empty and no bootstrap admin credentials are configured")
			}
			return nil
		}

		hash, err := security.HashPassword(bootstrapCfg.AdminPassword, passwordCfg)
		if err != nil {
			return err
		}

		admin, err := repo.Create(ctx, users.CreateUserDTO{
			Email:        bootstrapCfg.AdminEmail,
			PasswordHash: hash,
			Name:         bootstrapCfg.AdminName,
			Role:         enums.UserRoleAdmin,
		})
		if err != nil {
			return err
		}

		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"user_id": admin.ID.String(),
				"email":   admin.Email,
			})
			logg.Info(logCtx, "bootstrap admin created")
		}
		return nil
	})
}
