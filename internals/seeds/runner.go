package seeds

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	userService "eventhub_backend/internals/features/users/user/service"
)

// RunAllSeeds inserts the bootstrap rows. Every seeder is idempotent.
func RunAllSeeds(ctx context.Context, db *gorm.DB, cfg *configs.Config, log *slog.Logger) error {
	//* User
	users := userService.NewUserService(db, cfg.BcryptCost)
	if err := users.SeedSuperAdmin(ctx, cfg.Admin, log); err != nil {
		return err
	}
	return nil
}
