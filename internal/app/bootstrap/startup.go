// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	rolestore "github.com/dalemusser/bizadmin/internal/app/store/roles"
	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// adminRole is the role granted to the default admin.
const adminRole = "Admin"

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})

	if appCfg.SuperAdminUsername == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	return ensureSuperAdmin(ctx, deps.MongoDatabase, appCfg.SuperAdminUsername, appCfg.SuperAdminPassword, logger)
}

// seedRoles inserts the default roles into an empty roles collection.
func seedRoles(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	n, err := rolestore.New(db).EnsureDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if n > 0 {
		logger.Info("seeded default roles", zap.Int("count", n))
	}
	return nil
}

// ensureSuperAdmin makes sure username is an active user with the Admin
// role. An existing user is promoted and keeps their password; a missing
// one is created with password.
func ensureSuperAdmin(ctx context.Context, db *mongo.Database, username, password string, logger *zap.Logger) error {
	roles := rolestore.New(db)
	users := userstore.New(db)

	role, err := roles.GetByName(ctx, adminRole)
	if errors.Is(err, rolestore.ErrNotFound) {
		created, cerr := roles.Create(ctx, adminRole)
		if cerr != nil {
			return fmt.Errorf("create admin role: %w", cerr)
		}
		role = &created
	} else if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.RoleID == role.ID {
			return nil
		}
		upd := userstore.Update{
			Username: existing.Username,
			FullName: existing.FullName,
			RoleID:   role.ID,
			Remark:   existing.Remark,
		}
		if err := users.Update(ctx, existing.ID, upd); err != nil {
			return fmt.Errorf("promote superadmin: %w", err)
		}
		logger.Info("promoted user to admin", zap.String("username", existing.Username))
		return nil
	case !errors.Is(err, userstore.ErrNotFound):
		return fmt.Errorf("load superadmin: %w", err)
	}

	if password == "" {
		logger.Warn("superadmin_username set without superadmin_password; not creating user",
			zap.String("username", username))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}
	u, err := users.Create(ctx, models.User{
		Username:     username,
		FullName:     "Administrator",
		RoleID:       role.ID,
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}
	logger.Info("created superadmin", zap.String("username", u.Username), zap.String("user_id", u.ID.Hex()))
	return nil
}
