// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// It seeds the permission catalog and system role hierarchy (idempotent
// upserts by name, so redeploys pick up catalog changes), and when a
// super admin phone is configured, upserts that account with the super
// admin flag.
func Startup(ctx context.Context, cfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	permStore := permissions.New(deps.MongoDB)
	for _, p := range rbac.DefaultPermissions() {
		if err := permStore.UpsertSeed(ctx, p); err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Name, err)
		}
	}

	// Parents sort first in DefaultRoles, so each InheritsFrom name has
	// already been seeded by the time it is referenced.
	roleStore := roles.New(deps.MongoDB)
	seeded := make(map[string]primitive.ObjectID)
	for _, rs := range rbac.DefaultRoles() {
		var parent *primitive.ObjectID
		if rs.InheritsFrom != "" {
			id, ok := seeded[rs.InheritsFrom]
			if !ok {
				return fmt.Errorf("seed role %s: parent %s not seeded yet", rs.Role.Name, rs.InheritsFrom)
			}
			parent = &id
		}
		id, err := roleStore.UpsertSeed(ctx, rs.Role, parent)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", rs.Role.Name, err)
		}
		seeded[rs.Role.Name] = id
	}
	logger.Info("seeded permission catalog and system roles",
		zap.Int("permissions", len(rbac.DefaultPermissions())),
		zap.Int("roles", len(seeded)))

	if cfg.SuperAdminPhone != "" {
		users := userstore.New(deps.MongoDB)
		u, created, err := users.EnsureSuperAdmin(ctx, cfg.SuperAdminPhone, cfg.SuperAdminName)
		if err != nil {
			return fmt.Errorf("ensure super admin: %w", err)
		}
		if created {
			logger.Info("created super admin account", zap.String("user_id", u.ID.Hex()))
		} else {
			logger.Info("super admin account verified", zap.String("user_id", u.ID.Hex()))
		}
	}

	return nil
}
