package database

import (
	"context"
	"fmt"
	"log/slog"

	"togather/internal/config"
	"togather/internal/middleware"

	"gorm.io/gorm"
)

// Values of DB_SCHEMA_MODE.
const (
	// SchemaModeHybrid runs the SQL migrations, then AutoMigrate outside production.
	SchemaModeHybrid = "hybrid"
	// SchemaModeSQL runs the SQL migrations only.
	SchemaModeSQL = "sql"
	// SchemaModeAuto runs AutoMigrate only. Production refuses it.
	SchemaModeAuto = "auto"
)

// SchemaPlan is what ApplySchema does for one configuration.
type SchemaPlan struct {
	Mode        string
	Migrate     bool
	AutoMigrate bool
}

// PlanSchema resolves cfg's schema mode. An empty mode means hybrid.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	mode := cfg.DBSchemaMode
	if mode == "" {
		mode = SchemaModeHybrid
	}

	switch mode {
	case SchemaModeHybrid:
		return SchemaPlan{Mode: mode, Migrate: true, AutoMigrate: !cfg.IsProduction()}, nil
	case SchemaModeSQL:
		return SchemaPlan{Mode: mode, Migrate: true}, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return SchemaPlan{}, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed when APP_ENV=%s; use sql and run migrate up", cfg.Env)
		}
		return SchemaPlan{Mode: mode, AutoMigrate: true}, nil
	default:
		return SchemaPlan{}, fmt.Errorf("DB_SCHEMA_MODE %q is not one of hybrid, sql, auto", mode)
	}
}

// ApplySchema brings db up to date with the embedded migrations and the
// persistent models, as PlanSchema decides for cfg.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.Migrate {
		n, err := NewMigrator(db, Embedded()).Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "sql migrations done", slog.Int("applied", n))
	}

	if plan.AutoMigrate {
		middleware.Logger.InfoContext(ctx, "running automigrate",
			slog.String("mode", plan.Mode),
			slog.String("env", cfg.Env),
		)
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
	}
	return nil
}

// SchemaReport is the output of `migrate status`.
type SchemaReport struct {
	Env     string
	Plan    SchemaPlan
	Applied []int
	Pending []Migration
}

// InspectSchema reports the plan for cfg and the ledger state without changing db.
func InspectSchema(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaReport, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}

	m := NewMigrator(db, Embedded())
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	return &SchemaReport{Env: cfg.Env, Plan: plan, Applied: applied, Pending: pending}, nil
}
