// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"togather/internal/config"
	"togather/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|auto|status|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	migrator := database.NewMigrator(db, database.Embedded())
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations failed after %d applied: %w", n, err)
		}
		log.Printf("applied %d sql migrations", n)
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}
		log.Println("automigrate done")
	case "status":
		report, err := database.InspectSchema(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("env=%s mode=%s migrate=%t automigrate=%t applied=%d pending=%d",
			report.Env, report.Plan.Mode, report.Plan.Migrate, report.Plan.AutoMigrate,
			len(report.Applied), len(report.Pending))
		for _, m := range report.Pending {
			log.Printf("pending: %s", m)
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := migrator.Down(ctx, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("reverted migration %06d", version)
	default:
		return usage()
	}

	return nil
}
