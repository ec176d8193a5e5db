package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"togather/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned pair of SQL scripts, loaded from files named
// NNNNNN_name.up.sql and NNNNNN_name.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// AppliedMigration is a row of the schema_versions ledger.
type AppliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName pins the ledger table name.
func (AppliedMigration) TableName() string {
	return "schema_versions"
}

//go:embed migrations/*.sql
var embeddedFS embed.FS

var embedded []Migration

func init() {
	var err error
	if embedded, err = loadMigrations(embeddedFS, "migrations"); err != nil {
		middleware.Logger.Error("embedded migrations unreadable", slog.String("error", err.Error()))
	}
}

// Embedded returns the migrations compiled into the binary, oldest first.
func Embedded() []Migration {
	out := make([]Migration, len(embedded))
	copy(out, embedded)
	return out
}

// loadMigrations reads every up/down pair in dir. A badly named file, a
// missing down script or a repeated version fails the whole set.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	ups, err := fs.Glob(fsys, path.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}

	set := make([]Migration, 0, len(ups))
	seen := make(map[int]string, len(ups))
	for _, upPath := range ups {
		base := strings.TrimSuffix(path.Base(upPath), ".up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: want NNNNNN_name.up.sql", upPath)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: version %q is not a positive number", upPath, prefix)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by both %s and %s", version, other, base)
		}
		seen[version] = base

		up, err := fs.ReadFile(fsys, upPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", upPath, err)
		}
		downPath := path.Join(dir, base+".down.sql")
		down, err := fs.ReadFile(fsys, downPath)
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}

		set = append(set, Migration{Version: version, Name: name, Up: string(up), Down: string(down)})
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Version < set[j].Version })
	return set, nil
}

// Migrator applies a fixed migration set and records each step in schema_versions.
type Migrator struct {
	db  *gorm.DB
	set []Migration
}

// NewMigrator returns a Migrator for set, which must be ordered by version.
func NewMigrator(db *gorm.DB, set []Migration) *Migrator {
	return &Migrator{db: db, set: set}
}

func (m *Migrator) lookup(version int) (Migration, bool) {
	for _, mig := range m.set {
		if mig.Version == version {
			return mig, true
		}
	}
	return Migration{}, false
}

// Applied returns the recorded versions in ascending order. A database that
// never ran a migration has no ledger yet and reports none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	db := m.db.WithContext(ctx)
	if !db.Migrator().HasTable(&AppliedMigration{}) {
		return []int{}, nil
	}
	versions := []int{}
	if err := db.Model(&AppliedMigration{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read schema_versions: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations not yet recorded. A recorded version this
// build does not ship is an error, since the schema is ahead of the code.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	done := make(map[int]bool, len(applied))
	var unknown []string
	for _, version := range applied {
		done[version] = true
		if _, ok := m.lookup(version); !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("schema_versions records %s, which this build does not ship", strings.Join(unknown, ", "))
	}

	pending := []Migration{}
	for _, mig := range m.set {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns how many ran. Each script
// commits together with its ledger row, so a failure leaves earlier steps applied
// and the failing one unrecorded.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&AppliedMigration{}); err != nil {
		return 0, fmt.Errorf("create schema_versions: %w", err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&AppliedMigration{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return i, fmt.Errorf("apply %s: %w", mig, err)
		}
		middleware.Logger.InfoContext(ctx, "migration applied",
			slog.Int("version", mig.Version),
			slog.String("name", mig.Name),
		)
	}
	return len(pending), nil
}

// Down reverts version, which must be the newest applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig, ok := m.lookup(version)
	if !ok {
		return fmt.Errorf("no migration with version %d", version)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return errors.New("no migrations have been applied")
	}
	if latest := applied[len(applied)-1]; latest != version {
		return fmt.Errorf("migration %06d is not the newest applied (%06d)", version, latest)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", version).Delete(&AppliedMigration{}).Error
	})
	if err != nil {
		return fmt.Errorf("revert %s: %w", mig, err)
	}
	middleware.Logger.InfoContext(ctx, "migration reverted",
		slog.Int("version", mig.Version),
		slog.String("name", mig.Name),
	)
	return nil
}
