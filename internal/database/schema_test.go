package database

import (
	"context"
	"testing"

	"togather/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func emptySQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    SchemaPlan
		wantErr bool
	}{
		{"hybrid in development", config.Config{Env: "development", DBSchemaMode: "hybrid"}, SchemaPlan{Mode: "hybrid", Migrate: true, AutoMigrate: true}, false},
		{"hybrid in production", config.Config{Env: "production", DBSchemaMode: "hybrid"}, SchemaPlan{Mode: "hybrid", Migrate: true}, false},
		{"empty mode is hybrid", config.Config{Env: "test"}, SchemaPlan{Mode: "hybrid", Migrate: true, AutoMigrate: true}, false},
		{"sql", config.Config{Env: "development", DBSchemaMode: "sql"}, SchemaPlan{Mode: "sql", Migrate: true}, false},
		{"auto in development", config.Config{Env: "development", DBSchemaMode: "auto"}, SchemaPlan{Mode: "auto", AutoMigrate: true}, false},
		{"auto in production", config.Config{Env: "prod", DBSchemaMode: "auto"}, SchemaPlan{}, true},
		{"unknown mode", config.Config{Env: "development", DBSchemaMode: "yolo"}, SchemaPlan{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			got, err := PlanSchema(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplySchema_AutoMode(t *testing.T) {
	db := emptySQLite(t)

	cfg := &config.Config{Env: "development", DBSchemaMode: SchemaModeAuto}
	require.NoError(t, ApplySchema(context.Background(), db, cfg))

	for _, table := range []string{"users", "posts", "participants", "comments", "chats", "messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.False(t, db.Migrator().HasTable(&AppliedMigration{}), "auto mode keeps no ledger")
}

func TestApplySchema_AutoRefusedInProduction(t *testing.T) {
	db := emptySQLite(t)

	cfg := &config.Config{Env: "production", DBSchemaMode: SchemaModeAuto}
	require.Error(t, ApplySchema(context.Background(), db, cfg))
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestInspectSchema_FreshDatabase(t *testing.T) {
	db := emptySQLite(t)

	report, err := InspectSchema(context.Background(), db, &config.Config{Env: "production", DBSchemaMode: SchemaModeSQL})
	require.NoError(t, err)
	assert.Equal(t, "production", report.Env)
	assert.Equal(t, SchemaPlan{Mode: SchemaModeSQL, Migrate: true}, report.Plan)
	assert.Empty(t, report.Applied)
	assert.Equal(t, Embedded(), report.Pending)
	assert.False(t, db.Migrator().HasTable(&AppliedMigration{}), "status must not create the ledger")
}
