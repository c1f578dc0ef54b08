/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// MigrationManager coordinates schema migrations and data initialization.
type MigrationManager struct {
	db       *bun.DB
	logger   Logger
	migrate  DataMigrateConfig
	dataInit DataInitConfig
}

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

func NewMigrationManager(db *bun.DB, logger Logger, migrate DataMigrateConfig, dataInit DataInitConfig) *MigrationManager {
	return &MigrationManager{
		db:       db,
		logger:   logger,
		migrate:  migrate,
		dataInit: dataInit,
	}
}

// RunMigrations creates the migration tracking table if needed and executes
// every pending migration in ascending version order.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, err := mm.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := mm.getAllMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed")
	return nil
}

func (mm *MigrationManager) getAllMigrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create kanban tables",
			Up:          mm.createBaseTables,
		},
	}
	if mm.dataInit.AutoInitOnMigration {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "seed_initial_data",
			Description: "Seed initial data",
			Up:          mm.seedInitialData,
		})
	}
	return migrations
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	tx, err := mm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				mm.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if err := migration.Up(ctx, tx); err != nil {
		return err
	}

	_, err = tx.NewInsert().
		Model(&Migration{
			Version:     migration.Version,
			Name:        migration.Name,
			AppliedAt:   time.Now().UTC(),
			Description: migration.Description,
		}).
		Exec(ctx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func (mm *MigrationManager) foreignKeys() (*ForeignKeyManager, error) {
	if !mm.migrate.EnableForeignKey {
		return &ForeignKeyManager{logger: mm.logger}, nil
	}
	fkm := NewConfigurableForeignKeyManager(mm.logger, mm.migrate.ForeignKeyFile).ForeignKeyManager
	if errs := fkm.ValidateConstraints(); len(errs) > 0 {
		for _, err := range errs {
			mm.logger.Debug("Foreign key constraint validation failed", "error", err.Error())
		}
		return nil, fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}
	return fkm, nil
}

// createBaseTables creates every registered model in priority order so that
// referenced tables exist before the tables pointing at them.
func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	fkm, err := mm.foreignKeys()
	if err != nil {
		return err
	}
	for _, model := range RegisteredModelInstances() {
		table := mm.db.Table(reflect.TypeOf(model).Elem()).Name
		q := db.NewCreateTable().Model(model).IfNotExists()
		q = fkm.ApplyToTable(q, table)
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
		mm.logger.Debug("Table ready", "table", table)
	}
	return nil
}

func (mm *MigrationManager) InitData(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return mm.seedInitialData(ctx, mm.db)
}

func (mm *MigrationManager) seedInitialData(ctx context.Context, db bun.IDB) error {
	sqlManager := NewSQLInitManager(db, mm.dataInit.Environment)
	if mm.dataInit.Filepath != "" {
		sqlManager.SetSQLRootPath(mm.dataInit.Filepath)
	}
	if err := sqlManager.ExecuteInitialization(ctx); err != nil {
		return fmt.Errorf("SQL file initialization failed: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
