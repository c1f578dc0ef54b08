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
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func fkFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foreign_keys.yaml")
	manager := &ConfigurableForeignKeyManager{ForeignKeyManager: &ForeignKeyManager{constraints: testForeignKeys()}}
	if err := manager.ExportToConfig(path); err != nil {
		t.Fatalf("export: %v", err)
	}
	return path
}

func TestRunMigrationsCreatesTablesWithForeignKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataMigrateConfig.ForeignKeyFile = fkFile(t)
	manager := connect(t, cfg)
	ctx := context.Background()

	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// second run is a no-op
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	applied, err := NewMigrationManager(manager.GetDB(), GetLogger(), cfg.DataMigrateConfig, cfg.DataInitConfig).GetAppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(applied) != 1 || applied[0].Version != "001" {
		t.Errorf("applied = %+v", applied)
	}

	err = manager.Sessions().WithSession(ctx, func(s *Session) error {
		_, err := s.Conn().NewInsert().Model(&testCard{BoardID: 404, Title: "orphan"}).Exec(ctx)
		return err
	})
	if is, kind := IsSqlError(err); !is || kind != ForeignKeyViolationErr {
		t.Errorf("orphan insert error = %v (%v), want foreign key violation", err, kind)
	}
}

func TestRunMigrationsWithoutForeignKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataMigrateConfig.EnableForeignKey = false
	cfg.DataMigrateConfig.ForeignKeyFile = fkFile(t)
	manager := connect(t, cfg)
	ctx := context.Background()

	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	err := manager.Sessions().WithSession(ctx, func(s *Session) error {
		_, err := s.Conn().NewInsert().Model(&testCard{BoardID: 404, Title: "orphan"}).Exec(ctx)
		return err
	})
	if err != nil {
		t.Errorf("insert without constraints: %v", err)
	}
}

func TestRunMigrationsSeedsData(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "001_boards.sql"),
		"-- default board\nINSERT INTO test_boards (name)\nVALUES ('Default');\n")
	writeFile(t, filepath.Join(root, "environments", "dev", "001_cards.sql"),
		"INSERT INTO test_cards (board_id, title) VALUES (1, 'first');\nINSERT INTO test_cards (board_id, title) VALUES (1, 'second');\n")

	cfg := testConfig(t)
	cfg.DataInitConfig = DataInitConfig{AutoInitOnMigration: true, Filepath: root, Environment: "dev"}
	manager := connect(t, cfg)
	ctx := context.Background()

	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	count, err := manager.GetDB().NewSelect().Model((*testCard)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("cards = %d, want 2", count)
	}
}
