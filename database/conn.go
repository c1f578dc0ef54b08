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
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalFactory *BaseDatabaseFactory
)

// InitDB connects the process-wide database described by cfg and runs the
// migrations when cfg enables them on startup.
func InitDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	return InitDatabaseWithOptions(ctx, cfg, cfg.DataMigrateConfig.EnableMigrateOnStartup)
}

func InitDatabaseWithOptions(ctx context.Context, cfg *Config, runMigrations bool) (*bun.DB, error) {
	factory := NewDatabaseFactory()
	if _, err := factory.CreateFromConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(ctx, runMigrations); err != nil {
		return nil, err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalFactory != nil {
		_ = globalFactory.Close()
	}
	globalFactory = factory
	return factory.GetDB(), nil
}

func getFactory() *BaseDatabaseFactory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}

// GetDB returns the global Bun database instance.
func GetDB() *bun.DB {
	if f := getFactory(); f != nil {
		return f.GetDB()
	}
	return nil
}

// GetSessionProvider returns the session provider of the global database.
// Acquiring from it before InitDB fails with a ConnectionError.
func GetSessionProvider() *SessionProvider {
	f := getFactory()
	if f == nil || f.GetManager() == nil {
		return nil
	}
	return f.GetManager().Sessions()
}

func currentManager() AbstractDatabaseManager {
	if f := getFactory(); f != nil {
		return f.GetManager()
	}
	return nil
}

// CloseDB closes the global database connection.
func CloseDB() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalFactory == nil {
		return nil
	}
	err := globalFactory.Close()
	globalFactory = nil
	return err
}

// GetHealthStatus returns the current database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if f := getFactory(); f != nil {
		return f.GetHealthStatus(ctx)
	}
	return &HealthStatus{LastError: "Database not initialized"}
}

func GetDatabaseStats() *DBStats {
	if f := getFactory(); f != nil {
		return f.GetStats()
	}
	return &DBStats{}
}

// RunMigrations executes the migrations against the global database.
func RunMigrations(ctx context.Context) error {
	m := currentManager()
	if m == nil {
		return fmt.Errorf("database not initialized")
	}
	return m.RunMigrations(ctx)
}

// InitData executes the seed SQL files against the global database.
func InitData(ctx context.Context) error {
	m := currentManager()
	if m == nil {
		return fmt.Errorf("database not initialized")
	}
	return m.InitData(ctx)
}
