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
	"errors"
	"testing"
	"time"
)

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConnectionConfig()
	overrideFromEnv(cfg)

	if cfg.Host != "db.internal" || cfg.Port != 6543 || cfg.Password != "secret" {
		t.Errorf("connection = %+v", cfg)
	}
	if cfg.MaxOpenConns != 100 {
		t.Errorf("invalid number should be ignored, got %d", cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != 90*time.Second || !cfg.EnableQueryLog {
		t.Errorf("pool = %+v", cfg)
	}
}

func TestCreateFromConfigRejectsUnknownType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "oracle"
	if _, err := NewDatabaseFactory().CreateFromConfig(cfg); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if _, err := NewDatabaseFactory().CreateFromConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConnectFailureIsConnectionError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "postgres"
	cfg.ConnectionConfig.Host = "127.0.0.1"
	cfg.ConnectionConfig.Port = 1
	cfg.ConnectionConfig.ConnectTimeout = time.Second

	err := NewDatabaseManager(cfg).Connect(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Errorf("error = %v, want ErrConnection", err)
	}
}

func TestGlobalDatabase(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	if GetSessionProvider() != nil {
		t.Fatal("no provider expected before InitDB")
	}
	db, err := InitDB(ctx, cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = CloseDB() })

	if GetDB() != db {
		t.Error("GetDB should return the initialized database")
	}
	status := GetHealthStatus(ctx)
	if !status.Healthy || !status.Connected || status.ActiveSessions != 0 {
		t.Errorf("health = %+v", status)
	}
	if GetDatabaseStats().MaxOpenConns != 1 {
		t.Errorf("sqlite should use a single connection, stats = %+v", GetDatabaseStats())
	}

	if err := CloseDB(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if GetHealthStatus(ctx).Healthy {
		t.Error("closed database reported healthy")
	}
}
