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
	"sync"
	"sync/atomic"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// SessionProvider hands out one pinned pool connection per logical operation.
type SessionProvider struct {
	db     *bun.DB
	active atomic.Int64
}

func NewSessionProvider(db *bun.DB) *SessionProvider {
	return &SessionProvider{db: db}
}

// Acquire pins a connection. On failure nothing is left open and the error
// matches ErrConnection.
func (p *SessionProvider) Acquire(ctx context.Context) (*Session, error) {
	if p == nil || p.db == nil {
		return nil, &ConnectionError{Err: errors.New("database not initialized")}
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	// sqlite only enforces foreign keys when asked to, per connection.
	if p.db.Dialect().Name() == dialect.SQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = conn.Close()
			return nil, &ConnectionError{Err: err}
		}
	}
	p.active.Add(1)
	return &Session{conn: conn, provider: p}, nil
}

// WithSession runs fn with a fresh session and releases it on every exit path.
func (p *SessionProvider) WithSession(ctx context.Context, fn func(*Session) error) error {
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// Active reports how many sessions are currently held.
func (p *SessionProvider) Active() int64 {
	return p.active.Load()
}

func (p *SessionProvider) DB() *bun.DB {
	return p.db
}

type Session struct {
	conn     bun.Conn
	provider *SessionProvider
	once     sync.Once
}

func (s *Session) Conn() bun.Conn {
	return s.conn
}

func (s *Session) Begin(ctx context.Context) (bun.Tx, error) {
	return s.conn.BeginTx(ctx, nil)
}

// Close returns the connection to the pool. Only the first call has effect.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		err = s.conn.Close()
		s.provider.active.Add(-1)
	})
	return err
}
