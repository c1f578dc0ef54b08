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

package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Entity is the descriptor every persisted model satisfies so the generic
// repository can address it without reflection.
type Entity interface {
	// PrimaryKey returns the store-assigned identifier.
	PrimaryKey() int64

	// Kind is the human readable entity name used in error messages.
	Kind() string

	// Touch records a modification time.
	Touch(now time.Time)
}

// Timestamps are stamped together on insert and updated_at is refreshed on
// every update. The column defaults cover rows written by plain SQL.
type Timestamps struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now
}

var _ bun.BeforeAppendModelHook = (*Timestamps)(nil)

// BeforeAppendModel gives a new row one clock reading for both columns.
func (t *Timestamps) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		t.UpdatedAt = t.CreatedAt
	}
	return nil
}
