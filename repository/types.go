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

package repository

import (
	"context"
	"time"

	"github.com/tomoncle/kanban/model"
)

// Entity binds a model struct T to its pointer type so the repository can use
// the model descriptor methods without reflection.
type Entity[T any] interface {
	*T
	model.Entity
}

// Patch applies the fields it carries to an entity and returns the columns it
// touched.
type Patch[T any] interface {
	Apply(*T) []string
}

// Creator builds a new, not yet persisted, entity.
type Creator[T any] interface {
	Entity() *T
}

// Repository is the typed CRUD contract exposed for each entity.
type Repository[T any, C any, P any] interface {
	Create(ctx context.Context, in C) (*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	GetAll(ctx context.Context) ([]*T, error)
	Update(ctx context.Context, id int64, patch P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

var now = func() time.Time { return time.Now().UTC() }
