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

	"github.com/tomoncle/kanban/database"
)

// EntityRepository exposes BaseCRUD under an entity's create and patch types.
type EntityRepository[T any, PT Entity[T], C Creator[T], P Patch[T]] struct {
	crud *BaseCRUD[T, PT]
}

func newEntityRepository[T any, PT Entity[T], C Creator[T], P Patch[T]](sessions *database.SessionProvider) *EntityRepository[T, PT, C, P] {
	return &EntityRepository[T, PT, C, P]{crud: NewBaseCRUD[T, PT](sessions)}
}

func (r *EntityRepository[T, PT, C, P]) Create(ctx context.Context, in C) (*T, error) {
	return r.crud.Create(ctx, in.Entity())
}

func (r *EntityRepository[T, PT, C, P]) Get(ctx context.Context, id int64) (*T, error) {
	return r.crud.Get(ctx, id)
}

func (r *EntityRepository[T, PT, C, P]) GetAll(ctx context.Context) ([]*T, error) {
	return r.crud.GetAll(ctx)
}

func (r *EntityRepository[T, PT, C, P]) Update(ctx context.Context, id int64, patch P) (*T, error) {
	return r.crud.Update(ctx, id, patch)
}

func (r *EntityRepository[T, PT, C, P]) Delete(ctx context.Context, id int64) error {
	return r.crud.Delete(ctx, id)
}
