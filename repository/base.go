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
	"database/sql"
	"errors"
	"time"

	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/metrics"
	"github.com/uptrace/bun"
)

// BaseCRUD implements the five entity-agnostic operations for model T.
type BaseCRUD[T any, PT Entity[T]] struct {
	sessions *database.SessionProvider
	logger   database.Logger
	kind     string
}

func NewBaseCRUD[T any, PT Entity[T]](sessions *database.SessionProvider) *BaseCRUD[T, PT] {
	return &BaseCRUD[T, PT]{
		sessions: sessions,
		logger:   database.GetLogger(),
		kind:     PT(new(T)).Kind(),
	}
}

// Create inserts entity and returns the row as stored, with id and
// timestamps assigned by the store.
func (r *BaseCRUD[T, PT]) Create(ctx context.Context, entity *T) (created *T, err error) {
	defer r.observe("create", time.Now(), &err)

	err = r.inTx(ctx, OpCreate, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
			return err
		}
		row, err := r.get(ctx, tx, PT(entity).PrimaryKey())
		created = row
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BaseCRUD[T, PT]) Get(ctx context.Context, id int64) (entity *T, err error) {
	defer r.observe("get", time.Now(), &err)

	err = r.inTx(ctx, OpGet, func(ctx context.Context, tx bun.Tx) error {
		row, err := r.get(ctx, tx, id)
		entity = row
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetAll returns every row ordered by primary key, an empty slice for an
// empty table.
func (r *BaseCRUD[T, PT]) GetAll(ctx context.Context) (entities []*T, err error) {
	defer r.observe("get_all", time.Now(), &err)

	entities = make([]*T, 0)
	err = r.inTx(ctx, OpGetAll, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&entities).OrderExpr("?PKs ASC").Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Update writes only the columns the patch touches, plus updated_at. An empty
// patch returns the current row unchanged.
func (r *BaseCRUD[T, PT]) Update(ctx context.Context, id int64, patch Patch[T]) (updated *T, err error) {
	defer r.observe("update", time.Now(), &err)

	err = r.inTx(ctx, OpUpdate, func(ctx context.Context, tx bun.Tx) error {
		entity, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		columns := patch.Apply(entity)
		if len(columns) == 0 {
			updated = entity
			return nil
		}
		PT(entity).Touch(now())
		columns = append(columns, "updated_at")
		if _, err := tx.NewUpdate().Model(entity).Column(columns...).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BaseCRUD[T, PT]) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("delete", time.Now(), &err)

	return r.inTx(ctx, OpDelete, func(ctx context.Context, tx bun.Tx) error {
		entity, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().Model(entity).WherePK().Exec(ctx)
		return err
	})
}

func (r *BaseCRUD[T, PT]) get(ctx context.Context, db bun.IDB, id int64) (*T, error) {
	entity := new(T)
	err := db.NewSelect().Model(entity).Where("?PKs = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: r.kind, ID: id}
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// inTx runs fn inside one transaction on a freshly acquired session. The
// transaction is committed when fn succeeds and rolled back otherwise; the
// session is released in both cases. NotFound and connection errors pass
// through unchanged, everything else becomes a StorageError for op.
func (r *BaseCRUD[T, PT]) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx bun.Tx) error) error {
	session, err := r.sessions.Acquire(ctx)
	if err != nil {
		r.logger.Error("Failed to acquire database session", "kind", r.kind, "op", op, "error", err)
		return err
	}
	defer session.Close()

	tx, err := session.Begin(ctx)
	if err != nil {
		return r.storageError(op, err)
	}
	var committed bool
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Error("Failed to rollback transaction", "kind", r.kind, "op", op, "error", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return r.storageError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return r.storageError(op, err)
	}
	committed = true
	return nil
}

func (r *BaseCRUD[T, PT]) storageError(op string, err error) error {
	_, reason := database.IsSqlError(err)
	r.logger.Error("Database error", "kind", r.kind, "op", op, "reason", reason.String(), "error", err)
	return &StorageError{Op: op, Reason: reason, Err: err}
}

func (r *BaseCRUD[T, PT]) observe(op string, start time.Time, err *error) {
	metrics.ObserveOperation(r.kind, op, outcome(*err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, database.ErrConnection):
		return metrics.OutcomeConnectionError
	default:
		return metrics.OutcomeStorageError
	}
}
