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
	"errors"
	"fmt"

	"github.com/tomoncle/kanban/database"
)

// Operation names carried by StorageError.
const (
	OpCreate = "creating item"
	OpGet    = "retrieving item"
	OpGetAll = "retrieving items"
	OpUpdate = "updating item"
	OpDelete = "deleting item"
)

var (
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage failure")
)

type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StorageError reports that the store rejected or failed an operation. The
// transaction has already been rolled back when it is returned.
type StorageError struct {
	Op     string
	Reason database.SQLError
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
