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

// Package repository provides the generic CRUD repository over Bun and the
// typed repositories for projects, tickets, kanban boards and statuses.
//
// Every call acquires its own session, runs in a single transaction that is
// either committed or rolled back before returning, and reports failures as
// *NotFoundError, *StorageError or *database.ConnectionError.
package repository
