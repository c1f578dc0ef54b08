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

import "github.com/uptrace/bun"

type KanbanBoard struct {
	bun.BaseModel `bun:"table:kanban_boards,alias:kb"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,type:varchar(255),notnull" json:"name"`
	Description *string `bun:"description,type:text" json:"description"`
	Timestamps
}

func (b *KanbanBoard) PrimaryKey() int64 { return b.ID }
func (b *KanbanBoard) Kind() string      { return "Kanban Board" }

type KanbanBoardCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

func (c KanbanBoardCreate) Entity() *KanbanBoard {
	return &KanbanBoard{Name: c.Name, Description: c.Description}
}

// Patch returns a patch that sets every field, used for full replacement.
func (c KanbanBoardCreate) Patch() KanbanBoardPatch {
	return KanbanBoardPatch{
		Name:        Some(c.Name),
		Description: Some(c.Description),
	}
}

type KanbanBoardPatch struct {
	Name        Option[string]  `json:"name,omitempty"`
	Description Option[*string] `json:"description,omitempty"`
}

func (p KanbanBoardPatch) Apply(b *KanbanBoard) []string {
	var columns []string
	if p.Name.Has() {
		b.Name = p.Name.Value()
		columns = append(columns, "name")
	}
	if p.Description.Has() {
		b.Description = p.Description.Value()
		columns = append(columns, "description")
	}
	return columns
}

func (p KanbanBoardPatch) Validate() error {
	return requireText("name", p.Name, 255)
}
