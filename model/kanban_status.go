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

type KanbanStatus struct {
	bun.BaseModel `bun:"table:kanban_statuses,alias:ks"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,type:varchar(255),notnull" json:"name"`
	Description *string `bun:"description,type:text" json:"description"`
	BoardID     int64   `bun:"board_id,notnull" json:"board_id"`
	Timestamps
}

func (s *KanbanStatus) PrimaryKey() int64 { return s.ID }
func (s *KanbanStatus) Kind() string      { return "Kanban Status" }

type KanbanStatusCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	BoardID     int64   `json:"board_id" validate:"required,gt=0"`
}

func (c KanbanStatusCreate) Entity() *KanbanStatus {
	return &KanbanStatus{Name: c.Name, Description: c.Description, BoardID: c.BoardID}
}

func (c KanbanStatusCreate) Patch() KanbanStatusPatch {
	return KanbanStatusPatch{
		Name:        Some(c.Name),
		Description: Some(c.Description),
		BoardID:     Some(c.BoardID),
	}
}

type KanbanStatusPatch struct {
	Name        Option[string]  `json:"name,omitempty"`
	Description Option[*string] `json:"description,omitempty"`
	BoardID     Option[int64]   `json:"board_id,omitempty"`
}

func (p KanbanStatusPatch) Apply(s *KanbanStatus) []string {
	var columns []string
	if p.Name.Has() {
		s.Name = p.Name.Value()
		columns = append(columns, "name")
	}
	if p.Description.Has() {
		s.Description = p.Description.Value()
		columns = append(columns, "description")
	}
	if p.BoardID.Has() {
		s.BoardID = p.BoardID.Value()
		columns = append(columns, "board_id")
	}
	return columns
}

func (p KanbanStatusPatch) Validate() error {
	if err := requireText("name", p.Name, 255); err != nil {
		return err
	}
	return requireID("board_id", p.BoardID)
}
