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

type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	ProjectID      int64  `bun:"project_id,notnull" json:"project_id"`
	Title          string `bun:"title,type:text,notnull" json:"title"`
	Description    string `bun:"description,type:text,notnull" json:"description"`
	Status         string `bun:"status,type:text,notnull" json:"status"`
	Priority       string `bun:"priority,type:text,notnull" json:"priority"`
	KanbanStatusID int64  `bun:"kanban_status_id,notnull" json:"kanban_status_id"`
	Timestamps
}

func (t *Ticket) PrimaryKey() int64 { return t.ID }
func (t *Ticket) Kind() string      { return "Ticket" }

type TicketCreate struct {
	ProjectID      int64  `json:"project_id" validate:"required,gt=0"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Status         string `json:"status" validate:"required"`
	Priority       string `json:"priority" validate:"required"`
	KanbanStatusID int64  `json:"kanban_status_id" validate:"required,gt=0"`
}

func (c TicketCreate) Entity() *Ticket {
	return &Ticket{
		ProjectID:      c.ProjectID,
		Title:          c.Title,
		Description:    c.Description,
		Status:         c.Status,
		Priority:       c.Priority,
		KanbanStatusID: c.KanbanStatusID,
	}
}

func (c TicketCreate) Patch() TicketPatch {
	return TicketPatch{
		ProjectID:      Some(c.ProjectID),
		Title:          Some(c.Title),
		Description:    Some(c.Description),
		Status:         Some(c.Status),
		Priority:       Some(c.Priority),
		KanbanStatusID: Some(c.KanbanStatusID),
	}
}

type TicketPatch struct {
	ProjectID      Option[int64]  `json:"project_id,omitempty"`
	Title          Option[string] `json:"title,omitempty"`
	Description    Option[string] `json:"description,omitempty"`
	Status         Option[string] `json:"status,omitempty"`
	Priority       Option[string] `json:"priority,omitempty"`
	KanbanStatusID Option[int64]  `json:"kanban_status_id,omitempty"`
}

func (p TicketPatch) Apply(t *Ticket) []string {
	var columns []string
	set := func(o Option[string], dst *string, column string) {
		if o.Has() {
			*dst = o.Value()
			columns = append(columns, column)
		}
	}
	if p.ProjectID.Has() {
		t.ProjectID = p.ProjectID.Value()
		columns = append(columns, "project_id")
	}
	set(p.Title, &t.Title, "title")
	set(p.Description, &t.Description, "description")
	set(p.Status, &t.Status, "status")
	set(p.Priority, &t.Priority, "priority")
	if p.KanbanStatusID.Has() {
		t.KanbanStatusID = p.KanbanStatusID.Value()
		columns = append(columns, "kanban_status_id")
	}
	return columns
}

func (p TicketPatch) Validate() error {
	for _, f := range []struct {
		name  string
		value Option[string]
	}{
		{"title", p.Title},
		{"description", p.Description},
		{"status", p.Status},
		{"priority", p.Priority},
	} {
		if err := requireText(f.name, f.value, 0); err != nil {
			return err
		}
	}
	if err := requireID("project_id", p.ProjectID); err != nil {
		return err
	}
	return requireID("kanban_status_id", p.KanbanStatusID)
}
