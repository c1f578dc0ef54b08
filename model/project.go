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

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	Name          string  `bun:"name,type:varchar(255),notnull" json:"name"`
	Description   *string `bun:"description,type:text" json:"description"`
	KanbanBoardID *int64  `bun:"kanban_board_id" json:"kanban_board_id"`
	Timestamps
}

func (p *Project) PrimaryKey() int64 { return p.ID }
func (p *Project) Kind() string      { return "Project" }

type ProjectCreate struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Description   *string `json:"description"`
	KanbanBoardID *int64  `json:"kanban_board_id" validate:"omitempty,gt=0"`
}

func (c ProjectCreate) Entity() *Project {
	return &Project{Name: c.Name, Description: c.Description, KanbanBoardID: c.KanbanBoardID}
}

func (c ProjectCreate) Patch() ProjectPatch {
	return ProjectPatch{
		Name:          Some(c.Name),
		Description:   Some(c.Description),
		KanbanBoardID: Some(c.KanbanBoardID),
	}
}

type ProjectPatch struct {
	Name          Option[string]  `json:"name,omitempty"`
	Description   Option[*string] `json:"description,omitempty"`
	KanbanBoardID Option[*int64]  `json:"kanban_board_id,omitempty"`
}

func (p ProjectPatch) Apply(project *Project) []string {
	var columns []string
	if p.Name.Has() {
		project.Name = p.Name.Value()
		columns = append(columns, "name")
	}
	if p.Description.Has() {
		project.Description = p.Description.Value()
		columns = append(columns, "description")
	}
	if p.KanbanBoardID.Has() {
		project.KanbanBoardID = p.KanbanBoardID.Value()
		columns = append(columns, "kanban_board_id")
	}
	return columns
}

func (p ProjectPatch) Validate() error {
	if err := requireText("name", p.Name, 255); err != nil {
		return err
	}
	return optionalID("kanban_board_id", p.KanbanBoardID)
}
