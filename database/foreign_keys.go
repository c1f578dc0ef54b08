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

package database

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string
}

func (fk *ForeignKeyConstraint) Name() string {
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Apply adds the constraint to a CREATE TABLE statement. Constraints are
// declared with the table because sqlite cannot add them afterwards.
func (fk *ForeignKeyConstraint) Apply(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	clause := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		clause += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return q.ForeignKey(clause, bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
}

// ForeignKeyManager holds the constraints declared when tables are created.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager creates a manager with code-defined constraints.
func NewForeignKeyManager(logger Logger) *ForeignKeyManager {
	return &ForeignKeyManager{
		constraints: DefaultForeignKeyConstraints(),
		logger:      logger,
	}
}

// DefaultForeignKeyConstraints links statuses to boards, projects to boards
// and tickets to projects and statuses. Deletes are not cascaded.
func DefaultForeignKeyConstraints() []ForeignKeyConstraint {
	return []ForeignKeyConstraint{
		{Table: "kanban_statuses", Column: "board_id", ReferenceTable: "kanban_boards", ReferenceColumn: "id"},
		{Table: "projects", Column: "kanban_board_id", ReferenceTable: "kanban_boards", ReferenceColumn: "id"},
		{Table: "tickets", Column: "project_id", ReferenceTable: "projects", ReferenceColumn: "id"},
		{Table: "tickets", Column: "kanban_status_id", ReferenceTable: "kanban_statuses", ReferenceColumn: "id"},
	}
}

// ApplyToTable adds every constraint of table to the CREATE TABLE query.
func (fkm *ForeignKeyManager) ApplyToTable(q *bun.CreateTableQuery, table string) *bun.CreateTableQuery {
	for _, constraint := range fkm.GetConstraintsByTable(table) {
		q = constraint.Apply(q)
		if fkm.logger != nil {
			fkm.logger.Debug("Declaring foreign key constraint", "constraint", constraint.Name())
		}
	}
	return q
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

var validReferentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ValidateConstraints checks the configured constraints for common issues.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, constraint := range fkm.constraints {
		if constraint.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if constraint.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", constraint.Table))
		}
		if constraint.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", constraint.Table, constraint.Column))
		}
		if constraint.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", constraint.Table, constraint.Column, constraint.ReferenceTable))
		}
		for _, action := range []string{constraint.OnDelete, constraint.OnUpdate} {
			if action != "" && !isReferentialAction(action) {
				errs = append(errs, fmt.Errorf("invalid referential action: %s, constraint: %s", action, constraint.Name()))
			}
		}
	}
	return errs
}

func isReferentialAction(action string) bool {
	for _, valid := range validReferentialActions {
		if strings.EqualFold(action, valid) {
			return true
		}
	}
	return false
}
