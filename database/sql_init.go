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
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const commonSQLDir = "common"

var sqlFileOrder = regexp.MustCompile(`^(\d+)_`)

// SQLInitManager discovers and executes seed SQL files. Files under
// <root>/common run first, then <root>/environments/<env>, each group ordered
// by its numeric NNN_ prefix.
type SQLInitManager struct {
	db          bun.IDB
	environment string
	sqlRootPath string
	logger      Logger
}

type SQLFileInfo struct {
	Path        string
	Name        string
	Order       int
	Environment string
}

type ExecutionResult struct {
	File         string
	Error        error
	Duration     time.Duration
	RowsAffected int64
}

func NewSQLInitManager(db bun.IDB, environment string) *SQLInitManager {
	return &SQLInitManager{
		db:          db,
		environment: environment,
		sqlRootPath: "configs/sql",
		logger:      GetLogger(),
	}
}

func (s *SQLInitManager) SetSQLRootPath(path string) {
	s.sqlRootPath = path
}

// ExecuteInitialization runs every discovered file, each in its own
// transaction, and stops at the first failure.
func (s *SQLInitManager) ExecuteInitialization(ctx context.Context) error {
	s.logger.Info("Starting SQL initialization", "environment", s.environment, "sql_path", s.sqlRootPath)

	files, err := s.GetSQLFiles()
	if err != nil {
		return fmt.Errorf("failed to get SQL files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute")
		return nil
	}

	for _, file := range files {
		result := s.executeFile(ctx, file)
		if result.Error != nil {
			s.logger.Error("SQL file execution failed", "file", result.File, "error", result.Error.Error())
			return fmt.Errorf("SQL file execution failed %s: %w", result.File, result.Error)
		}
		s.logger.Info("SQL file executed successfully",
			"file", result.File,
			"duration", result.Duration.String(),
			"rows_affected", result.RowsAffected)
	}

	s.logger.Info("SQL initialization completed", "total_files", len(files), "environment", s.environment)
	return nil
}

// GetSQLFiles returns the list of SQL files from the common and environment
// directories. A missing common directory is not an error.
func (s *SQLInitManager) GetSQLFiles() ([]SQLFileInfo, error) {
	commonFiles, err := s.getFilesFromDir(filepath.Join(s.sqlRootPath, commonSQLDir), commonSQLDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get common SQL files: %w", err)
	}
	var envFiles []SQLFileInfo
	if s.environment != "" {
		envFiles, err = s.getFilesFromDir(filepath.Join(s.sqlRootPath, "environments", s.environment), s.environment)
		if err != nil {
			return nil, fmt.Errorf("failed to get environment SQL files: %w", err)
		}
	}
	return append(commonFiles, envFiles...), nil
}

func (s *SQLInitManager) getFilesFromDir(dir, environment string) ([]SQLFileInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []SQLFileInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, SQLFileInfo{
			Path:        path,
			Name:        d.Name(),
			Order:       parseFileOrder(d.Name()),
			Environment: environment,
		})
		return nil
	})
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, err
}

// parseFileOrder reads the NNN_ prefix; unprefixed files run last.
func parseFileOrder(filename string) int {
	matches := sqlFileOrder.FindStringSubmatch(filename)
	if len(matches) > 1 {
		if order, err := strconv.Atoi(matches[1]); err == nil {
			return order
		}
	}
	return 999
}

func (s *SQLInitManager) executeFile(ctx context.Context, file SQLFileInfo) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: file.Path}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	statements := splitSQLStatements(string(content))
	if len(statements) > 0 {
		result.Error = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range statements {
				res, execErr := tx.ExecContext(ctx, stmt)
				if execErr != nil {
					return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
				}
				rowsAffected, _ := res.RowsAffected()
				result.RowsAffected += rowsAffected
			}
			return nil
		})
	}

	result.Duration = time.Since(start)
	return result
}

// splitSQLStatements splits on lines ending with ';' and drops '--' comments.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
