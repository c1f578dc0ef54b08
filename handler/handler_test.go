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

package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/kanban"
	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/handler"
)

type testServer struct {
	e       *echo.Echo
	manager database.AbstractDatabaseManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "kanban")

	ctx := context.Background()
	manager := database.NewDatabaseManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = manager.Disconnect() })
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := kanban.NewService(manager.Sessions())
	return &testServer{e: handler.NewRouter(svc, manager.HealthCheck), manager: manager}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, code, rec.Body.String())
	}
	body := decode[handler.ErrorBody](t, rec)
	if len(body.Errors) != 1 {
		t.Fatalf("errors = %v", body.Errors)
	}
	if msg != "" && body.Errors[0] != msg {
		t.Errorf("error = %q, want %q", body.Errors[0], msg)
	}
}

type boardBody struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ticketBody struct {
	ID             int64  `json:"id"`
	ProjectID      int64  `json:"project_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	KanbanStatusID int64  `json:"kanban_status_id"`
}

func TestBoardLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/kanbanboards", `{"name":"Board A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	board := decode[boardBody](t, rec)
	if board.ID != 1 || board.Name != "Board A" || board.Description != nil {
		t.Errorf("board = %+v", board)
	}
	if board.CreatedAt == "" || board.CreatedAt != board.UpdatedAt {
		t.Errorf("new board timestamps differ: %+v", board)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/kanbanboards/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if list := decode[[]boardBody](t, rec); len(list) != 1 || list[0].ID != board.ID {
		t.Errorf("list = %+v", list)
	}

	rec = s.do(t, http.MethodPatch, "/api/v1/kanbanboards/1", `{"description":"main board"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	patched := decode[boardBody](t, rec)
	if patched.Name != "Board A" || patched.Description == nil || *patched.Description != "main board" {
		t.Errorf("patched = %+v", patched)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/kanbanboards/1", `{"name":"Board B"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	replaced := decode[boardBody](t, rec)
	if replaced.Name != "Board B" || replaced.Description != nil {
		t.Errorf("replaced = %+v", replaced)
	}

	rec = s.do(t, http.MethodDelete, "/api/v1/kanbanboards/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	expectError(t, s.do(t, http.MethodGet, "/api/v1/kanbanboards/1", ""), http.StatusNotFound, "Kanban Board with id 1 not found")
}

func TestEmptyListIsArray(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/tickets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestTicketPartialUpdate(t *testing.T) {
	s := newTestServer(t)
	for _, req := range []struct{ path, body string }{
		{"/api/v1/kanbanboards", `{"name":"Board A"}`},
		{"/api/v1/kanbanstatuses", `{"name":"To Do","board_id":1}`},
		{"/api/v1/projects", `{"name":"Apollo","kanban_board_id":1}`},
		{"/api/v1/tickets", `{"project_id":1,"title":"Old","description":"d","status":"open","priority":"high","kanban_status_id":1}`},
	} {
		if rec := s.do(t, http.MethodPost, req.path, req.body); rec.Code != http.StatusCreated {
			t.Fatalf("POST %s = %d: %s", req.path, rec.Code, rec.Body.String())
		}
	}

	rec := s.do(t, http.MethodPatch, "/api/v1/tickets/1", `{"title":"New"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	ticket := decode[ticketBody](t, rec)
	if ticket.Title != "New" || ticket.Status != "open" || ticket.Priority != "high" || ticket.KanbanStatusID != 1 {
		t.Errorf("ticket = %+v", ticket)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	expectError(t, s.do(t, http.MethodGet, "/api/v1/tickets/42", ""), http.StatusNotFound, "Ticket with id 42 not found")
	expectError(t, s.do(t, http.MethodPatch, "/api/v1/projects/7", `{"name":"x"}`), http.StatusNotFound, "Project with id 7 not found")
	expectError(t, s.do(t, http.MethodDelete, "/api/v1/kanbanstatuses/3", ""), http.StatusNotFound, "Kanban Status with id 3 not found")
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	expectError(t, s.do(t, http.MethodPost, "/api/v1/kanbanboards", `{"description":"no name"}`), http.StatusUnprocessableEntity, "name: failed on 'required' validation")
	expectError(t, s.do(t, http.MethodGet, "/api/v1/kanbanboards/abc", ""), http.StatusUnprocessableEntity, "id: must be an integer")

	if rec := s.do(t, http.MethodPost, "/api/v1/kanbanboards", `{"name":"Board A"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	expectError(t, s.do(t, http.MethodPatch, "/api/v1/kanbanboards/1", `{"name":""}`), http.StatusUnprocessableEntity, "name: must not be empty")
}

func TestMalformedBodyHidesDecoderText(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`{"name":`, `{"name": bad}`, `{"name": 12}`} {
		rec := s.do(t, http.MethodPost, "/api/v1/kanbanboards", body)
		expectError(t, rec, http.StatusBadRequest, "Invalid request body.")
		if strings.Contains(rec.Body.String(), "offset") || strings.Contains(rec.Body.String(), "Unmarshal") {
			t.Errorf("body %q leaks decoder details: %s", body, rec.Body.String())
		}
	}
}

func TestStorageFailureHidesDetails(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/kanbanstatuses", `{"name":"To Do","board_id":999}`)
	expectError(t, rec, http.StatusInternalServerError, "A database error occurred.")
	if strings.Contains(rec.Body.String(), "FOREIGN KEY") {
		t.Errorf("body leaks store details: %s", rec.Body.String())
	}
}

func TestConnectionFailure(t *testing.T) {
	s := newTestServer(t)
	if err := s.manager.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	expectError(t, s.do(t, http.MethodGet, "/api/v1/projects", ""), http.StatusServiceUnavailable, "Database unavailable.")

	rec := s.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d: %s", rec.Code, rec.Body.String())
	}
	if status := decode[database.HealthStatus](t, rec); !status.Healthy {
		t.Errorf("status = %+v", status)
	}

	s.do(t, http.MethodGet, "/api/v1/kanbanboards", "")
	rec = s.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"kanban_http_requests_total", "kanban_repository_operations_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	expectError(t, s.do(t, http.MethodGet, "/api/v1/nope", ""), http.StatusNotFound, "Not Found")
}
