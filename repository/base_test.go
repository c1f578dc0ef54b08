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

package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/model"
	"github.com/tomoncle/kanban/repository"
)

func newTestManager(t *testing.T) database.AbstractDatabaseManager {
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
	return manager
}

type fixture struct {
	sessions *database.SessionProvider
	boards   *repository.KanbanBoardRepository
	statuses *repository.KanbanStatusRepository
	projects *repository.ProjectRepository
	tickets  *repository.TicketRepository
}

func newFixture(t *testing.T) *fixture {
	sessions := newTestManager(t).Sessions()
	return &fixture{
		sessions: sessions,
		boards:   repository.NewKanbanBoardRepository(sessions),
		statuses: repository.NewKanbanStatusRepository(sessions),
		projects: repository.NewProjectRepository(sessions),
		tickets:  repository.NewTicketRepository(sessions),
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) seedTicket(t *testing.T) *model.Ticket {
	t.Helper()
	ctx := context.Background()
	board, err := f.boards.Create(ctx, model.KanbanBoardCreate{Name: "Board A"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	status, err := f.statuses.Create(ctx, model.KanbanStatusCreate{Name: "To Do", BoardID: board.ID})
	if err != nil {
		t.Fatalf("create status: %v", err)
	}
	project, err := f.projects.Create(ctx, model.ProjectCreate{Name: "Apollo", KanbanBoardID: &board.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	ticket, err := f.tickets.Create(ctx, model.TicketCreate{
		ProjectID:      project.ID,
		Title:          "Old",
		Description:    "first ticket",
		Status:         "open",
		Priority:       "high",
		KanbanStatusID: status.ID,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func assertNotFound(t *testing.T, err error, kind string, id int64) {
	t.Helper()
	var nf *repository.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Kind != kind || nf.ID != id {
		t.Errorf("not found = %+v, want kind %q id %d", nf, kind, id)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		t.Error("error should match ErrNotFound")
	}
	if errors.Is(err, repository.ErrStorage) {
		t.Error("not found must not be reported as a storage failure")
	}
}

func assertStorageError(t *testing.T, err error, op string, reason database.SQLError) {
	t.Helper()
	var se *repository.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StorageError", err)
	}
	if se.Op != op {
		t.Errorf("op = %q, want %q", se.Op, op)
	}
	if se.Reason != reason {
		t.Errorf("reason = %v, want %v", se.Reason, reason)
	}
	if !errors.Is(err, repository.ErrStorage) {
		t.Error("error should match ErrStorage")
	}
}

func TestCreateBoard(t *testing.T) {
	f := newFixture(t)

	board, err := f.boards.Create(context.Background(), model.KanbanBoardCreate{Name: "Board A", Description: strPtr("desc")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if board.ID != 1 {
		t.Errorf("id = %d, want 1", board.ID)
	}
	if board.Name != "Board A" || board.Description == nil || *board.Description != "desc" {
		t.Errorf("board = %+v", board)
	}
	if board.CreatedAt.IsZero() || board.UpdatedAt.IsZero() {
		t.Error("timestamps should be assigned on insert")
	}
	if !board.CreatedAt.Equal(board.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v on a new row", board.CreatedAt, board.UpdatedAt)
	}
}

func TestCreateAssignsUnusedIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for _, name := range []string{"a", "b", "c"} {
		p, err := f.projects.Create(ctx, model.ProjectCreate{Name: name})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if seen[p.ID] {
			t.Fatalf("id %d assigned twice", p.ID)
		}
		seen[p.ID] = true
		if p.Name != name || p.Description != nil || p.KanbanBoardID != nil {
			t.Errorf("project = %+v", p)
		}
	}
}

func TestCreateStatusForeignKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	board, err := f.boards.Create(ctx, model.KanbanBoardCreate{Name: "Board A"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	status, err := f.statuses.Create(ctx, model.KanbanStatusCreate{Name: "To Do", BoardID: board.ID})
	if err != nil {
		t.Fatalf("create status: %v", err)
	}
	if status.Description != nil || status.BoardID != board.ID {
		t.Errorf("status = %+v", status)
	}

	_, err = f.statuses.Create(ctx, model.KanbanStatusCreate{Name: "To Do", BoardID: 999})
	assertStorageError(t, err, repository.OpCreate, database.ForeignKeyViolationErr)

	all, err := f.statuses.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("failed create left %d rows, want 1", len(all))
	}
}

func TestGetAllEmpty(t *testing.T) {
	f := newFixture(t)

	tickets, err := f.tickets.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if tickets == nil || len(tickets) != 0 {
		t.Errorf("tickets = %#v, want empty non-nil slice", tickets)
	}
}

func TestGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.seedTicket(t)
	got, err := f.tickets.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("get = %+v, want %+v", got, created)
	}

	all, err := f.tickets.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 || !reflect.DeepEqual(all[0], created) {
		t.Errorf("get all = %+v", all)
	}
}

func TestRetrieveStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.seedTicket(t)
	if _, err := f.sessions.DB().ExecContext(ctx, "DROP TABLE tickets"); err != nil {
		t.Fatalf("drop tickets: %v", err)
	}

	_, err := f.tickets.Get(ctx, ticket.ID)
	assertStorageError(t, err, repository.OpGet, database.NoTableErr)

	_, err = f.tickets.GetAll(ctx)
	assertStorageError(t, err, repository.OpGetAll, database.NoTableErr)

	if n := f.sessions.Active(); n != 0 {
		t.Errorf("active sessions = %d, want 0", n)
	}
}

func TestMissingIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tickets.Get(ctx, 42)
	assertNotFound(t, err, "Ticket", 42)
	if err.Error() != "Ticket with id 42 not found" {
		t.Errorf("message = %q", err.Error())
	}

	_, err = f.boards.Update(ctx, 42, model.KanbanBoardPatch{Name: model.Some("x")})
	assertNotFound(t, err, "Kanban Board", 42)

	err = f.statuses.Delete(ctx, 42)
	assertNotFound(t, err, "Kanban Status", 42)

	_, err = f.projects.Update(ctx, 7, model.ProjectPatch{})
	assertNotFound(t, err, "Project", 7)
}

func TestDeleteTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, model.ProjectCreate{Name: "temp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertNotFound(t, f.projects.Delete(ctx, p.ID), "Project", p.ID)

	_, err = f.projects.Get(ctx, p.ID)
	assertNotFound(t, err, "Project", p.ID)
}

func TestPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := f.seedTicket(t)

	updated, err := f.tickets.Update(ctx, original.ID, model.TicketPatch{Title: model.Some("New title")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("title = %q", updated.Title)
	}

	got, err := f.tickets.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := *original
	want.Title = "New title"
	want.UpdatedAt = got.UpdatedAt
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("get = %+v, want %+v", *got, want)
	}
	if got.UpdatedAt.Before(original.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", got.UpdatedAt, original.UpdatedAt)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Error("created_at must not change on update")
	}
}

func TestUpdateClearsNullableField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	board, err := f.boards.Create(ctx, model.KanbanBoardCreate{Name: "b", Description: strPtr("d")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := f.boards.Update(ctx, board.ID, model.KanbanBoardPatch{Description: model.Some[*string](nil)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != nil || updated.Name != "b" {
		t.Errorf("board = %+v", updated)
	}
}

func TestEmptyPatchReturnsCurrentRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	board, err := f.boards.Create(ctx, model.KanbanBoardCreate{Name: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.boards.Update(ctx, board.ID, model.KanbanBoardPatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(got, board) {
		t.Errorf("update = %+v, want %+v", got, board)
	}
}

func TestUpdateForeignKeyViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.seedTicket(t)

	_, err := f.tickets.Update(ctx, ticket.ID, model.TicketPatch{
		Title:          model.Some("moved"),
		KanbanStatusID: model.Some[int64](999),
	})
	assertStorageError(t, err, repository.OpUpdate, database.ForeignKeyViolationErr)

	got, err := f.tickets.Get(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Old" || got.KanbanStatusID != ticket.KanbanStatusID {
		t.Errorf("rolled back update leaked: %+v", got)
	}
}

func TestDeleteReferencedRowFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.seedTicket(t)

	err := f.projects.Delete(ctx, ticket.ProjectID)
	assertStorageError(t, err, repository.OpDelete, database.ForeignKeyViolationErr)

	if _, err := f.projects.Get(ctx, ticket.ProjectID); err != nil {
		t.Errorf("project should survive the failed delete: %v", err)
	}
}

func TestSessionsAreReleased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.seedTicket(t)

	_, _ = f.tickets.Get(ctx, ticket.ID)
	_, _ = f.tickets.Get(ctx, 999)
	_, _ = f.statuses.Create(ctx, model.KanbanStatusCreate{Name: "x", BoardID: 999})
	_ = f.projects.Delete(ctx, ticket.ProjectID)

	if active := f.sessions.Active(); active != 0 {
		t.Errorf("active sessions = %d, want 0", active)
	}
}

func TestConcurrentCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := f.boards.Create(ctx, model.KanbanBoardCreate{Name: "parallel"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- b.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("created %d boards, want %d", len(seen), n)
	}
	if active := f.sessions.Active(); active != 0 {
		t.Errorf("active sessions = %d, want 0", active)
	}
}

func TestConnectionError(t *testing.T) {
	manager := newTestManager(t)
	boards := repository.NewKanbanBoardRepository(manager.Sessions())
	if err := manager.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	_, err := boards.GetAll(context.Background())
	if !errors.Is(err, database.ErrConnection) {
		t.Fatalf("error = %v, want ErrConnection", err)
	}
	var ce *database.ConnectionError
	if !errors.As(err, &ce) {
		t.Error("error should be a *database.ConnectionError")
	}
	if errors.Is(err, repository.ErrStorage) {
		t.Error("connection failures are not storage failures")
	}
}

func TestNilProviderIsConnectionError(t *testing.T) {
	projects := repository.NewProjectRepository(nil)
	if _, err := projects.Get(context.Background(), 1); !errors.Is(err, database.ErrConnection) {
		t.Errorf("error = %v, want ErrConnection", err)
	}
}
