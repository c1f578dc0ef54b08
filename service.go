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

// Package kanban wires the entity repositories into a single service used by
// the HTTP layer and the command line.
package kanban

import (
	"sync"

	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/repository"
)

// Service owns one repository per entity, all sharing a session provider.
type Service struct {
	Projects       *repository.ProjectRepository
	Tickets        *repository.TicketRepository
	KanbanBoards   *repository.KanbanBoardRepository
	KanbanStatuses *repository.KanbanStatusRepository

	sessions *database.SessionProvider
}

func NewService(sessions *database.SessionProvider) *Service {
	return &Service{
		Projects:       repository.NewProjectRepository(sessions),
		Tickets:        repository.NewTicketRepository(sessions),
		KanbanBoards:   repository.NewKanbanBoardRepository(sessions),
		KanbanStatuses: repository.NewKanbanStatusRepository(sessions),
		sessions:       sessions,
	}
}

// Sessions returns the provider backing the repositories.
func (s *Service) Sessions() *database.SessionProvider {
	return s.sessions
}

var (
	defaultService *Service
	defaultMu      sync.Mutex
)

// Default returns the service bound to the global database. The provider is
// looked up on every call, so a service obtained before database.InitDB fails
// with a connection error while later calls see the initialized database.
func Default() *Service {
	sessions := database.GetSessionProvider()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultService == nil || defaultService.sessions != sessions {
		defaultService = NewService(sessions)
	}
	return defaultService
}
