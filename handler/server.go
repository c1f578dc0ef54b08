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

package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tomoncle/kanban"
	"github.com/tomoncle/kanban/metrics"
	"github.com/tomoncle/kanban/model"
)

// APIPrefix is the mount point of the resource routes.
const APIPrefix = "/api/v1"

// NewRouter builds the echo instance serving the kanban API on top of svc.
// A nil health func falls back to the process wide database.
func NewRouter(svc *kanban.Service, health HealthFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewAppValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	e.GET("/health", healthHandler(health))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group(APIPrefix)
	registerResource[model.Project, model.ProjectCreate, model.ProjectPatch](api.Group("/projects"), svc.Projects)
	registerResource[model.Ticket, model.TicketCreate, model.TicketPatch](api.Group("/tickets"), svc.Tickets)
	registerResource[model.KanbanBoard, model.KanbanBoardCreate, model.KanbanBoardPatch](api.Group("/kanbanboards"), svc.KanbanBoards)
	registerResource[model.KanbanStatus, model.KanbanStatusCreate, model.KanbanStatusPatch](api.Group("/kanbanstatuses"), svc.KanbanStatuses)

	return e
}
