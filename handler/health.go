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
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/kanban/database"
)

// HealthFunc reports the state of the backing store.
type HealthFunc func(ctx context.Context) *database.HealthStatus

func healthHandler(check HealthFunc) echo.HandlerFunc {
	if check == nil {
		check = database.GetHealthStatus
	}
	return func(c echo.Context) error {
		status := check(c.Request().Context())
		if status == nil || !status.Healthy {
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		return c.JSON(http.StatusOK, status)
	}
}
