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
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/kanban/model"
	"github.com/tomoncle/kanban/repository"
)

// createInput is a create body that can also act as a full replacement patch.
type createInput[P any] interface {
	Patch() P
}

type patchInput interface {
	Validate() error
}

// resource serves the CRUD routes of one entity.
type resource[T any, C createInput[P], P patchInput] struct {
	repo repository.Repository[T, C, P]
}

func registerResource[T any, C createInput[P], P patchInput](g *echo.Group, repo repository.Repository[T, C, P]) {
	r := &resource[T, C, P]{repo: repo}
	for _, root := range []string{"", "/"} {
		g.POST(root, r.create)
		g.GET(root, r.list)
	}
	g.GET("/:id", r.get)
	g.PUT("/:id", r.replace)
	g.PATCH("/:id", r.patch)
	g.DELETE("/:id", r.delete)
}

func (r *resource[T, C, P]) create(c echo.Context) error {
	var in C
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	entity, err := r.repo.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entity)
}

func (r *resource[T, C, P]) list(c echo.Context) error {
	entities, err := r.repo.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entities)
}

func (r *resource[T, C, P]) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entity, err := r.repo.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

// replace overwrites every field with the values of a create body.
func (r *resource[T, C, P]) replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in C
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	entity, err := r.repo.Update(c.Request().Context(), id, in.Patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

func (r *resource[T, C, P]) patch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in P
	if err := c.Bind(&in); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	entity, err := r.repo.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

func (r *resource[T, C, P]) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindAndValidate(c echo.Context, in any) error {
	if err := c.Bind(in); err != nil {
		return err
	}
	return c.Validate(in)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "id", Message: "must be an integer"}
	}
	return id, nil
}
