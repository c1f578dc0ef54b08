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

package repository

import (
	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/model"
)

type ProjectRepository = EntityRepository[model.Project, *model.Project, model.ProjectCreate, model.ProjectPatch]

var _ Repository[model.Project, model.ProjectCreate, model.ProjectPatch] = (*ProjectRepository)(nil)

func NewProjectRepository(sessions *database.SessionProvider) *ProjectRepository {
	return newEntityRepository[model.Project, *model.Project, model.ProjectCreate, model.ProjectPatch](sessions)
}
