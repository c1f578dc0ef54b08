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

import "github.com/tomoncle/kanban/database"

// Creation order follows the foreign keys: boards, statuses, projects, tickets.
func init() {
	database.RegisteredModel(database.NewModelAdapter((*KanbanBoard)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*KanbanStatus)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*Project)(nil), 30))
	database.RegisteredModel(database.NewModelAdapter((*Ticket)(nil), 40))
}
