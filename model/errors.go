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

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func requireText(field string, o Option[string], max int) error {
	if !o.Has() {
		return nil
	}
	v := o.Value()
	if v == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	if max > 0 && len([]rune(v)) > max {
		return &ValidationError{Field: field, Message: "is too long"}
	}
	return nil
}

func requireID(field string, o Option[int64]) error {
	if o.Has() && o.Value() <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive id"}
	}
	return nil
}

func optionalID(field string, o Option[*int64]) error {
	if o.Has() && o.Value() != nil && *o.Value() <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive id"}
	}
	return nil
}
