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
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/model"
	"github.com/tomoncle/kanban/repository"
)

const (
	msgStorageFailure = "A database error occurred."
	msgUnavailable    = "Database unavailable."
	msgInternal       = "Internal server error."
	msgBadRequest     = "Invalid request body."
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Errors []string `json:"errors"`
}

// HTTPErrorHandler maps repository and validation errors to status codes.
// Store details are logged, never returned to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := mapError(err)
	entry := log.WithFields(logrus.Fields{
		"req_method":  c.Request().Method,
		"req_uri":     c.Request().RequestURI,
		"status_code": status,
	}).WithError(err)
	switch {
	case status >= http.StatusInternalServerError:
		entry.Error("request failed")
	case status == http.StatusBadRequest:
		entry.Warn("request rejected")
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(status)
	} else {
		sendErr = c.JSON(status, ErrorBody{Errors: []string{msg}})
	}
	if sendErr != nil {
		log.WithError(sendErr).Error("failed to send error response")
	}
}

func mapError(err error) (int, string) {
	var (
		echoErr       *echo.HTTPError
		notFound      *repository.NotFoundError
		validationErr *model.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Error()
	case errors.Is(err, database.ErrConnection):
		return http.StatusServiceUnavailable, msgUnavailable
	case errors.Is(err, repository.ErrStorage):
		return http.StatusInternalServerError, msgStorageFailure
	case errors.As(err, &echoErr) && echoErr.Code == http.StatusBadRequest:
		// decoder text stays in the log
		return http.StatusBadRequest, msgBadRequest
	case errors.As(err, &echoErr):
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = fmt.Sprint(echoErr.Message)
		}
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, msg
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
