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
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/kanban/metrics"
	"github.com/tomoncle/kanban/utils"
)

var log = utils.NewLogger("HTTP")

// RequestLogger logs and measures every request. Errors are handed to the
// echo error handler first so the logged status is the one sent.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			req, res := c.Request(), c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveRequest(req.Method, route, res.Status, elapsed)

			log.WithFields(logrus.Fields{
				"req_method":   req.Method,
				"req_uri":      req.RequestURI,
				"status_code":  res.Status,
				"latency_time": elapsed.String(),
				"client_ip":    c.RealIP(),
				"request_id":   res.Header().Get(echo.HeaderXRequestID),
			}).Info("http request")
			return nil
		}
	}
}
