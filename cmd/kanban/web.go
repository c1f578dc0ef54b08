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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomoncle/kanban"
	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/handler"
	"github.com/urfave/cli/v2"
)

var cmdWeb = &cli.Command{
	Name:   "web",
	Usage:  "Start the HTTP server",
	Action: runWeb,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address, overrides server.addr",
		},
	},
}

func runWeb(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	if _, err := database.InitDB(c.Context, cfg.ConfigLoader()); err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()

	svc := kanban.NewService(database.GetSessionProvider())
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(svc, database.GetHealthStatus),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
