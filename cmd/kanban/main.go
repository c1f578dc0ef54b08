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

// Command kanban serves the project, ticket and kanban API and manages its
// database schema.
package main

import (
	"fmt"
	"os"

	"github.com/tomoncle/kanban/config"
	"github.com/tomoncle/kanban/utils"
	"github.com/urfave/cli/v2"
)

var log = utils.NewLogger("MAIN")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Error("kanban exited")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kanban",
		Usage: "Projects, tickets and kanban boards over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				EnvVars: []string{"CONFIG_FILE"},
				Value:   config.DefaultPath,
			},
		},
		DefaultCommand: cmdWeb.Name,
		Commands: []*cli.Command{
			cmdWeb,
			cmdMigrate,
			cmdSeed,
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg.ApplyLogging()
	return cfg, nil
}
