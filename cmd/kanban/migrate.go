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
	"fmt"

	"github.com/tomoncle/kanban/database"
	"github.com/urfave/cli/v2"
)

var cmdMigrate = &cli.Command{
	Name:   "migrate",
	Usage:  "Create or upgrade the database schema",
	Action: runMigrate,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "export-foreign-keys",
			Usage: "Write the foreign key constraints in use to this YAML file",
		},
	},
}

var cmdSeed = &cli.Command{
	Name:   "seed",
	Usage:  "Execute the seed SQL files of the configured environment",
	Action: runSeed,
}

func runMigrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dbCfg := cfg.ConfigLoader()
	db, err := database.InitDatabaseWithOptions(c.Context, dbCfg, true)
	if err != nil {
		return err
	}
	defer database.CloseDB()

	applied, err := database.NewMigrationManager(db, database.GetLogger(), dbCfg.DataMigrateConfig, dbCfg.DataInitConfig).
		GetAppliedMigrations(c.Context)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, m := range applied {
		log.Infof("%s %s applied at %s", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}

	if path := c.String("export-foreign-keys"); path != "" {
		fk := database.NewConfigurableForeignKeyManager(database.GetLogger(), dbCfg.DataMigrateConfig.ForeignKeyFile)
		if err := fk.ExportToConfig(path); err != nil {
			return err
		}
		log.Infof("foreign keys written to %s", path)
	}
	return nil
}

func runSeed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if _, err := database.InitDatabaseWithOptions(c.Context, cfg.ConfigLoader(), true); err != nil {
		return err
	}
	defer database.CloseDB()

	if err := database.InitData(c.Context); err != nil {
		return err
	}
	log.Info("seed data loaded")
	return nil
}
