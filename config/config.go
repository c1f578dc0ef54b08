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

// Package config loads the application configuration from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tomoncle/kanban/database"
	"github.com/tomoncle/kanban/utils"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no file is given on the command line.
const DefaultPath = "configs/config.yaml"

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Database database.Config `yaml:"database"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080", ShutdownTimeout: 30 * time.Second},
		Log:      LogConfig{Level: "info", Format: utils.FormatText},
		Database: *database.DefaultConfig(),
	}
}

// Load reads path over the defaults. A missing file is not an error, the
// defaults and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = utils.EnvDefaultString("SERVER_ADDR", c.Server.Addr)
	c.Log.Level = utils.EnvDefaultString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.EnvDefaultString("LOG_FORMAT", c.Log.Format)
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	switch c.Log.Format {
	case utils.FormatText, utils.FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	return nil
}

// ConfigLoader returns the database section in the shape the database
// package expects.
func (c *Config) ConfigLoader() *database.Config {
	db := c.Database
	return &db
}

// ApplyLogging configures every named logger from the log section.
func (c *Config) ApplyLogging() {
	utils.ConfigureLogFormat(c.Log.Format)
	utils.ConfigureLogLevel(c.Log.Level)
}
