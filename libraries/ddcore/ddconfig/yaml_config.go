// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ddconfig

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dolthub/dictionary/store/rowstore"
)

const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendMySQL  = "mysql"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// StoreYAMLConfig selects and configures the row store backing the dictionary.
type StoreYAMLConfig struct {
	Backend string `yaml:"backend,omitempty" default:"memory"`
	// Path is the bolt file, used by the bolt backend.
	Path string `yaml:"path,omitempty" default:"dictionary.db"`
	// DSN is the MySQL data source name, used by the mysql backend.
	DSN               string `yaml:"dsn,omitempty"`
	OpenTimeoutMillis uint64 `yaml:"open_timeout_millis,omitempty" default:"1000"`
	// OpenRetries is how many times opening the store is retried after the first attempt.
	OpenRetries         uint64 `yaml:"open_retries,omitempty" default:"3"`
	RetryIntervalMillis uint64 `yaml:"retry_interval_millis,omitempty" default:"100"`
}

type CacheYAMLConfig struct {
	Size int `yaml:"size,omitempty" default:"256"`
}

type MetricsYAMLConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Namespace string `yaml:"namespace,omitempty" default:"dd"`
}

// YAMLConfig is the configuration of a dictionary, as read from a YAML file. Fields missing from the file keep
// their defaults.
type YAMLConfig struct {
	LogLevel  string            `yaml:"log_level,omitempty" default:"info"`
	LogFormat string            `yaml:"log_format,omitempty" default:"text"`
	Store     StoreYAMLConfig   `yaml:"store,omitempty"`
	Cache     CacheYAMLConfig   `yaml:"cache,omitempty"`
	Metrics   MetricsYAMLConfig `yaml:"metrics,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *YAMLConfig {
	var cfg YAMLConfig
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// NewYAMLConfig parses configFileData, rejecting unknown keys, and validates the result.
func NewYAMLConfig(configFileData []byte) (*YAMLConfig, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(configFileData))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAMLConfigFromFile reads and parses the config file at path.
func YAMLConfigFromFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg, err := NewYAMLConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return cfg, nil
}

func (cfg *YAMLConfig) Validate() error {
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	switch cfg.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log_format '%s', expected '%s' or '%s'", cfg.LogFormat, LogFormatText, LogFormatJSON)
	}

	switch cfg.Store.Backend {
	case BackendMemory:
	case BackendBolt:
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required by the %s backend", BackendBolt)
		}
	case BackendMySQL:
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required by the %s backend", BackendMySQL)
		}
	default:
		return rowstore.ErrUnknownBackend.New(cfg.Store.Backend)
	}

	if cfg.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", cfg.Cache.Size)
	}
	return nil
}

func (cfg *YAMLConfig) OpenTimeout() time.Duration {
	return time.Duration(cfg.Store.OpenTimeoutMillis) * time.Millisecond
}

func (cfg *YAMLConfig) RetryInterval() time.Duration {
	return time.Duration(cfg.Store.RetryIntervalMillis) * time.Millisecond
}

// String returns the config as YAML.
func (cfg *YAMLConfig) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "Failed to marshal as yaml: " + err.Error()
	}
	return string(data)
}
