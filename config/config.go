// Copyright 2025 Poiesic Systems
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

// Package config loads worker settings from defaults, an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/ingestion"
	"github.com/poiesic/ragengine/storage/postgres"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// SensitiveString is a string that is redacted when printed.
type SensitiveString string

// String returns a redacted placeholder for non-empty values.
func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

// Config is the complete worker configuration.
type Config struct {
	Store       StoreConfig       `koanf:"store"`
	Structuring StructuringConfig `koanf:"structuring"`
	Embedding   EmbeddingConfig   `koanf:"embedding"`
	Encryption  EncryptionConfig  `koanf:"encryption"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Log         LogConfig         `koanf:"log"`
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	Driver      string          `koanf:"driver"       validate:"oneof=postgres badger"          env:"RAGENGINE_STORE_DRIVER"`
	DatabaseURL SensitiveString `koanf:"database_url" validate:"required_if=Driver postgres"    env:"APP_DATABASE_URL"`
	Path        string          `koanf:"path"         validate:"required_if=Driver badger"      env:"RAGENGINE_STORE_PATH"`
	MaxConns    int             `koanf:"max_conns"    validate:"min=0,max=1000"                 env:"RAGENGINE_STORE_MAX_CONNS"`
	Migrate     bool            `koanf:"migrate"                                                env:"RAGENGINE_STORE_MIGRATE"`
}

// StructuringConfig configures the structuring service client.
type StructuringConfig struct {
	Endpoint string        `koanf:"endpoint" validate:"required,url" env:"UNSTRUCTURED_ENDPOINT"`
	Timeout  time.Duration `koanf:"timeout"  validate:"gt=0"         env:"RAGENGINE_STRUCTURING_TIMEOUT"`
}

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	Timeout    time.Duration `koanf:"timeout"    validate:"gt=0"  env:"RAGENGINE_EMBEDDING_TIMEOUT"`
	Dimensions int           `koanf:"dimensions" validate:"min=0" env:"RAGENGINE_EMBEDDING_DIMENSIONS"`
	CacheSize  int           `koanf:"cache_size" validate:"min=1" env:"RAGENGINE_EMBEDDING_CACHE_SIZE"`
}

// EncryptionConfig holds the optional tenant key.
type EncryptionConfig struct {
	CustomerKey SensitiveString `koanf:"customer_key" env:"CUSTOMER_KEY"`
}

// SchedulerConfig sets the pause between cycles.
type SchedulerConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0" env:"RAGENGINE_SCHEDULER_INTERVAL"`
}

// MetricsConfig sets the Prometheus listen address. Empty disables the endpoint.
type MetricsConfig struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port" env:"RAGENGINE_METRICS_ADDR"`
}

// LogConfig sets logger level and output format.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error" env:"RAGENGINE_LOG_LEVEL"`
	Format string `koanf:"format" validate:"oneof=text json pretty"      env:"RAGENGINE_LOG_FORMAT"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Store: StoreConfig{
			Driver:   DriverPostgres,
			Path:     "./ragengine-data",
			MaxConns: 4,
			Migrate:  false,
		},
		Structuring: StructuringConfig{
			Endpoint: aiDefaults.StructuringEndpoint,
			Timeout:  aiDefaults.StructuringTimeout,
		},
		Embedding: EmbeddingConfig{
			Timeout:   aiDefaults.EmbeddingTimeout,
			CacheSize: aiDefaults.EmbeddingCacheSize,
		},
		Scheduler: SchedulerConfig{
			Interval: ingestion.DefaultInterval,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// AIConfig returns the client settings for the ai packages.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithStructuringEndpoint(c.Structuring.Endpoint),
		ai.WithStructuringTimeout(c.Structuring.Timeout),
		ai.WithEmbeddingTimeout(c.Embedding.Timeout),
		ai.WithEmbeddingCacheSize(c.Embedding.CacheSize),
	)
	cfg.Normalize()
	return cfg
}

// PostgresConfig returns the connection settings for the Postgres store.
func (c *Config) PostgresConfig() postgres.Config {
	return postgres.Config{
		DSN:      c.Store.DatabaseURL.Value(),
		MaxConns: int32(c.Store.MaxConns),
	}
}

// EncryptionKey parses the tenant key. It returns nil when no key is set.
func (c *Config) EncryptionKey() (*encryption.Key, error) {
	if c.Encryption.CustomerKey == "" {
		return nil, nil
	}
	key, err := encryption.ParseKey(c.Encryption.CustomerKey.Value())
	if err != nil {
		return nil, fmt.Errorf("encryption.customer_key: %w", err)
	}
	return key, nil
}
