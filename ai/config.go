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

package ai

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config holds settings shared by the AI service clients.
type Config struct {
	// StructuringEndpoint is the base URL of the structuring service.
	// Example: "http://localhost:8000"
	StructuringEndpoint string

	// StructuringTimeout bounds a single structuring request.
	// Default: 5m
	StructuringTimeout time.Duration

	// EmbeddingTimeout bounds a single embedding request.
	// Default: 30s
	EmbeddingTimeout time.Duration

	// EmbeddingCacheSize is the number of provider clients kept alive.
	// Default: 16
	EmbeddingCacheSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithStructuringEndpoint sets the structuring service base URL.
func WithStructuringEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.StructuringEndpoint = endpoint
	}
}

// WithStructuringTimeout sets the per-request structuring timeout.
func WithStructuringTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.StructuringTimeout = d
	}
}

// WithEmbeddingTimeout sets the per-request embedding timeout.
func WithEmbeddingTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbeddingTimeout = d
	}
}

// WithEmbeddingCacheSize sets how many provider clients are cached.
func WithEmbeddingCacheSize(size int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingCacheSize = size
	}
}

// DefaultConfig returns a Config pointing at a local structuring service.
func DefaultConfig() *Config {
	return &Config{
		StructuringEndpoint: "http://localhost:8000",
		StructuringTimeout:  5 * time.Minute,
		EmbeddingTimeout:    30 * time.Second,
		EmbeddingCacheSize:  16,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithStructuringEndpoint("http://unstructured:8000"),
//	    WithEmbeddingTimeout(10 * time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize trims whitespace and trailing slashes from the endpoint.
func (c *Config) Normalize() {
	c.StructuringEndpoint = strings.TrimRight(strings.TrimSpace(c.StructuringEndpoint), "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.StructuringEndpoint == "" {
		return errors.New("ai config: StructuringEndpoint is required")
	}
	u, err := url.Parse(c.StructuringEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("ai config: StructuringEndpoint must be an absolute URL")
	}
	if c.StructuringTimeout <= 0 {
		return errors.New("ai config: StructuringTimeout must be positive")
	}
	if c.EmbeddingTimeout <= 0 {
		return errors.New("ai config: EmbeddingTimeout must be positive")
	}
	if c.EmbeddingCacheSize < 1 {
		return errors.New("ai config: EmbeddingCacheSize must be at least 1")
	}
	return nil
}
