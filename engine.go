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

// Package ragengine wires configuration, the store, the service clients and
// the ingestion pipeline into a runnable worker.
package ragengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/ai/openai"
	"github.com/poiesic/ragengine/ai/unstructured"
	"github.com/poiesic/ragengine/config"
	"github.com/poiesic/ragengine/ingestion"
	"github.com/poiesic/ragengine/storage"
	"github.com/poiesic/ragengine/storage/badger"
	"github.com/poiesic/ragengine/storage/postgres"
)

// ErrUnknownDriver is returned for a store driver other than postgres or badger.
var ErrUnknownDriver = errors.New("unknown store driver")

// Engine owns the store and clients for one worker process.
type Engine struct {
	cfg        *config.Config
	store      storage.Store
	structurer ai.Structurer
	embedder   ai.Embedder
	metrics    *ingestion.Metrics
	clock      ingestion.Clock
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	store      storage.Store
	structurer ai.Structurer
	embedder   ai.Embedder
	clock      ingestion.Clock
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithRegisterer registers pipeline metrics with reg. Without it no metrics
// are recorded.
func WithRegisterer(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) {
		o.registerer = reg
	}
}

// WithStore uses an already opened store instead of the configured driver.
// The engine takes ownership and closes it.
func WithStore(s storage.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = s
	}
}

// WithStructurer replaces the structuring service client.
func WithStructurer(s ai.Structurer) EngineOption {
	return func(o *engineOptions) {
		o.structurer = s
	}
}

// WithEmbedder replaces the embedding service client.
func WithEmbedder(e ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = e
	}
}

// WithClock replaces the scheduler's sleep primitive.
func WithClock(c ingestion.Clock) EngineOption {
	return func(o *engineOptions) {
		o.clock = c
	}
}

// Open validates cfg and builds an Engine. Pending migrations are applied
// first when the postgres driver is configured with store.migrate.
func Open(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var metrics *ingestion.Metrics
	if options.registerer != nil {
		m, err := ingestion.NewMetrics(options.registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	aiConfig := cfg.AIConfig()
	structurer := options.structurer
	if structurer == nil {
		s, err := unstructured.NewStructurer(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create structurer: %w", err)
		}
		structurer = s
	}
	embedder := options.embedder
	if embedder == nil {
		e, err := openai.NewEmbedder(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		embedder = e
	}

	store := options.store
	if store == nil {
		s, err := OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s
	}

	return &Engine{
		cfg:        cfg,
		store:      store,
		structurer: structurer,
		embedder:   embedder,
		metrics:    metrics,
		clock:      options.clock,
		logger:     logger,
	}, nil
}

// OpenStore opens the store selected by store.driver.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Store.Migrate {
			if err := Migrate(ctx, cfg); err != nil {
				return nil, err
			}
		}
		s, err := postgres.Open(ctx, cfg.PostgresConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return s, nil
	case config.DriverBadger:
		s, err := badger.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Store.Driver)
	}
}

// Migrate applies pending schema migrations. The badger driver has no schema
// and is a no-op.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg.Store.Driver != config.DriverPostgres {
		return nil
	}
	if err := postgres.Migrate(ctx, cfg.Store.DatabaseURL.Value()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Store returns the engine's store.
func (e *Engine) Store() storage.Store {
	return e.store
}

// NewPipeline builds a pipeline over the engine's store and clients.
func (e *Engine) NewPipeline() (*ingestion.Pipeline, error) {
	key, err := e.cfg.EncryptionKey()
	if err != nil {
		return nil, err
	}
	return ingestion.NewPipeline(e.store, e.store, e.structurer, e.embedder,
		ingestion.WithLogger(e.logger),
		ingestion.WithEncryptionKey(key),
		ingestion.WithDimensions(e.cfg.Embedding.Dimensions),
		ingestion.WithMetrics(e.metrics),
		ingestion.WithBacklogReporter(e.store),
	)
}

// NewScheduler builds a scheduler over a fresh pipeline.
func (e *Engine) NewScheduler() (*ingestion.Scheduler, error) {
	p, err := e.NewPipeline()
	if err != nil {
		return nil, err
	}
	opts := []ingestion.SchedulerOption{
		ingestion.WithInterval(e.cfg.Scheduler.Interval),
		ingestion.WithSchedulerLogger(e.logger),
	}
	if e.clock != nil {
		opts = append(opts, ingestion.WithClock(e.clock))
	}
	return ingestion.NewScheduler(p, opts...)
}

// Run executes cycles until ctx is cancelled or a fatal error occurs.
func (e *Engine) Run(ctx context.Context) error {
	s, err := e.NewScheduler()
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// RunOnce executes a single cycle.
func (e *Engine) RunOnce(ctx context.Context) (ingestion.CycleStats, error) {
	p, err := e.NewPipeline()
	if err != nil {
		return ingestion.CycleStats{}, err
	}
	return p.RunCycle(ctx)
}

// Close releases the store.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}
