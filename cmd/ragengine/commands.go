package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/ragengine"
	"github.com/poiesic/ragengine/config"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/storage"
)

// setup loads configuration and installs the default logger.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Options{
		File:    c.String("config"),
		EnvFile: c.String("env-file"),
	})
	if err != nil {
		return nil, nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if v := c.String("log-level"); v != "" {
		level = v
	}
	if v := c.String("log-format"); v != "" {
		format = v
	}
	logger, err := newLogger(level, format, c.App.ErrWriter)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openStore(c *cli.Context) (storage.Store, error) {
	cfg, _, err := setup(c)
	if err != nil {
		return nil, err
	}
	return ragengine.OpenStore(c.Context, cfg)
}

func runCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine, err := ragengine.Open(ctx, cfg,
		ragengine.WithLogger(logger),
		ragengine.WithRegisterer(reg),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	var ln net.Listener
	if cfg.Metrics.Addr != "" {
		ln, err = net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Metrics.Addr, err)
		}
		logger.Info("serving metrics", "addr", ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	if ln != nil {
		g.Go(func() error {
			return serveMetrics(gctx, ln, reg)
		})
	}
	return g.Wait()
}

func onceCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	engine, err := ragengine.Open(c.Context, cfg, ragengine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.RunOnce(c.Context)
	if err != nil {
		return fmt.Errorf("cycle failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "documents: chunked=%d failed=%d\n", stats.DocumentsChunked, stats.DocumentsFailed)
	fmt.Fprintf(c.App.Writer, "chunks: created=%d embedded=%d skipped=%d\n",
		stats.ChunksCreated, stats.ChunksEmbedded, stats.ChunksSkipped)
	return nil
}

func migrateCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		logger.Info("store has no schema to migrate", "driver", cfg.Store.Driver)
		return nil
	}
	if err := ragengine.Migrate(c.Context, cfg); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func statusCommand(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := store.Backlog(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read backlog: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "documents: pending=%d processed=%d failed=%d\n",
		b.PendingDocuments, b.ProcessedDocuments, b.FailedDocuments)
	fmt.Fprintf(c.App.Writer, "chunks: pending=%d embedded=%d skipped=%d\n",
		b.PendingChunks, b.EmbeddedChunks, b.SkippedChunks)
	return nil
}

func requeueDocumentsCommand(c *cli.Context) error {
	return requeue(c, "documents", func(ctx context.Context, s storage.Store, id core.ID) (int, error) {
		return s.RequeueDocuments(ctx, id)
	})
}

func requeueChunksCommand(c *cli.Context) error {
	return requeue(c, "chunks", func(ctx context.Context, s storage.Store, id core.ID) (int, error) {
		return s.RequeueChunks(ctx, id)
	})
}

func requeue(c *cli.Context, kind string, fn func(context.Context, storage.Store, core.ID) (int, error)) error {
	dataset := c.Int("dataset")
	if dataset < 0 {
		return fmt.Errorf("dataset must not be negative")
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := fn(c.Context, store, core.ID(dataset))
	if err != nil {
		return fmt.Errorf("failed to requeue %s: %w", kind, err)
	}
	fmt.Fprintf(c.App.Writer, "requeued %d %s\n", n, kind)
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one file is required")
	}
	datasetID := core.ID(c.Int("dataset-id"))
	if datasetID == 0 && c.String("embedding-model") == "" {
		return errors.New("embedding-model is required when creating a dataset")
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := c.Context
	if datasetID == 0 {
		provider, err := store.AddEmbeddingProvider(ctx, &core.EmbeddingProvider{
			Name:    c.String("embedding-model"),
			BaseURL: c.String("embedding-host"),
			Model:   c.String("embedding-model"),
			APIKey:  c.String("embedding-api-key"),
		})
		if err != nil {
			return fmt.Errorf("failed to add embedding provider: %w", err)
		}
		dataset, err := store.AddDataset(ctx, &core.Dataset{
			Name: c.String("dataset-name"),
			Chunking: core.ChunkingConfig{
				CombineUnderNChars: int32(c.Int("combine-under-n-chars")),
				NewAfterNChars:     int32(c.Int("new-after-n-chars")),
				MultipageSections:  c.Bool("multipage-sections"),
			},
			EmbeddingProviderId: provider.Id,
		})
		if err != nil {
			return fmt.Errorf("failed to add dataset: %w", err)
		}
		datasetID = dataset.Id
		fmt.Fprintf(c.App.Writer, "created dataset %d\n", datasetID)
	}

	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err := store.AddDocument(ctx, &core.Document{
			DatasetId: datasetID,
			FileName:  filepath.Base(path),
			Content:   content,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
		fmt.Fprintf(c.App.Writer, "imported %s as document %d\n", path, doc.Id)
	}
	return nil
}
