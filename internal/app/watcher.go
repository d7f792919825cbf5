package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/comlink-go/internal/config"
	"github.com/samvad-hq/comlink-go/internal/logger"
	"github.com/samvad-hq/comlink-go/internal/storage"
	"github.com/samvad-hq/comlink-go/internal/watcher"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
	"github.com/samvad-hq/comlink-go/pkg/publishers"
	"github.com/samvad-hq/comlink-go/pkg/targets"
)

// Watcher is the snapshot watcher runtime. It owns the comlink client, the
// publishers and the dedupe store, and drives the polling loop.
type Watcher struct {
	cfg          *config.Config
	targets      []targets.Target
	client       *comlink.Client
	fanout       *publishers.Fanout
	service      *watcher.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	list := applyDefaults(targetReg.All(), cfg)
	ids := make([]string, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	opts := cfg.ComlinkOptions()
	opts.Logger = log
	client, err := comlink.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init comlink client: %w", err)
	}
	log.InfoObj("comlink client ready", "comlink_meta", map[string]any{
		"base_url":   client.BaseURL(),
		"timeout_ms": cfg.RequestTimeout.Milliseconds(),
	})

	pubClients, err := publishers.DefaultRegistry().BuildAll(ctx, enabled, log)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		fanout.Close()
		client.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := watcher.NewService(targets.DefaultFetcherRegistry(client), fanout, log, store)

	return &Watcher{
		cfg:          cfg,
		targets:      list,
		client:       client,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// applyDefaults turns on enum rendering for every target when comlink_enums is set.
func applyDefaults(list []targets.Target, cfg *config.Config) []targets.Target {
	if !cfg.ComlinkEnums {
		return list
	}
	for i := range list {
		list[i].Enums = true
	}
	return list
}

// Run polls once immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	if len(w.targets) == 0 {
		w.log.WarnObj("no targets configured; watcher idle", "targets_file", w.cfg.TargetsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"targets_count":    len(w.targets),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.pollInterval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	w.log.InfoObj("poll started", "poll_meta", map[string]any{
		"targets_count": len(w.targets),
		"started_at":    start.UTC(),
	})
	if err := w.service.Run(ctx, w.targets); err != nil {
		return err
	}
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"targets_count": len(w.targets),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store, publishers and comlink client, logging failures.
func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err)
	}
	if w.client != nil {
		if err := w.client.Close(); err != nil {
			w.log.ErrorObj("comlink client close failed", "error", err)
		}
	}
}
