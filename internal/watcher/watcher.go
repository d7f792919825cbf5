package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
	"github.com/samvad-hq/comlink-go/internal/logger"
	"github.com/samvad-hq/comlink-go/pkg/publishers"
	"github.com/samvad-hq/comlink-go/pkg/targets"
)

// Service polls targets and publishes a snapshot whenever its digest differs
// from the last one delivered for the same target.
type Service struct {
	registry  targets.FetcherRegistry
	publisher EventPublisher
	log       logger.Logger
	store     DigestStore
}

// NewService wires a watcher with the fetcher registry, publisher and digest store.
// A nil store publishes every snapshot.
func NewService(reg targets.FetcherRegistry, pub EventPublisher, log logger.Logger, store DigestStore) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		registry:  reg,
		publisher: pub,
		log:       log,
		store:     store,
	}
}

// Run executes one polling pass over all targets.
func (s *Service) Run(ctx context.Context, list []targets.Target) error {
	if s == nil || s.registry == nil {
		return fmt.Errorf("watcher service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no targets configured for watching")
	}

	if errs := s.runAll(ctx, list); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []targets.Target) []error {
	errs := make([]error, 0, len(list))

	for i, t := range list {
		if ctx.Err() != nil {
			break
		}
		if err := s.runTarget(ctx, t); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("target poll failed", "target_error", map[string]any{
				"target_id": t.ID,
				"kind":      t.Kind,
				"error":     err.Error(),
			})
		}
		if i < len(list)-1 {
			if !sleep(ctx, t.RequestDelay()) {
				break
			}
		}
	}

	return errs
}

func (s *Service) runTarget(ctx context.Context, t targets.Target) error {
	fetcher, err := s.registry.FetcherFor(t)
	if err != nil {
		return fmt.Errorf("resolve fetcher for target %s: %w", t.ID, err)
	}

	snap, err := fetcher.Fetch(ctx, t)
	if err != nil {
		return fmt.Errorf("fetch target %s: %w", t.ID, err)
	}

	if s.unchanged(snap) {
		s.log.DebugObj("snapshot unchanged", "target_result", map[string]any{
			"target_id": t.ID,
			"digest":    snap.Digest,
		})
		return nil
	}

	if s.publisher == nil {
		s.mark(snap)
		return nil
	}

	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(snap))
	if delivered > 0 {
		s.mark(snap)
	}
	if err != nil {
		return fmt.Errorf("publish target %s: %w", t.ID, err)
	}

	s.log.InfoObj("snapshot published", "target_result", map[string]any{
		"target_id":  t.ID,
		"kind":       t.Kind,
		"digest":     snap.Digest,
		"publishers": delivered,
	})
	return nil
}

// unchanged reports whether snap matches the last delivered digest for its
// target. Lookup failures count as changed so a broken store never hides updates.
func (s *Service) unchanged(snap domain.Snapshot) bool {
	if s.store == nil {
		return false
	}
	last, ok, err := s.store.Get(snap.TargetID)
	if err != nil {
		s.log.WarnObj("digest lookup failed", "storage_error", map[string]any{
			"target_id": snap.TargetID,
			"error":     err.Error(),
		})
		return false
	}
	return ok && last == snap.Digest
}

func (s *Service) mark(snap domain.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(snap.TargetID, snap.Digest); err != nil {
		s.log.WarnObj("digest store failed", "storage_error", map[string]any{
			"target_id": snap.TargetID,
			"error":     err.Error(),
		})
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
