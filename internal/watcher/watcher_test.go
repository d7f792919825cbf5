package watcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
	"github.com/samvad-hq/comlink-go/pkg/publishers"
	"github.com/samvad-hq/comlink-go/pkg/targets"
)

// fakeFetcher returns a snapshot built from preset data or an error.
type fakeFetcher struct {
	data  map[string]any
	err   error
	calls int
}

func (f *fakeFetcher) ID() string { return "fake" }
func (f *fakeFetcher) Fetch(_ context.Context, t targets.Target) (domain.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return domain.Snapshot{}, f.err
	}
	return domain.NewSnapshot(t.ID, t.Kind, f.data, time.Unix(0, 0))
}

// fakeRegistry maps every target to a single fetcher.
type fakeRegistry struct {
	fetcher targets.Fetcher
}

func (f *fakeRegistry) FetcherFor(_ targets.Target) (targets.Fetcher, error) {
	if f.fetcher == nil {
		return nil, errors.New("missing fetcher")
	}
	return f.fetcher, nil
}

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu        sync.Mutex
	events    []publishers.Event
	delivered int
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.delivered, f.err
}

// fakeDigests keeps the last digest per target.
type fakeDigests struct {
	mu     sync.Mutex
	last   map[string]string
	getErr error
}

func (f *fakeDigests) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.last[key]
	return v, ok, nil
}

func (f *fakeDigests) Put(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		f.last = make(map[string]string)
	}
	f.last[key] = value
	return nil
}

func TestRunPublishesChangedSnapshotsOnce(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{"name": "Bossk"}}
	pub := &fakePublisher{delivered: 1}
	store := &fakeDigests{}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, pub, nil, store)
	list := []targets.Target{{ID: "p1", Kind: targets.KindPlayer}}

	for i := 0; i < 2; i++ {
		if err := svc.Run(context.Background(), list); err != nil {
			t.Fatalf("Run #%d: %v", i, err)
		}
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	if pub.events[0].TargetID != "p1" || pub.events[0].Snapshot["name"] != "Bossk" {
		t.Fatalf("unexpected event %+v", pub.events[0])
	}

	fetcher.data = map[string]any{"name": "Bossk", "level": 85}
	if err := svc.Run(context.Background(), list); err != nil {
		t.Fatalf("Run after change: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected changed snapshot to be published, got %d events", len(pub.events))
	}
}

func TestRunPublishesRevertToEarlierContent(t *testing.T) {
	fetcher := &fakeFetcher{}
	pub := &fakePublisher{delivered: 1}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, pub, nil, &fakeDigests{})
	list := []targets.Target{{ID: "g1", Kind: targets.KindGuild}}

	states := []map[string]any{
		{"members": 50},
		{"members": 49},
		{"members": 50},
	}
	for i, data := range states {
		fetcher.data = data
		if err := svc.Run(context.Background(), list); err != nil {
			t.Fatalf("Run #%d: %v", i, err)
		}
	}

	if len(pub.events) != 3 {
		t.Fatalf("expected every transition published, got %d events", len(pub.events))
	}
	if pub.events[0].Digest != pub.events[2].Digest {
		t.Fatalf("expected the revert to carry the original digest")
	}
}

func TestRunDoesNotMarkWhenNothingDelivered(t *testing.T) {
	pub := &fakePublisher{delivered: 0, err: errors.New("all sinks down")}
	store := &fakeDigests{}
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{data: map[string]any{"a": 1}}}, pub, nil, store)

	err := svc.Run(context.Background(), []targets.Target{{ID: "p1", Kind: targets.KindPlayer}})
	if err == nil || !strings.Contains(err.Error(), "p1") {
		t.Fatalf("expected error mentioning p1, got %v", err)
	}
	if len(store.last) != 0 {
		t.Fatalf("expected nothing recorded, got %v", store.last)
	}
}

func TestRunMarksOnPartialDelivery(t *testing.T) {
	pub := &fakePublisher{delivered: 1, err: errors.New("one sink down")}
	store := &fakeDigests{}
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{data: map[string]any{"a": 1}}}, pub, nil, store)

	if err := svc.Run(context.Background(), []targets.Target{{ID: "p1", Kind: targets.KindPlayer}}); err == nil {
		t.Fatalf("expected partial failure to surface")
	}
	if len(store.last) != 1 {
		t.Fatalf("expected digest recorded after partial delivery, got %v", store.last)
	}
}

func TestRunAggregatesFetchErrors(t *testing.T) {
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{err: errors.New("comlink down")}}, &fakePublisher{}, nil, nil)

	err := svc.Run(context.Background(), []targets.Target{{ID: "a"}, {ID: "b"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "fetch target a") || !strings.Contains(err.Error(), "fetch target b") {
		t.Fatalf("expected both targets in error, got %v", err)
	}
}

func TestRunTreatsDedupeErrorsAsUnseen(t *testing.T) {
	pub := &fakePublisher{delivered: 1}
	store := &fakeDigests{getErr: errors.New("lookup failed")}
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{data: map[string]any{"a": 1}}}, pub, nil, store)

	if err := svc.Run(context.Background(), []targets.Target{{ID: "p1"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected publish despite dedupe error, got %d", len(pub.events))
	}
}

func TestRunAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{data: map[string]any{}}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, nil, nil)
	errs := svc.runAll(ctx, []targets.Target{{ID: "p"}})
	if len(errs) != 0 || fetcher.calls != 0 {
		t.Fatalf("expected no work on cancelled context, got errs=%v calls=%d", errs, fetcher.calls)
	}
}

func TestRunRejectsEmptyTargets(t *testing.T) {
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{}}, nil, nil, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when targets list empty")
	}
}

func TestRunHonoursRequestDelayCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	fetcher := &fakeFetcher{data: map[string]any{}}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, nil, nil)
	list := []targets.Target{{ID: "a", RequestDelayMs: 60000}, {ID: "b"}}

	start := time.Now()
	if err := svc.Run(ctx, list); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected only the first target polled, got %d", fetcher.calls)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("delay did not honour context cancellation")
	}
}
