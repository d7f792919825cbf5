package targets

import (
	"fmt"
	"strings"
	"sync"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	fetchersByID   map[string]Fetcher
	fetchersByKind map[string]Fetcher
	mu             sync.RWMutex
}

// NewKindFetcherRegistry builds a registry with kind-based fetchers and optional target-specific overrides.
func NewKindFetcherRegistry(kindFetchers map[string]Fetcher, fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByID:   make(map[string]Fetcher),
		fetchersByKind: make(map[string]Fetcher),
	}

	for _, f := range fetchers {
		if f == nil {
			continue
		}
		reg.register(reg.fetchersByID, f.ID(), f)
	}
	for kind, f := range kindFetchers {
		if f == nil {
			continue
		}
		reg.register(reg.fetchersByKind, kind, f)
	}

	return reg
}

func (r *fetcherRegistry) register(into map[string]Fetcher, key string, f Fetcher) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}

	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given target based on its id, then its kind.
func (r *fetcherRegistry) FetcherFor(t Target) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(t.ID) == "" {
		return nil, fmt.Errorf("target id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchersByID[strings.ToLower(strings.TrimSpace(t.ID))]; ok {
		return f, nil
	}
	if kind := strings.ToLower(strings.TrimSpace(t.Kind)); kind != "" {
		if f, ok := r.fetchersByKind[kind]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for target %q (kind %q)", t.ID, t.Kind)
}

// DefaultFetcherRegistry wires one comlink-backed fetcher per known kind.
func DefaultFetcherRegistry(client ComlinkClient) FetcherRegistry {
	return NewKindFetcherRegistry(map[string]Fetcher{
		KindPlayer:      NewPlayerFetcher(client),
		KindPlayerArena: NewPlayerArenaFetcher(client),
		KindGuild:       NewGuildFetcher(client),
		KindEvents:      NewEventsFetcher(client),
		KindGameVersion: NewGameVersionFetcher(client),
	})
}
