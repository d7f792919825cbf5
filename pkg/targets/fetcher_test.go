package targets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
)

// fakeClient records the requests the fetchers build.
type fakeClient struct {
	player  comlink.PlayerRequest
	arena   comlink.PlayerArenaRequest
	guild   comlink.GuildRequest
	events  comlink.EventsRequest
	version comlink.GameVersion
	err     error
}

func (f *fakeClient) GetPlayer(_ context.Context, req comlink.PlayerRequest) (comlink.Response, error) {
	f.player = req
	return f.resp("player")
}

func (f *fakeClient) GetPlayerArena(_ context.Context, req comlink.PlayerArenaRequest) (comlink.Response, error) {
	f.arena = req
	return f.resp("arena")
}

func (f *fakeClient) GetGuild(_ context.Context, req comlink.GuildRequest) (comlink.Response, error) {
	f.guild = req
	return f.resp("guild")
}

func (f *fakeClient) GetEvents(_ context.Context, req comlink.EventsRequest) (comlink.Response, error) {
	f.events = req
	return f.resp("events")
}

func (f *fakeClient) GetLatestGameVersion(context.Context) (comlink.GameVersion, error) {
	return f.version, f.err
}

func (f *fakeClient) resp(name string) (comlink.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return comlink.Response{"source": name}, nil
}

type namedFetcher struct{ id string }

func (n namedFetcher) ID() string { return n.id }
func (n namedFetcher) Fetch(context.Context, Target) (domain.Snapshot, error) {
	return domain.Snapshot{}, nil
}

func TestFetcherForPrefersIDOverKind(t *testing.T) {
	override := namedFetcher{id: "special"}
	reg := NewKindFetcherRegistry(map[string]Fetcher{KindEvents: namedFetcher{id: "events"}}, override)

	f, err := reg.FetcherFor(Target{ID: "Special", Kind: KindEvents})
	if err != nil {
		t.Fatalf("FetcherFor: %v", err)
	}
	if f.ID() != "special" {
		t.Fatalf("expected id override, got %s", f.ID())
	}

	f, err = reg.FetcherFor(Target{ID: "other", Kind: "EVENTS"})
	if err != nil || f.ID() != "events" {
		t.Fatalf("expected kind fetcher, got %v, %v", f, err)
	}

	if _, err := reg.FetcherFor(Target{ID: "x", Kind: KindGuild}); err == nil {
		t.Fatalf("expected error for unregistered kind")
	}
	if _, err := reg.FetcherFor(Target{Kind: KindEvents}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestDefaultFetchersBuildRequests(t *testing.T) {
	client := &fakeClient{version: comlink.GameVersion{Game: "g1", Localization: "l1"}}
	reg := DefaultFetcherRegistry(client)
	ctx := context.Background()

	fetch := func(tgt Target) map[string]any {
		t.Helper()
		f, err := reg.FetcherFor(tgt)
		if err != nil {
			t.Fatalf("FetcherFor %s: %v", tgt.Kind, err)
		}
		snap, err := f.Fetch(ctx, tgt)
		if err != nil {
			t.Fatalf("Fetch %s: %v", tgt.Kind, err)
		}
		if snap.TargetID != tgt.ID || snap.Kind != tgt.Kind || snap.Digest == "" {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
		return snap.Data
	}

	fetch(Target{ID: "p", Kind: KindPlayer, AllyCode: "123456789", PlayerID: "pid", Enums: true})
	if client.player.PlayerID != "pid" || client.player.AllyCode != "123456789" || !client.player.Enums {
		t.Fatalf("player request = %+v", client.player)
	}

	fetch(Target{ID: "a", Kind: KindPlayerArena, AllyCode: "1", Config: map[string]any{ConfigPlayerDetailsOnlyKey: true}})
	if !client.arena.PlayerDetailsOnly || client.arena.AllyCode != "1" {
		t.Fatalf("arena request = %+v", client.arena)
	}

	fetch(Target{ID: "g", Kind: KindGuild, GuildID: "gid", IncludeRecentActivity: true})
	if client.guild.GuildID != "gid" || !client.guild.IncludeRecentGuildActivityInfo {
		t.Fatalf("guild request = %+v", client.guild)
	}

	if data := fetch(Target{ID: "e", Kind: KindEvents}); data["source"] != "events" {
		t.Fatalf("events data = %#v", data)
	}

	data := fetch(Target{ID: "v", Kind: KindGameVersion})
	if data["game"] != "g1" || data["localization"] != "l1" {
		t.Fatalf("version data = %#v", data)
	}
}

func TestComlinkFetcherWrapsErrors(t *testing.T) {
	client := &fakeClient{err: comlink.ErrUseAfterClose}
	f := NewGuildFetcher(client)
	_, err := f.Fetch(context.Background(), Target{ID: "g", Kind: KindGuild, GuildID: "gid"})
	if !errors.Is(err, comlink.ErrUseAfterClose) {
		t.Fatalf("err = %v, want wrapped ErrUseAfterClose", err)
	}
}

func TestComlinkFetcherRejectsOtherKinds(t *testing.T) {
	f := NewEventsFetcher(&fakeClient{})
	if _, err := f.Fetch(context.Background(), Target{ID: "g", Kind: KindGuild}); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
}

func TestComlinkFetcherStampsTime(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := newComlinkFetcher(KindEvents, func(context.Context, Target) (map[string]any, error) {
		return map[string]any{"a": 1}, nil
	})
	f.now = func() time.Time { return fixed }

	snap, err := f.Fetch(context.Background(), Target{ID: "e", Kind: KindEvents})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !snap.CollectedAt.Equal(fixed) {
		t.Fatalf("CollectedAt = %s", snap.CollectedAt)
	}
}
