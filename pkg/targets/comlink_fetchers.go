package targets

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
)

type fetchFunc func(ctx context.Context, t Target) (map[string]any, error)

// comlinkFetcher turns one comlink call into a snapshot.
type comlinkFetcher struct {
	kind  string
	fetch fetchFunc
	now   func() time.Time
}

func newComlinkFetcher(kind string, fn fetchFunc) *comlinkFetcher {
	return &comlinkFetcher{kind: kind, fetch: fn, now: time.Now}
}

func (f *comlinkFetcher) ID() string { return f.kind }

func (f *comlinkFetcher) Fetch(ctx context.Context, t Target) (domain.Snapshot, error) {
	if t.Kind != f.kind {
		return domain.Snapshot{}, fmt.Errorf("%s fetcher received incompatible target %q (kind %q)", f.kind, t.ID, t.Kind)
	}

	data, err := f.fetch(ctx, t)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch %s %s: %w", f.kind, t.ID, err)
	}
	return domain.NewSnapshot(t.ID, t.Kind, data, f.now())
}

// NewPlayerFetcher fetches /player by player_id or allycode.
func NewPlayerFetcher(client ComlinkClient) Fetcher {
	return newComlinkFetcher(KindPlayer, func(ctx context.Context, t Target) (map[string]any, error) {
		resp, err := client.GetPlayer(ctx, comlink.PlayerRequest{
			AllyCode: t.AllyCode,
			PlayerID: t.PlayerID,
			Enums:    t.Enums,
		})
		return resp, err
	})
}

// NewPlayerArenaFetcher fetches /playerArena by allycode or player_id.
func NewPlayerArenaFetcher(client ComlinkClient) Fetcher {
	return newComlinkFetcher(KindPlayerArena, func(ctx context.Context, t Target) (map[string]any, error) {
		resp, err := client.GetPlayerArena(ctx, comlink.PlayerArenaRequest{
			AllyCode:          t.AllyCode,
			PlayerID:          t.PlayerID,
			PlayerDetailsOnly: ConfigBool(t, ConfigPlayerDetailsOnlyKey, false),
			Enums:             t.Enums,
		})
		return resp, err
	})
}

// NewGuildFetcher fetches /guild for guild_id.
func NewGuildFetcher(client ComlinkClient) Fetcher {
	return newComlinkFetcher(KindGuild, func(ctx context.Context, t Target) (map[string]any, error) {
		resp, err := client.GetGuild(ctx, comlink.GuildRequest{
			GuildID:                        t.GuildID,
			IncludeRecentGuildActivityInfo: t.IncludeRecentActivity,
			Enums:                          t.Enums,
		})
		return resp, err
	})
}

// NewEventsFetcher fetches the current event schedule.
func NewEventsFetcher(client ComlinkClient) Fetcher {
	return newComlinkFetcher(KindEvents, func(ctx context.Context, t Target) (map[string]any, error) {
		resp, err := client.GetEvents(ctx, comlink.EventsRequest{Enums: t.Enums})
		return resp, err
	})
}

// NewGameVersionFetcher snapshots the latest game data and localization versions.
func NewGameVersionFetcher(client ComlinkClient) Fetcher {
	return newComlinkFetcher(KindGameVersion, func(ctx context.Context, _ Target) (map[string]any, error) {
		v, err := client.GetLatestGameVersion(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"game": v.Game, "localization": v.Localization}, nil
	})
}
