package targets

import (
	"context"

	"github.com/samvad-hq/comlink-go/internal/domain"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
)

// Fetcher retrieves one snapshot for a target.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, t Target) (domain.Snapshot, error)
}

// FetcherRegistry resolves the fetcher implementation for a given target.
type FetcherRegistry interface {
	FetcherFor(t Target) (Fetcher, error)
}

// ComlinkClient is the subset of *comlink.Client the fetchers use.
type ComlinkClient interface {
	GetPlayer(ctx context.Context, req comlink.PlayerRequest) (comlink.Response, error)
	GetPlayerArena(ctx context.Context, req comlink.PlayerArenaRequest) (comlink.Response, error)
	GetGuild(ctx context.Context, req comlink.GuildRequest) (comlink.Response, error)
	GetEvents(ctx context.Context, req comlink.EventsRequest) (comlink.Response, error)
	GetLatestGameVersion(ctx context.Context) (comlink.GameVersion, error)
}
