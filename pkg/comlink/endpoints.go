package comlink

import (
	"context"
	"fmt"
)

// GameVersion holds the latest game data and localization bundle versions.
type GameVersion struct {
	Game         string `json:"game" yaml:"game"`
	Localization string `json:"localization" yaml:"localization"`
}

const (
	metadataGameVersionKey         = "latestGamedataVersion"
	metadataLocalizationVersionKey = "latestLocalizationBundleVersion"
)

// GetMetadata posts to /metadata.
func (c *Client) GetMetadata(ctx context.Context, req MetadataRequest) (Response, error) {
	return c.Post(ctx, EndpointMetadata, req.payload(), req.Enums)
}

// GetLatestGameVersion reads the current versions from metadata.
func (c *Client) GetLatestGameVersion(ctx context.Context) (GameVersion, error) {
	md, err := c.GetMetadata(ctx, MetadataRequest{})
	if err != nil {
		return GameVersion{}, err
	}

	game, err := stringField(md, metadataGameVersionKey)
	if err != nil {
		return GameVersion{}, err
	}
	loc, err := stringField(md, metadataLocalizationVersionKey)
	if err != nil {
		return GameVersion{}, err
	}
	return GameVersion{Game: game, Localization: loc}, nil
}

// GetPlayer posts to /player.
func (c *Client) GetPlayer(ctx context.Context, req PlayerRequest) (Response, error) {
	return c.Post(ctx, EndpointPlayer, req.payload(), req.Enums)
}

// GetPlayerArena posts to /playerArena.
func (c *Client) GetPlayerArena(ctx context.Context, req PlayerArenaRequest) (Response, error) {
	return c.Post(ctx, EndpointPlayerArena, req.payload(), req.Enums)
}

// GetGuild posts to /guild.
func (c *Client) GetGuild(ctx context.Context, req GuildRequest) (Response, error) {
	return c.Post(ctx, EndpointGuild, req.payload(), req.Enums)
}

// GetGuildsByName posts a name search to /getGuilds.
func (c *Client) GetGuildsByName(ctx context.Context, req GuildSearchByNameRequest) (Response, error) {
	return c.Post(ctx, EndpointGetGuilds, req.payload(), req.Enums)
}

// GetGuildsByCriteria posts a criteria search to /getGuilds.
func (c *Client) GetGuildsByCriteria(ctx context.Context, req GuildSearchByCriteriaRequest) (Response, error) {
	return c.Post(ctx, EndpointGetGuilds, req.payload(), req.Enums)
}

// GetLeaderboard posts to /getLeaderboard.
func (c *Client) GetLeaderboard(ctx context.Context, req LeaderboardRequest) (Response, error) {
	return c.Post(ctx, EndpointLeaderboard, req.payload(), req.Enums)
}

// GetGuildLeaderboard posts to /getGuildLeaderboard.
func (c *Client) GetGuildLeaderboard(ctx context.Context, req GuildLeaderboardRequest) (Response, error) {
	return c.Post(ctx, EndpointGuildLeaderboard, req.payload(), req.Enums)
}

// GetEvents posts an empty payload to /getEvents.
func (c *Client) GetEvents(ctx context.Context, req EventsRequest) (Response, error) {
	return c.Post(ctx, EndpointEvents, struct{}{}, req.Enums)
}

// GetLocalization fetches a localization bundle. The bundle itself comes
// back base64 encoded and is passed through untouched.
func (c *Client) GetLocalization(ctx context.Context, req LocalizationRequest) (Response, error) {
	id := req.ID
	if id == "" {
		version, err := c.GetLatestGameVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve localization version: %w", err)
		}
		id = version.Localization
	}
	return c.Post(ctx, EndpointLocalization, req.payload(id), req.Enums)
}

// GetGameData posts to /data, resolving the latest version when Version is empty.
func (c *Client) GetGameData(ctx context.Context, req GameDataRequest) (Response, error) {
	version := req.Version
	if version == "" {
		latest, err := c.GetLatestGameVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve game data version: %w", err)
		}
		version = latest.Game
	}
	return c.Post(ctx, EndpointData, req.payload(version), req.Enums)
}

// GetEnums issues a GET to /enums.
func (c *Client) GetEnums(ctx context.Context) (Response, error) {
	return c.Get(ctx, EndpointEnums)
}

func stringField(resp Response, key string) (string, error) {
	raw, ok := resp[key]
	if !ok {
		return "", fmt.Errorf("%w: metadata has no %q", ErrUnexpectedResponse, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: metadata %q is %T, not a string", ErrUnexpectedResponse, key, raw)
	}
	return s, nil
}
