package comlink

import "strings"

// Endpoint paths served by Comlink.
const (
	EndpointMetadata         = "/metadata"
	EndpointPlayer           = "/player"
	EndpointPlayerArena      = "/playerArena"
	EndpointGuild            = "/guild"
	EndpointGetGuilds        = "/getGuilds"
	EndpointLeaderboard      = "/getLeaderboard"
	EndpointGuildLeaderboard = "/getGuildLeaderboard"
	EndpointEvents           = "/getEvents"
	EndpointLocalization     = "/localization"
	EndpointData             = "/data"
	EndpointEnums            = "/enums"
)

// Leaderboard types with extra payload fields.
const (
	LeaderboardEvent      = 4
	LeaderboardGrandArena = 6
)

// Grand arena leagues.
const (
	LeagueCarbonite = 20
	LeagueBronzium  = 40
	LeagueChromium  = 60
	LeagueAurodium  = 80
	LeagueKyber     = 100
)

// Grand arena divisions, as sent on the wire.
const (
	Division1 = 25
	Division2 = 20
	Division3 = 15
	Division4 = 10
	Division5 = 5
)

// Guild search filter types.
const (
	guildFilterByName     = 4
	guildFilterByCriteria = 5

	defaultGuildSearchCount      = 10
	defaultGuildLeaderboardCount = 200
)

// ClientSpecs narrows metadata to a specific game client build.
type ClientSpecs struct {
	Platform        string `json:"platform,omitempty"`
	BundleID        string `json:"bundleId,omitempty"`
	ExternalVersion string `json:"externalVersion,omitempty"`
	InternalVersion string `json:"internalVersion,omitempty"`
	Region          string `json:"region,omitempty"`
}

// MetadataRequest asks /metadata for the server and game versions.
type MetadataRequest struct {
	ClientSpecs *ClientSpecs
	Enums       bool
}

type metadataPayload struct {
	ClientSpecs *ClientSpecs `json:"clientSpecs,omitempty"`
}

func (r MetadataRequest) payload() metadataPayload {
	return metadataPayload{ClientSpecs: r.ClientSpecs}
}

// PlayerRequest identifies a player; PlayerID wins when both are set.
type PlayerRequest struct {
	AllyCode string
	PlayerID string
	Enums    bool
}

type playerPayload struct {
	PlayerID string `json:"playerId,omitempty"`
	AllyCode string `json:"allyCode,omitempty"`
}

func (r PlayerRequest) payload() playerPayload {
	if id := strings.TrimSpace(r.PlayerID); id != "" {
		return playerPayload{PlayerID: id}
	}
	return playerPayload{AllyCode: NormalizeAllyCode(r.AllyCode)}
}

// PlayerArenaRequest identifies a player; AllyCode wins when both are set.
type PlayerArenaRequest struct {
	AllyCode          string
	PlayerID          string
	PlayerDetailsOnly bool
	Enums             bool
}

type playerArenaPayload struct {
	AllyCode          string `json:"allyCode,omitempty"`
	PlayerID          string `json:"playerId,omitempty"`
	PlayerDetailsOnly bool   `json:"playerDetailsOnly"`
}

func (r PlayerArenaRequest) payload() playerArenaPayload {
	p := playerArenaPayload{PlayerDetailsOnly: r.PlayerDetailsOnly}
	if code := NormalizeAllyCode(r.AllyCode); code != "" {
		p.AllyCode = code
	} else {
		p.PlayerID = strings.TrimSpace(r.PlayerID)
	}
	return p
}

// GuildRequest fetches one guild profile from /guild.
type GuildRequest struct {
	GuildID                        string
	IncludeRecentGuildActivityInfo bool
	Enums                          bool
}

type guildPayload struct {
	GuildID                        string `json:"guildId"`
	IncludeRecentGuildActivityInfo bool   `json:"includeRecentGuildActivityInfo"`
}

func (r GuildRequest) payload() guildPayload {
	return guildPayload{
		GuildID:                        strings.TrimSpace(r.GuildID),
		IncludeRecentGuildActivityInfo: r.IncludeRecentGuildActivityInfo,
	}
}

// GuildSearchByNameRequest searches guilds by name. Count 0 means 10.
type GuildSearchByNameRequest struct {
	Name       string
	StartIndex int
	Count      int
	Enums      bool
}

type guildSearchByNamePayload struct {
	FilterType int    `json:"filterType"`
	StartIndex int    `json:"startIndex"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

func (r GuildSearchByNameRequest) payload() guildSearchByNamePayload {
	return guildSearchByNamePayload{
		FilterType: guildFilterByName,
		StartIndex: r.StartIndex,
		Name:       r.Name,
		Count:      orDefault(r.Count, defaultGuildSearchCount),
	}
}

// GuildSearchCriteria filters guilds by size, power and territory battle history.
type GuildSearchCriteria struct {
	MinMemberCount         int      `json:"minMemberCount,omitempty"`
	MaxMemberCount         int      `json:"maxMemberCount,omitempty"`
	IncludeInviteOnly      bool     `json:"includeInviteOnly"`
	MinGuildGalacticPower  int64    `json:"minGuildGalacticPower,omitempty"`
	MaxGuildGalacticPower  int64    `json:"maxGuildGalacticPower,omitempty"`
	RecentTbParticipatedIn []string `json:"recentTbParticipatedIn,omitempty"`
}

// GuildSearchByCriteriaRequest searches guilds by criteria. Count 0 means 10.
type GuildSearchByCriteriaRequest struct {
	Criteria   GuildSearchCriteria
	StartIndex int
	Count      int
	Enums      bool
}

type guildSearchByCriteriaPayload struct {
	SearchCriteria GuildSearchCriteria `json:"searchCriteria"`
	FilterType     int                 `json:"filterType"`
	StartIndex     int                 `json:"startIndex"`
	Count          int                 `json:"count"`
}

func (r GuildSearchByCriteriaRequest) payload() guildSearchByCriteriaPayload {
	return guildSearchByCriteriaPayload{
		SearchCriteria: r.Criteria,
		FilterType:     guildFilterByCriteria,
		StartIndex:     r.StartIndex,
		Count:          orDefault(r.Count, defaultGuildSearchCount),
	}
}

// LeaderboardRequest selects a player leaderboard. Event fields are only
// sent for LeaderboardEvent and League/Division only for LeaderboardGrandArena,
// where they are always sent, zero included.
type LeaderboardRequest struct {
	LeaderboardType int
	EventInstanceID string
	GroupID         string
	League          int
	Division        int
	Enums           bool
}

// League and Division are pointers so grand arena requests always carry
// them, zero included, while other types omit them.
type leaderboardPayload struct {
	LeaderboardType int    `json:"leaderboardType"`
	EventInstanceID string `json:"eventInstanceId,omitempty"`
	GroupID         string `json:"groupId,omitempty"`
	League          *int   `json:"league,omitempty"`
	Division        *int   `json:"division,omitempty"`
}

func (r LeaderboardRequest) payload() leaderboardPayload {
	p := leaderboardPayload{LeaderboardType: r.LeaderboardType}
	switch r.LeaderboardType {
	case LeaderboardEvent:
		p.EventInstanceID = r.EventInstanceID
		p.GroupID = r.GroupID
	case LeaderboardGrandArena:
		league, division := r.League, r.Division
		p.League = &league
		p.Division = &division
	}
	return p
}

// GuildLeaderboardID selects one guild leaderboard. MonthOffset is 0 for
// the current month and -1 for the previous one.
type GuildLeaderboardID struct {
	LeaderboardType int    `json:"leaderboardType"`
	MonthOffset     int    `json:"monthOffset"`
	DefID           string `json:"defId,omitempty"`
}

// GuildLeaderboardRequest fetches guild leaderboards. Count 0 means 200.
type GuildLeaderboardRequest struct {
	LeaderboardIDs []GuildLeaderboardID
	Count          int
	Enums          bool
}

type guildLeaderboardPayload struct {
	LeaderboardID []GuildLeaderboardID `json:"leaderboardId"`
	Count         int                  `json:"count"`
}

func (r GuildLeaderboardRequest) payload() guildLeaderboardPayload {
	ids := r.LeaderboardIDs
	if ids == nil {
		ids = []GuildLeaderboardID{}
	}
	return guildLeaderboardPayload{
		LeaderboardID: ids,
		Count:         orDefault(r.Count, defaultGuildLeaderboardCount),
	}
}

// EventsRequest fetches the event schedule from /getEvents.
type EventsRequest struct {
	Enums bool
}

// LocalizationRequest fetches a localization bundle. An empty ID resolves
// the latest bundle version from metadata first. Locale, when set, asks
// for a single language (e.g. ENG_US).
type LocalizationRequest struct {
	ID     string
	Locale string
	Unzip  bool
	Enums  bool
}

type localizationPayload struct {
	Unzip bool   `json:"unzip"`
	ID    string `json:"id"`
}

func (r LocalizationRequest) payload(id string) localizationPayload {
	if locale := strings.TrimSpace(r.Locale); locale != "" {
		id += ":" + strings.ToUpper(locale)
	}
	return localizationPayload{Unzip: r.Unzip, ID: id}
}

// GameDataRequest fetches a game data segment. An empty Version resolves
// the latest game data version from metadata first. Items, when set, is
// sent instead of RequestSegment.
type GameDataRequest struct {
	Version         string
	IncludePveUnits bool
	RequestSegment  int
	Items           string
	Enums           bool
}

type gameDataPayload struct {
	Version         string `json:"version"`
	IncludePveUnits bool   `json:"includePveUnits"`
	RequestSegment  *int   `json:"requestSegment,omitempty"`
	Items           string `json:"items,omitempty"`
}

func (r GameDataRequest) payload(version string) gameDataPayload {
	p := gameDataPayload{Version: version, IncludePveUnits: r.IncludePveUnits}
	if items := strings.TrimSpace(r.Items); items != "" {
		p.Items = items
	} else {
		segment := r.RequestSegment
		p.RequestSegment = &segment
	}
	return p
}

// NormalizeAllyCode strips dashes and whitespace, so "123-456-789" and
// "123456789" address the same player.
func NormalizeAllyCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, code)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
