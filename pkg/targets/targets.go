package targets

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/comlink-go/internal/registryfile"
	"github.com/samvad-hq/comlink-go/pkg/comlink"
)

// Package targets describes what the watcher polls (YAML/JSON) and how each kind is fetched.

// Supported target kinds.
const (
	KindPlayer      = "player"
	KindPlayerArena = "player_arena"
	KindGuild       = "guild"
	KindEvents      = "events"
	KindGameVersion = "game_version"
)

var knownKinds = map[string]bool{
	KindPlayer:      true,
	KindPlayerArena: true,
	KindGuild:       true,
	KindEvents:      true,
	KindGameVersion: true,
}

// Target is a single watched Comlink resource.
type Target struct {
	ID                    string         `json:"id" yaml:"id"`
	Name                  string         `json:"name" yaml:"name"`
	Kind                  string         `json:"kind" yaml:"kind"`
	AllyCode              string         `json:"allycode" yaml:"allycode"`
	PlayerID              string         `json:"player_id" yaml:"player_id"`
	GuildID               string         `json:"guild_id" yaml:"guild_id"`
	IncludeRecentActivity bool           `json:"include_recent_activity" yaml:"include_recent_activity"`
	Enums                 bool           `json:"enums" yaml:"enums"`
	RequestDelayMs        int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config                map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry is the validated set of targets loaded from a file.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads targets from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	file, err := registryfile.Load[registryFile](path, "targets")
	if err != nil {
		return nil, err
	}
	return NewRegistry(file.Targets)
}

// NewRegistry sanitizes and validates targets; ids must be unique.
func NewRegistry(targets []Target) (*Registry, error) {
	if len(targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(targets)),
		idx:     make(map[string]Target, len(targets)),
	}
	for i := range targets {
		t := sanitizeTarget(targets[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("target[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}
	return reg, nil
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	t.AllyCode = comlink.NormalizeAllyCode(strings.TrimSpace(t.AllyCode))
	t.PlayerID = strings.TrimSpace(t.PlayerID)
	t.GuildID = strings.TrimSpace(t.GuildID)
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.Config == nil {
		t.Config = map[string]any{}
	}
	if t.RequestDelayMs < 0 {
		t.RequestDelayMs = 0
	}
	return t
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Kind == "" {
		return fmt.Errorf("kind is required for target %q", t.ID)
	}
	if !knownKinds[t.Kind] {
		return fmt.Errorf("unknown kind %q for target %q", t.Kind, t.ID)
	}
	switch t.Kind {
	case KindPlayer, KindPlayerArena:
		if t.AllyCode == "" && t.PlayerID == "" {
			return fmt.Errorf("allycode or player_id is required for target %q", t.ID)
		}
	case KindGuild:
		if t.GuildID == "" {
			return fmt.Errorf("guild_id is required for target %q", t.ID)
		}
	}
	return nil
}

// ByID returns the target with the given id.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns a copy of every target in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// RequestDelay is the pause the watcher takes after polling this target.
func (t Target) RequestDelay() time.Duration {
	if t.RequestDelayMs <= 0 {
		return 0
	}
	return time.Duration(t.RequestDelayMs) * time.Millisecond
}
