package targets

import "strings"

// ConfigPlayerDetailsOnlyKey trims player_arena snapshots to the player details.
const ConfigPlayerDetailsOnlyKey = "player_details_only"

// ConfigBool returns the bool value for key from target.Config or a fallback.
func ConfigBool(t Target, key string, fallback bool) bool {
	if t.Config == nil {
		return fallback
	}
	switch v := t.Config[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}
