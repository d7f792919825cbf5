package targets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "targets.yaml", `
targets:
  - id: my-guild
    kind: Guild
    guild_id: " abc123 "
    include_recent_activity: true
  - id: me
    name: Main account
    kind: player
    allycode: 123-456-789
    request_delay_ms: 250
  - id: version
    kind: game_version
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(all))
	}
	if all[0].Kind != KindGuild || all[0].GuildID != "abc123" || all[0].Name != "my-guild" {
		t.Fatalf("guild target not sanitized: %+v", all[0])
	}

	me, ok := reg.ByID("me")
	if !ok {
		t.Fatalf("expected target me")
	}
	if me.AllyCode != "123456789" {
		t.Fatalf("allycode = %q", me.AllyCode)
	}
	if me.RequestDelay() != 250*time.Millisecond {
		t.Fatalf("RequestDelay = %s", me.RequestDelay())
	}
	if all[2].RequestDelay() != 0 {
		t.Fatalf("default RequestDelay should be zero")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "targets.json", `{"targets":[{"id":"ev","kind":"events","enums":true}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	ev, ok := reg.ByID("ev")
	if !ok || !ev.Enums {
		t.Fatalf("unexpected target %+v", ev)
	}
}

func TestLoadRegistryRejectsInvalidTargets(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
targets:
  - {id: a, kind: events}
  - {id: a, kind: events}
`,
		"unknown kind": `
targets:
  - {id: a, kind: raids}
`,
		"player without identifier": `
targets:
  - {id: a, kind: player_arena}
`,
		"guild without id": `
targets:
  - {id: a, kind: guild}
`,
		"empty": `targets: []`,
	}
	for name, content := range cases {
		path := writeFile(t, "targets.yaml", content)
		if _, err := LoadRegistry(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConfigBool(t *testing.T) {
	tgt := Target{Config: map[string]any{
		"player_details_only": "yes",
		"flag":                true,
	}}
	if !ConfigBool(tgt, ConfigPlayerDetailsOnlyKey, false) || !ConfigBool(tgt, "flag", false) {
		t.Fatalf("ConfigBool did not read true values")
	}
	if ConfigBool(tgt, "missing", false) {
		t.Fatalf("ConfigBool fallback should be false")
	}
}
