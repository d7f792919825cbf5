package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/comlink-go/internal/config"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeComlink(t *testing.T, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &rec.body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		reqs = append(reqs, rec)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func run(t *testing.T, srvURL string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(&config.Config{ComlinkURL: srvURL, RequestTimeout: 2 * time.Second})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayerCommandSendsNormalizedAllyCode(t *testing.T) {
	srv, reqs := fakeComlink(t, `{"name":"Bossk"}`)

	out, err := run(t, srv.URL, "player", "--allycode", "123-456-789", "--enums")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if len(*reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*reqs))
	}
	got := (*reqs)[0]
	if got.path != "/player" || got.body["enums"] != true {
		t.Fatalf("unexpected request %+v", got)
	}
	payload, _ := got.body["payload"].(map[string]any)
	if payload["allyCode"] != "123456789" {
		t.Fatalf("allyCode = %v", payload["allyCode"])
	}
	if !strings.Contains(out, `"name": "Bossk"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPlayerCommandRequiresIdentifier(t *testing.T) {
	srv, reqs := fakeComlink(t, `{}`)
	if _, err := run(t, srv.URL, "player"); err == nil {
		t.Fatalf("expected error without identifier")
	}
	if len(*reqs) != 0 {
		t.Fatalf("expected no requests, got %d", len(*reqs))
	}
}

func TestGuildsCommandChoosesSearchMode(t *testing.T) {
	srv, reqs := fakeComlink(t, `{"guild":[]}`)

	if _, err := run(t, srv.URL, "guilds", "--name", "Rebels"); err != nil {
		t.Fatalf("guilds by name: %v", err)
	}
	if _, err := run(t, srv.URL, "guilds", "--min-members", "40", "--tb", "t01D,t02D"); err != nil {
		t.Fatalf("guilds by criteria: %v", err)
	}

	byName, _ := (*reqs)[0].body["payload"].(map[string]any)
	if byName["filterType"] != float64(4) || byName["count"] != float64(10) {
		t.Fatalf("unexpected name payload %v", byName)
	}
	byCriteria, _ := (*reqs)[1].body["payload"].(map[string]any)
	if byCriteria["filterType"] != float64(5) {
		t.Fatalf("unexpected criteria payload %v", byCriteria)
	}
	criteria, _ := byCriteria["searchCriteria"].(map[string]any)
	if criteria["minMemberCount"] != float64(40) {
		t.Fatalf("unexpected criteria %v", criteria)
	}
	if tbs, _ := criteria["recentTbParticipatedIn"].([]any); len(tbs) != 2 {
		t.Fatalf("unexpected territory battles %v", criteria["recentTbParticipatedIn"])
	}
}

func TestEnumsCommandUsesGet(t *testing.T) {
	srv, reqs := fakeComlink(t, `{"CombatType":{"CHARACTER":1}}`)

	if _, err := run(t, srv.URL, "enums"); err != nil {
		t.Fatalf("enums: %v", err)
	}
	if got := (*reqs)[0]; got.method != http.MethodGet || got.path != "/enums" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestVersionCommandYAMLOutput(t *testing.T) {
	srv, _ := fakeComlink(t, `{"latestGamedataVersion":"g1","latestLocalizationBundleVersion":"l1"}`)

	out, err := run(t, srv.URL, "version", "-o", "yaml")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "game: g1") || !strings.Contains(out, "localization: l1") {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestYAMLOutputKeepsNumbersUnquoted(t *testing.T) {
	srv, _ := fakeComlink(t, `{"level":85,"ratio":1.5}`)

	out, err := run(t, srv.URL, "events", "--output", "yaml")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(out, "level: 85") || !strings.Contains(out, "ratio: 1.5") {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestRejectsUnknownOutput(t *testing.T) {
	srv, reqs := fakeComlink(t, `{}`)
	if _, err := run(t, srv.URL, "events", "--output", "xml"); err == nil {
		t.Fatalf("expected error for unsupported output")
	}
	if len(*reqs) != 0 {
		t.Fatalf("expected no requests, got %d", len(*reqs))
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := run(t, srv.URL, "events"); err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestHostFlagTakesPrecedenceOverURL(t *testing.T) {
	srv, reqs := fakeComlink(t, `{"events":[]}`)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	cmd := NewRootCmd(&config.Config{ComlinkURL: "http://unreachable.invalid:1", RequestTimeout: 2 * time.Second})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"events", "--host", u.Hostname(), "--port", u.Port()})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(*reqs) != 1 {
		t.Fatalf("expected the request to reach --host, got %d requests", len(*reqs))
	}

	usage := cmd.PersistentFlags().Lookup("host").Usage
	if !strings.Contains(usage, "--url is ignored") {
		t.Fatalf("--host usage does not describe precedence: %q", usage)
	}
}
