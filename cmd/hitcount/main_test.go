package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	var zero T
	return zero
}

// newSearchAPI serves a fixed total for every request carrying apiKey.
func newSearchAPI(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"search_information":{"total_results":"1,000"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(&bytes.Buffer{}), "search")

	t.Run("provider is required", func(t *testing.T) {
		flag := findFlag[*cli.StringSliceFlag](t, cmd, "provider")
		assert.True(t, flag.Required)
		assert.Equal(t, []string{"p"}, flag.Aliases)
	})

	t.Run("api-key reads HITCOUNT_API_KEY", func(t *testing.T) {
		flag := findFlag[*cli.StringFlag](t, cmd, "api-key")
		assert.Equal(t, []string{"HITCOUNT_API_KEY"}, flag.EnvVars)
		assert.Empty(t, flag.Value)
	})

	t.Run("base-url defaults to the engine default", func(t *testing.T) {
		flag := findFlag[*cli.StringFlag](t, cmd, "base-url")
		assert.Equal(t, engine.DefaultConfig().BaseURL, flag.Value)
		assert.Equal(t, []string{"HITCOUNT_BASE_URL"}, flag.EnvVars)
	})

	t.Run("timeout has default value", func(t *testing.T) {
		flag := findFlag[*cli.DurationFlag](t, cmd, "timeout")
		assert.Equal(t, 10*time.Second, flag.Value)
	})

	t.Run("db is optional", func(t *testing.T) {
		flag := findFlag[*cli.StringFlag](t, cmd, "db")
		assert.False(t, flag.Required)
		assert.Equal(t, []string{"HITCOUNT_DB"}, flag.EnvVars)
	})
}

func TestServeCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(&bytes.Buffer{}), "serve")

	addr := findFlag[*cli.StringFlag](t, cmd, "addr")
	assert.Equal(t, ":8080", addr.Value)
	assert.Equal(t, []string{"HITCOUNT_ADDR"}, addr.EnvVars)

	poolSize := findFlag[*cli.IntFlag](t, cmd, "pool-size")
	assert.Equal(t, 0, poolSize.Value)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(&bytes.Buffer{}), "history")

	db := findFlag[*cli.StringFlag](t, cmd, "db")
	assert.True(t, db.Required)

	limit := findFlag[*cli.IntFlag](t, cmd, "limit")
	assert.Equal(t, 20, limit.Value)
}

func TestSearchCommand(t *testing.T) {
	api := newSearchAPI(t, "test-key")
	t.Setenv("HITCOUNT_API_KEY", "test-key")
	t.Setenv("HITCOUNT_BASE_URL", api.URL)
	t.Setenv("HITCOUNT_DB", "")

	t.Run("prints totals", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"hitcount", "search", "-p", "google", "-p", "Bing", "hello", "world"})
		require.NoError(t, err)

		assert.Contains(t, out.String(), "hello world")
		assert.Regexp(t, `google\s+2000`, out.String())
		assert.Regexp(t, `Bing\s+2000`, out.String())
	})

	t.Run("prints json", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"hitcount", "search", "--json", "-p", "yahoo", "golang"})
		require.NoError(t, err)

		var resp core.SearchResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.Equal(t, core.EngineTotals{"yahoo": 1000}, resp.Totals)
	})

	t.Run("provider calls that fail count as zero", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"hitcount", "search", "--api-key", "wrong", "--json", "-p", "google", "golang"})
		require.NoError(t, err)

		var resp core.SearchResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.Equal(t, int64(0), resp.Totals["google"])
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "search", "-p", "altavista", "hello"})
		assert.ErrorIs(t, err, core.ErrInvalidProviders)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "search", "-p", "google"})
		assert.ErrorIs(t, err, core.ErrInvalidQuery)
	})

	t.Run("requires provider flag", func(t *testing.T) {
		err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "search", "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider")
	})
}

func TestSearchCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("HITCOUNT_API_KEY", "")

	err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "search", "-p", "google", "hello"})
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestSearchAndHistoryCommands(t *testing.T) {
	api := newSearchAPI(t, "test-key")
	dbPath := filepath.Join(t.TempDir(), "history")
	t.Setenv("HITCOUNT_API_KEY", "test-key")
	t.Setenv("HITCOUNT_BASE_URL", api.URL)
	t.Setenv("HITCOUNT_DB", dbPath)

	for _, query := range []string{"first query", "second query"} {
		args := append([]string{"hitcount", "search", "-p", "google"}, strings.Fields(query)...)
		require.NoError(t, newApp(&bytes.Buffer{}).Run(args))
	}

	t.Run("table output", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, newApp(&out).Run([]string{"hitcount", "history"}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "second query")
		assert.Contains(t, lines[1], "google=2000")
		assert.Contains(t, lines[2], "first query")
	})

	t.Run("json output with limit", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, newApp(&out).Run([]string{"hitcount", "history", "--json", "--limit", "1"}))

		var records []*core.SearchRecord
		require.NoError(t, json.Unmarshal(out.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "second query", records[0].Query)
	})

	t.Run("invalid limit", func(t *testing.T) {
		err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "history", "--limit", "0"})
		assert.Error(t, err)
	})
}

func TestProvidersCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"hitcount", "providers"}))

	lines := strings.Fields(out.String())
	assert.Equal(t, engine.DefaultRegistry().Providers(), lines)
}

func TestWriteTotals_DistinctProviders(t *testing.T) {
	var out bytes.Buffer
	resp := &core.SearchResponse{
		Query:     "q",
		Providers: []string{"google", "google", "bing"},
		Totals:    core.EngineTotals{"google": 5, "bing": 7},
	}
	require.NoError(t, writeTotals(&out, resp))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `google\s+5`, lines[1])
	assert.Regexp(t, `bing\s+7`, lines[2])
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	missing := filepath.Join(dir, ".env.missing")

	require.NoError(t, os.WriteFile(first, []byte("HITCOUNT_TEST_VALUE=one\nHITCOUNT_TEST_OTHER=kept\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("HITCOUNT_TEST_VALUE=two\n"), 0644))
	t.Setenv("HITCOUNT_TEST_VALUE", "")
	t.Setenv("HITCOUNT_TEST_OTHER", "")

	loaded := loadEnv(first, missing, second)

	assert.Equal(t, []string{first, second}, loaded)
	assert.Equal(t, "two", os.Getenv("HITCOUNT_TEST_VALUE"))
	assert.Equal(t, "kept", os.Getenv("HITCOUNT_TEST_OTHER"))
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"WARN", false},
		{"error", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "--log-level", tt.level, "providers"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newApp(&bytes.Buffer{}).Run([]string{"hitcount", "-l", "debug", "providers"})
		assert.NoError(t, err)
	})
}
