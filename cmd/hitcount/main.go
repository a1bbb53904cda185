// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/hitcount"
	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
	"github.com/poiesic/hitcount/server"
	"github.com/poiesic/hitcount/storage/badger"
	"github.com/urfave/cli/v2"
)

// envFiles are loaded, in order, before flags are parsed.
var envFiles = []string{".env", ".env.local"}

func main() {
	loadEnv(envFiles...)

	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "hitcount",
		Usage:  "Compare search engine result counts for a query",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Sum result counts for every word of a query",
				ArgsUsage: "<query words...>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.StringSliceFlag{
						Name:     "provider",
						Aliases:  []string{"p"},
						Usage:    "Provider to query (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB history directory (optional)",
						EnvVars: []string{"HITCOUNT_DB"},
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the response as JSON",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"HITCOUNT_ADDR"},
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB history directory (optional)",
						EnvVars: []string{"HITCOUNT_DB"},
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Maximum concurrent provider calls (0 uses the default)",
					},
				),
			},
			{
				Name:   "history",
				Usage:  "Show recent searches",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB history directory",
						EnvVars:  []string{"HITCOUNT_DB"},
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of searches to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the searches as JSON",
					},
				},
			},
			{
				Name:   "providers",
				Usage:  "List supported providers",
				Action: providersCommand,
			},
		},
	}
}

// engineFlags are shared by commands that call the search API.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Search API key",
			EnvVars: []string{"HITCOUNT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Search API base URL",
			Value:   engine.DefaultConfig().BaseURL,
			EnvVars: []string{"HITCOUNT_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for a single provider call",
			Value: 10 * time.Second,
		},
	}
}

func engineConfig(c *cli.Context) (*engine.Config, error) {
	config := engine.NewConfig(
		engine.WithAPIKey(c.String("api-key")),
		engine.WithBaseURL(c.String("base-url")),
		engine.WithTimeout(c.Duration("timeout")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search API configuration: %w", err)
	}
	return config, nil
}

func searchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(c.Args().Slice(), " ")
	providers := c.StringSlice("provider")

	if err := core.ValidateSearchRequest(query, providers, engine.DefaultRegistry().Providers()); err != nil {
		return err
	}

	config, err := engineConfig(c)
	if err != nil {
		return err
	}

	opts := []hitcount.ServiceOption{hitcount.WithEngineConfig(config)}
	if dbPath := c.String("db"); dbPath != "" {
		opts = append(opts, hitcount.WithHistoryPath(dbPath))
	}

	svc, err := hitcount.NewService(opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	resp, err := svc.Search(ctx, query, providers)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	return writeTotals(c.App.Writer, resp)
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := engineConfig(c)
	if err != nil {
		return err
	}

	opts := []hitcount.ServiceOption{
		hitcount.WithEngineConfig(config),
		hitcount.WithPoolSize(c.Int("pool-size")),
	}
	if dbPath := c.String("db"); dbPath != "" {
		opts = append(opts, hitcount.WithHistoryPath(dbPath))
	}

	svc, err := hitcount.NewService(opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	serverOpts := []server.Option{server.WithMetrics(svc.Metrics())}
	if history := svc.History(); history != nil {
		serverOpts = append(serverOpts, server.WithHistory(history))
	}

	router, err := server.New(svc, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return server.Run(ctx, c.String("addr"), router, slog.Default())
}

func historyCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewHistoryRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	records, err := repo.GetRecentSearches(c.Context, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, records)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEARCHED AT\tQUERY\tTOTALS")
	for _, record := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			record.Id,
			record.SearchedAt.Format(time.RFC3339),
			record.Query,
			formatTotals(record.Providers, record.Totals))
	}
	return w.Flush()
}

func providersCommand(c *cli.Context) error {
	for _, name := range engine.DefaultRegistry().Providers() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTotals prints one line per distinct provider in request order.
func writeTotals(out io.Writer, resp *core.SearchResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "QUERY\t%s\n", resp.Query)
	for _, provider := range distinct(resp.Providers) {
		fmt.Fprintf(w, "%s\t%d\n", provider, resp.Totals[provider])
	}
	return w.Flush()
}

func formatTotals(providers []string, totals core.EngineTotals) string {
	parts := make([]string, 0, len(totals))
	for _, provider := range distinct(providers) {
		parts = append(parts, fmt.Sprintf("%s=%d", provider, totals[provider]))
	}
	return strings.Join(parts, " ")
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// loadEnv loads environment files that exist, later files overriding
// earlier ones. Missing files are skipped.
func loadEnv(files ...string) []string {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			slog.Warn("failed to load env file", "file", file, "err", err)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) > 0 {
		slog.Debug("loaded env files", "files", strings.Join(loaded, ", "))
	}
	return loaded
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
