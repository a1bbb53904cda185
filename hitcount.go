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


package hitcount

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/hitcount/aggregate"
	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
	"github.com/poiesic/hitcount/engine/serpapi"
	"github.com/poiesic/hitcount/metrics"
	"github.com/poiesic/hitcount/storage"
	"github.com/poiesic/hitcount/storage/badger"
)

// Service wires the registry, provider client, aggregator, metrics and
// optional search history into one value.
type Service struct {
	registry   *engine.Registry
	aggregator *aggregate.Aggregator
	metrics    *metrics.Collector
	backend    *badger.Backend
	history    storage.HistoryRepository
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	engineConfig  *engine.Config
	fetcher       engine.Fetcher
	registry      *engine.Registry
	historyPath   string
	memoryHistory bool
	poolSize      int
	logger        *slog.Logger
}

// WithEngineConfig sets the provider client configuration.
// Ignored when WithFetcher is given.
func WithEngineConfig(config *engine.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.engineConfig = config
	}
}

// WithFetcher replaces the HTTP provider client.
func WithFetcher(fetcher engine.Fetcher) ServiceOption {
	return func(o *serviceOptions) {
		o.fetcher = fetcher
	}
}

// WithRegistry replaces the default provider registry.
func WithRegistry(registry *engine.Registry) ServiceOption {
	return func(o *serviceOptions) {
		o.registry = registry
	}
}

// WithHistoryPath records completed searches in a BadgerDB at path.
func WithHistoryPath(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.historyPath = path
	}
}

// WithMemoryHistory records completed searches in an in-memory BadgerDB.
func WithMemoryHistory() ServiceOption {
	return func(o *serviceOptions) {
		o.memoryHistory = true
	}
}

// WithPoolSize sets the number of concurrent provider calls.
func WithPoolSize(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.poolSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService creates a Service. Without WithFetcher it talks to the
// search API described by the engine configuration, which must carry an
// API key.
func NewService(opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		engineConfig: engine.DefaultConfig(),
		registry:     engine.DefaultRegistry(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	fetcher := options.fetcher
	if fetcher == nil {
		var err error
		fetcher, err = serpapi.NewFetcher(options.engineConfig)
		if err != nil {
			return nil, err
		}
	}

	s := &Service{
		registry: options.registry,
		metrics:  metrics.NewCollector("hitcount"),
		logger:   options.logger.With("component", "service"),
	}

	aggOpts := []aggregate.Option{
		aggregate.WithLogger(options.logger),
		aggregate.WithMonitor(s.metrics),
	}
	if options.poolSize > 0 {
		aggOpts = append(aggOpts, aggregate.WithPoolSize(options.poolSize))
	}

	if options.historyPath != "" || options.memoryHistory {
		backend, err := badger.OpenBackend(options.historyPath, options.memoryHistory, badger.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
		history, err := badger.NewHistoryRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		s.backend = backend
		s.history = history
		aggOpts = append(aggOpts, aggregate.WithRecorder(aggregate.RecorderFunc(s.recordSearch)))
	}

	aggregator, err := aggregate.NewAggregator(options.registry, fetcher, aggOpts...)
	if err != nil {
		s.closeHistory()
		return nil, err
	}
	s.aggregator = aggregator

	return s, nil
}

// Search returns the total result count per provider for query.
// Inputs are not validated here; see core.ValidateSearchRequest.
func (s *Service) Search(ctx context.Context, query string, providers []string) (*core.SearchResponse, error) {
	return s.aggregator.Aggregate(ctx, query, providers)
}

// Providers lists the supported provider identifiers.
func (s *Service) Providers() []string {
	return s.registry.Providers()
}

// Registry returns the provider registry.
func (s *Service) Registry() *engine.Registry {
	return s.registry
}

// History returns the search history, or nil when history is disabled.
func (s *Service) History() storage.HistoryRepository {
	return s.history
}

// Metrics returns the service's Prometheus collector.
func (s *Service) Metrics() *metrics.Collector {
	return s.metrics
}

// Close releases the worker pool and closes the history store.
func (s *Service) Close() error {
	s.aggregator.Release()
	return s.closeHistory()
}

func (s *Service) recordSearch(ctx context.Context, record *core.SearchRecord) error {
	_, err := s.history.AddSearch(ctx, record)
	return err
}

func (s *Service) closeHistory() error {
	if s.backend == nil {
		return nil
	}
	var errs []error
	if err := s.history.Close(); err != nil {
		s.logger.Error("error closing history repository", "err", err)
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	s.backend = nil
	return errors.Join(errs...)
}
