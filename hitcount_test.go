package hitcount

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
	"github.com/poiesic/hitcount/engine/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Run("requires an API key without a fetcher", func(t *testing.T) {
		svc, err := NewService()
		assert.ErrorIs(t, err, engine.ErrInvalidConfig)
		assert.Nil(t, svc)
	})

	t.Run("http fetcher from config", func(t *testing.T) {
		svc, err := NewService(WithEngineConfig(engine.NewConfig(engine.WithAPIKey("test-key"))))
		require.NoError(t, err)
		defer svc.Close()

		assert.Nil(t, svc.History())
		assert.NotNil(t, svc.Metrics())
		assert.Equal(t, engine.DefaultRegistry().Providers(), svc.Providers())
	})

	t.Run("error with invalid history path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		svc, err := NewService(WithFetcher(mock.NewFetcher()), WithHistoryPath(tmpFile))
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestService_Search(t *testing.T) {
	fetcher := mock.NewFetcher()
	svc, err := NewService(WithFetcher(fetcher), WithPoolSize(2))
	require.NoError(t, err)
	defer svc.Close()

	resp, err := svc.Search(context.Background(), "hello world", []string{"google", "baidu"})
	require.NoError(t, err)

	assert.Equal(t, mock.CountFor("google", "hello")+mock.CountFor("google", "world"), resp.Totals["google"])
	assert.Equal(t, mock.CountFor("baidu", "hello")+mock.CountFor("baidu", "world"), resp.Totals["baidu"])
	assert.Equal(t, 4, fetcher.CallCount())

	_, err = svc.Search(context.Background(), "hello", []string{"altavista"})
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

func TestService_CustomRegistry(t *testing.T) {
	registry, err := engine.NewRegistry(engine.ProviderConfig{Identifier: "local", QueryParam: "q", FallbackMultiplier: 1})
	require.NoError(t, err)

	svc, err := NewService(WithFetcher(mock.NewFetcher()), WithRegistry(registry))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, []string{"local"}, svc.Providers())
	_, err = svc.Search(context.Background(), "hello", []string{"google"})
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

func TestService_History(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	ctx := context.Background()

	svc, err := NewService(WithFetcher(mock.NewFetcher()), WithHistoryPath(dir))
	require.NoError(t, err)

	resp, err := svc.Search(ctx, "persisted query", []string{"yahoo"})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	svc, err = NewService(WithFetcher(mock.NewFetcher()), WithHistoryPath(dir))
	require.NoError(t, err)
	defer svc.Close()

	recent, err := svc.History().GetRecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "persisted query", recent[0].Query)
	assert.Equal(t, resp.Totals, recent[0].Totals)
}

func TestService_MemoryHistory(t *testing.T) {
	svc, err := NewService(WithFetcher(mock.NewFetcher()), WithMemoryHistory())
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Search(context.Background(), "one", []string{"google"})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "two", []string{"google"})
	require.NoError(t, err)

	recent, err := svc.History().GetRecentSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Query)
}

func TestService_Close(t *testing.T) {
	svc, err := NewService(WithFetcher(mock.NewFetcher()), WithMemoryHistory())
	require.NoError(t, err)

	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}
