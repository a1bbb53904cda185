package storage

import (
	"testing"
	"time"

	"github.com/poiesic/hitcount/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalSearchRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.SearchRecord
	}{
		{
			name: "single provider",
			record: &core.SearchRecord{
				Id:         core.ID(1),
				Query:      "hello world",
				Providers:  []string{"google"},
				Totals:     core.EngineTotals{"google": 1234567},
				SearchedAt: now,
			},
		},
		{
			name: "mixed case and duplicate providers",
			record: &core.SearchRecord{
				Id:         core.ID(99),
				Query:      "rock & roll",
				Providers:  []string{"Google", "bing", "bing"},
				Totals:     core.EngineTotals{"Google": 0, "bing": 9_000_000_000},
				SearchedAt: now,
			},
		},
		{
			name: "unicode query",
			record: &core.SearchRecord{
				Id:         core.ID(7),
				Query:      "café naïve 東京",
				Providers:  []string{"yandex"},
				Totals:     core.EngineTotals{"yandex": 5},
				SearchedAt: now,
			},
		},
		{
			name: "empty query and no providers",
			record: &core.SearchRecord{
				Id:         core.ID(3),
				Providers:  []string{},
				Totals:     core.EngineTotals{},
				SearchedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalSearchRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalSearchRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, tt.record.Query, decoded.Query)
			assert.Equal(t, tt.record.Providers, decoded.Providers)
			assert.Equal(t, tt.record.Totals, decoded.Totals)
			assert.True(t, tt.record.SearchedAt.Equal(decoded.SearchedAt))
		})
	}
}

func TestUnmarshalSearchRecord_UTC(t *testing.T) {
	local := time.FixedZone("UTC+5", 5*60*60)
	record := &core.SearchRecord{
		Id:         core.ID(5),
		Query:      "q",
		Providers:  []string{"google", "bing", "yahoo", "baidu"},
		Totals:     core.EngineTotals{"google": 1, "bing": 2, "yahoo": 3, "baidu": 4},
		SearchedAt: time.Date(2025, 2, 3, 4, 5, 6, 7000, local),
	}

	decoded, err := UnmarshalSearchRecord(MarshalSearchRecord(record))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, decoded.SearchedAt.Location())
	assert.True(t, record.SearchedAt.Equal(decoded.SearchedAt))
	assert.Equal(t, record.Totals, decoded.Totals)
}

func TestUnmarshalSearchRecord_Invalid(t *testing.T) {
	valid := MarshalSearchRecord(&core.SearchRecord{
		Id:         core.ID(1),
		Query:      "hello",
		Providers:  []string{"google"},
		Totals:     core.EngineTotals{"google": 10},
		SearchedAt: time.Unix(1700000000, 0).UTC(),
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)/2]},
		{"missing timestamp", valid[:len(valid)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSearchRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
