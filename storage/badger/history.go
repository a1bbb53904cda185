package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a history repository on backend.
func NewHistoryRepository(backend *Backend) (storage.HistoryRepository, error) {
	return newHistoryRepository(backend)
}

func newHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(searchRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// AddSearch stores a completed search under a new sequence ID.
func (r *HistoryRepository) AddSearch(ctx context.Context, record *core.SearchRecord) (*core.SearchRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		record.Id = core.ID(nextID)

		if record.SearchedAt.IsZero() {
			record.SearchedAt = time.Now().UTC()
		}
		// Stored with microsecond precision
		record.SearchedAt = record.SearchedAt.UTC().Truncate(time.Microsecond)

		key := makeSearchRecordKey(record.Id)
		if err := tx.Set(key, storage.MarshalSearchRecord(record)); err != nil {
			return err
		}

		dateKey := makeSearchDateKey(record.SearchedAt, record.Id)
		if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetSearch retrieves a single search by ID.
func (r *HistoryRepository) GetSearch(ctx context.Context, id core.ID) (*core.SearchRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.SearchRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readSearchRecord(tx, makeSearchRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecentSearches retrieves up to limit searches, most recent first.
func (r *HistoryRepository) GetRecentSearches(ctx context.Context, limit int) ([]*core.SearchRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidLimit
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	results := []*core.SearchRecord{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Reverse iteration over the date index yields newest first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := searchDateIndexPrefix()
		for iter.Seek(makeSearchDateSeekKey()); iter.Valid() && len(results) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			if !bytes.HasPrefix(item.Key(), prefix) {
				break
			}

			var recordID core.ID
			if err := item.Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readSearchRecord(tx, makeSearchRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// readSearchRecord reads a search record from the transaction.
// Returns nil without error if the key doesn't exist.
func (r *HistoryRepository) readSearchRecord(tx *badger.Txn, key []byte) (*core.SearchRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.SearchRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalSearchRecord(val)
		return unmarshalErr
	})
	return record, err
}
