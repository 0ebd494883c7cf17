package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/trafficlens/roadrag/core"
	"github.com/trafficlens/roadrag/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(exchangeIDSeq)
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

// AddExchange persists a completed exchange, generating its ID and filling
// CreatedAt when unset.
func (r *HistoryRepository) AddExchange(ctx context.Context, exchange *core.Exchange) (*core.Exchange, error) {
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}
	if err := core.ValidateExchange(exchange); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if exchange.Id == 0 {
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
			exchange.Id = core.ID(nextID)
		}

		value, err := storage.MarshalExchange(exchange)
		if err != nil {
			return err
		}
		if err := tx.Set(makeExchangeKey(exchange.Id), value); err != nil {
			return err
		}

		dateKey := makeExchangeDateKey(exchange.CreatedAt, exchange.Id)
		if err := tx.Set(dateKey, storage.MarshalID(exchange.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return exchange, err
}

// GetExchange retrieves a single exchange by ID.
func (r *HistoryRepository) GetExchange(ctx context.Context, id core.ID) (*core.Exchange, error) {
	var exchange *core.Exchange

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		exchange, err = r.readExchange(tx, makeExchangeKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, storage.ErrNotFound
	}
	return exchange, nil
}

// RecentExchanges retrieves up to limit exchanges, most recent first.
func (r *HistoryRepository) RecentExchanges(ctx context.Context, limit int) ([]*core.Exchange, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var exchanges []*core.Exchange
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(exchangeDatePrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the end of the prefix range.
		seekKey := append([]byte(exchangeDatePrefix+":"), 0xFF)
		for iter.Seek(seekKey); iter.Valid() && len(exchanges) < limit; iter.Next() {
			exchange, err := r.readIndexedExchange(tx, iter.Item())
			if err != nil {
				return err
			}
			if exchange != nil {
				exchanges = append(exchanges, exchange)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return exchanges, nil
}

// ExchangesByDateRange retrieves exchanges where start <= CreatedAt < end,
// ordered by CreatedAt ascending.
func (r *HistoryRepository) ExchangesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Exchange, error) {
	if end.Before(start) {
		return nil, storage.ErrInvalidQuery
	}

	startKey := makePartialExchangeDateKey(start)
	endKey := makePartialExchangeDateKey(end)

	var exchanges []*core.Exchange
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(exchangeDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if bytes.Compare(key[:len(endKey)], endKey) >= 0 {
				break
			}
			exchange, err := r.readIndexedExchange(tx, iter.Item())
			if err != nil {
				return err
			}
			if exchange != nil {
				exchanges = append(exchanges, exchange)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return exchanges, nil
}

// readExchange reads and deserializes an exchange by primary key.
// Returns nil without error when the key does not exist.
func (r *HistoryRepository) readExchange(tx *badger.Txn, key []byte) (*core.Exchange, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var exchange *core.Exchange
	err = item.Value(func(val []byte) error {
		var err error
		exchange, err = storage.UnmarshalExchange(val)
		return err
	})
	return exchange, err
}

// readIndexedExchange resolves a date index entry to its exchange.
func (r *HistoryRepository) readIndexedExchange(tx *badger.Txn, item *badger.Item) (*core.Exchange, error) {
	var id core.ID
	err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.readExchange(tx, makeExchangeKey(id))
}
