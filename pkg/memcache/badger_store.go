package mem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// OpenBadger opens a badger database at path, or an in-memory one when
// path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return db, nil
}

func NewBadgerStore(db *badger.DB, logger *zap.Logger) *BadgerStore {
	return &BadgerStore{db: db, logger: logger.Named("badger_cache")}
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, true
}

func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *BadgerStore) Delete(_ context.Context, key string) bool {
	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return txn.Delete([]byte(key))
	})
	if err != nil {
		s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}
