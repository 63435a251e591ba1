package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
)

// Badger db implementation, an embedded alternative to Redis for single host setups
type Badger struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

// NewBadger creates a new badger instance for the given path
func NewBadger(dbPath string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", dbPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Badger{
		db:       db,
		cancelGC: cancel,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for b.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return b, nil
}

// Close the database
func (b *Badger) Close() error {
	b.cancelGC()
	b.wg.Wait()

	return b.db.Close()
}

// Get a value
func (b *Badger) Get(ctx context.Context, key string) (val []byte, found bool, err error) {
	if err = ctx.Err(); err != nil {
		return nil, false, connectivityError("get", key, err)
	}

	err = b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		found = err == nil

		return err
	})
	if err != nil {
		return nil, false, connectivityError("get", key, err)
	}

	return
}

// Set a value
func (b *Badger) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return connectivityError("set", key, err)
	}

	err := b.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), value)
	})
	if err != nil {
		return connectivityError("set", key, err)
	}

	return nil
}

// Del a key
func (b *Badger) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return connectivityError("del", key, err)
	}

	err := b.db.Update(func(tx *badger.Txn) error {
		return tx.Delete([]byte(key))
	})
	if err != nil {
		return connectivityError("del", key, err)
	}

	return nil
}

// Keys with the given prefix
func (b *Badger) Keys(ctx context.Context, prefix string) (keys []string, err error) {
	if err = ctx.Err(); err != nil {
		return nil, connectivityError("scan", prefix, err)
	}

	keys = []string{}
	err = b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}

		return nil
	})
	if err != nil {
		return nil, connectivityError("scan", prefix, err)
	}

	return keys, nil
}

// MGet values for keys within a single read transaction
func (b *Badger) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, connectivityError("mget", "", err)
	}

	out := make([][]byte, len(keys))
	err := b.db.View(func(tx *badger.Txn) error {
		for i, key := range keys {
			item, err := tx.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}

			if err != nil {
				return fmt.Errorf("failed to get value for key %s: %w", key, err)
			}

			out[i], err = item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to copy value for key %s: %w", key, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, connectivityError("mget", "", err)
	}

	return out, nil
}
