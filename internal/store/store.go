// Package store adapts the three logical collections (events, players,
// detections) onto BadgerDB, an embedded KV engine. Every operation is
// wrapped by a gobreaker circuit breaker so a run of engine failures fails
// fast instead of piling up blocking I/O against an unhealthy store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/logging"
)

// Table names one of the three logical collections. Records are namespaced
// by table within the single badger.DB instance via a key prefix.
type Table string

const (
	TableEvents     Table = "events"
	TablePlayers    Table = "players"
	TableDetections Table = "detections"
)

// Store is the composite-key KV adapter used by the batch orchestrator.
type Store struct {
	db      *badger.DB
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     zerolog.Logger
}

// Open opens (creating if necessary) the badger database at cfg.DataDir,
// or an in-memory instance when cfg.InMemory is set (used by tests).
func Open(cfg config.StoreConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.DataDir).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	breakerSettings := gobreaker.Settings{
		Name:        "store",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WithComponent("store").Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRecordNotFound)
		},
	}

	return &Store{
		db:      db,
		breaker: gobreaker.NewCircuitBreaker[[]byte](breakerSettings),
		log:     logging.WithComponent("store"),
	}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

func badgerKey(table Table, pk, sk string) []byte {
	return []byte(string(table) + "/" + pk + "/" + sk)
}

// get reads the raw value at (table, pk, sk) through the circuit breaker.
// Returns ErrRecordNotFound when absent — this is not a breaker failure.
func (s *Store) get(_ context.Context, table Table, pk, sk string) ([]byte, error) {
	key := badgerKey(table, pk, sk)

	val, err := s.breaker.Execute(func() ([]byte, error) {
		var out []byte
		err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRecordNotFound
			}
			if err != nil {
				return err
			}
			return item.Value(func(v []byte) error {
				out = append(out, v...)
				return nil
			})
		})
		return out, err
	})

	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s/%s: %w", table, pk, sk, err)
	}
	return val, nil
}

// put writes a single raw value at (table, pk, sk) through the circuit
// breaker. ttlSeconds is an absolute expiry in epoch seconds; 0 means no
// expiry (profile/features records).
func (s *Store) put(_ context.Context, table Table, pk, sk string, value []byte, ttlSeconds int64) error {
	key := badgerKey(table, pk, sk)

	_, err := s.breaker.Execute(func() ([]byte, error) {
		return nil, s.db.Update(func(txn *badger.Txn) error {
			entry := badger.NewEntry(key, value)
			if ttlSeconds > 0 {
				entry = entry.WithTTL(time.Until(time.Unix(ttlSeconds, 0)))
			}
			return txn.SetEntry(entry)
		})
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	if err != nil {
		return fmt.Errorf("put %s/%s/%s: %w", table, pk, sk, err)
	}
	return nil
}
