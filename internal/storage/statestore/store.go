// Package statestore persists the offer ledger's state through the
// database.DB key/value abstraction. Each engine operation commits as one
// atomic batch; Load rebuilds the full in-memory state at startup.
package statestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/trade"
	"github.com/genecyber/goNFTraded/internal/storage/database"
)

// Store implements trade.Persister over a database.DB.
type Store struct {
	db       database.DB
	compress bool
}

// Option configures a Store.
type Option func(*Store)

// WithoutCompression disables the lz4 value envelope; values are always
// stored raw.
func WithoutCompression() Option {
	return func(s *Store) { s.compress = false }
}

// New creates a store over db.
func New(db database.DB, opts ...Option) *Store {
	s := &Store{db: db, compress: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewBatch implements trade.Persister.
func (s *Store) NewBatch() trade.Batch {
	return &batch{db: s.db, compress: s.compress}
}

// Load reads the complete persisted ledger state. A fresh store yields an
// empty snapshot.
func (s *Store) Load(ctx context.Context) (*trade.Snapshot, error) {
	snap := &trade.Snapshot{
		Offers:      make(map[uint64]trade.Offer),
		ByRequested: make(map[trade.AssetKey][]uint64),
		ByOffered:   make(map[trade.AssetKey][]uint64),
		History:     make(map[trade.AssetKey][]trade.Offer),
		Configs:     make(map[trade.CollectionClass]trade.CollectionConfig),
	}

	if data, err := s.db.Read(ctx, []byte(keyNextID)); err == nil {
		if len(data) != 8 {
			return nil, fmt.Errorf("statestore: malformed id counter")
		}
		snap.NextID = binary.BigEndian.Uint64(data)
	} else if !errors.Is(err, database.ErrKeyNotFound) {
		return nil, err
	}

	if err := s.loadOffers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadIndex(ctx, prefixRequested, snap.ByRequested); err != nil {
		return nil, err
	}
	if err := s.loadIndex(ctx, prefixOffered, snap.ByOffered); err != nil {
		return nil, err
	}
	if err := s.loadHistory(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadConfigs(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadOffers(ctx context.Context, snap *trade.Snapshot) error {
	return s.scan(ctx, prefixOffer, func(key, value []byte) error {
		rest := key[len(prefixOffer):]
		if len(rest) != 8 {
			return fmt.Errorf("statestore: malformed offer key %x", key)
		}
		id := binary.BigEndian.Uint64(rest)
		var offer trade.Offer
		if err := decodeValue(value, &offer); err != nil {
			return err
		}
		snap.Offers[id] = offer
		return nil
	})
}

func (s *Store) loadIndex(ctx context.Context, prefix string, out map[trade.AssetKey][]uint64) error {
	return s.scan(ctx, prefix, func(key, value []byte) error {
		assetKey, ok := parseAssetKey(key, prefix)
		if !ok {
			return fmt.Errorf("statestore: malformed index key %x", key)
		}
		var ids []uint64
		if err := decodeValue(value, &ids); err != nil {
			return err
		}
		out[assetKey] = ids
		return nil
	})
}

func (s *Store) loadHistory(ctx context.Context, snap *trade.Snapshot) error {
	// History keys sort by (asset key, sequence), so append order is
	// restored by a plain ordered scan.
	return s.scan(ctx, prefixHistory, func(key, value []byte) error {
		assetKey, ok := parseAssetKey(key, prefixHistory)
		if !ok {
			return fmt.Errorf("statestore: malformed history key %x", key)
		}
		var offer trade.Offer
		if err := decodeValue(value, &offer); err != nil {
			return err
		}
		snap.History[assetKey] = append(snap.History[assetKey], offer)
		return nil
	})
}

func (s *Store) loadConfigs(ctx context.Context, snap *trade.Snapshot) error {
	return s.scan(ctx, prefixConfig, func(key, value []byte) error {
		rest := key[len(prefixConfig):]
		if len(rest) != 4 {
			return fmt.Errorf("statestore: malformed config key %x", key)
		}
		class := trade.CollectionClass(binary.BigEndian.Uint32(rest))
		var cfg trade.CollectionConfig
		if err := decodeValue(value, &cfg); err != nil {
			return err
		}
		snap.Configs[class] = cfg
		return nil
	})
}

// scan iterates all keys under prefix.
func (s *Store) scan(ctx context.Context, prefix string, fn func(key, value []byte) error) error {
	start := []byte(prefix)
	end := prefixEnd(start)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// prefixEnd returns the smallest key greater than every key with the prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// batch accumulates one operation's writes.
type batch struct {
	db       database.DB
	compress bool
	ops      []database.BatchOperation
	err      error
}

func (b *batch) put(key []byte, v interface{}) {
	if b.err != nil {
		return
	}
	value, err := encodeValue(v, b.compress)
	if err != nil {
		b.err = err
		return
	}
	b.ops = append(b.ops, database.BatchOperation{Type: database.BatchPut, Key: key, Value: value})
}

func (b *batch) PutOffer(id uint64, o trade.Offer) {
	b.put(offerKey(id), o)
}

func (b *batch) PutRequestedIndex(key trade.AssetKey, ids []uint64) {
	b.put(assetKeyBytes(prefixRequested, key), ids)
}

func (b *batch) PutOfferedIndex(key trade.AssetKey, ids []uint64) {
	b.put(assetKeyBytes(prefixOffered, key), ids)
}

func (b *batch) AppendHistory(key trade.AssetKey, seq int, o trade.Offer) {
	b.put(historyKey(key, seq), o)
}

func (b *batch) PutConfig(class trade.CollectionClass, cfg trade.CollectionConfig) {
	b.put(configKey(class), cfg)
}

func (b *batch) PutNextID(id uint64) {
	if b.err != nil {
		return
	}
	value := binary.BigEndian.AppendUint64(nil, id)
	b.ops = append(b.ops, database.BatchOperation{Type: database.BatchPut, Key: []byte(keyNextID), Value: value})
}

func (b *batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.ops) == 0 {
		return nil
	}
	return b.db.Batch(ctx, b.ops)
}
