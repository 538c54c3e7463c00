package trade

import "context"

// Persister is the durability hook for the offer ledger. Each mutating
// operation collects its writes into one Batch and commits it before the
// in-memory state is touched, so a failed commit leaves no observable
// mutation. The nil persister (memory-only engine) is represented by
// nopPersister.
type Persister interface {
	NewBatch() Batch
}

// Batch accumulates one operation's writes and commits them atomically.
type Batch interface {
	// PutOffer writes an arena record. Tombstoning writes the zero Offer.
	PutOffer(id uint64, o Offer)

	// PutRequestedIndex writes the full id sequence for a requested key.
	PutRequestedIndex(key AssetKey, ids []uint64)

	// PutOfferedIndex writes the full id sequence for an offered key.
	PutOfferedIndex(key AssetKey, ids []uint64)

	// AppendHistory writes entry seq of the accepted-offer log for key.
	AppendHistory(key AssetKey, seq int, o Offer)

	// PutConfig writes a collection-class configuration.
	PutConfig(class CollectionClass, cfg CollectionConfig)

	// PutNextID writes the arena id counter.
	PutNextID(id uint64)

	// Commit applies all accumulated writes atomically.
	Commit(ctx context.Context) error
}

// Snapshot is the full persisted ledger state, used to rebuild the engine's
// in-memory view at startup.
type Snapshot struct {
	NextID      uint64
	Offers      map[uint64]Offer
	ByRequested map[AssetKey][]uint64
	ByOffered   map[AssetKey][]uint64
	History     map[AssetKey][]Offer
	Configs     map[CollectionClass]CollectionConfig
}

// HistorySink receives accepted offers for out-of-band history mirrors
// (e.g. the relational history database). Sink failures are logged, never
// propagated: the KV ledger commit is the source of truth.
type HistorySink interface {
	RecordAccepted(ctx context.Context, key AssetKey, o Offer) error
}

type nopPersister struct{}

type nopBatch struct{}

func (nopPersister) NewBatch() Batch { return nopBatch{} }

func (nopBatch) PutOffer(uint64, Offer)                      {}
func (nopBatch) PutRequestedIndex(AssetKey, []uint64)        {}
func (nopBatch) PutOfferedIndex(AssetKey, []uint64)          {}
func (nopBatch) AppendHistory(AssetKey, int, Offer)          {}
func (nopBatch) PutConfig(CollectionClass, CollectionConfig) {}
func (nopBatch) PutNextID(uint64)                            {}
func (nopBatch) Commit(context.Context) error                { return nil }
