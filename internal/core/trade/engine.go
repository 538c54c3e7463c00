package trade

import (
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// engineVersion is reported by Version for API compatibility checks.
const engineVersion = 1

// Engine is the peer-to-peer escrow/exchange engine: the indexed offer
// ledger, the fee/configuration store and the swap/acceptance logic in one
// serialized unit. All mutating operations run under a single mutex; each
// either completes fully or fails with zero observable side effects.
type Engine struct {
	mu sync.RWMutex

	handler *asset.Handler

	// paymentToken is the fungible contract all flat fees are charged in.
	paymentToken asset.Address

	// feeRecipient is the default recipient written into a class config
	// the first time it is created.
	feeRecipient asset.Address

	// admin is the only account allowed to mutate collection configs.
	admin asset.Address

	persister Persister
	history   HistorySink

	// Offer arena. Records are addressed by stable ids and tombstoned in
	// place; the id counter never goes backwards.
	offers map[uint64]Offer
	nextID uint64

	// byRequested holds, per requested-asset key, the insertion-ordered
	// id sequence a prospective acceptor enumerates. Slots are never
	// compacted out.
	byRequested map[AssetKey][]uint64

	// byOffered holds, per offered-asset key, every offer placed with
	// that asset as collateral. Entries invalidated by an acceptance on a
	// different requested key stay referenced here and are filtered out
	// lazily at read time.
	byOffered map[AssetKey][]uint64

	// accepted is the append-only historical log per requested key.
	accepted map[AssetKey][]Offer

	configs map[CollectionClass]CollectionConfig
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersister sets the durability hook for ledger state.
func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persister = p }
}

// WithHistorySink mirrors accepted offers to an out-of-band history store.
func WithHistorySink(s HistorySink) Option {
	return func(e *Engine) { e.history = s }
}

// WithSnapshot seeds the engine with previously persisted state.
func WithSnapshot(s *Snapshot) Option {
	return func(e *Engine) {
		if s == nil {
			return
		}
		e.nextID = s.NextID
		if s.Offers != nil {
			e.offers = s.Offers
		}
		if s.ByRequested != nil {
			e.byRequested = s.ByRequested
		}
		if s.ByOffered != nil {
			e.byOffered = s.ByOffered
		}
		if s.History != nil {
			e.accepted = s.History
		}
		if s.Configs != nil {
			e.configs = s.Configs
		}
	}
}

// New creates an engine that moves assets through handler, charges flat fees
// in paymentToken, defaults new class configs to feeRecipient and restricts
// configuration changes to admin.
func New(handler *asset.Handler, paymentToken, feeRecipient, admin asset.Address, opts ...Option) *Engine {
	e := &Engine{
		handler:      handler,
		paymentToken: paymentToken,
		feeRecipient: feeRecipient,
		admin:        admin,
		persister:    nopPersister{},
		offers:       make(map[uint64]Offer),
		byRequested:  make(map[AssetKey][]uint64),
		byOffered:    make(map[AssetKey][]uint64),
		accepted:     make(map[AssetKey][]Offer),
		configs:      make(map[CollectionClass]CollectionConfig),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version returns the engine protocol version.
func (e *Engine) Version() uint32 {
	return engineVersion
}

// Handler exposes the engine's asset handler for capability queries.
func (e *Engine) Handler() *asset.Handler {
	return e.handler
}

// PaymentToken returns the fungible contract flat fees are charged in.
func (e *Engine) PaymentToken() asset.Address {
	return e.paymentToken
}
