package trade_test

import (
	"context"
	"testing"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
	"github.com/genecyber/goNFTraded/internal/tokens"
)

var (
	operator = asset.MustParseAddress("0x0000000000000000000000000000000000000e5c")
	admin    = asset.MustParseAddress("0x000000000000000000000000000000000000ad01")
	feeBank  = asset.MustParseAddress("0x000000000000000000000000000000000000ba0c")
	alice    = asset.MustParseAddress("0x000000000000000000000000000000000000a11c")
	bob      = asset.MustParseAddress("0x0000000000000000000000000000000000000b0b")
	carol    = asset.MustParseAddress("0x00000000000000000000000000000000000ca501")
)

// env wires an engine against in-memory token contracts. Each test gets a
// fresh registry with one contract of each standard plus the payment token.
type env struct {
	t *testing.T

	registry *tokens.Registry
	engine   *trade.Engine

	nfts    *tokens.Unique
	nftAddr asset.Address

	multi     *tokens.MultiUnit
	multiAddr asset.Address

	goods     *tokens.Fungible
	goodsAddr asset.Address

	cash     *tokens.Fungible
	cashAddr asset.Address
}

func newEnv(t *testing.T, opts ...trade.Option) *env {
	t.Helper()

	e := &env{
		t:        t,
		registry: tokens.NewRegistry(),
		nfts:     tokens.NewUnique(),
		multi:    tokens.NewMultiUnit(),
		goods:    tokens.NewFungible(),
		cash:     tokens.NewFungible(),
	}
	e.nftAddr = e.registry.Deploy(e.nfts)
	e.multiAddr = e.registry.Deploy(e.multi)
	e.goodsAddr = e.registry.Deploy(e.goods)
	e.cashAddr = e.registry.Deploy(e.cash)

	handler := asset.NewHandler(e.registry, operator)
	e.engine = trade.New(handler, e.cashAddr, feeBank, admin, opts...)
	return e
}

// mintNFT mints a unique unit to owner and approves the engine operator.
func (e *env) mintNFT(owner asset.Address, unit uint64) {
	e.t.Helper()
	if err := e.nfts.Mint(owner, unit); err != nil {
		e.t.Fatalf("mint nft %d: %v", unit, err)
	}
	e.nfts.SetApprovalForAll(owner, operator, true)
}

// mintMulti mints multi-unit balance to owner and approves the operator.
func (e *env) mintMulti(owner asset.Address, unit, quantity uint64) {
	e.t.Helper()
	e.multi.Mint(owner, unit, quantity)
	e.multi.SetApprovalForAll(owner, operator, true)
}

// mintGoods mints fungible tokens to owner with a matching allowance.
func (e *env) mintGoods(owner asset.Address, amount uint64) {
	e.t.Helper()
	e.goods.Mint(owner, amount)
	e.goods.Approve(owner, operator, amount)
}

// fund credits owner with payment tokens and a matching allowance.
func (e *env) fund(owner asset.Address, amount uint64) {
	e.t.Helper()
	e.cash.Mint(owner, amount)
	e.cash.Approve(owner, operator, amount)
}

func (e *env) nft(unit uint64) trade.AssetRef {
	return trade.AssetRef{Contract: e.nftAddr, Unit: unit, Quantity: 1}
}

func (e *env) multiRef(unit, quantity uint64) trade.AssetRef {
	return trade.AssetRef{Contract: e.multiAddr, Unit: unit, Quantity: quantity}
}

func (e *env) goodsRef(amount uint64) trade.AssetRef {
	return trade.AssetRef{Contract: e.goodsAddr, Quantity: amount}
}

// addOffer places an offer that is expected to succeed.
func (e *env) addOffer(maker asset.Address, offered, requested trade.AssetRef, class trade.CollectionClass) trade.OfferSlot {
	e.t.Helper()
	slot, err := e.engine.AddOffer(context.Background(), maker, offered, requested, class)
	if err != nil {
		e.t.Fatalf("AddOffer: %v", err)
	}
	return slot
}

func (e *env) nftOwner(unit uint64) asset.Address {
	e.t.Helper()
	owner, err := e.nfts.OwnerOf(unit)
	if err != nil {
		e.t.Fatalf("OwnerOf(%d): %v", unit, err)
	}
	return owner
}

func (e *env) cashBalance(owner asset.Address) uint64 {
	e.t.Helper()
	balance, err := e.cash.BalanceOf(owner)
	if err != nil {
		e.t.Fatalf("cash BalanceOf: %v", err)
	}
	return balance
}

func (e *env) goodsBalance(owner asset.Address) uint64 {
	e.t.Helper()
	balance, err := e.goods.BalanceOf(owner)
	if err != nil {
		e.t.Fatalf("goods BalanceOf: %v", err)
	}
	return balance
}

func (e *env) multiBalance(owner asset.Address, unit uint64) uint64 {
	e.t.Helper()
	balance, err := e.multi.BalanceOf(owner, unit)
	if err != nil {
		e.t.Fatalf("multi BalanceOf: %v", err)
	}
	return balance
}
