package asset_test

import (
	"errors"
	"testing"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	operator = asset.MustParseAddress("0x2000000000000000000000000000000000000001")
	alice    = asset.MustParseAddress("0x2000000000000000000000000000000000000002")
	bob      = asset.MustParseAddress("0x2000000000000000000000000000000000000003")
)

// dualStandard advertises both NFT tags; classification must prefer the
// multi-unit standard.
type dualStandard struct {
	*tokens.MultiUnit
}

func (dualStandard) SupportsCapability(tag asset.Capability) bool {
	return tag == asset.CapMultiUnit || tag == asset.CapUnique
}

func TestClassify(t *testing.T) {
	registry := tokens.NewRegistry()
	uniqueAddr := registry.Deploy(tokens.NewUnique())
	multiAddr := registry.Deploy(tokens.NewMultiUnit())
	fungibleAddr := registry.Deploy(tokens.NewFungible())
	dualAddr := registry.Deploy(dualStandard{tokens.NewMultiUnit()})

	h := asset.NewHandler(registry, operator)

	cases := []struct {
		addr asset.Address
		want asset.Class
	}{
		{uniqueAddr, asset.ClassUnique},
		{multiAddr, asset.ClassMultiUnit},
		{fungibleAddr, asset.ClassFungible},
		{dualAddr, asset.ClassMultiUnit},
	}
	for _, tc := range cases {
		got, err := h.Classify(tc.addr)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.addr.String())
	}

	_, err := h.Classify(asset.MustParseAddress("0x00000000000000000000000000000000000000ee"))
	assert.ErrorIs(t, err, asset.ErrUnknownContract)
}

func TestCheckCapability(t *testing.T) {
	registry := tokens.NewRegistry()
	uniqueAddr := registry.Deploy(tokens.NewUnique())

	h := asset.NewHandler(registry, operator)

	ok, err := h.CheckCapability(uniqueAddr, asset.CapUnique)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.CheckCapability(uniqueAddr, asset.CapFungible)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.CheckCapability(asset.MustParseAddress("0x00000000000000000000000000000000000000ee"), asset.CapUnique)
	assert.ErrorIs(t, err, asset.ErrUnknownContract)
}

func TestCanTransferUnique(t *testing.T) {
	registry := tokens.NewRegistry()
	nfts := tokens.NewUnique()
	addr := registry.Deploy(nfts)
	h := asset.NewHandler(registry, operator)

	require.NoError(t, nfts.Mint(alice, 1))

	// Owner without any approval.
	assert.ErrorIs(t, h.CanTransfer(addr, alice, 1, 1), asset.ErrNotApproved)

	// Not the owner.
	assert.ErrorIs(t, h.CanTransfer(addr, bob, 1, 1), asset.ErrNotOwner)

	// Blanket operator approval.
	nfts.SetApprovalForAll(alice, operator, true)
	assert.NoError(t, h.CanTransfer(addr, alice, 1, 1))

	// Per-unit approval alone also suffices.
	require.NoError(t, nfts.Mint(bob, 2))
	nfts.Approve(operator, 2)
	assert.NoError(t, h.CanTransfer(addr, bob, 2, 1))
}

func TestCanTransferMultiUnit(t *testing.T) {
	registry := tokens.NewRegistry()
	multi := tokens.NewMultiUnit()
	addr := registry.Deploy(multi)
	h := asset.NewHandler(registry, operator)

	multi.Mint(alice, 7, 5)

	assert.ErrorIs(t, h.CanTransfer(addr, alice, 7, 10), asset.ErrInsufficientBalance)
	assert.ErrorIs(t, h.CanTransfer(addr, alice, 7, 5), asset.ErrNotApproved)

	multi.SetApprovalForAll(alice, operator, true)
	assert.NoError(t, h.CanTransfer(addr, alice, 7, 5))
}

func TestCanTransferFungible(t *testing.T) {
	registry := tokens.NewRegistry()
	cash := tokens.NewFungible()
	addr := registry.Deploy(cash)
	h := asset.NewHandler(registry, operator)

	cash.Mint(alice, 100)

	assert.ErrorIs(t, h.CanTransfer(addr, alice, 0, 200), asset.ErrInsufficientBalance)
	assert.ErrorIs(t, h.CanTransfer(addr, alice, 0, 50), asset.ErrInsufficientAllowance)

	cash.Approve(alice, operator, 60)
	assert.NoError(t, h.CanTransfer(addr, alice, 0, 50))
	assert.ErrorIs(t, h.CanTransfer(addr, alice, 0, 70), asset.ErrInsufficientAllowance)
}

func TestTransferDispatchesByClass(t *testing.T) {
	registry := tokens.NewRegistry()
	nfts := tokens.NewUnique()
	multi := tokens.NewMultiUnit()
	cash := tokens.NewFungible()
	nftAddr := registry.Deploy(nfts)
	multiAddr := registry.Deploy(multi)
	cashAddr := registry.Deploy(cash)
	h := asset.NewHandler(registry, operator)

	require.NoError(t, nfts.Mint(alice, 1))
	multi.Mint(alice, 7, 5)
	cash.Mint(alice, 100)
	cash.Approve(alice, operator, 40)

	require.NoError(t, h.Transfer(nftAddr, alice, bob, 1, 1))
	owner, err := nfts.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	require.NoError(t, h.Transfer(multiAddr, alice, bob, 7, 3))
	balance, err := multi.BalanceOf(bob, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), balance)

	require.NoError(t, h.Transfer(cashAddr, alice, bob, 0, 25))
	cashBalance, err := cash.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), cashBalance)

	// The transfer drew down the operator's allowance.
	granted, err := cash.Allowance(alice, operator)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), granted)
}

func TestTransferFailureWrapped(t *testing.T) {
	registry := tokens.NewRegistry()
	cash := tokens.NewFungible()
	addr := registry.Deploy(cash)
	h := asset.NewHandler(registry, operator)

	// Moving more than the balance: the ledger returns false.
	err := h.Transfer(addr, alice, bob, 0, 10)
	assert.True(t, errors.Is(err, asset.ErrTransferFailed), "got %v", err)
}
