package trade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/genecyber/goNFTraded/internal/core/trade"
)

func TestAcceptOfferUniqueForUnique(t *testing.T) {
	e := newEnv(t)
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)

	res, err := e.engine.AcceptOffer(context.Background(), bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	if e.nftOwner(1) != bob {
		t.Errorf("unit 1 owner = %s, want bob", e.nftOwner(1))
	}
	if e.nftOwner(2) != alice {
		t.Errorf("unit 2 owner = %s, want alice", e.nftOwner(2))
	}

	if res.Delivered != 1 || res.RequestedQuantity != 1 {
		t.Errorf("result = %+v, want 1 delivered each way", res)
	}
	if res.Invalidated != 1 {
		t.Errorf("Invalidated = %d, want 1", res.Invalidated)
	}

	if got := e.engine.GetOffer(slot.Key, slot.Index); !got.IsZero() {
		t.Errorf("accepted slot = %+v, want tombstoned", got)
	}
	history := e.engine.GetAcceptedOffers(slot.Key)
	if len(history) != 1 || history[0].Maker != alice {
		t.Errorf("GetAcceptedOffers = %+v, want the accepted offer", history)
	}
}

func TestAcceptRequiresHoldingRequestedAsset(t *testing.T) {
	e := newEnv(t)
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)

	_, err := e.engine.AcceptOffer(context.Background(), carol, slot.Key, slot.Index, 0, 0)
	if !errors.Is(err, trade.ErrNotRequestedAssetOwner) {
		t.Fatalf("got %v, want ErrNotRequestedAssetOwner", err)
	}
}

func TestAcceptTombstonedSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)
	if err := e.engine.WithdrawOffer(ctx, alice, slot.Key, slot.Index); err != nil {
		t.Fatal(err)
	}

	_, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if !errors.Is(err, trade.ErrOfferNotFound) {
		t.Fatalf("got %v, want ErrOfferNotFound", err)
	}
}

func TestAcceptWholesaleInvalidation(t *testing.T) {
	e := newEnv(t)
	e.mintNFT(alice, 1)
	e.mintNFT(carol, 3)
	e.mintMulti(carol, 7, 10)
	e.mintNFT(bob, 2)

	key := trade.AssetKey{Contract: e.nftAddr, Unit: 2}
	e.addOffer(alice, e.nft(1), e.nft(2), 0)
	e.addOffer(carol, e.nft(3), e.nft(2), 0)
	e.addOffer(carol, e.multiRef(7, 5), e.nft(2), 0)

	if n := e.engine.GetOfferCount(key); n != 3 {
		t.Fatalf("GetOfferCount = %d, want 3", n)
	}

	res, err := e.engine.AcceptOffer(context.Background(), bob, key, 1, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	// Unit 2 changed hands, so every competing offer is dead, but exactly
	// one swap is recorded.
	if res.Invalidated != 3 {
		t.Errorf("Invalidated = %d, want 3", res.Invalidated)
	}
	if n := e.engine.GetOfferCount(key); n != 0 {
		t.Errorf("GetOfferCount after accept = %d, want 0", n)
	}
	if history := e.engine.GetAcceptedOffers(key); len(history) != 1 || history[0].Maker != carol {
		t.Errorf("GetAcceptedOffers = %+v, want carol's accepted offer only", history)
	}

	// The invalidated entries also vanish from the offered-side view.
	if mine := e.engine.GetOffered(trade.AssetKey{Contract: e.nftAddr, Unit: 1}, alice); len(mine) != 0 {
		t.Errorf("GetOffered(alice) = %+v, want empty after invalidation", mine)
	}
	if mine := e.engine.GetOffered(trade.AssetKey{Contract: e.multiAddr, Unit: 7}, carol); len(mine) != 0 {
		t.Errorf("GetOffered(carol) = %+v, want empty after invalidation", mine)
	}
}

func TestAcceptMultiUnitPairings(t *testing.T) {
	t.Run("unique for multi", func(t *testing.T) {
		e := newEnv(t)
		e.mintNFT(alice, 1)
		e.mintMulti(bob, 7, 10)

		slot := e.addOffer(alice, e.nft(1), e.multiRef(7, 4), 0)
		res, err := e.engine.AcceptOffer(context.Background(), bob, slot.Key, slot.Index, 0, 0)
		if err != nil {
			t.Fatalf("AcceptOffer: %v", err)
		}
		if res.RequestedQuantity != 4 {
			t.Errorf("RequestedQuantity = %d, want 4", res.RequestedQuantity)
		}
		if e.nftOwner(1) != bob {
			t.Errorf("unit 1 owner = %s, want bob", e.nftOwner(1))
		}
		if got := e.multiBalance(alice, 7); got != 4 {
			t.Errorf("alice multi balance = %d, want 4", got)
		}
		if got := e.multiBalance(bob, 7); got != 6 {
			t.Errorf("bob multi balance = %d, want 6", got)
		}
	})

	t.Run("multi for multi", func(t *testing.T) {
		e := newEnv(t)
		e.mintMulti(alice, 7, 10)
		e.mintMulti(bob, 8, 10)

		slot := e.addOffer(alice, e.multiRef(7, 3), e.multiRef(8, 5), 0)
		if _, err := e.engine.AcceptOffer(context.Background(), bob, slot.Key, slot.Index, 0, 0); err != nil {
			t.Fatalf("AcceptOffer: %v", err)
		}
		if got := e.multiBalance(bob, 7); got != 3 {
			t.Errorf("bob unit 7 balance = %d, want 3", got)
		}
		if got := e.multiBalance(alice, 8); got != 5 {
			t.Errorf("alice unit 8 balance = %d, want 5", got)
		}
	})

	t.Run("fungible for unique", func(t *testing.T) {
		e := newEnv(t)
		ctx := context.Background()
		e.mintGoods(alice, 100)
		e.mintNFT(bob, 2)
		if err := e.engine.ToggleFungibleOffering(ctx, admin, 0); err != nil {
			t.Fatal(err)
		}

		slot := e.addOffer(alice, e.goodsRef(40), e.nft(2), 0)
		if _, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0); err != nil {
			t.Fatalf("AcceptOffer: %v", err)
		}
		if got := e.goodsBalance(bob); got != 40 {
			t.Errorf("bob goods balance = %d, want 40", got)
		}
		if e.nftOwner(2) != alice {
			t.Errorf("unit 2 owner = %s, want alice", e.nftOwner(2))
		}
	})
}

func TestAcceptQuantitySemantics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintMulti(bob, 7, 10)

	slot := e.addOffer(alice, e.nft(1), e.multiRef(7, 4), 0)

	// Underpaying the declared ask is rejected.
	_, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 3, 0)
	if !errors.Is(err, trade.ErrInsufficientPayment) {
		t.Fatalf("underpay: got %v, want ErrInsufficientPayment", err)
	}

	// Overpaying is the acceptor's prerogative.
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 6, 0)
	if err != nil {
		t.Fatalf("overpay AcceptOffer: %v", err)
	}
	if res.RequestedQuantity != 6 {
		t.Errorf("RequestedQuantity = %d, want 6", res.RequestedQuantity)
	}
	if got := e.multiBalance(alice, 7); got != 6 {
		t.Errorf("alice multi balance = %d, want 6", got)
	}
}

func TestAcceptRevalidatesMakerSide(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)

	// Alice disposes of the offered asset after placing the offer.
	if err := e.nfts.TransferFrom(alice, carol, 1); err != nil {
		t.Fatal(err)
	}

	_, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if !errors.Is(err, trade.ErrTransferFailed) {
		t.Fatalf("got %v, want ErrTransferFailed", err)
	}

	// Nothing moved and the offer is still standing.
	if e.nftOwner(2) != bob {
		t.Errorf("unit 2 owner = %s, want bob", e.nftOwner(2))
	}
	if got := e.engine.GetOffer(slot.Key, slot.Index); got.IsZero() {
		t.Errorf("offer was tombstoned by a failed accept")
	}
}
