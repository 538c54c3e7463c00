package trade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/genecyber/goNFTraded/internal/core/trade"
)

func TestConfigMutatorsAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if err := e.engine.TogglePayToMakeOffer(ctx, alice, 0); !errors.Is(err, trade.ErrNotAuthorized) {
		t.Errorf("TogglePayToMakeOffer by non-admin: got %v, want ErrNotAuthorized", err)
	}
	if err := e.engine.SetOfferPrices(ctx, alice, 0, 1, 1, 1); !errors.Is(err, trade.ErrNotAuthorized) {
		t.Errorf("SetOfferPrices by non-admin: got %v, want ErrNotAuthorized", err)
	}
	if err := e.engine.SetRecipient(ctx, alice, 0, carol); !errors.Is(err, trade.ErrNotAuthorized) {
		t.Errorf("SetRecipient by non-admin: got %v, want ErrNotAuthorized", err)
	}
}

func TestConfigFirstWriteSeedsRecipient(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if cfg := e.engine.GetConfig(3); !cfg.Recipient.IsZero() {
		t.Fatalf("unset class config = %+v, want zero", cfg)
	}

	if err := e.engine.TogglePayToMakeOffer(ctx, admin, 3); err != nil {
		t.Fatal(err)
	}

	cfg := e.engine.GetConfig(3)
	if !cfg.PayToMakeOffer {
		t.Errorf("PayToMakeOffer not toggled: %+v", cfg)
	}
	if cfg.Recipient != feeBank {
		t.Errorf("Recipient = %s, want default fee bank", cfg.Recipient)
	}

	// Classes are independent.
	if other := e.engine.GetConfig(4); other.PayToMakeOffer || !other.Recipient.IsZero() {
		t.Errorf("class 4 config = %+v, want untouched zero", other)
	}
}

func TestMakeOfferFlatFee(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	if err := e.engine.TogglePayToMakeOffer(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 25, 0, 0); err != nil {
		t.Fatal(err)
	}

	// Alice has no payment tokens yet.
	_, err := e.engine.AddOffer(ctx, alice, e.nft(1), e.nft(2), 0)
	if !errors.Is(err, trade.ErrInsufficientPayment) {
		t.Fatalf("unfunded AddOffer: got %v, want ErrInsufficientPayment", err)
	}

	e.fund(alice, 100)
	e.addOffer(alice, e.nft(1), e.nft(2), 0)

	if got := e.cashBalance(alice); got != 75 {
		t.Errorf("alice cash = %d, want 75", got)
	}
	if got := e.cashBalance(feeBank); got != 25 {
		t.Errorf("fee bank cash = %d, want 25", got)
	}
}

func TestAcceptOfferFlatFee(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)

	// Config is resolved live: the fee switched on after the offer was
	// placed still applies to the acceptance.
	if err := e.engine.TogglePayToAcceptOffer(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 0, 40, 0); err != nil {
		t.Fatal(err)
	}

	_, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if !errors.Is(err, trade.ErrInsufficientPayment) {
		t.Fatalf("unfunded accept: got %v, want ErrInsufficientPayment", err)
	}
	// The failed accept left the swap unexecuted.
	if e.nftOwner(1) != alice {
		t.Fatalf("unit 1 moved on failed accept")
	}

	e.fund(bob, 50)
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if res.FlatFee != 40 {
		t.Errorf("FlatFee = %d, want 40", res.FlatFee)
	}
	if got := e.cashBalance(bob); got != 10 {
		t.Errorf("bob cash = %d, want 10", got)
	}
	if got := e.cashBalance(feeBank); got != 40 {
		t.Errorf("fee bank cash = %d, want 40", got)
	}
}

func TestPercentageFeeSplitsFungibleLeg(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintGoods(alice, 10)
	e.mintNFT(bob, 2)

	if err := e.engine.ToggleFungibleOffering(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.ToggleTakePercentageOfFungible(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 0, 0, 10); err != nil {
		t.Fatal(err)
	}

	slot := e.addOffer(alice, e.goodsRef(10), e.nft(2), 0)
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	// 10 units at 10%: 1 to the fee bank, 9 to the acceptor.
	if res.PercentageFee != 1 || res.Delivered != 9 {
		t.Errorf("split = fee %d / delivered %d, want 1 / 9", res.PercentageFee, res.Delivered)
	}
	if got := e.goodsBalance(bob); got != 9 {
		t.Errorf("bob goods = %d, want 9", got)
	}
	if got := e.goodsBalance(feeBank); got != 1 {
		t.Errorf("fee bank goods = %d, want 1", got)
	}
	if got := e.goodsBalance(alice); got != 0 {
		t.Errorf("alice goods = %d, want 0", got)
	}
}

func TestSetOfferPricesRejectsExcessivePercent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintGoods(alice, 10)
	e.mintNFT(bob, 2)

	if err := e.engine.ToggleFungibleOffering(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.ToggleTakePercentageOfFungible(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	err := e.engine.SetOfferPrices(ctx, admin, 0, 0, 0, 150)
	if !errors.Is(err, trade.ErrPercentFeeTooHigh) {
		t.Fatalf("SetOfferPrices percent 150: got %v, want ErrPercentFeeTooHigh", err)
	}
	if cfg := e.engine.GetConfig(0); cfg.PercentFee != 0 {
		t.Fatalf("rejected percent fee was stored: %+v", cfg)
	}

	// The invalid rate never took effect: the swap settles whole, with
	// nothing carved off to the fee bank.
	slot := e.addOffer(alice, e.goodsRef(10), e.nft(2), 0)
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if res.PercentageFee != 0 || res.Delivered != 10 {
		t.Errorf("split = fee %d / delivered %d, want 0 / 10", res.PercentageFee, res.Delivered)
	}
	if got := e.goodsBalance(bob); got != 10 {
		t.Errorf("bob goods = %d, want 10", got)
	}
	if got := e.goodsBalance(feeBank); got != 0 {
		t.Errorf("fee bank goods = %d, want 0", got)
	}
}

func TestPercentageFeeAtFullRate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintGoods(alice, 10)
	e.mintNFT(bob, 2)

	if err := e.engine.ToggleFungibleOffering(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.ToggleTakePercentageOfFungible(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	// 100 is the cap: the whole leg goes to the recipient.
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 0, 0, 100); err != nil {
		t.Fatal(err)
	}

	slot := e.addOffer(alice, e.goodsRef(10), e.nft(2), 0)
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if res.PercentageFee != 10 || res.Delivered != 0 {
		t.Errorf("split = fee %d / delivered %d, want 10 / 0", res.PercentageFee, res.Delivered)
	}
	if got := e.goodsBalance(feeBank); got != 10 {
		t.Errorf("fee bank goods = %d, want 10", got)
	}
	if got := e.goodsBalance(bob); got != 0 {
		t.Errorf("bob goods = %d, want 0", got)
	}
	if e.nftOwner(2) != alice {
		t.Errorf("requested leg did not settle")
	}
}

func TestPercentageFeeIgnoredForNonFungibleLeg(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)

	if err := e.engine.ToggleTakePercentageOfFungible(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 0, 0, 10); err != nil {
		t.Fatal(err)
	}

	slot := e.addOffer(alice, e.nft(1), e.nft(2), 0)
	res, err := e.engine.AcceptOffer(ctx, bob, slot.Key, slot.Index, 0, 0)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if res.PercentageFee != 0 || res.Delivered != 1 {
		t.Errorf("unique leg split = fee %d / delivered %d, want 0 / 1", res.PercentageFee, res.Delivered)
	}
}

func TestSetRecipientRedirectsFees(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.mintNFT(alice, 1)
	e.mintNFT(bob, 2)
	e.fund(alice, 100)

	if err := e.engine.TogglePayToMakeOffer(ctx, admin, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetOfferPrices(ctx, admin, 0, 30, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.engine.SetRecipient(ctx, admin, 0, carol); err != nil {
		t.Fatal(err)
	}

	e.addOffer(alice, e.nft(1), e.nft(2), 0)
	if got := e.cashBalance(carol); got != 30 {
		t.Errorf("carol cash = %d, want 30", got)
	}
	if got := e.cashBalance(feeBank); got != 0 {
		t.Errorf("fee bank cash = %d, want 0", got)
	}
}
