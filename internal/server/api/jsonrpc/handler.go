package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
)

type methodFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// TradeHandler handles trade-related JSON-RPC methods.
type TradeHandler struct {
	engine  *trade.Engine
	methods map[string]methodFunc
}

// NewTradeHandler initializes a new TradeHandler instance.
func NewTradeHandler(engine *trade.Engine) *TradeHandler {
	h := &TradeHandler{
		engine:  engine,
		methods: make(map[string]methodFunc),
	}

	// Register available methods.
	h.methods["add_offer"] = h.handleAddOffer
	h.methods["withdraw_offer"] = h.handleWithdrawOffer
	h.methods["reject_offer"] = h.handleRejectOffer
	h.methods["accept_offer"] = h.handleAcceptOffer
	h.methods["get_offer"] = h.handleGetOffer
	h.methods["get_offer_count"] = h.handleGetOfferCount
	h.methods["get_offered"] = h.handleGetOffered
	h.methods["get_accepted_offers"] = h.handleGetAcceptedOffers
	h.methods["get_config"] = h.handleGetConfig
	h.methods["get_version"] = h.handleGetVersion
	h.methods["check_capability"] = h.handleCheckCapability
	h.methods["toggle_pay_to_make_offer"] = h.handleTogglePayToMakeOffer
	h.methods["toggle_pay_to_accept_offer"] = h.handleTogglePayToAcceptOffer
	h.methods["toggle_fungible_offering"] = h.handleToggleFungibleOffering
	h.methods["toggle_take_percentage_of_fungible"] = h.handleToggleTakePercentageOfFungible
	h.methods["set_offer_prices"] = h.handleSetOfferPrices
	h.methods["set_recipient"] = h.handleSetRecipient

	return h
}

// Handle dispatches a JSON-RPC method to the appropriate handler.
func (h *TradeHandler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	handler, exists := h.methods[method]
	if !exists {
		return nil, fmt.Errorf("method %s not found", method)
	}
	return handler(ctx, params)
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.New("missing params")
	}
	return json.Unmarshal(raw, v)
}

func (h *TradeHandler) handleAddOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AddOfferParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	slot, err := h.engine.AddOffer(ctx, p.Maker, p.Offered.toRef(), p.Requested.toRef(), trade.CollectionClass(p.Class))
	if err != nil {
		return nil, err
	}
	return AddOfferResult{Contract: slot.Key.Contract, Unit: slot.Key.Unit, Index: slot.Index}, nil
}

func (h *TradeHandler) handleWithdrawOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p OfferSlotParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	if err := h.engine.WithdrawOffer(ctx, p.Caller, key, p.Index); err != nil {
		return nil, err
	}
	return map[string]bool{"withdrawn": true}, nil
}

func (h *TradeHandler) handleRejectOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p OfferSlotParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	if err := h.engine.RejectOffer(ctx, p.Caller, key, p.Index); err != nil {
		return nil, err
	}
	return map[string]bool{"rejected": true}, nil
}

func (h *TradeHandler) handleAcceptOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AcceptOfferParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	res, err := h.engine.AcceptOffer(ctx, p.Caller, key, p.Index, p.Quantity, trade.CollectionClass(p.Class))
	if err != nil {
		return nil, err
	}
	return AcceptOfferResult{
		Offer:             offerResult(res.Offer),
		Delivered:         res.Delivered,
		RequestedQuantity: res.RequestedQuantity,
		FlatFee:           res.FlatFee,
		PercentageFee:     res.PercentageFee,
		Invalidated:       res.Invalidated,
	}, nil
}

func (h *TradeHandler) handleGetOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p GetOfferParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	return offerResult(h.engine.GetOffer(key, p.Index)), nil
}

func (h *TradeHandler) handleGetOfferCount(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AssetKeyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	return map[string]int{"count": h.engine.GetOfferCount(key)}, nil
}

func (h *TradeHandler) handleGetOffered(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p GetOfferedParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	offers := h.engine.GetOffered(key, p.Maker)
	out := make([]OfferResult, len(offers))
	for i, o := range offers {
		out[i] = offerResult(o)
	}
	return out, nil
}

func (h *TradeHandler) handleGetAcceptedOffers(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AssetKeyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	key := trade.AssetKey{Contract: p.Contract, Unit: p.Unit}
	offers := h.engine.GetAcceptedOffers(key)
	out := make([]OfferResult, len(offers))
	for i, o := range offers {
		out[i] = offerResult(o)
	}
	return out, nil
}

func (h *TradeHandler) handleGetConfig(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p GetConfigParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	cfg := h.engine.GetConfig(trade.CollectionClass(p.Class))
	return ConfigResult{
		PayToMakeOffer:           cfg.PayToMakeOffer,
		PayToAcceptOffer:         cfg.PayToAcceptOffer,
		MakeOfferPrice:           cfg.MakeOfferPrice,
		AcceptOfferPrice:         cfg.AcceptOfferPrice,
		PercentFee:               cfg.PercentFee,
		TakePercentageOfFungible: cfg.TakePercentageOfFungible,
		FungibleOfferingAllowed:  cfg.FungibleOfferingAllowed,
		Recipient:                cfg.Recipient,
	}, nil
}

func (h *TradeHandler) handleGetVersion(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return map[string]uint32{"version": h.engine.Version()}, nil
}

func (h *TradeHandler) handleCheckCapability(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p CheckCapabilityParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	tag, err := asset.ParseCapability(p.Capability)
	if err != nil {
		return nil, err
	}
	ok, err := h.engine.Handler().CheckCapability(p.Contract, tag)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"supported": ok}, nil
}

func (h *TradeHandler) handleTogglePayToMakeOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return h.adminToggle(ctx, params, h.engine.TogglePayToMakeOffer)
}

func (h *TradeHandler) handleTogglePayToAcceptOffer(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return h.adminToggle(ctx, params, h.engine.TogglePayToAcceptOffer)
}

func (h *TradeHandler) handleToggleFungibleOffering(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return h.adminToggle(ctx, params, h.engine.ToggleFungibleOffering)
}

func (h *TradeHandler) handleToggleTakePercentageOfFungible(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return h.adminToggle(ctx, params, h.engine.ToggleTakePercentageOfFungible)
}

func (h *TradeHandler) adminToggle(ctx context.Context, params json.RawMessage, toggle func(context.Context, asset.Address, trade.CollectionClass) error) (interface{}, error) {
	var p AdminParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := toggle(ctx, p.Caller, trade.CollectionClass(p.Class)); err != nil {
		return nil, err
	}
	return map[string]bool{"applied": true}, nil
}

func (h *TradeHandler) handleSetOfferPrices(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SetOfferPricesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := h.engine.SetOfferPrices(ctx, p.Caller, trade.CollectionClass(p.Class), p.MakePrice, p.AcceptPrice, p.PercentFee); err != nil {
		return nil, err
	}
	return map[string]bool{"applied": true}, nil
}

func (h *TradeHandler) handleSetRecipient(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SetRecipientParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := h.engine.SetRecipient(ctx, p.Caller, trade.CollectionClass(p.Class), p.Recipient); err != nil {
		return nil, err
	}
	return map[string]bool{"applied": true}, nil
}

// errorCode maps domain errors to JSON-RPC error codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, trade.ErrOfferNotFound):
		return -32001
	case errors.Is(err, trade.ErrNotAuthorized),
		errors.Is(err, trade.ErrNotOfferOwner),
		errors.Is(err, trade.ErrNotOwnerOrNotApproved),
		errors.Is(err, trade.ErrNotRequestedAssetOwner):
		return -32002
	case errors.Is(err, trade.ErrInsufficientPayment),
		errors.Is(err, trade.ErrInsufficientAllowance):
		return -32003
	case errors.Is(err, trade.ErrFungibleOfferingDisabled),
		errors.Is(err, trade.ErrFungibleNotAllowedAsTarget),
		errors.Is(err, trade.ErrPercentFeeTooHigh):
		return -32004
	case errors.Is(err, trade.ErrTransferFailed):
		return -32005
	case errors.Is(err, asset.ErrUnknownContract):
		return -32006
	default:
		return -32000
	}
}
