package grpc

import (
	"context"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AssetRef identifies an asset instance plus a quantity on the wire.
type AssetRef struct {
	// Contract is the asset contract address
	Contract asset.Address

	// Unit is the unit id within the contract (zero for fungible assets)
	Unit uint64

	// Quantity is the amount of the asset
	Quantity uint64
}

func (r AssetRef) toRef() trade.AssetRef {
	return trade.AssetRef{Contract: r.Contract, Unit: r.Unit, Quantity: r.Quantity}
}

func fromRef(r trade.AssetRef) AssetRef {
	return AssetRef{Contract: r.Contract, Unit: r.Unit, Quantity: r.Quantity}
}

// Offer is the wire form of a ledger offer.
type Offer struct {
	Maker     asset.Address
	Offered   AssetRef
	Requested AssetRef
	Class     uint32
	Alive     bool
}

func fromOffer(o trade.Offer) Offer {
	return Offer{
		Maker:     o.Maker,
		Offered:   fromRef(o.Offered),
		Requested: fromRef(o.Requested),
		Class:     uint32(o.Class),
		Alive:     o.Alive,
	}
}

// AddOfferRequest represents a request to record a new offer.
type AddOfferRequest struct {
	// Maker is the offering party
	Maker asset.Address

	// Offered is the asset the maker puts up
	Offered AssetRef

	// Requested is the asset the maker wants in return
	Requested AssetRef

	// Class selects the fee configuration governing the offer
	Class uint32
}

// AddOfferResponse reports where the new offer was slotted.
type AddOfferResponse struct {
	// Contract and Unit identify the requested asset the offer is filed under
	Contract asset.Address
	Unit     uint64

	// Index is the stable slot index under that key
	Index int
}

// AddOffer records a new offer.
func (s *Server) AddOffer(ctx context.Context, req *AddOfferRequest) (*AddOfferResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	slot, err := s.tradeService.AddOffer(ctx, req.Maker, req.Offered.toRef(), req.Requested.toRef(), trade.CollectionClass(req.Class))
	if err != nil {
		return nil, statusFromError(err)
	}

	return &AddOfferResponse{
		Contract: slot.Key.Contract,
		Unit:     slot.Key.Unit,
		Index:    slot.Index,
	}, nil
}

// OfferSlotRequest addresses an existing offer.
type OfferSlotRequest struct {
	// Caller is the party performing the operation
	Caller asset.Address

	// Contract and Unit identify the requested asset key
	Contract asset.Address
	Unit     uint64

	// Index is the slot index under that key
	Index int
}

// WithdrawOffer tombstones the caller's own offer.
func (s *Server) WithdrawOffer(ctx context.Context, req *OfferSlotRequest) (*Offer, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	if err := s.tradeService.WithdrawOffer(ctx, req.Caller, key, req.Index); err != nil {
		return nil, statusFromError(err)
	}
	return &Offer{}, nil
}

// RejectOffer lets the holder of the requested asset tombstone an offer.
func (s *Server) RejectOffer(ctx context.Context, req *OfferSlotRequest) (*Offer, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	if err := s.tradeService.RejectOffer(ctx, req.Caller, key, req.Index); err != nil {
		return nil, statusFromError(err)
	}
	return &Offer{}, nil
}

// AcceptOfferRequest represents a request to execute a swap.
type AcceptOfferRequest struct {
	// Caller is the accepting party (must hold the requested asset)
	Caller asset.Address

	// Contract and Unit identify the requested asset key
	Contract asset.Address
	Unit     uint64

	// Index is the slot index under that key
	Index int

	// Quantity is the amount of the requested asset to deliver to the
	// maker. Zero means the maker's declared ask.
	Quantity uint64

	// Class selects the fee configuration charged on acceptance
	Class uint32
}

// AcceptOfferResponse reports what the swap moved.
type AcceptOfferResponse struct {
	// Offer is the accepted offer as it stood at acceptance
	Offer Offer

	// Delivered is the offered quantity delivered to the caller, net of fees
	Delivered uint64

	// RequestedQuantity is the amount delivered to the maker
	RequestedQuantity uint64

	// FlatFee is the accept-offer flat fee charged to the caller
	FlatFee uint64

	// PercentageFee is the slice of a fungible offered leg routed to the
	// fee recipient
	PercentageFee uint64

	// Invalidated is the number of offers tombstoned by the acceptance
	Invalidated int
}

// AcceptOffer executes the swap addressed by the request.
func (s *Server) AcceptOffer(ctx context.Context, req *AcceptOfferRequest) (*AcceptOfferResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	res, err := s.tradeService.AcceptOffer(ctx, req.Caller, key, req.Index, req.Quantity, trade.CollectionClass(req.Class))
	if err != nil {
		return nil, statusFromError(err)
	}

	return &AcceptOfferResponse{
		Offer:             fromOffer(res.Offer),
		Delivered:         res.Delivered,
		RequestedQuantity: res.RequestedQuantity,
		FlatFee:           res.FlatFee,
		PercentageFee:     res.PercentageFee,
		Invalidated:       res.Invalidated,
	}, nil
}

// GetOfferRequest addresses an offer for a read.
type GetOfferRequest struct {
	Contract asset.Address
	Unit     uint64
	Index    int
}

// GetOffer returns the offer at the addressed slot. Tombstoned or absent
// slots read as the zero offer.
func (s *Server) GetOffer(ctx context.Context, req *GetOfferRequest) (*Offer, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	offer := fromOffer(s.tradeService.GetOffer(key, req.Index))
	return &offer, nil
}

// GetOfferCountRequest identifies a requested-asset key.
type GetOfferCountRequest struct {
	Contract asset.Address
	Unit     uint64
}

// GetOfferCountResponse carries the live offer count.
type GetOfferCountResponse struct {
	Count int
}

// GetOfferCount returns the number of live offers under a key.
func (s *Server) GetOfferCount(ctx context.Context, req *GetOfferCountRequest) (*GetOfferCountResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	return &GetOfferCountResponse{Count: s.tradeService.GetOfferCount(key)}, nil
}

// GetOfferedRequest identifies an offered-asset key plus a maker.
type GetOfferedRequest struct {
	Contract asset.Address
	Unit     uint64
	Maker    asset.Address
}

// GetOfferedResponse lists a maker's live offers under the key.
type GetOfferedResponse struct {
	Offers []Offer
}

// GetOffered returns a maker's live offers collateralized by the keyed asset.
func (s *Server) GetOffered(ctx context.Context, req *GetOfferedRequest) (*GetOfferedResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	offers := s.tradeService.GetOffered(key, req.Maker)
	resp := &GetOfferedResponse{Offers: make([]Offer, len(offers))}
	for i, o := range offers {
		resp.Offers[i] = fromOffer(o)
	}
	return resp, nil
}

// GetAcceptedOffersRequest identifies a requested-asset key.
type GetAcceptedOffersRequest struct {
	Contract asset.Address
	Unit     uint64
}

// GetAcceptedOffersResponse lists the historical swaps against the key.
type GetAcceptedOffersResponse struct {
	Offers []Offer
}

// GetAcceptedOffers returns the historical swap log for the keyed asset.
func (s *Server) GetAcceptedOffers(ctx context.Context, req *GetAcceptedOffersRequest) (*GetAcceptedOffersResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	key := trade.AssetKey{Contract: req.Contract, Unit: req.Unit}
	offers := s.tradeService.GetAcceptedOffers(key)
	resp := &GetAcceptedOffersResponse{Offers: make([]Offer, len(offers))}
	for i, o := range offers {
		resp.Offers[i] = fromOffer(o)
	}
	return resp, nil
}

// GetConfigRequest identifies a collection class.
type GetConfigRequest struct {
	Class uint32
}

// GetConfigResponse carries the class configuration.
type GetConfigResponse struct {
	PayToMakeOffer           bool
	PayToAcceptOffer         bool
	MakeOfferPrice           uint64
	AcceptOfferPrice         uint64
	PercentFee               uint64
	TakePercentageOfFungible bool
	FungibleOfferingAllowed  bool
	Recipient                asset.Address
}

// GetConfig returns the fee/permission configuration for a class.
func (s *Server) GetConfig(ctx context.Context, req *GetConfigRequest) (*GetConfigResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	cfg := s.tradeService.GetConfig(trade.CollectionClass(req.Class))
	return &GetConfigResponse{
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

// GetVersionResponse carries the engine semantics version.
type GetVersionResponse struct {
	Version uint32
}

// GetVersion returns the engine semantics version.
func (s *Server) GetVersion(ctx context.Context, _ *struct{}) (*GetVersionResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	return &GetVersionResponse{Version: s.tradeService.Version()}, nil
}

// CheckCapabilityRequest asks whether a contract advertises a capability tag.
type CheckCapabilityRequest struct {
	Contract   asset.Address
	Capability asset.Capability
}

// CheckCapabilityResponse reports the introspection result.
type CheckCapabilityResponse struct {
	Supported bool
}

// CheckCapability probes a contract's capability-introspection tag.
func (s *Server) CheckCapability(ctx context.Context, req *CheckCapabilityRequest) (*CheckCapabilityResponse, error) {
	if s.tradeService == nil {
		return nil, status.Error(codes.Internal, "trade service not available")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}

	ok, err := s.tradeService.Handler().CheckCapability(req.Contract, req.Capability)
	if err != nil {
		return nil, statusFromError(err)
	}
	return &CheckCapabilityResponse{Supported: ok}, nil
}
