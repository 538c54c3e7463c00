package jsonrpc

import (
	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
)

// AssetRefParam mirrors trade.AssetRef on the wire.
type AssetRefParam struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Quantity uint64        `json:"quantity"`
}

func (a AssetRefParam) toRef() trade.AssetRef {
	return trade.AssetRef{Contract: a.Contract, Unit: a.Unit, Quantity: a.Quantity}
}

type AddOfferParams struct {
	Maker     asset.Address `json:"maker"`
	Offered   AssetRefParam `json:"offered"`
	Requested AssetRefParam `json:"requested"`
	Class     uint32        `json:"class"`
}

type AddOfferResult struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Index    int           `json:"index"`
}

type OfferSlotParams struct {
	Caller   asset.Address `json:"caller"`
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Index    int           `json:"index"`
}

type AcceptOfferParams struct {
	Caller   asset.Address `json:"caller"`
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Index    int           `json:"index"`
	Quantity uint64        `json:"quantity"`
	Class    uint32        `json:"class"`
}

type AcceptOfferResult struct {
	Offer             OfferResult `json:"offer"`
	Delivered         uint64      `json:"delivered"`
	RequestedQuantity uint64      `json:"requested_quantity"`
	FlatFee           uint64      `json:"flat_fee"`
	PercentageFee     uint64      `json:"percentage_fee"`
	Invalidated       int         `json:"invalidated"`
}

type AssetKeyParams struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
}

type GetOfferParams struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Index    int           `json:"index"`
}

type GetOfferedParams struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Maker    asset.Address `json:"maker"`
}

type OfferResult struct {
	Maker     asset.Address `json:"maker"`
	Offered   AssetRefParam `json:"offered"`
	Requested AssetRefParam `json:"requested"`
	Class     uint32        `json:"class"`
	Alive     bool          `json:"alive"`
}

func offerResult(o trade.Offer) OfferResult {
	return OfferResult{
		Maker:     o.Maker,
		Offered:   AssetRefParam{Contract: o.Offered.Contract, Unit: o.Offered.Unit, Quantity: o.Offered.Quantity},
		Requested: AssetRefParam{Contract: o.Requested.Contract, Unit: o.Requested.Unit, Quantity: o.Requested.Quantity},
		Class:     uint32(o.Class),
		Alive:     o.Alive,
	}
}

type GetConfigParams struct {
	Class uint32 `json:"class"`
}

type ConfigResult struct {
	PayToMakeOffer           bool          `json:"pay_to_make_offer"`
	PayToAcceptOffer         bool          `json:"pay_to_accept_offer"`
	MakeOfferPrice           uint64        `json:"make_offer_price"`
	AcceptOfferPrice         uint64        `json:"accept_offer_price"`
	PercentFee               uint64        `json:"percent_fee"`
	TakePercentageOfFungible bool          `json:"take_percentage_of_fungible"`
	FungibleOfferingAllowed  bool          `json:"fungible_offering_allowed"`
	Recipient                asset.Address `json:"recipient"`
}

type AdminParams struct {
	Caller asset.Address `json:"caller"`
	Class  uint32        `json:"class"`
}

type SetOfferPricesParams struct {
	Caller      asset.Address `json:"caller"`
	Class       uint32        `json:"class"`
	MakePrice   uint64        `json:"make_price"`
	AcceptPrice uint64        `json:"accept_price"`
	PercentFee  uint64        `json:"percent_fee"`
}

type SetRecipientParams struct {
	Caller    asset.Address `json:"caller"`
	Class     uint32        `json:"class"`
	Recipient asset.Address `json:"recipient"`
}

type CheckCapabilityParams struct {
	Contract   asset.Address `json:"contract"`
	Capability string        `json:"capability"`
}
