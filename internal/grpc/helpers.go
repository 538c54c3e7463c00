package grpc

import (
	"errors"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusFromError maps domain errors to gRPC status errors.
func statusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, trade.ErrOfferNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, trade.ErrNotAuthorized),
		errors.Is(err, trade.ErrNotOfferOwner),
		errors.Is(err, trade.ErrNotRequestedAssetOwner),
		errors.Is(err, trade.ErrNotOwnerOrNotApproved):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, trade.ErrInsufficientPayment),
		errors.Is(err, trade.ErrInsufficientAllowance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, trade.ErrFungibleOfferingDisabled),
		errors.Is(err, trade.ErrFungibleNotAllowedAsTarget):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, trade.ErrPercentFeeTooHigh):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, trade.ErrTransferFailed):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, asset.ErrUnknownContract):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
