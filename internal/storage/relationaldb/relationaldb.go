// Package relationaldb mirrors the accepted-offer history log into a
// relational database for offline querying. The KV state store remains the
// source of truth; this mirror is write-behind and best-effort.
package relationaldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genecyber/goNFTraded/internal/core/trade"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrInvalidDriver is returned for unknown driver names.
	ErrInvalidDriver = errors.New("invalid database driver")

	// ErrMissingDSN is returned when no connection string is configured.
	ErrMissingDSN = errors.New("database connection string is required")

	// ErrDatabaseClosed is returned when operating on a closed repository.
	ErrDatabaseClosed = errors.New("database connection is closed")
)

// QueryError wraps a failed statement with its operation name.
type QueryError struct {
	Op  string
	Msg string
	Err error
}

// NewQueryError creates a QueryError.
func NewQueryError(op, msg string, err error) *QueryError {
	return &QueryError{Op: op, Msg: msg, Err: err}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Config holds connection settings for the history mirror.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver string

	// DSN is the driver-specific connection string (postgres URL or
	// sqlite file path).
	DSN string

	// MaxOpenConns bounds the connection pool; zero means the driver
	// default.
	MaxOpenConns int
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Driver)
	}
	if c.DSN == "" {
		return ErrMissingDSN
	}
	if c.MaxOpenConns < 0 {
		return errors.New("max open connections must be >= 0")
	}
	return nil
}

// AcceptedOfferRecord is one row of the accepted-offer history table.
type AcceptedOfferRecord struct {
	ID                 int64     `json:"id"`
	RequestedContract  string    `json:"requested_contract"`
	RequestedUnit      uint64    `json:"requested_unit"`
	Maker              string    `json:"maker"`
	OfferedContract    string    `json:"offered_contract"`
	OfferedUnit        uint64    `json:"offered_unit"`
	OfferedQuantity    uint64    `json:"offered_quantity"`
	RequestedQuantity  uint64    `json:"requested_quantity"`
	CollectionClass    uint32    `json:"collection_class"`
	AcceptedAt         time.Time `json:"accepted_at"`
}

// HistoryRepository stores and queries accepted offers.
type HistoryRepository interface {
	// Open establishes the connection and bootstraps the schema.
	Open(ctx context.Context) error

	// Close releases the connection.
	Close() error

	// InsertAcceptedOffer appends one accepted offer.
	InsertAcceptedOffer(ctx context.Context, rec AcceptedOfferRecord) error

	// AcceptedOffersByKey returns the history for one requested-asset key,
	// oldest first.
	AcceptedOffersByKey(ctx context.Context, contract string, unit uint64) ([]AcceptedOfferRecord, error)

	// Count returns the total number of recorded acceptances.
	Count(ctx context.Context) (int64, error)
}

// Sink adapts a HistoryRepository to the engine's trade.HistorySink.
type Sink struct {
	repo HistoryRepository
}

// NewSink creates a sink writing into repo.
func NewSink(repo HistoryRepository) *Sink {
	return &Sink{repo: repo}
}

// RecordAccepted implements trade.HistorySink.
func (s *Sink) RecordAccepted(ctx context.Context, key trade.AssetKey, o trade.Offer) error {
	return s.repo.InsertAcceptedOffer(ctx, AcceptedOfferRecord{
		RequestedContract: key.Contract.String(),
		RequestedUnit:     key.Unit,
		Maker:             o.Maker.String(),
		OfferedContract:   o.Offered.Contract.String(),
		OfferedUnit:       o.Offered.Unit,
		OfferedQuantity:   o.Offered.Quantity,
		RequestedQuantity: o.Requested.Quantity,
		CollectionClass:   uint32(o.Class),
		AcceptedAt:        time.Now().UTC(),
	})
}
