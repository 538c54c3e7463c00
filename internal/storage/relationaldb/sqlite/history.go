package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/genecyber/goNFTraded/internal/storage/relationaldb"
)

const schema = `
CREATE TABLE IF NOT EXISTS accepted_offers (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	requested_contract TEXT    NOT NULL,
	requested_unit     INTEGER NOT NULL,
	maker              TEXT    NOT NULL,
	offered_contract   TEXT    NOT NULL,
	offered_unit       INTEGER NOT NULL,
	offered_quantity   INTEGER NOT NULL,
	requested_quantity INTEGER NOT NULL,
	collection_class   INTEGER NOT NULL,
	accepted_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS accepted_offers_by_key
	ON accepted_offers (requested_contract, requested_unit, id);
`

// HistoryRepository implements relationaldb.HistoryRepository for SQLite.
type HistoryRepository struct {
	config *relationaldb.Config
	db     *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(config *relationaldb.Config) (*HistoryRepository, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &HistoryRepository{config: config}, nil
}

// Open opens the database file and initializes schema.
func (r *HistoryRepository) Open(ctx context.Context) error {
	db, err := sql.Open("sqlite", r.config.DSN)
	if err != nil {
		return relationaldb.NewQueryError("open", "failed to open database", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return relationaldb.NewQueryError("open", "failed to bootstrap schema", err)
	}
	r.db = db
	return nil
}

// Close closes the database.
func (r *HistoryRepository) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// InsertAcceptedOffer appends one accepted offer.
func (r *HistoryRepository) InsertAcceptedOffer(ctx context.Context, rec relationaldb.AcceptedOfferRecord) error {
	if r.db == nil {
		return relationaldb.ErrDatabaseClosed
	}
	const query = `INSERT INTO accepted_offers
		(requested_contract, requested_unit, maker, offered_contract,
		 offered_unit, offered_quantity, requested_quantity,
		 collection_class, accepted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.RequestedContract, int64(rec.RequestedUnit), rec.Maker,
		rec.OfferedContract, int64(rec.OfferedUnit), int64(rec.OfferedQuantity),
		int64(rec.RequestedQuantity), int64(rec.CollectionClass), rec.AcceptedAt)
	if err != nil {
		return relationaldb.NewQueryError("insert_accepted_offer", "failed to insert accepted offer", err)
	}
	return nil
}

// AcceptedOffersByKey returns the history for one requested-asset key.
func (r *HistoryRepository) AcceptedOffersByKey(ctx context.Context, contract string, unit uint64) ([]relationaldb.AcceptedOfferRecord, error) {
	if r.db == nil {
		return nil, relationaldb.ErrDatabaseClosed
	}
	const query = `SELECT id, requested_contract, requested_unit, maker,
		offered_contract, offered_unit, offered_quantity,
		requested_quantity, collection_class, accepted_at
		FROM accepted_offers
		WHERE requested_contract = ? AND requested_unit = ?
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, contract, int64(unit))
	if err != nil {
		return nil, relationaldb.NewQueryError("accepted_offers_by_key", "failed to query accepted offers", err)
	}
	defer rows.Close()

	var out []relationaldb.AcceptedOfferRecord
	for rows.Next() {
		var rec relationaldb.AcceptedOfferRecord
		var requestedUnit, offeredUnit, offeredQty, requestedQty, class int64
		if err := rows.Scan(&rec.ID, &rec.RequestedContract, &requestedUnit,
			&rec.Maker, &rec.OfferedContract, &offeredUnit, &offeredQty,
			&requestedQty, &class, &rec.AcceptedAt); err != nil {
			return nil, relationaldb.NewQueryError("accepted_offers_by_key", "failed to scan accepted offer", err)
		}
		rec.RequestedUnit = uint64(requestedUnit)
		rec.OfferedUnit = uint64(offeredUnit)
		rec.OfferedQuantity = uint64(offeredQty)
		rec.RequestedQuantity = uint64(requestedQty)
		rec.CollectionClass = uint32(class)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, relationaldb.NewQueryError("accepted_offers_by_key", "row iteration failed", err)
	}
	return out, nil
}

// Count returns the total number of recorded acceptances.
func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, relationaldb.ErrDatabaseClosed
	}
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accepted_offers").Scan(&count)
	if err != nil {
		return 0, relationaldb.NewQueryError("count", "failed to count accepted offers", err)
	}
	return count, nil
}
