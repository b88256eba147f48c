// Package storage provides persistent storage for the decoded navigation
// database. Two backends implement the same Writer interface: an embedded
// SQLite file (the artifact shipped to simulator clients) and PostgreSQL
// for server-side deployments.
package storage

import (
	"context"
	"errors"

	"cifp_parser/internal/parsers/airport"
	"cifp_parser/internal/parsers/airway"
	"cifp_parser/internal/parsers/navaid"
	"cifp_parser/internal/parsers/ndb"
	"cifp_parser/internal/parsers/proc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/parsers/waypoint"
)

// DefaultBatchSize is the number of inserts grouped into one transaction
// during the bulk load.
const DefaultBatchSize = 10000

// ErrStorage marks failures opening or writing the storage target.
var ErrStorage = errors.New("storage failure")

// Config holds storage settings.
type Config struct {
	// Path of the SQLite database file. Used when PostgresDSN is empty.
	Path string

	// PostgresDSN selects the PostgreSQL backend when set.
	PostgresDSN string

	// BatchSize is the number of statements per bulk-load transaction.
	BatchSize int
}

// DefaultConfig returns a configuration with default local settings.
func DefaultConfig() Config {
	return Config{
		Path:      "navdata.sqlite",
		BatchSize: DefaultBatchSize,
	}
}

// Procedure is a procedure header row. The generated id links legs to it.
type Procedure struct {
	Airport    string
	Category   string
	Ident      string
	Transition string
	Runway     string
}

// Leg is a stored procedure leg as read back from the database.
type Leg struct {
	ID       int64
	Sequence int
	FixIdent string
	FixLat   *float64
	FixLon   *float64
	PathTerm string
}

// UnresolvedFix is a row whose fix identifier is set but whose coordinates
// are still null.
type UnresolvedFix struct {
	ID       int64
	FixIdent string
}

// Writer is the single mutator of the navigation store. A build drops and
// recreates the schema via Init, streams inserts in batched transactions,
// and closes with Flush.
type Writer interface {
	// Init drops any previous schema and creates tables and indices
	// fresh. Every build starts here; the store is never migrated.
	Init(ctx context.Context) error

	InsertAirport(ctx context.Context, a *airport.Result) error
	InsertRunway(ctx context.Context, r *runway.Result) error
	InsertNavaid(ctx context.Context, n *navaid.Result) error
	InsertNDB(ctx context.Context, n *ndb.Result) error
	InsertWaypoint(ctx context.Context, w *waypoint.Result) error
	InsertAirway(ctx context.Context, a *airway.Result) error

	// InsertProcedure creates a procedure header and returns its
	// generated id.
	InsertProcedure(ctx context.Context, p Procedure) (int64, error)
	InsertLeg(ctx context.Context, procedureID int64, leg *proc.Result) error

	// Flush commits the open bulk-load transaction, if any.
	Flush(ctx context.Context) error

	// Resolver support: rows with a fix identifier but null coordinates,
	// and the coordinate backfill for them.
	UnresolvedLegs(ctx context.Context) ([]UnresolvedFix, error)
	UpdateLegCoordinates(ctx context.Context, id int64, lat, lon float64) error
	UnresolvedAirways(ctx context.Context) ([]UnresolvedFix, error)
	UpdateAirwayCoordinates(ctx context.Context, id int64, lat, lon float64) error

	// Verification and test support.
	ProcedureLegs(ctx context.Context, procedureID int64) ([]Leg, error)
	FindAirport(ctx context.Context, icao string) (lat, lon float64, ok bool, err error)
	FindNavaid(ctx context.Context, ident string) (lat, lon float64, ok bool, err error)
	TableCounts(ctx context.Context) (map[string]int, error)

	PutMeta(ctx context.Context, key, value string) error
	GetMeta(ctx context.Context, key string) (string, error)

	Close() error
}

// Open opens the store selected by the configuration: PostgreSQL when a
// DSN is set, the embedded SQLite file otherwise.
func Open(ctx context.Context, cfg Config) (Writer, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.PostgresDSN != "" {
		return OpenPostgres(ctx, cfg)
	}
	return OpenSQLite(cfg)
}

// Tables lists every table the build writes, in creation order.
var Tables = []string{
	"airports",
	"runways",
	"navaids",
	"ndbs",
	"waypoints",
	"airways",
	"procedures",
	"procedure_legs",
	"build_meta",
}
