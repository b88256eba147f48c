package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cifp_parser/internal/parsers/airport"
	"cifp_parser/internal/parsers/airway"
	"cifp_parser/internal/parsers/navaid"
	"cifp_parser/internal/parsers/ndb"
	"cifp_parser/internal/parsers/proc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/parsers/waypoint"
)

// PostgresDB writes the navigation database to PostgreSQL. Same semantics
// as the SQLite backend; used for server-side deployments where consumers
// query a shared database instead of shipping a file.
type PostgresDB struct {
	pool      *pgxpool.Pool
	tx        pgx.Tx
	pending   int
	batchSize int
}

// OpenPostgres opens a connection pool using cfg.PostgresDSN.
func OpenPostgres(ctx context.Context, cfg Config) (*PostgresDB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("%w: parse postgres config: %v", ErrStorage, err)
	}

	poolCfg.MaxConns = 4
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", ErrStorage, err)
	}

	return &PostgresDB{pool: pool, batchSize: cfg.BatchSize}, nil
}

// Close rolls back any open batch and closes the pool.
func (d *PostgresDB) Close() error {
	if d.tx != nil {
		_ = d.tx.Rollback(context.Background())
		d.tx = nil
	}
	d.pool.Close()
	return nil
}

const postgresSchema = `
CREATE TABLE airports (
	airport_id BIGSERIAL PRIMARY KEY,
	icao TEXT NOT NULL UNIQUE,
	iata TEXT,
	name TEXT,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	elevation INTEGER,
	mag_var DOUBLE PRECISION,
	transition_altitude INTEGER,
	longest_runway INTEGER,
	is_military BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE runways (
	runway_id BIGSERIAL PRIMARY KEY,
	airport_icao TEXT NOT NULL REFERENCES airports(icao),
	ident TEXT NOT NULL,
	length INTEGER,
	width INTEGER,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	heading DOUBLE PRECISION,
	threshold_elevation INTEGER,
	ils_ident TEXT,
	ils_frequency DOUBLE PRECISION,
	glideslope_angle DOUBLE PRECISION
);

CREATE TABLE navaids (
	navaid_id BIGSERIAL PRIMARY KEY,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	nav_type TEXT NOT NULL,
	name TEXT,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	frequency DOUBLE PRECISION,
	mag_var DOUBLE PRECISION,
	nav_range INTEGER,
	UNIQUE(ident, region)
);

CREATE TABLE ndbs (
	ndb_id BIGSERIAL PRIMARY KEY,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	name TEXT,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	frequency DOUBLE PRECISION NOT NULL,
	mag_var DOUBLE PRECISION,
	UNIQUE(ident, region)
);

CREATE TABLE waypoints (
	waypoint_id BIGSERIAL PRIMARY KEY,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	airport_icao TEXT,
	wp_type TEXT,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	UNIQUE(ident, region, airport_icao)
);

CREATE TABLE airways (
	airway_id BIGSERIAL PRIMARY KEY,
	ident TEXT NOT NULL,
	sequence INTEGER NOT NULL,
	fix_ident TEXT NOT NULL,
	fix_lat DOUBLE PRECISION,
	fix_lon DOUBLE PRECISION,
	route_type TEXT,
	level TEXT,
	min_altitude INTEGER,
	max_altitude INTEGER
);

CREATE TABLE procedures (
	procedure_id BIGSERIAL PRIMARY KEY,
	airport_icao TEXT NOT NULL,
	category TEXT NOT NULL,
	ident TEXT NOT NULL,
	transition TEXT NOT NULL DEFAULT '',
	runway TEXT,
	UNIQUE(airport_icao, category, ident, transition)
);

CREATE TABLE procedure_legs (
	leg_id BIGSERIAL PRIMARY KEY,
	procedure_id BIGINT NOT NULL REFERENCES procedures(procedure_id),
	sequence INTEGER NOT NULL,
	fix_ident TEXT,
	fix_lat DOUBLE PRECISION,
	fix_lon DOUBLE PRECISION,
	path_term TEXT,
	turn_direction TEXT,
	alt_description TEXT,
	alt1 INTEGER,
	alt2 INTEGER,
	speed_limit INTEGER,
	course DOUBLE PRECISION,
	distance DOUBLE PRECISION,
	flight_time DOUBLE PRECISION,
	recommended_navaid TEXT
);

CREATE TABLE build_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX idx_airports_pos ON airports(lat, lon);
CREATE INDEX idx_runways_airport ON runways(airport_icao);
CREATE INDEX idx_navaids_ident ON navaids(ident);
CREATE INDEX idx_navaids_pos ON navaids(lat, lon);
CREATE INDEX idx_ndbs_ident ON ndbs(ident);
CREATE INDEX idx_ndbs_pos ON ndbs(lat, lon);
CREATE INDEX idx_waypoints_ident ON waypoints(ident);
CREATE INDEX idx_waypoints_pos ON waypoints(lat, lon);
CREATE INDEX idx_airways_ident ON airways(ident, sequence);
CREATE INDEX idx_procedures_airport ON procedures(airport_icao);
CREATE INDEX idx_legs_procedure ON procedure_legs(procedure_id, sequence);
CREATE INDEX idx_legs_fix ON procedure_legs(fix_ident);
`

// Init drops any previous schema and creates it fresh.
func (d *PostgresDB) Init(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := d.pool.Exec(ctx, "DROP TABLE IF EXISTS "+Tables[i]+" CASCADE"); err != nil {
			return fmt.Errorf("%w: drop %s: %v", ErrStorage, Tables[i], err)
		}
	}
	if _, err := d.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrStorage, err)
	}
	return nil
}

// pgQueryer covers both the pool and an open transaction.
type pgQueryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (d *PostgresDB) conn() pgQueryer {
	if d.tx != nil {
		return d.tx
	}
	return d.pool
}

func (d *PostgresDB) exec(ctx context.Context, query string, args ...any) error {
	if d.tx == nil {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%w: begin: %v", ErrStorage, err)
		}
		d.tx = tx
		d.pending = 0
	}
	if _, err := d.tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: exec: %v", ErrStorage, err)
	}
	d.pending++
	if d.pending >= d.batchSize {
		return d.Flush(ctx)
	}
	return nil
}

// Flush commits the open batch transaction.
func (d *PostgresDB) Flush(ctx context.Context) error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit(ctx)
	d.tx = nil
	d.pending = 0
	if err != nil {
		return fmt.Errorf("%w: commit batch: %v", ErrStorage, err)
	}
	return nil
}

func (d *PostgresDB) InsertAirport(ctx context.Context, a *airport.Result) error {
	err := d.exec(ctx, `
		INSERT INTO airports (icao, iata, name, lat, lon, elevation, mag_var, transition_altitude, longest_runway, is_military)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ICAO, a.IATA, a.Name, a.Lat, a.Lon, a.Elevation, a.MagVar, a.TransitionAltitude, a.LongestRunway, a.Military)
	if err != nil {
		return fmt.Errorf("insert airport %s: %w", a.ICAO, err)
	}
	return nil
}

func (d *PostgresDB) InsertRunway(ctx context.Context, r *runway.Result) error {
	err := d.exec(ctx, `
		INSERT INTO runways (airport_icao, ident, length, width, lat, lon, heading, threshold_elevation, ils_ident, ils_frequency, glideslope_angle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.Airport, r.Ident, r.Length, r.Width, r.Lat, r.Lon, r.Heading, r.ThresholdElevation, r.IlsIdent, r.IlsFrequency, r.GlideslopeAngle)
	if err != nil {
		return fmt.Errorf("insert runway %s/%s: %w", r.Airport, r.Ident, err)
	}
	return nil
}

func (d *PostgresDB) InsertNavaid(ctx context.Context, n *navaid.Result) error {
	err := d.exec(ctx, `
		INSERT INTO navaids (ident, region, nav_type, name, lat, lon, frequency, mag_var, nav_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, n.Ident, n.Region, n.NavType, n.Name, n.Lat, n.Lon, n.Frequency, n.MagVar, n.Range)
	if err != nil {
		return fmt.Errorf("insert navaid %s: %w", n.Ident, err)
	}
	return nil
}

func (d *PostgresDB) InsertNDB(ctx context.Context, n *ndb.Result) error {
	err := d.exec(ctx, `
		INSERT INTO ndbs (ident, region, name, lat, lon, frequency, mag_var)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.Ident, n.Region, n.Name, n.Lat, n.Lon, n.Frequency, n.MagVar)
	if err != nil {
		return fmt.Errorf("insert ndb %s: %w", n.Ident, err)
	}
	return nil
}

func (d *PostgresDB) InsertWaypoint(ctx context.Context, w *waypoint.Result) error {
	err := d.exec(ctx, `
		INSERT INTO waypoints (ident, region, airport_icao, wp_type, lat, lon)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, w.Ident, w.Region, w.Airport, w.WpType, w.Lat, w.Lon)
	if err != nil {
		return fmt.Errorf("insert waypoint %s: %w", w.Ident, err)
	}
	return nil
}

func (d *PostgresDB) InsertAirway(ctx context.Context, a *airway.Result) error {
	err := d.exec(ctx, `
		INSERT INTO airways (ident, sequence, fix_ident, route_type, level, min_altitude, max_altitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.Ident, a.Sequence, a.FixIdent, a.RouteType, a.Level, a.Floor, a.Ceiling)
	if err != nil {
		return fmt.Errorf("insert airway %s/%d: %w", a.Ident, a.Sequence, err)
	}
	return nil
}

func (d *PostgresDB) InsertProcedure(ctx context.Context, p Procedure) (int64, error) {
	// RETURNING must run on the batch transaction so legs that follow in
	// the same batch can reference the id.
	if d.tx == nil {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: begin: %v", ErrStorage, err)
		}
		d.tx = tx
		d.pending = 0
	}
	var id int64
	err := d.tx.QueryRow(ctx, `
		INSERT INTO procedures (airport_icao, category, ident, transition, runway)
		VALUES ($1, $2, $3, $4, $5) RETURNING procedure_id
	`, p.Airport, p.Category, p.Ident, p.Transition, p.Runway).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert procedure %s/%s: %w", p.Airport, p.Ident, err)
	}
	d.pending++
	return id, nil
}

func (d *PostgresDB) InsertLeg(ctx context.Context, procedureID int64, leg *proc.Result) error {
	err := d.exec(ctx, `
		INSERT INTO procedure_legs (procedure_id, sequence, fix_ident, path_term, turn_direction, alt_description, alt1, alt2, speed_limit, course, distance, flight_time, recommended_navaid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, procedureID, leg.Sequence, leg.FixIdent, leg.PathTerm, leg.TurnDirection, leg.AltDescription,
		leg.Alt1, leg.Alt2, leg.SpeedLimit, leg.Course, leg.Distance, leg.Time, leg.RecommendedNavaid)
	if err != nil {
		return fmt.Errorf("insert leg %s/%d: %w", leg.Procedure, leg.Sequence, err)
	}
	return nil
}

func (d *PostgresDB) UnresolvedLegs(ctx context.Context) ([]UnresolvedFix, error) {
	return d.unresolved(ctx, `SELECT leg_id, fix_ident FROM procedure_legs WHERE fix_ident != '' AND fix_lat IS NULL`)
}

func (d *PostgresDB) UnresolvedAirways(ctx context.Context) ([]UnresolvedFix, error) {
	return d.unresolved(ctx, `SELECT airway_id, fix_ident FROM airways WHERE fix_ident != '' AND fix_lat IS NULL`)
}

func (d *PostgresDB) unresolved(ctx context.Context, query string) ([]UnresolvedFix, error) {
	rows, err := d.conn().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()

	var fixes []UnresolvedFix
	for rows.Next() {
		var f UnresolvedFix
		if err := rows.Scan(&f.ID, &f.FixIdent); err != nil {
			return nil, fmt.Errorf("scan unresolved: %w", err)
		}
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}

func (d *PostgresDB) UpdateLegCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	return d.exec(ctx, `UPDATE procedure_legs SET fix_lat = $1, fix_lon = $2 WHERE leg_id = $3`, lat, lon, id)
}

func (d *PostgresDB) UpdateAirwayCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	return d.exec(ctx, `UPDATE airways SET fix_lat = $1, fix_lon = $2 WHERE airway_id = $3`, lat, lon, id)
}

func (d *PostgresDB) ProcedureLegs(ctx context.Context, procedureID int64) ([]Leg, error) {
	rows, err := d.conn().Query(ctx, `
		SELECT leg_id, sequence, fix_ident, fix_lat, fix_lon, path_term
		FROM procedure_legs WHERE procedure_id = $1 ORDER BY sequence
	`, procedureID)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer rows.Close()

	var legs []Leg
	for rows.Next() {
		var l Leg
		if err := rows.Scan(&l.ID, &l.Sequence, &l.FixIdent, &l.FixLat, &l.FixLon, &l.PathTerm); err != nil {
			return nil, fmt.Errorf("scan leg: %w", err)
		}
		legs = append(legs, l)
	}
	return legs, rows.Err()
}

func (d *PostgresDB) FindAirport(ctx context.Context, icao string) (float64, float64, bool, error) {
	return d.findPoint(ctx, `SELECT lat, lon FROM airports WHERE icao = $1`, icao)
}

func (d *PostgresDB) FindNavaid(ctx context.Context, ident string) (float64, float64, bool, error) {
	return d.findPoint(ctx, `SELECT lat, lon FROM navaids WHERE ident = $1 LIMIT 1`, ident)
}

func (d *PostgresDB) findPoint(ctx context.Context, query, key string) (float64, float64, bool, error) {
	var lat, lon float64
	err := d.conn().QueryRow(ctx, query, key).Scan(&lat, &lon)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return lat, lon, true, nil
}

func (d *PostgresDB) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		if err := d.conn().QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (d *PostgresDB) PutMeta(ctx context.Context, key, value string) error {
	return d.exec(ctx, `
		INSERT INTO build_meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
}

func (d *PostgresDB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := d.conn().QueryRow(ctx, `SELECT value FROM build_meta WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return value, err
}
