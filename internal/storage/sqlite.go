package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"cifp_parser/internal/parsers/airport"
	"cifp_parser/internal/parsers/airway"
	"cifp_parser/internal/parsers/navaid"
	"cifp_parser/internal/parsers/ndb"
	"cifp_parser/internal/parsers/proc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/parsers/waypoint"
)

// SQLiteDB writes the navigation database to an embedded SQLite file.
type SQLiteDB struct {
	db        *sql.DB
	tx        *sql.Tx
	pending   int
	batchSize int
}

// OpenSQLite opens or creates the SQLite database at cfg.Path and applies
// load-oriented pragmas. The artifact is always rebuildable from the source
// file, so relaxed sync during the bulk load only trades away durability
// the build does not need.
func OpenSQLite(cfg Config) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStorage, err)
	}
	// Pragmas below are per-connection; the load is sequential anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrStorage, p, err)
		}
	}

	return &SQLiteDB{db: db, batchSize: cfg.BatchSize}, nil
}

// Close rolls back any open batch and closes the database.
func (d *SQLiteDB) Close() error {
	if d.tx != nil {
		_ = d.tx.Rollback()
		d.tx = nil
	}
	return d.db.Close()
}

const sqliteSchema = `
CREATE TABLE airports (
	airport_id INTEGER PRIMARY KEY AUTOINCREMENT,
	icao TEXT NOT NULL UNIQUE,
	iata TEXT,
	name TEXT,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	elevation INTEGER,
	mag_var REAL,
	transition_altitude INTEGER,
	longest_runway INTEGER,
	is_military INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE runways (
	runway_id INTEGER PRIMARY KEY AUTOINCREMENT,
	airport_icao TEXT NOT NULL REFERENCES airports(icao),
	ident TEXT NOT NULL,
	length INTEGER,
	width INTEGER,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	heading REAL,
	threshold_elevation INTEGER,
	ils_ident TEXT,
	ils_frequency REAL,
	glideslope_angle REAL
);

CREATE TABLE navaids (
	navaid_id INTEGER PRIMARY KEY AUTOINCREMENT,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	nav_type TEXT NOT NULL,
	name TEXT,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	frequency REAL,
	mag_var REAL,
	nav_range INTEGER,
	UNIQUE(ident, region)
);

CREATE TABLE ndbs (
	ndb_id INTEGER PRIMARY KEY AUTOINCREMENT,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	name TEXT,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	frequency REAL NOT NULL,
	mag_var REAL,
	UNIQUE(ident, region)
);

CREATE TABLE waypoints (
	waypoint_id INTEGER PRIMARY KEY AUTOINCREMENT,
	ident TEXT NOT NULL,
	region TEXT NOT NULL,
	airport_icao TEXT,
	wp_type TEXT,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	UNIQUE(ident, region, airport_icao)
);

CREATE TABLE airways (
	airway_id INTEGER PRIMARY KEY AUTOINCREMENT,
	ident TEXT NOT NULL,
	sequence INTEGER NOT NULL,
	fix_ident TEXT NOT NULL,
	fix_lat REAL,
	fix_lon REAL,
	route_type TEXT,
	level TEXT,
	min_altitude INTEGER,
	max_altitude INTEGER
);

CREATE TABLE procedures (
	procedure_id INTEGER PRIMARY KEY AUTOINCREMENT,
	airport_icao TEXT NOT NULL,
	category TEXT NOT NULL,
	ident TEXT NOT NULL,
	transition TEXT NOT NULL DEFAULT '',
	runway TEXT,
	UNIQUE(airport_icao, category, ident, transition)
);

CREATE TABLE procedure_legs (
	leg_id INTEGER PRIMARY KEY AUTOINCREMENT,
	procedure_id INTEGER NOT NULL REFERENCES procedures(procedure_id),
	sequence INTEGER NOT NULL,
	fix_ident TEXT,
	fix_lat REAL,
	fix_lon REAL,
	path_term TEXT,
	turn_direction TEXT,
	alt_description TEXT,
	alt1 INTEGER,
	alt2 INTEGER,
	speed_limit INTEGER,
	course REAL,
	distance REAL,
	flight_time REAL,
	recommended_navaid TEXT
);

CREATE TABLE build_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX idx_airports_icao ON airports(icao);
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

// Init drops any previous schema and creates it fresh. The store is a
// disposable artifact: there is no migration path, only rebuild.
func (d *SQLiteDB) Init(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := d.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Tables[i]); err != nil {
			return fmt.Errorf("%w: drop %s: %v", ErrStorage, Tables[i], err)
		}
	}
	if _, err := d.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrStorage, err)
	}
	return nil
}

// queryer covers both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the open batch transaction if one exists, else the bare
// connection, so reads during a build see the rows written so far.
func (d *SQLiteDB) conn() queryer {
	if d.tx != nil {
		return d.tx
	}
	return d.db
}

// exec runs a statement inside the batch transaction, committing and
// reopening it every batchSize statements to bound WAL growth.
func (d *SQLiteDB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if d.tx == nil {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: begin: %v", ErrStorage, err)
		}
		d.tx = tx
		d.pending = 0
	}
	res, err := d.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: exec: %v", ErrStorage, err)
	}
	d.pending++
	if d.pending >= d.batchSize {
		if err := d.Flush(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Flush commits the open batch transaction.
func (d *SQLiteDB) Flush(ctx context.Context) error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit()
	d.tx = nil
	d.pending = 0
	if err != nil {
		return fmt.Errorf("%w: commit batch: %v", ErrStorage, err)
	}
	return nil
}

func (d *SQLiteDB) InsertAirport(ctx context.Context, a *airport.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO airports (icao, iata, name, lat, lon, elevation, mag_var, transition_altitude, longest_runway, is_military)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ICAO, a.IATA, a.Name, a.Lat, a.Lon, a.Elevation, a.MagVar, a.TransitionAltitude, a.LongestRunway, a.Military)
	if err != nil {
		return fmt.Errorf("insert airport %s: %w", a.ICAO, err)
	}
	return nil
}

func (d *SQLiteDB) InsertRunway(ctx context.Context, r *runway.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO runways (airport_icao, ident, length, width, lat, lon, heading, threshold_elevation, ils_ident, ils_frequency, glideslope_angle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Airport, r.Ident, r.Length, r.Width, r.Lat, r.Lon, r.Heading, r.ThresholdElevation, r.IlsIdent, r.IlsFrequency, r.GlideslopeAngle)
	if err != nil {
		return fmt.Errorf("insert runway %s/%s: %w", r.Airport, r.Ident, err)
	}
	return nil
}

func (d *SQLiteDB) InsertNavaid(ctx context.Context, n *navaid.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO navaids (ident, region, nav_type, name, lat, lon, frequency, mag_var, nav_range)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.Ident, n.Region, n.NavType, n.Name, n.Lat, n.Lon, n.Frequency, n.MagVar, n.Range)
	if err != nil {
		return fmt.Errorf("insert navaid %s: %w", n.Ident, err)
	}
	return nil
}

func (d *SQLiteDB) InsertNDB(ctx context.Context, n *ndb.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO ndbs (ident, region, name, lat, lon, frequency, mag_var)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.Ident, n.Region, n.Name, n.Lat, n.Lon, n.Frequency, n.MagVar)
	if err != nil {
		return fmt.Errorf("insert ndb %s: %w", n.Ident, err)
	}
	return nil
}

func (d *SQLiteDB) InsertWaypoint(ctx context.Context, w *waypoint.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO waypoints (ident, region, airport_icao, wp_type, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.Ident, w.Region, w.Airport, w.WpType, w.Lat, w.Lon)
	if err != nil {
		return fmt.Errorf("insert waypoint %s: %w", w.Ident, err)
	}
	return nil
}

func (d *SQLiteDB) InsertAirway(ctx context.Context, a *airway.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO airways (ident, sequence, fix_ident, route_type, level, min_altitude, max_altitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.Ident, a.Sequence, a.FixIdent, a.RouteType, a.Level, a.Floor, a.Ceiling)
	if err != nil {
		return fmt.Errorf("insert airway %s/%d: %w", a.Ident, a.Sequence, err)
	}
	return nil
}

func (d *SQLiteDB) InsertProcedure(ctx context.Context, p Procedure) (int64, error) {
	res, err := d.exec(ctx, `
		INSERT INTO procedures (airport_icao, category, ident, transition, runway)
		VALUES (?, ?, ?, ?, ?)
	`, p.Airport, p.Category, p.Ident, p.Transition, p.Runway)
	if err != nil {
		return 0, fmt.Errorf("insert procedure %s/%s: %w", p.Airport, p.Ident, err)
	}
	return res.LastInsertId()
}

func (d *SQLiteDB) InsertLeg(ctx context.Context, procedureID int64, leg *proc.Result) error {
	_, err := d.exec(ctx, `
		INSERT INTO procedure_legs (procedure_id, sequence, fix_ident, path_term, turn_direction, alt_description, alt1, alt2, speed_limit, course, distance, flight_time, recommended_navaid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, procedureID, leg.Sequence, leg.FixIdent, leg.PathTerm, leg.TurnDirection, leg.AltDescription,
		leg.Alt1, leg.Alt2, leg.SpeedLimit, leg.Course, leg.Distance, leg.Time, leg.RecommendedNavaid)
	if err != nil {
		return fmt.Errorf("insert leg %s/%d: %w", leg.Procedure, leg.Sequence, err)
	}
	return nil
}

func (d *SQLiteDB) UnresolvedLegs(ctx context.Context) ([]UnresolvedFix, error) {
	return d.unresolved(ctx, `SELECT leg_id, fix_ident FROM procedure_legs WHERE fix_ident != '' AND fix_lat IS NULL`)
}

func (d *SQLiteDB) UnresolvedAirways(ctx context.Context) ([]UnresolvedFix, error) {
	return d.unresolved(ctx, `SELECT airway_id, fix_ident FROM airways WHERE fix_ident != '' AND fix_lat IS NULL`)
}

func (d *SQLiteDB) unresolved(ctx context.Context, query string) ([]UnresolvedFix, error) {
	rows, err := d.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (d *SQLiteDB) UpdateLegCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	_, err := d.exec(ctx, `UPDATE procedure_legs SET fix_lat = ?, fix_lon = ? WHERE leg_id = ?`, lat, lon, id)
	return err
}

func (d *SQLiteDB) UpdateAirwayCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	_, err := d.exec(ctx, `UPDATE airways SET fix_lat = ?, fix_lon = ? WHERE airway_id = ?`, lat, lon, id)
	return err
}

func (d *SQLiteDB) ProcedureLegs(ctx context.Context, procedureID int64) ([]Leg, error) {
	rows, err := d.conn().QueryContext(ctx, `
		SELECT leg_id, sequence, fix_ident, fix_lat, fix_lon, path_term
		FROM procedure_legs WHERE procedure_id = ? ORDER BY sequence
	`, procedureID)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (d *SQLiteDB) FindAirport(ctx context.Context, icao string) (float64, float64, bool, error) {
	return d.findPoint(ctx, `SELECT lat, lon FROM airports WHERE icao = ?`, icao)
}

func (d *SQLiteDB) FindNavaid(ctx context.Context, ident string) (float64, float64, bool, error) {
	return d.findPoint(ctx, `SELECT lat, lon FROM navaids WHERE ident = ? LIMIT 1`, ident)
}

func (d *SQLiteDB) findPoint(ctx context.Context, query, key string) (float64, float64, bool, error) {
	var lat, lon float64
	err := d.conn().QueryRowContext(ctx, query, key).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return lat, lon, true, nil
}

func (d *SQLiteDB) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		if err := d.conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (d *SQLiteDB) PutMeta(ctx context.Context, key, value string) error {
	_, err := d.exec(ctx, `INSERT OR REPLACE INTO build_meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (d *SQLiteDB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := d.conn().QueryRowContext(ctx, `SELECT value FROM build_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
