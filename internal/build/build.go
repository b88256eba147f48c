// Package build drives one end-to-end construction of the navigation
// database: a single linear scan of the CIFP source file feeding batched
// inserts, followed by the fix-resolution pass and verification.
package build

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"cifp_parser/internal/arinc"
	_ "cifp_parser/internal/parsers" // register all parsers via init()
	"cifp_parser/internal/parsers/airport"
	"cifp_parser/internal/parsers/airway"
	"cifp_parser/internal/parsers/ils"
	"cifp_parser/internal/parsers/navaid"
	"cifp_parser/internal/parsers/ndb"
	"cifp_parser/internal/parsers/proc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/parsers/waypoint"
	"cifp_parser/internal/registry"
	"cifp_parser/internal/storage"
)

// ErrInputMissing marks a build started without a readable source file.
var ErrInputMissing = errors.New("input file not found")

// errorSampleLimit bounds how many per-record error messages are kept.
// Beyond the limit only the counter grows.
const errorSampleLimit = 10

// Options configures one build invocation.
type Options struct {
	// Source is the path of the decompressed CIFP file.
	Source string

	// AiracCycle overrides the cycle read from the source records.
	AiracCycle string
}

// Stats summarises one build.
type Stats struct {
	Lines       int
	Skipped     int // Lines with no modeled record family
	Duplicates  int // Facility records dropped by dedup
	ParseErrors int
	ErrorSample []string

	Resolved   int // Leg and airway fixes back-filled by the resolver
	Unresolved int

	Counts map[string]int // Rows per table after the build
}

type procKey struct {
	airport    string
	category   string
	ident      string
	transition string
}

type dedupKey struct {
	ident string
	scope string // Region code, or owning airport for terminal waypoints
}

// Builder holds the state of one build invocation. All caches on it are
// scoped to the invocation: repeated builds in one process never share
// procedure ids or dedup sets.
type Builder struct {
	store storage.Writer
	log   *slog.Logger
	reg   *registry.Registry

	stats Stats
	cycle string

	// Procedure header cache (assembler.go).
	procIDs map[procKey]int64

	// First-wins dedup sets for recurring facility records.
	seenNavaids   map[dedupKey]struct{}
	seenNDBs      map[dedupKey]struct{}
	seenWaypoints map[dedupKey]struct{}
	seenAirports  map[string]struct{}

	// Identifier lookup for the resolver pass, collected as rows are
	// accepted so it matches the stored tables exactly.
	fixes map[string][2]float64

	// Runways are buffered until the scan completes so localizer records
	// can be joined on before insert; nothing else is held back.
	runways []*runway.Result
	ilsByRw map[string]*ils.Result
}

// New creates a Builder writing to the given store.
func New(store storage.Writer, logger *slog.Logger) *Builder {
	return &Builder{
		store:         store,
		log:           logger,
		reg:           registry.Default(),
		procIDs:       make(map[procKey]int64),
		seenNavaids:   make(map[dedupKey]struct{}),
		seenNDBs:      make(map[dedupKey]struct{}),
		seenWaypoints: make(map[dedupKey]struct{}),
		seenAirports:  make(map[string]struct{}),
		fixes:         make(map[string][2]float64),
		ilsByRw:       make(map[string]*ils.Result),
	}
}

// Run performs one full build: drop and recreate the schema, scan the
// source, resolve fixes, and write build metadata. The returned stats are
// valid even when err is non-nil, for reporting.
func Run(ctx context.Context, opts Options, store storage.Writer, logger *slog.Logger) (*Stats, error) {
	b := New(store, logger)
	return &b.stats, b.run(ctx, opts)
}

func (b *Builder) run(ctx context.Context, opts Options) error {
	f, err := os.Open(opts.Source)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInputMissing, opts.Source)
	}
	defer f.Close()

	if err := b.store.Init(ctx); err != nil {
		return err
	}

	start := time.Now()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.stats.Lines++
		if err := b.processLine(ctx, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", opts.Source, err)
	}

	if err := b.flushRunways(ctx); err != nil {
		return err
	}
	if err := b.store.Flush(ctx); err != nil {
		return err
	}

	if err := b.resolve(ctx); err != nil {
		return err
	}

	cycle := opts.AiracCycle
	if cycle == "" {
		cycle = b.cycle
	}
	if err := b.writeMeta(ctx, opts.Source, cycle); err != nil {
		return err
	}

	b.log.Info("build complete",
		"lines", b.stats.Lines,
		"skipped", b.stats.Skipped,
		"duplicates", b.stats.Duplicates,
		"parse_errors", b.stats.ParseErrors,
		"resolved", b.stats.Resolved,
		"unresolved", b.stats.Unresolved,
		"elapsed", time.Since(start).Round(time.Millisecond))
	for _, table := range storage.Tables {
		b.log.Info("table count", "table", table, "rows", b.stats.Counts[table])
	}
	return nil
}

// processLine classifies and routes one source line. Per-record failures
// are counted and sampled, never propagated: one corrupt line must not
// abort a multi-hundred-thousand-line build. Storage-level failures
// (wrapped storage.ErrStorage) do abort it.
func (b *Builder) processLine(ctx context.Context, line string) error {
	rec, key, ok := arinc.Classify(line)
	if !ok {
		b.stats.Skipped++
		return nil
	}
	if b.cycle == "" {
		b.cycle = rec.Field(129, 132)
	}

	results := b.reg.Dispatch(key, rec)
	if len(results) == 0 {
		b.stats.Skipped++
		return nil
	}

	for _, res := range results {
		err := b.route(ctx, res)
		if err == nil {
			continue
		}
		if errors.Is(err, storage.ErrStorage) || errors.Is(err, context.Canceled) {
			return err
		}
		b.recordError(err)
	}
	return nil
}

// route stores one parse result. The switch is exhaustive over every
// result type the registered parsers emit; an unknown type is a wiring bug
// and is surfaced as a counted error rather than dropped silently.
func (b *Builder) route(ctx context.Context, res registry.Result) error {
	switch r := res.(type) {
	case *airport.Result:
		if _, dup := b.seenAirports[r.ICAO]; dup {
			b.stats.Duplicates++
			return nil
		}
		b.seenAirports[r.ICAO] = struct{}{}
		b.addFix(r.ICAO, r.Lat, r.Lon)
		return b.store.InsertAirport(ctx, r)

	case *runway.Result:
		// Buffered; joined with localizer data after the scan.
		b.runways = append(b.runways, r)
		return nil

	case *ils.Result:
		key := r.Airport + "/" + r.Runway
		if _, dup := b.ilsByRw[key]; !dup {
			b.ilsByRw[key] = r
		}
		return nil

	case *navaid.Result:
		key := dedupKey{r.Ident, r.Region}
		if _, dup := b.seenNavaids[key]; dup {
			b.stats.Duplicates++
			return nil
		}
		b.seenNavaids[key] = struct{}{}
		b.addFix(r.Ident, r.Lat, r.Lon)
		return b.store.InsertNavaid(ctx, r)

	case *ndb.Result:
		key := dedupKey{r.Ident, r.Region}
		if _, dup := b.seenNDBs[key]; dup {
			b.stats.Duplicates++
			return nil
		}
		b.seenNDBs[key] = struct{}{}
		b.addFix(r.Ident, r.Lat, r.Lon)
		return b.store.InsertNDB(ctx, r)

	case *waypoint.Result:
		scope := r.Region
		if r.Terminal {
			scope = r.Airport
		}
		key := dedupKey{r.Ident, scope}
		if _, dup := b.seenWaypoints[key]; dup {
			b.stats.Duplicates++
			return nil
		}
		b.seenWaypoints[key] = struct{}{}
		b.addFix(r.Ident, r.Lat, r.Lon)
		return b.store.InsertWaypoint(ctx, r)

	case *airway.Result:
		return b.store.InsertAirway(ctx, r)

	case *proc.Result:
		return b.appendLeg(ctx, r)

	default:
		return fmt.Errorf("unhandled result type %q", res.Type())
	}
}

// addFix records the first coordinates seen for an identifier. First wins,
// matching the dedup rule, so the resolver sees exactly one candidate per
// logical fix.
func (b *Builder) addFix(ident string, lat, lon float64) {
	if _, ok := b.fixes[ident]; !ok {
		b.fixes[ident] = [2]float64{lat, lon}
	}
}

// flushRunways joins buffered runway rows with their localizer records and
// inserts them. Runways are the only rows not written during the scan
// itself: the ILS family arrives after the runway family for each airport
// and the join avoids updating runway rows in place.
//
// A runway whose airport record was never stored (dropped as malformed,
// or absent from the source) would be an orphan reference; those rows are
// dropped and counted instead of inserted.
func (b *Builder) flushRunways(ctx context.Context) error {
	for _, r := range b.runways {
		if _, ok := b.seenAirports[r.Airport]; !ok {
			b.recordError(fmt.Errorf("runway %s/%s: airport not stored", r.Airport, r.Ident))
			continue
		}
		if loc, ok := b.ilsByRw[r.Airport+"/"+r.Ident]; ok {
			freq := loc.Frequency
			r.IlsFrequency = &freq
			r.GlideslopeAngle = loc.GlideslopeAngle
			if r.IlsIdent == "" {
				r.IlsIdent = loc.LocIdent
			}
		}
		if err := b.store.InsertRunway(ctx, r); err != nil {
			if errors.Is(err, storage.ErrStorage) {
				return err
			}
			b.recordError(err)
		}
	}
	b.runways = nil
	return nil
}

func (b *Builder) recordError(err error) {
	b.stats.ParseErrors++
	if len(b.stats.ErrorSample) < errorSampleLimit {
		b.stats.ErrorSample = append(b.stats.ErrorSample, err.Error())
		b.log.Warn("record error", "line", b.stats.Lines, "err", err)
	}
}

// writeMeta records the build summary in build_meta and fills
// stats.Counts from the store.
func (b *Builder) writeMeta(ctx context.Context, source, cycle string) error {
	counts, err := b.store.TableCounts(ctx)
	if err != nil {
		return err
	}
	b.stats.Counts = counts

	meta := map[string]string{
		"build_date":   time.Now().UTC().Format(time.RFC3339),
		"source":       source,
		"airac_cycle":  cycle,
		"parse_errors": strconv.Itoa(b.stats.ParseErrors),
	}
	for table, n := range counts {
		meta["count_"+table] = strconv.Itoa(n)
	}
	for key, value := range meta {
		if err := b.store.PutMeta(ctx, key, value); err != nil {
			return err
		}
	}
	return b.store.Flush(ctx)
}
