package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"cifp_parser/internal/storage"
)

// ErrVerification marks a build that completed but failed a sanity check.
// Callers can distinguish "built but suspicious" from "did not build".
var ErrVerification = errors.New("verification failed")

// RefPoint is a ground-truth record the verifier expects to find.
type RefPoint struct {
	ICAO string
	Lat  float64
	Lon  float64
}

// refToleranceMeters is how far a stored reference record may sit from
// ground truth before verification fails.
const refToleranceMeters = 500

// VerifyOptions configures verification. Zero values fall back to the
// production reference set and floors.
type VerifyOptions struct {
	References []RefPoint
	MinCounts  map[string]int
}

// Production ground truth: airport reference points from published AIP
// data. The source file must contain these within tolerance or the decode
// geometry is wrong.
var defaultReferences = []RefPoint{
	{"KDEN", 39.861656, -104.673178},
	{"KJFK", 40.639751, -73.778925},
	{"KSFO", 37.618972, -122.374889},
}

// Minimum plausible row counts for a full US CIFP cycle. A build below
// any floor lost an entire data category somewhere.
var defaultMinCounts = map[string]int{
	"airports":       4000,
	"runways":        4000,
	"navaids":        800,
	"ndbs":           300,
	"waypoints":      30000,
	"airways":        20000,
	"procedures":     10000,
	"procedure_legs": 100000,
}

// Check is the outcome of one verification step.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Verify runs post-build sanity checks against the store: reference
// records within tolerance, per-table row floors, and summary metadata
// present. It returns every check outcome plus ErrVerification when any
// failed.
func Verify(ctx context.Context, store storage.Writer, opts VerifyOptions, logger *slog.Logger) ([]Check, error) {
	refs := opts.References
	if refs == nil {
		refs = defaultReferences
	}
	floors := opts.MinCounts
	if floors == nil {
		floors = defaultMinCounts
	}

	var checks []Check
	add := func(name string, ok bool, detail string) {
		checks = append(checks, Check{Name: name, OK: ok, Detail: detail})
		if ok {
			logger.Info("verify pass", "check", name)
		} else {
			logger.Error("verify fail", "check", name, "detail", detail)
		}
	}

	for _, ref := range refs {
		lat, lon, found, err := store.FindAirport(ctx, ref.ICAO)
		if err != nil {
			return checks, err
		}
		name := "reference " + ref.ICAO
		if !found {
			add(name, false, "not-found")
			continue
		}
		d := geo.Distance(orb.Point{lon, lat}, orb.Point{ref.Lon, ref.Lat})
		if d > refToleranceMeters {
			add(name, false, fmt.Sprintf("malformed: %.0f m from ground truth", d))
			continue
		}
		add(name, true, "")
	}

	counts, err := store.TableCounts(ctx)
	if err != nil {
		return checks, err
	}
	for _, table := range storage.Tables {
		floor, ok := floors[table]
		if !ok {
			continue
		}
		name := "floor " + table
		if counts[table] < floor {
			add(name, false, fmt.Sprintf("below-threshold: %d < %d", counts[table], floor))
		} else {
			add(name, true, "")
		}
	}

	buildDate, err := store.GetMeta(ctx, "build_date")
	if err != nil {
		return checks, err
	}
	add("build metadata", buildDate != "", "not-found: build_date")

	for _, c := range checks {
		if !c.OK {
			return checks, fmt.Errorf("%w: %s (%s)", ErrVerification, c.Name, c.Detail)
		}
	}
	return checks, nil
}
