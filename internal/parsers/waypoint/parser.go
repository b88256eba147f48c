// Package waypoint parses enroute (EA) and terminal (PC) waypoint records.
package waypoint

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents a parsed waypoint record. Airport is empty for enroute
// waypoints and holds the owning airport's ICAO for terminal ones.
type Result struct {
	Ident    string
	Region   string
	Airport  string
	WpType   string // Waypoint type code, e.g. "C", "R ", "W"
	Lat      float64
	Lon      float64
	Terminal bool
}

func (r *Result) Type() string { return "waypoint" }

// Parser parses waypoint records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "waypoint" }
func (p *Parser) Sections() []string { return []string{"EA", "PC"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	ident := rec.Field(14, 18)
	if ident == "" {
		return nil
	}
	lat, okLat := arinc.ParseLatitude(rec.Raw(33, 41))
	lon, okLon := arinc.ParseLongitude(rec.Raw(42, 51))
	if !okLat || !okLon {
		return nil
	}

	r := &Result{
		Ident:  ident,
		Region: rec.Field(20, 21),
		WpType: rec.Field(27, 29),
		Lat:    lat,
		Lon:    lon,
	}
	// The region/airport field holds "ENRT" for enroute waypoints and the
	// owning airport's ICAO for terminal ones.
	if owner := rec.Field(7, 10); owner != "ENRT" {
		r.Airport = owner
		r.Terminal = true
	}
	return r
}
