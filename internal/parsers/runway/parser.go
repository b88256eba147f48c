// Package runway parses airport runway records (section PG).
package runway

import (
	"strings"

	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents a parsed runway record. ILS frequency and glideslope
// angle are filled in from the matching localizer record before storage.
type Result struct {
	Airport            string // Owning airport ICAO
	Ident              string // e.g. "08L" (RW prefix and leading zero removed)
	Length             *int   // Feet
	Width              *int   // Feet
	Lat                float64
	Lon                float64
	Heading            *float64 // Magnetic bearing, degrees
	ThresholdElevation *int
	IlsIdent           string
	IlsFrequency       *float64
	GlideslopeAngle    *float64
}

func (r *Result) Type() string { return "runway" }

// TrimIdent normalises a runway field: "RW08L " -> "08L".
func TrimIdent(s string) string {
	s = strings.TrimPrefix(s, "RW")
	s = strings.TrimPrefix(s, "0")
	return strings.TrimSpace(s)
}

// Parser parses runway records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "runway" }
func (p *Parser) Sections() []string { return []string{"PG"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	icao := rec.Field(7, 10)
	ident := TrimIdent(rec.Field(14, 18))
	if icao == "" || ident == "" {
		return nil
	}
	lat, okLat := arinc.ParseLatitude(rec.Raw(33, 41))
	lon, okLon := arinc.ParseLongitude(rec.Raw(42, 51))
	if !okLat || !okLon {
		return nil
	}

	r := &Result{
		Airport:  icao,
		Ident:    ident,
		Lat:      lat,
		Lon:      lon,
		IlsIdent: rec.Field(82, 85),
	}
	if v, ok := arinc.ParseInt(rec.Raw(23, 27)); ok {
		r.Length = &v
	}
	if v, ok := arinc.ParseTenths(rec.Raw(28, 31)); ok {
		r.Heading = &v
	}
	if v, ok := arinc.ParseInt(rec.Raw(67, 71)); ok {
		r.ThresholdElevation = &v
	}
	if v, ok := arinc.ParseInt(rec.Raw(78, 80)); ok {
		r.Width = &v
	}
	return r
}
