// Package airport parses airport reference point records (section PA).
package airport

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents a parsed airport record.
type Result struct {
	ICAO               string
	IATA               string
	Name               string
	Lat                float64
	Lon                float64
	Elevation          *int // Feet MSL
	MagVar             *float64
	TransitionAltitude *int
	LongestRunway      *int // Feet
	Military           bool
}

func (r *Result) Type() string { return "airport" }

// Parser parses airport reference point records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "airport" }
func (p *Parser) Sections() []string { return []string{"PA"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	icao := rec.Field(7, 10)
	if icao == "" {
		return nil
	}
	lat, okLat := arinc.ParseLatitude(rec.Raw(33, 41))
	lon, okLon := arinc.ParseLongitude(rec.Raw(42, 51))
	if !okLat || !okLon {
		return nil
	}

	r := &Result{
		ICAO: icao,
		IATA: rec.Field(14, 16),
		Name: rec.Field(94, 123),
		Lat:  lat,
		Lon:  lon,
	}
	if v, ok := arinc.ParseMagVar(rec.Raw(52, 56)); ok {
		r.MagVar = &v
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(57, 61)); ok {
		r.Elevation = &v
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(71, 75)); ok {
		r.TransitionAltitude = &v
	}
	// Longest runway is stored in hundreds of feet.
	if v, ok := arinc.ParseInt(rec.Raw(28, 30)); ok {
		feet := v * 100
		r.LongestRunway = &feet
	}
	r.Military = rec.Byte(81) == 'M'

	return r
}
