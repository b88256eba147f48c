// Package ndb parses NDB navaid records (enroute section DB and terminal
// section PN).
package ndb

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents a parsed NDB record.
type Result struct {
	Ident     string
	Region    string
	Name      string
	Lat       float64
	Lon       float64
	Frequency float64 // kHz
	MagVar    *float64
}

func (r *Result) Type() string { return "ndb" }

// Parser parses NDB records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "ndb" }
func (p *Parser) Sections() []string { return []string{"DB", "PN"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	ident := rec.Field(14, 17)
	if ident == "" {
		return nil
	}
	lat, okLat := arinc.ParseLatitude(rec.Raw(33, 41))
	lon, okLon := arinc.ParseLongitude(rec.Raw(42, 51))
	if !okLat || !okLon {
		return nil
	}
	freq, ok := arinc.ParseNdbFrequency(rec.Raw(23, 27))
	if !ok {
		return nil
	}

	r := &Result{
		Ident:     ident,
		Region:    rec.Field(20, 21),
		Name:      rec.Field(94, 123),
		Lat:       lat,
		Lon:       lon,
		Frequency: freq,
	}
	if v, ok := arinc.ParseMagVar(rec.Raw(75, 79)); ok {
		r.MagVar = &v
	}
	return r
}
