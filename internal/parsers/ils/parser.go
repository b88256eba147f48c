// Package ils parses airport localizer/glideslope records (section PI).
// The results never reach a table of their own: the build joins them onto
// runway rows by airport and runway identifier before insert.
package ils

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/registry"
)

// Result represents a parsed localizer record.
type Result struct {
	Airport         string
	LocIdent        string
	Category        string // ILS category code, e.g. "1", "2", "3"
	Frequency       float64
	Runway          string // e.g. "08L"
	GlideslopeAngle *float64
}

func (r *Result) Type() string { return "ils" }

// Parser parses localizer/glideslope records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "ils" }
func (p *Parser) Sections() []string { return []string{"PI"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	icao := rec.Field(7, 10)
	ident := rec.Field(14, 17)
	rwy := runway.TrimIdent(rec.Field(28, 32))
	if icao == "" || ident == "" || rwy == "" {
		return nil
	}
	freq, ok := arinc.ParseFrequency(rec.Raw(23, 27))
	if !ok {
		return nil
	}

	r := &Result{
		Airport:   icao,
		LocIdent:  ident,
		Category:  rec.Field(18, 18),
		Frequency: freq,
		Runway:    rwy,
	}
	if v, ok := arinc.ParseHundredths(rec.Raw(81, 84)); ok && v > 0 {
		r.GlideslopeAngle = &v
	}
	return r
}
