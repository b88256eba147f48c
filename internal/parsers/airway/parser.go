// Package airway parses enroute airway records (section ER). Each record
// is one fix along a named route; the airway is the ordered set of rows
// sharing an identifier.
package airway

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents one sequenced fix of an enroute airway. Fix
// coordinates are unresolved at parse time; the resolver fills them in
// from the fix tables after the scan.
type Result struct {
	Ident     string
	Sequence  int
	FixIdent  string
	RouteType string // 5.7 route type code
	Level     string // B=all, H=high, L=low
	Floor     *int   // Minimum enroute altitude, feet
	Ceiling   *int   // Maximum authorised altitude, feet
}

func (r *Result) Type() string { return "airway" }

// Parser parses enroute airway records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "airway" }
func (p *Parser) Sections() []string { return []string{"ER"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(39) {
		return nil
	}

	ident := rec.Field(14, 18)
	fix := rec.Field(30, 34)
	seq, okSeq := arinc.ParseInt(rec.Raw(26, 29))
	if ident == "" || fix == "" || !okSeq {
		return nil
	}

	level := rec.Field(46, 46)
	if level == "" {
		level = "B"
	}
	r := &Result{
		Ident:     ident,
		Sequence:  seq,
		FixIdent:  fix,
		RouteType: rec.Field(45, 45),
		Level:     level,
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(84, 88)); ok {
		r.Floor = &v
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(94, 98)); ok {
		r.Ceiling = &v
	}
	return r
}
