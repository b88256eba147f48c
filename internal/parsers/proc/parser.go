// Package proc parses terminal procedure leg records: SIDs (section PD),
// STARs (PE), and approaches (PF). Each record is one leg; grouping legs
// into named procedures happens downstream in the assembler.
package proc

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Procedure categories.
const (
	CategorySID      = "SID"
	CategorySTAR     = "STAR"
	CategoryApproach = "APPROACH"
)

// Result represents a parsed procedure leg record.
type Result struct {
	Airport           string
	Category          string // SID, STAR, APPROACH
	Procedure         string // Procedure identifier, e.g. "BAYLR6"
	Transition        string // Transition identifier, empty for the common route
	Sequence          int    // Source sequence number, stored untouched
	FixIdent          string
	PathTerm          string // Path terminator, e.g. "TF", "CF", "VM"
	TurnDirection     string // "L", "R" or empty
	RecommendedNavaid string
	Course            *float64 // Outbound magnetic course, degrees
	Distance          *float64 // Nautical miles
	Time              *float64 // Minutes, for time-coded holds/turns
	AltDescription    string   // 5.29 altitude description code
	Alt1              *int
	Alt2              *int
	SpeedLimit        *int
}

func (r *Result) Type() string { return "procedure_leg" }

// Parser parses SID, STAR and approach leg records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "procedure_leg" }
func (p *Parser) Sections() []string { return []string{"PD", "PE", "PF"} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(39) {
		return nil
	}

	icao := rec.Field(7, 10)
	procedure := rec.Field(14, 19)
	seq, okSeq := arinc.ParseInt(rec.Raw(27, 29))
	if icao == "" || procedure == "" || !okSeq {
		return nil
	}

	category := ""
	switch rec.Byte(13) {
	case 'D':
		category = CategorySID
	case 'E':
		category = CategorySTAR
	case 'F':
		category = CategoryApproach
	default:
		return nil
	}

	r := &Result{
		Airport:           icao,
		Category:          category,
		Procedure:         procedure,
		Transition:        rec.Field(21, 25),
		Sequence:          seq,
		FixIdent:          rec.Field(30, 34),
		PathTerm:          rec.Field(48, 49),
		RecommendedNavaid: rec.Field(51, 54),
		AltDescription:    rec.Field(83, 83),
	}
	if td := rec.Byte(44); td == 'L' || td == 'R' {
		r.TurnDirection = string(td)
	}
	if v, ok := arinc.ParseTenths(rec.Raw(71, 74)); ok {
		r.Course = &v
	}
	// Route distance holds either tenths of a nautical mile or, with a
	// 'T' prefix, tenths of a minute.
	if dist := rec.Raw(75, 78); !arinc.Blank(dist) {
		if dist[0] == 'T' {
			if v, ok := arinc.ParseTenths(dist[1:]); ok {
				r.Time = &v
			}
		} else if v, ok := arinc.ParseTenths(dist); ok {
			r.Distance = &v
		}
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(85, 89)); ok {
		r.Alt1 = &v
	}
	if v, ok := arinc.ParseAltitude(rec.Raw(90, 94)); ok {
		r.Alt2 = &v
	}
	if v, ok := arinc.ParseInt(rec.Raw(100, 102)); ok {
		r.SpeedLimit = &v
	}
	return r
}
