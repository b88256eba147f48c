// Package navaid parses VHF navaid records (section D): VOR, DME, TACAN
// and their combinations.
package navaid

import (
	"cifp_parser/internal/arinc"
	"cifp_parser/internal/registry"
)

// Result represents a parsed VHF navaid record.
type Result struct {
	Ident     string
	Region    string // Two-character ICAO region code
	NavType   string // VOR, DME, TACAN, VORDME, VORTAC
	Name      string
	Lat       float64
	Lon       float64
	Frequency *float64 // MHz
	MagVar    *float64
	Range     *int // Nautical miles, from the figure of merit
}

func (r *Result) Type() string { return "navaid" }

// Parser parses VHF navaid records.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "navaid" }
func (p *Parser) Sections() []string { return []string{"D "} }

func (p *Parser) Parse(rec arinc.Record) registry.Result {
	if !rec.Primary(22) {
		return nil
	}

	ident := rec.Field(14, 17)
	if len(ident) < 2 {
		return nil
	}

	// VOR coordinates, falling back to the DME part for DME-only
	// facilities where the VOR fields are blank.
	lat, okLat := arinc.ParseLatitude(rec.Raw(33, 41))
	lon, okLon := arinc.ParseLongitude(rec.Raw(42, 51))
	if !okLat || !okLon {
		lat, okLat = arinc.ParseLatitude(rec.Raw(56, 64))
		lon, okLon = arinc.ParseLongitude(rec.Raw(65, 74))
	}
	if !okLat || !okLon {
		return nil
	}

	r := &Result{
		Ident:   ident,
		Region:  rec.Field(20, 21),
		NavType: classType(rec.Raw(28, 32)),
		Name:    rec.Field(94, 123),
		Lat:     lat,
		Lon:     lon,
	}
	if v, ok := arinc.ParseFrequency(rec.Raw(23, 27)); ok && v > 0 {
		r.Frequency = &v
	}
	if v, ok := arinc.ParseMagVar(rec.Raw(75, 79)); ok {
		r.MagVar = &v
	}
	if v, ok := meritRange(rec.Byte(85)); ok {
		r.Range = &v
	}
	return r
}

// classType derives the facility type from the navaid class field.
func classType(class string) string {
	if len(class) < 2 {
		return "VOR"
	}
	vor := class[0] == 'V'
	switch class[1] {
	case 'D', 'I':
		if vor {
			return "VORDME"
		}
		return "DME"
	case 'T', 'M':
		if vor {
			return "VORTAC"
		}
		return "TACAN"
	default:
		return "VOR"
	}
}

// meritRange maps the figure of merit to the published service volume.
func meritRange(fom byte) (int, bool) {
	switch fom {
	case '0':
		return 25, true
	case '1':
		return 40, true
	case '2':
		return 130, true
	case '3':
		return 250, true
	}
	return 0, false
}
