package ils

import (
	"strings"
	"testing"

	"cifp_parser/internal/arinc"
)

func testRecord(fields map[int]string) arinc.Record {
	b := []byte(strings.Repeat(" ", arinc.LineLength))
	for col, s := range fields {
		copy(b[col-1:], s)
	}
	return arinc.Record{Line: string(b)}
}

func TestParse(t *testing.T) {
	rec := testRecord(map[int]string{
		1:  "SUSAP",
		7:  "KDEN",
		13: "I",
		14: "IDEN",
		18: "3",
		22: "0",
		23: "11110",
		28: "RW08L",
		81: "0300",
	})

	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil for a valid localizer record")
	}
	loc := res.(*Result)

	if loc.Airport != "KDEN" {
		t.Errorf("Airport = %q, want KDEN", loc.Airport)
	}
	if loc.LocIdent != "IDEN" {
		t.Errorf("LocIdent = %q, want IDEN", loc.LocIdent)
	}
	if loc.Category != "3" {
		t.Errorf("Category = %q, want 3", loc.Category)
	}
	if loc.Frequency != 111.10 {
		t.Errorf("Frequency = %f, want 111.10", loc.Frequency)
	}
	if loc.Runway != "8L" {
		t.Errorf("Runway = %q, want 8L", loc.Runway)
	}
	if loc.GlideslopeAngle == nil || *loc.GlideslopeAngle != 3.0 {
		t.Errorf("GlideslopeAngle = %v, want 3.0", loc.GlideslopeAngle)
	}
}

func TestParseLocalizerOnly(t *testing.T) {
	// A localizer without a glideslope leaves the angle column blank.
	rec := testRecord(map[int]string{
		1: "SUSAP", 7: "KASE", 13: "I", 14: "IASE", 22: "0",
		23: "10930", 28: "RW15 ",
	})
	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil")
	}
	if res.(*Result).GlideslopeAngle != nil {
		t.Error("GlideslopeAngle should be nil without a glideslope")
	}
}
