package airway

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
		1:  "SUSAER",
		14: "J60",
		26: "0110",
		30: "DBL",
		39: "0",
		45: "J",
		46: "H",
		84: "18000",
		94: "45000",
	})

	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil for a valid airway record")
	}
	aw := res.(*Result)

	if aw.Ident != "J60" {
		t.Errorf("Ident = %q, want J60", aw.Ident)
	}
	if aw.Sequence != 110 {
		t.Errorf("Sequence = %d, want 110", aw.Sequence)
	}
	if aw.FixIdent != "DBL" {
		t.Errorf("FixIdent = %q, want DBL", aw.FixIdent)
	}
	if aw.RouteType != "J" {
		t.Errorf("RouteType = %q, want J", aw.RouteType)
	}
	if aw.Level != "H" {
		t.Errorf("Level = %q, want H", aw.Level)
	}
	if aw.Floor == nil || *aw.Floor != 18000 {
		t.Errorf("Floor = %v, want 18000", aw.Floor)
	}
	if aw.Ceiling == nil || *aw.Ceiling != 45000 {
		t.Errorf("Ceiling = %v, want 45000", aw.Ceiling)
	}
}

func TestParseFlightLevelFloor(t *testing.T) {
	rec := testRecord(map[int]string{
		1:  "SUSAER",
		14: "UL975",
		26: "0020",
		30: "NIK",
		39: "0",
		84: "FL195",
	})
	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil")
	}
	aw := res.(*Result)
	if aw.Floor == nil || *aw.Floor != 19500 {
		t.Errorf("Floor = %v, want 19500", aw.Floor)
	}
	// Blank level column defaults to both.
	if aw.Level != "B" {
		t.Errorf("Level = %q, want B", aw.Level)
	}
}

func TestParseSkipsContinuation(t *testing.T) {
	rec := testRecord(map[int]string{
		1:  "SUSAER",
		14: "J60",
		26: "0110",
		30: "DBL",
		39: "2",
	})
	if res := (&Parser{}).Parse(rec); res != nil {
		t.Error("continuation record should parse to nil")
	}
}
