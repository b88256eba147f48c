package airport

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
		1:   "SUSAP",
		7:   "KDEN",
		11:  "K2A",
		14:  "DEN",
		22:  "0",
		28:  "160",
		33:  "N39514196",
		42:  "W104402344",
		52:  "E0080",
		57:  "05434",
		71:  "18000",
		81:  "C",
		94:  "DENVER INTL",
		129: "2513",
	})

	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil for a valid airport record")
	}
	apt := res.(*Result)

	if apt.ICAO != "KDEN" {
		t.Errorf("ICAO = %q, want KDEN", apt.ICAO)
	}
	if apt.IATA != "DEN" {
		t.Errorf("IATA = %q, want DEN", apt.IATA)
	}
	if apt.Name != "DENVER INTL" {
		t.Errorf("Name = %q, want DENVER INTL", apt.Name)
	}
	if apt.Lat != 39.861656 {
		t.Errorf("Lat = %f, want 39.861656", apt.Lat)
	}
	if apt.Lon != -104.673178 {
		t.Errorf("Lon = %f, want -104.673178", apt.Lon)
	}
	if apt.MagVar == nil || *apt.MagVar != -8.0 {
		t.Errorf("MagVar = %v, want -8.0", apt.MagVar)
	}
	if apt.Elevation == nil || *apt.Elevation != 5434 {
		t.Errorf("Elevation = %v, want 5434", apt.Elevation)
	}
	if apt.TransitionAltitude == nil || *apt.TransitionAltitude != 18000 {
		t.Errorf("TransitionAltitude = %v, want 18000", apt.TransitionAltitude)
	}
	if apt.LongestRunway == nil || *apt.LongestRunway != 16000 {
		t.Errorf("LongestRunway = %v, want 16000", apt.LongestRunway)
	}
	if apt.Military {
		t.Error("Military = true for a civil airport")
	}
}

func TestParseMilitary(t *testing.T) {
	rec := testRecord(map[int]string{
		1:  "SUSAP",
		7:  "KBKF",
		13: "A",
		22: "0",
		33: "N39421100",
		42: "W104450600",
		81: "M",
	})
	res := (&Parser{}).Parse(rec)
	if res == nil {
		t.Fatal("Parse returned nil")
	}
	if !res.(*Result).Military {
		t.Error("Military = false, want true")
	}
}

func TestParseSkips(t *testing.T) {
	// Continuation records and records without coordinates are dropped.
	cont := testRecord(map[int]string{
		1: "SUSAP", 7: "KDEN", 13: "A", 22: "2",
		33: "N39514196", 42: "W104402344",
	})
	if res := (&Parser{}).Parse(cont); res != nil {
		t.Error("continuation record should parse to nil")
	}
	noCoords := testRecord(map[int]string{
		1: "SUSAP", 7: "KDEN", 13: "A", 22: "0",
	})
	if res := (&Parser{}).Parse(noCoords); res != nil {
		t.Error("record without coordinates should parse to nil")
	}
}
