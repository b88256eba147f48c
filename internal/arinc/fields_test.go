package arinc

import (
	"math"
	"testing"
)

func TestParseLatitude(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"N39514196", 39.861656, true},
		{"S33564800", -33.946667, true},
		{"N00000000", 0, true},
		{"S00000000", 0, true},
		{"N90000000", 90, true},
		{"S90000000", -90, true},
		{"X39514196", 0, false},
		{"N3X514196", 0, false},
		{"N395141", 0, false}, // too short
		{"         ", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLatitude(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseLatitude(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("ParseLatitude(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestParseLongitude(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"W104402344", -104.673178, true},
		{"E151104800", 151.18, true},
		{"E000000000", 0, true},
		{"W180000000", -180, true},
		{"E180000000", 180, true},
		{"N104402344", 0, false},
		{"W1044023", 0, false},
		{"          ", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLongitude(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseLongitude(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("ParseLongitude(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

// Round-trip across all four hemisphere combinations, including the 0 and
// 90/180 degree boundaries.
func TestCoordinateRoundTrip(t *testing.T) {
	lats := []string{"N39514196", "S33564800", "N00000000", "N90000000", "S90000000"}
	for _, s := range lats {
		v, ok := ParseLatitude(s)
		if !ok {
			t.Fatalf("ParseLatitude(%q) not ok", s)
		}
		back, ok := ParseLatitude(FormatLatitude(v))
		if !ok {
			t.Fatalf("re-parse of FormatLatitude(%f) not ok", v)
		}
		if math.Abs(back-v) > 1e-6 {
			t.Errorf("latitude round trip %q: %f != %f", s, back, v)
		}
	}

	lons := []string{"W104402344", "E151104800", "E000000000", "W180000000", "E180000000"}
	for _, s := range lons {
		v, ok := ParseLongitude(s)
		if !ok {
			t.Fatalf("ParseLongitude(%q) not ok", s)
		}
		back, ok := ParseLongitude(FormatLongitude(v))
		if !ok {
			t.Fatalf("re-parse of FormatLongitude(%f) not ok", v)
		}
		if math.Abs(back-v) > 1e-6 {
			t.Errorf("longitude round trip %q: %f != %f", s, back, v)
		}
	}
}

func TestParseMagVar(t *testing.T) {
	// East variation is stored negative: true = magnetic + variation.
	if v, ok := ParseMagVar("E0080"); !ok || v != -8.0 {
		t.Errorf("ParseMagVar(E0080) = %f, %v, want -8.0, true", v, ok)
	}
	if v, ok := ParseMagVar("W0135"); !ok || v != 13.5 {
		t.Errorf("ParseMagVar(W0135) = %f, %v, want 13.5, true", v, ok)
	}
	if v, ok := ParseMagVar("T0000"); !ok || v != 0 {
		t.Errorf("ParseMagVar(T0000) = %f, %v, want 0, true", v, ok)
	}
	if _, ok := ParseMagVar("     "); ok {
		t.Error("ParseMagVar(blank) should not be ok")
	}
	if _, ok := ParseMagVar("E00"); ok {
		t.Error("ParseMagVar(short) should not be ok")
	}
}

func TestParseAltitude(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"FL085", 8500, true},
		{"FL180", 18000, true},
		{"17000", 17000, true},
		{" 5431", 5431, true},
		{"00000", 0, true},
		{"FLXYZ", 0, false},
		{"     ", 0, false},
		{"ABCDE", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAltitude(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseAltitude(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseFrequencies(t *testing.T) {
	if v, ok := ParseFrequency("11630"); !ok || v != 116.30 {
		t.Errorf("ParseFrequency(11630) = %f, %v, want 116.30, true", v, ok)
	}
	if v, ok := ParseNdbFrequency(" 3620"); !ok || v != 362.0 {
		t.Errorf("ParseNdbFrequency( 3620) = %f, %v, want 362.0, true", v, ok)
	}
	if _, ok := ParseFrequency("     "); ok {
		t.Error("ParseFrequency(blank) should not be ok")
	}
}

func TestParseTenths(t *testing.T) {
	if v, ok := ParseTenths("0800"); !ok || v != 80.0 {
		t.Errorf("ParseTenths(0800) = %f, %v, want 80.0, true", v, ok)
	}
	if _, ok := ParseTenths("08T0"); ok {
		t.Error("ParseTenths(junk) should not be ok")
	}
}
