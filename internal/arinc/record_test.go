package arinc

import (
	"strings"
	"testing"
)

func padLine(prefix string) string {
	return prefix + strings.Repeat(" ", LineLength-len(prefix))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		key  string
		ok   bool
	}{
		{"vhf navaid", padLine("SUSAD "), "D ", true},
		{"ndb", padLine("SUSADB"), "DB", true},
		{"enroute waypoint", padLine("SUSAEA"), "EA", true},
		{"airway", padLine("SUSAER"), "ER", true},
		{"airport", padLine("SUSAP KDENK2A"), "PA", true},
		{"runway", padLine("SUSAP KDENK2G"), "PG", true},
		{"sid", padLine("SUSAP KDENK2D"), "PD", true},
		{"heliport", padLine("SUSAH 87N K6A"), "HA", true},
		{"tailored record", padLine("TUSAP KDENK2A"), "", false},
		{"short line", "SUSAP KDENK2A", "", false},
		{"empty line", "", "", false},
	}
	for _, tt := range tests {
		_, key, ok := Classify(tt.line)
		if ok != tt.ok || key != tt.key {
			t.Errorf("%s: Classify = %q, %v, want %q, %v", tt.name, key, ok, tt.key, tt.ok)
		}
	}
}

func TestRecordFields(t *testing.T) {
	rec := Record{Line: padLine("SUSAP KDENK2ADEN")}

	if got := rec.Field(7, 10); got != "KDEN" {
		t.Errorf("Field(7,10) = %q, want KDEN", got)
	}
	if got := rec.Field(14, 16); got != "DEN" {
		t.Errorf("Field(14,16) = %q, want DEN", got)
	}
	if got := rec.Raw(14, 18); got != "DEN  " {
		t.Errorf("Raw(14,18) = %q, want %q", got, "DEN  ")
	}
	if got := rec.Field(120, 132); got != "" {
		t.Errorf("Field(120,132) = %q, want empty", got)
	}

	// Out-of-range access is empty, never a panic.
	if got := rec.Raw(130, 140); got != "" {
		t.Errorf("Raw(130,140) = %q, want empty", got)
	}
	if got := rec.Byte(200); got != ' ' {
		t.Errorf("Byte(200) = %q, want space", got)
	}
}

func TestPrimary(t *testing.T) {
	for _, tt := range []struct {
		c    string
		want bool
	}{
		{"0", true},
		{"1", true},
		{"2", false},
		{" ", false},
	} {
		rec := Record{Line: padLine("SUSAD" + strings.Repeat(" ", 16) + tt.c)}
		if got := rec.Primary(22); got != tt.want {
			t.Errorf("Primary(22) with %q = %v, want %v", tt.c, got, tt.want)
		}
	}
}
