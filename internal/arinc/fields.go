// Package arinc decodes the fixed-width field encodings used by ARINC 424
// navigation data records: hemisphere-prefixed coordinates, magnetic
// variation, altitudes, and station frequencies.
//
// Every decoder in this file is total: malformed or blank input yields
// ok=false (the field is absent), never a panic. Callers decide whether an
// absent field makes the owning record unusable.
package arinc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Blank reports whether a field contains only spaces.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// atoi converts a space-padded digit field. Returns false for blank or
// non-numeric input.
func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// round6 rounds to 1e-6 degrees, the resolution of the source format's
// centisecond coordinate fields.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ParseLatitude decodes a 9-character latitude field of the form HDDMMSSss
// (hemisphere, degrees, minutes, seconds, centiseconds), e.g. "N39513881"
// for 39°51'38.81"N. South is negative.
func ParseLatitude(s string) (float64, bool) {
	if len(s) != 9 {
		return 0, false
	}
	deg, ok := dmsDegrees(s[1:3], s[3:5], s[5:9])
	if !ok {
		return 0, false
	}
	switch s[0] {
	case 'N':
		return deg, true
	case 'S':
		return -deg, true
	}
	return 0, false
}

// ParseLongitude decodes a 10-character longitude field of the form
// HDDDMMSSss, e.g. "W104402304" for 104°40'23.04"W. West is negative.
func ParseLongitude(s string) (float64, bool) {
	if len(s) != 10 {
		return 0, false
	}
	deg, ok := dmsDegrees(s[1:4], s[4:6], s[6:10])
	if !ok {
		return 0, false
	}
	switch s[0] {
	case 'E':
		return deg, true
	case 'W':
		return -deg, true
	}
	return 0, false
}

func dmsDegrees(d, m, cs string) (float64, bool) {
	deg, ok1 := atoi(d)
	min, ok2 := atoi(m)
	centi, ok3 := atoi(cs)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return round6(float64(deg) + float64(min)/60 + float64(centi)/100/3600), true
}

// FormatLatitude encodes decimal degrees back into the 9-character
// HDDMMSSss layout.
func FormatLatitude(deg float64) string {
	h := byte('N')
	if deg < 0 {
		h = 'S'
		deg = -deg
	}
	d, m, cs := degreesDMS(deg)
	return fmt.Sprintf("%c%02d%02d%04d", h, d, m, cs)
}

// FormatLongitude encodes decimal degrees back into the 10-character
// HDDDMMSSss layout.
func FormatLongitude(deg float64) string {
	h := byte('E')
	if deg < 0 {
		h = 'W'
		deg = -deg
	}
	d, m, cs := degreesDMS(deg)
	return fmt.Sprintf("%c%03d%02d%04d", h, d, m, cs)
}

func degreesDMS(deg float64) (d, m, cs int) {
	// Work in centiseconds to avoid accumulating float error in the
	// minute/second split.
	total := int(math.Round(deg * 3600 * 100))
	d = total / (3600 * 100)
	rem := total - d*3600*100
	m = rem / (60 * 100)
	cs = rem - m*60*100
	return d, m, cs
}

// ParseMagVar decodes a 5-character magnetic variation field: hemisphere
// letter plus tenths of a degree, e.g. "E0080" for 8.0° east.
//
// East variation is returned negative so that true = magnetic + variation
// holds. A 'T' station (oriented to true north) decodes as zero.
func ParseMagVar(s string) (float64, bool) {
	if len(s) != 5 {
		return 0, false
	}
	v, ok := atoi(s[1:])
	if !ok {
		return 0, false
	}
	switch s[0] {
	case 'E':
		return -float64(v) / 10, true
	case 'W':
		return float64(v) / 10, true
	case 'T':
		return 0, true
	}
	return 0, false
}

// ParseInt decodes a plain space-padded integer field.
func ParseInt(s string) (int, bool) {
	return atoi(s)
}

// ParseAltitude decodes an altitude field that holds either a flight level
// ("FL085" = 8500 ft) or raw feet digits ("17000").
func ParseAltitude(s string) (int, bool) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "FL") {
		fl, ok := atoi(t[2:])
		if !ok {
			return 0, false
		}
		return fl * 100, true
	}
	return atoi(t)
}

// ParseFrequency decodes a 5-digit VHF frequency field scaled by 100,
// e.g. "11630" for 116.30 MHz.
func ParseFrequency(s string) (float64, bool) {
	v, ok := atoi(s)
	if !ok {
		return 0, false
	}
	return float64(v) / 100, true
}

// ParseNdbFrequency decodes a 5-digit NDB frequency field scaled by 10,
// e.g. " 3620" for 362.0 kHz.
func ParseNdbFrequency(s string) (float64, bool) {
	v, ok := atoi(s)
	if !ok {
		return 0, false
	}
	return float64(v) / 10, true
}

// ParseTenths decodes a digit field scaled by 10. Used for runway bearings,
// leg courses, and leg distances, all of which the format stores in tenths.
func ParseTenths(s string) (float64, bool) {
	v, ok := atoi(s)
	if !ok {
		return 0, false
	}
	return float64(v) / 10, true
}

// ParseHundredths decodes a digit field scaled by 100, e.g. glideslope
// angles ("300" = 3.00°).
func ParseHundredths(s string) (float64, bool) {
	v, ok := atoi(s)
	if !ok {
		return 0, false
	}
	return float64(v) / 100, true
}
