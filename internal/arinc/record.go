package arinc

// LineLength is the fixed width of an ARINC 424 record, excluding the line
// terminator.
const LineLength = 132

// Record wraps one fixed-width line and provides 1-based inclusive column
// access, the convention the ARINC 424 field tables are written in.
type Record struct {
	Line string
}

// Field returns the columns from..to (1-based, inclusive) with surrounding
// spaces trimmed.
func (r Record) Field(from, to int) string {
	return trimSpaces(r.Raw(from, to))
}

// Raw returns the columns from..to (1-based, inclusive) untrimmed.
func (r Record) Raw(from, to int) string {
	if from < 1 || to > len(r.Line) || from > to {
		return ""
	}
	return r.Line[from-1 : to]
}

// Byte returns the single character at a 1-based column, or space when the
// line is too short.
func (r Record) Byte(col int) byte {
	if col < 1 || col > len(r.Line) {
		return ' '
	}
	return r.Line[col-1]
}

// Primary reports whether the continuation number at the given column marks
// a primary record. Continuation numbers of 2 and above carry fields this
// database does not model and are dropped.
func (r Record) Primary(col int) bool {
	c := r.Byte(col)
	return c == '0' || c == '1'
}

func trimSpaces(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}

// Classify identifies a line's record family from its fixed header columns
// and returns a two-character section key ("PA", "D ", "ER", ...).
//
// ok is false for lines too short to carry the header, and for records
// whose marker is not 'S' (tailored records are not modeled). Keys for
// record families without a registered parser are an intentional no-op at
// dispatch: the source mixes in many families (company routes, comm
// frequencies, restrictive airspace) that this database skips.
func Classify(line string) (Record, string, bool) {
	if len(line) < LineLength {
		return Record{}, "", false
	}
	if line[0] != 'S' {
		return Record{}, "", false
	}
	rec := Record{Line: line}

	section := line[4]
	switch section {
	case 'D':
		// Navaid section: subsection blank = VHF navaid, 'B' = NDB.
		return rec, "D" + string(line[5]), true
	case 'E':
		return rec, "E" + string(line[5]), true
	case 'P', 'H':
		// Airport and heliport families carry their subsection at
		// column 13.
		return rec, string(section) + string(line[12]), true
	default:
		return rec, string(section) + string(line[5]), true
	}
}
