package cellcalc

import "strconv"

// MaxRows and MaxCols bound the coordinates a reference can name: one letter
// for the column and at most three digits for the row.
const (
	MaxRows = 999
	MaxCols = 26
)

// Ref is a zero-based cell coordinate.
type Ref struct {
	Row, Col int
}

// ParseRef parses a reference like "A1" or "z999". The letter names the
// column and is case-insensitive. The digits name the one-based row, between 1
// and 999 without leading zeros. The whole of s must match.
func ParseRef(s string) (Ref, bool) {
	if len(s) < 2 || len(s) > 4 {
		return Ref{}, false
	}
	c := s[0]
	switch {
	case 'A' <= c && c <= 'Z':
		c -= 'A'
	case 'a' <= c && c <= 'z':
		c -= 'a'
	default:
		return Ref{}, false
	}
	if s[1] < '1' || s[1] > '9' {
		return Ref{}, false
	}
	row := 0
	for i := 1; i < len(s); i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return Ref{}, false
		}
		row = row*10 + int(d-'0')
	}
	return Ref{Row: row - 1, Col: int(c)}, true
}

// String formats r as a reference, e.g. "A1". Coordinates outside the range
// of references are formatted as "R<row>C<col>" with one-based numbers.
func (r Ref) String() string {
	if !r.Valid() {
		return "R" + strconv.Itoa(r.Row+1) + "C" + strconv.Itoa(r.Col+1)
	}
	return string(rune('A'+r.Col)) + strconv.Itoa(r.Row+1)
}

// Valid reports whether r can be named by a reference.
func (r Ref) Valid() bool {
	return 0 <= r.Row && r.Row < MaxRows && 0 <= r.Col && r.Col < MaxCols
}

// Less orders references row-major.
func (r Ref) Less(s Ref) bool {
	if r.Row != s.Row {
		return r.Row < s.Row
	}
	return r.Col < s.Col
}
