// Package calibration recovers calibration values from lines of text.
//
// A calibration value is the two digit number formed by the first and the
// last digit token of a line, where a token is either a digit character 1-9
// or one of the words "one" through "nine". Tokens may overlap, "eightwo"
// holds both 8 and 2.
package calibration

import "strings"

// Token is a digit token matched in a line.
type Token struct {
	Text  string
	Digit int
	// Pos is the byte offset of Text in the line.
	Pos int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Text)
}

// zero and "0" are not tokens.
var surfaces = []struct {
	text  string
	digit int
}{
	{"1", 1}, {"2", 2}, {"3", 3}, {"4", 4}, {"5", 5}, {"6", 6}, {"7", 7}, {"8", 8}, {"9", 9},
	{"one", 1},
	{"two", 2},
	{"three", 3},
	{"four", 4},
	{"five", 5},
	{"six", 6},
	{"seven", 7},
	{"eight", 8},
	{"nine", 9},
}

// Value is the calibration value of a single line.
type Value struct {
	First Token
	Last  Token
	// Found is false when the line has no tokens at all.
	Found bool
}

// Int returns 10*first + last, or 0 for a line without tokens.
func (v Value) Int() int {
	if !v.Found {
		return 0
	}

	return 10*v.First.Digit + v.Last.Digit
}

// Calibrate finds the first and last tokens of line.
//
// Both ends are searched one start offset at a time without consuming the
// matched text, so a token sharing letters with its neighbour is still found.
// A line holding a single token uses it for both digits.
func Calibrate(line string) Value {
	var v Value

	for i := 0; i < len(line); i++ {
		if t, ok := tokenAt(line, i); ok {
			v.First = t
			v.Found = true
			break
		}
	}

	if !v.Found {
		return v
	}

	for i := len(line) - 1; i >= v.First.Pos; i-- {
		if t, ok := tokenAt(line, i); ok {
			v.Last = t
			break
		}
	}

	return v
}

// Score returns the calibration value of line.
func Score(line string) int {
	return Calibrate(line).Int()
}

func tokenAt(line string, i int) (Token, bool) {
	rest := line[i:]
	for _, s := range surfaces {
		if strings.HasPrefix(rest, s.text) {
			return Token{Text: s.text, Digit: s.digit, Pos: i}, true
		}
	}

	return Token{}, false
}
