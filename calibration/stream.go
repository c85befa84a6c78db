package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is reported for a line that does not decode as UTF-8.
var ErrInvalidUTF8 = errors.New("invalid utf-8")

// Step is a single element of a fold over lines.
type Step struct {
	// N is the 1-based position of the element in the stream.
	N     int
	Line  string
	Value Value
	// Total is the running total after this element.
	Total uint
	Err   error
}

// Lines yields the lines of r without their line endings.
//
// A line that is not valid UTF-8 is yielded as an error and the sequence
// goes on. Any other read error is yielded once, along with whatever part of
// the line was read before it, and ends the sequence.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		n := 0
		for {
			s, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				yield(s, fmt.Errorf("line %d: %w", n+1, err))
				return
			}

			if s == "" && err != nil {
				return
			}

			n++
			if strings.HasSuffix(s, "\n") {
				s = strings.TrimSuffix(s[:len(s)-1], "\r")
			}

			var ok bool
			if utf8.ValidString(s) {
				ok = yield(s, nil)
			} else {
				ok = yield("", fmt.Errorf("line %d: %w", n, ErrInvalidUTF8))
			}

			if !ok || err != nil {
				return
			}
		}
	}
}

// Strings yields each of lines as a successfully read line.
func Strings(lines ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, l := range lines {
			if !yield(l, nil) {
				return
			}
		}
	}
}

// Fold sums the calibration values of lines, calling visit, when not nil,
// once per element after the total has been updated. Failed elements are
// skipped and never stop the fold.
func Fold(lines iter.Seq2[string, error], visit func(Step)) uint {
	var total uint
	n := 0
	for line, err := range lines {
		n++
		s := Step{N: n, Line: line, Err: err}
		if err == nil {
			s.Value = Calibrate(line)
			total += uint(s.Value.Int())
		}

		s.Total = total
		if visit != nil {
			visit(s)
		}
	}

	return total
}

// Sum returns the sum of the calibration values of lines.
func Sum(lines iter.Seq2[string, error]) uint {
	return Fold(lines, nil)
}

// SumReader returns the sum of the calibration values of the lines of r.
func SumReader(r io.Reader) uint {
	return Sum(Lines(r))
}
