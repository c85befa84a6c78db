package calibration

import (
	"errors"
	"io"
	"iter"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var example = []string{
	"two1nine",
	"eightwothree",
	"abcone2threexyz",
	"xtwone3four",
	"4nineeightseven2",
	"zoneight234",
	"7pqrstsixteen",
}

type line struct {
	text string
	err  error
}

func collect(seq iter.Seq2[string, error]) []line {
	var lines []line
	for s, err := range seq {
		lines = append(lines, line{text: s, err: err})
	}
	return lines
}

func withErrors(lines []line) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, l := range lines {
			if !yield(l.text, l.err) {
				return
			}
		}
	}
}

func TestSum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sum(Strings(example...)), uint(281))
}

func TestSum_first(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sum(Strings("1abc2", "pqr3stu8vwx", "a1b2c3d4e5f", "treb7uchet")), uint(142))
}

func TestSum_empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sum(Strings()), uint(0))
}

func TestSum_noTokenLines(t *testing.T) {
	t.Parallel()

	lines := []string{"nothing", "two1nine", "", "xyz", "eightwothree"}
	assert.Equal(t, Sum(Strings(lines...)), uint(29+83))
}

func TestSum_skipsFailures(t *testing.T) {
	t.Parallel()

	errRead := errors.New("read")

	var interspersed []line
	for i, l := range example {
		if i%2 == 0 {
			interspersed = append(interspersed, line{err: errRead})
		}
		interspersed = append(interspersed, line{text: l})
	}
	interspersed = append(interspersed, line{text: "99", err: errRead})

	assert.Equal(t, Sum(withErrors(interspersed)), Sum(Strings(example...)))
}

func TestSumReader(t *testing.T) {
	t.Parallel()

	input := "  two1nine\r\neightwothree\nabcone2threexyz\nxtwone3four\n4nineeightseven2\nzoneight234\n7pqrstsixteen"
	assert.Equal(t, SumReader(strings.NewReader(input)), uint(281))
}

func TestFold(t *testing.T) {
	t.Parallel()

	errRead := errors.New("read")
	lines := withErrors([]line{
		{text: "eightwo"},
		{err: errRead},
		{text: "abc"},
		{text: "treb7uchet"},
	})

	var steps []Step
	total := Fold(lines, func(s Step) {
		steps = append(steps, s)
	})

	assert.Equal(t, total, uint(82+77))

	expected := []Step{
		{
			N:    1,
			Line: "eightwo",
			Value: Value{
				First: Token{Text: "eight", Digit: 8, Pos: 0},
				Last:  Token{Text: "two", Digit: 2, Pos: 4},
				Found: true,
			},
			Total: 82,
		},
		{N: 2, Total: 82, Err: errRead},
		{N: 3, Line: "abc", Total: 82},
		{
			N:    4,
			Line: "treb7uchet",
			Value: Value{
				First: Token{Text: "7", Digit: 7, Pos: 4},
				Last:  Token{Text: "7", Digit: 7, Pos: 4},
				Found: true,
			},
			Total: 159,
		},
	}

	opt := cmp.Comparer(func(a, b error) bool { return errors.Is(a, b) })
	if diff := cmp.Diff(expected, steps, opt); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single unterminated", input: "abc", expected: []string{"abc"}},
		{name: "terminated", input: "a\nb\n", expected: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", expected: []string{"a", "b"}},
		{name: "lone cr kept", input: "a\rb", expected: []string{"a\rb"}},
		{name: "blank lines", input: "\n\nx\n", expected: []string{"", "", "x"}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for s, err := range Lines(strings.NewReader(tc.input)) {
				assert.NilError(t, err)
				got = append(got, s)
			}

			assert.Assert(t, is.DeepEqual(tc.expected, got))
		})
	}
}

func TestLines_invalidUTF8(t *testing.T) {
	t.Parallel()

	got := collect(Lines(strings.NewReader("one\n\xff\xfe2\nthree\n")))

	assert.Equal(t, len(got), 3)
	assert.Equal(t, got[0].text, "one")
	assert.NilError(t, got[0].err)
	assert.ErrorIs(t, got[1].err, ErrInvalidUTF8)
	assert.ErrorContains(t, got[1].err, "line 2")
	assert.Equal(t, got[2].text, "three")
	assert.NilError(t, got[2].err)
}

func TestLines_readError(t *testing.T) {
	t.Parallel()

	got := collect(Lines(iotest.TimeoutReader(strings.NewReader("one\ntwo\n"))))

	assert.Assert(t, len(got) >= 1)
	last := got[len(got)-1]
	assert.ErrorIs(t, last.err, iotest.ErrTimeout)
}

func TestLines_partialLineOnReadError(t *testing.T) {
	t.Parallel()

	errRead := errors.New("read")
	r := io.MultiReader(strings.NewReader("one\ntw"), iotest.ErrReader(errRead))

	got := collect(Lines(r))

	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].text, "one")
	assert.NilError(t, got[0].err)
	assert.Equal(t, got[1].text, "tw")
	assert.ErrorIs(t, got[1].err, errRead)
	assert.ErrorContains(t, got[1].err, "line 2")

	assert.Equal(t, Sum(Lines(io.MultiReader(strings.NewReader("two1nine\n99"), iotest.ErrReader(errRead)))), uint(29))
}

func TestLines_stop(t *testing.T) {
	t.Parallel()

	n := 0
	for range Lines(strings.NewReader("1\n2\n3\n")) {
		n++
		if n == 2 {
			break
		}
	}

	assert.Equal(t, n, 2)
}

func TestSumReader_invalidUTF8(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SumReader(strings.NewReader("two1nine\n\xff9\neightwothree\n")), uint(29+83))
}
