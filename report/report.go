// Package report renders calibration results.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"code.selman.me/trebuchet/calibration"
)

var (
	colorFirst   = color.New(color.FgGreen, color.Bold)
	colorLast    = color.New(color.FgCyan, color.Bold)
	colorSkipped = color.New(color.FgRed)
)

type Format int

const (
	FormatText Format = iota
	FormatTable
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatTable:
		return "table"
	case FormatYAML:
		return "yaml"
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "text":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	}

	return 0, fmt.Errorf("unknown output format: %q", s)
}

// Total writes the final line of a run.
func Total(w io.Writer, total uint) {
	fmt.Fprintf(w, "total: %d\n", total)
}

// Trace writes a single fold step as "<previous> + <value> <= <line>".
func Trace(w io.Writer, s calibration.Step) {
	if s.Err != nil {
		fmt.Fprintf(w, "%d + %s <= %v\n", s.Total, colorSkipped.Sprint("skipped"), s.Err)
		return
	}

	value := s.Value.Int()
	fmt.Fprintf(w, "%d + %d <= %s\n", s.Total-uint(value), value, highlight(s.Line, s.Value))
}

func highlight(line string, v calibration.Value) string {
	if !v.Found {
		return line
	}

	first, last := v.First, v.Last
	if last.Pos < first.End() {
		end := max(first.End(), last.End())
		return line[:first.Pos] + colorFirst.Sprint(line[first.Pos:end]) + line[end:]
	}

	return line[:first.Pos] +
		colorFirst.Sprint(first.Text) +
		line[first.End():last.Pos] +
		colorLast.Sprint(last.Text) +
		line[last.End():]
}

type record struct {
	N     int    `yaml:"index"`
	Line  string `yaml:"line,omitempty"`
	First int    `yaml:"first,omitempty"`
	Last  int    `yaml:"last,omitempty"`
	Value int    `yaml:"value"`
	Error string `yaml:"error,omitempty"`
}

func toRecord(s calibration.Step) record {
	if s.Err != nil {
		return record{N: s.N, Error: s.Err.Error()}
	}

	r := record{N: s.N, Line: s.Line, Value: s.Value.Int()}
	if s.Value.Found {
		r.First = s.Value.First.Digit
		r.Last = s.Value.Last.Digit
	}

	return r
}

// Rows writes a per line breakdown of steps in format f.
func Rows(w io.Writer, f Format, steps []calibration.Step) error {
	switch f {
	case FormatText:
		for _, s := range steps {
			if s.Err != nil {
				fmt.Fprintf(w, "skipped\t%v\n", s.Err)
				continue
			}
			fmt.Fprintf(w, "%d\t%s\n", s.Value.Int(), s.Line)
		}
		return nil
	case FormatTable:
		return writeTable(w, steps)
	case FormatYAML:
		records := make([]record, 0, len(steps))
		for _, s := range steps {
			records = append(records, toRecord(s))
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	return fmt.Errorf("unknown output format: %v", f)
}

func writeTable(w io.Writer, steps []calibration.Step) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"n", "line", "first", "last", "value"})
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	var total uint
	for _, s := range steps {
		total = s.Total
		r := toRecord(s)
		if s.Err != nil {
			table.Append([]string{strconv.Itoa(r.N), r.Error, "", "", ""})
			continue
		}

		first, last := "", ""
		if s.Value.Found {
			first, last = strconv.Itoa(r.First), strconv.Itoa(r.Last)
		}
		table.Append([]string{strconv.Itoa(r.N), r.Line, first, last, strconv.Itoa(r.Value)})
	}

	table.SetFooter([]string{"", "", "", "total", strconv.FormatUint(uint64(total), 10)})
	table.Render()

	return nil
}
