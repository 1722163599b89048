// Package report renders a model's current state as text.
//
// The canonical form is a tab-separated table: an optional header row, then one
// row per named series. Every cell, including the last, is followed by a tab and
// every row ends with a newline. Values are printed with two decimals.
//
// [Pretty] and [Plot] are terminal helpers built on the same [Table] value.
package report

import (
	"strconv"
	"strings"
)

// BaseYear is the first column year of a dated header.
const BaseYear = 2015

// Row is one labelled series.
type Row struct {
	Label  string
	Values []float64
}

// Table is an ordered set of rows with an optional header.
type Table struct {
	Header []string
	Rows   []Row
}

// YearHeader builds a header of label followed by n consecutive years
// starting at BaseYear.
func YearHeader(label string, n int) []string {
	h := make([]string, 0, n+1)
	h = append(h, label)
	for year := BaseYear; year < BaseYear+n; year++ {
		h = append(h, strconv.Itoa(year))
	}
	return h
}

// Row looks up a row by label.
func (t Table) Row(label string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// TSV renders t in the tab-terminated text form.
func TSV(t Table) string {
	var sb strings.Builder
	if len(t.Header) > 0 {
		for _, h := range t.Header {
			sb.WriteString(h)
			sb.WriteByte('\t')
		}
		sb.WriteByte('\n')
	}
	for _, r := range t.Rows {
		sb.WriteString(r.Label)
		sb.WriteByte('\t')
		for _, v := range r.Values {
			sb.WriteString(FormatValue(v))
			sb.WriteByte('\t')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseTSV splits rendered text back into cells. A trailing tab before the
// newline does not produce an empty cell. The first line is returned as the
// header.
func ParseTSV(s string) (header []string, rows [][]string) {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	for i, line := range lines {
		cells := strings.Split(strings.TrimSuffix(line, "\t"), "\t")
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	return header, rows
}
