package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

// HorizonKey names the series whose length fixes the horizon of a bound model.
const HorizonKey = "LATA"

// Table maps a series key to its raw values in file order.
type Table struct {
	series map[string][]float64
}

func New() *Table {
	return &Table{series: make(map[string][]float64)}
}

// Load opens path and parses it as a dataset file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads lines of the form "<key> <v1> ... <vn>". Blank lines are skipped
// and a repeated key replaces the earlier series.
func Parse(r io.Reader) (*Table, error) {
	t := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		values := make([]float64, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, key %s: %q", ErrParse, lineNo, fields[0], tok)
			}
			values = append(values, v)
		}
		t.series[fields[0]] = values
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset line %d: %w", lineNo+1, err)
	}
	return t, nil
}

func (t *Table) Set(key string, values []float64) {
	t.series[key] = append([]float64(nil), values...)
}

// Series returns the raw values for key; ok is false when the key is absent.
func (t *Table) Series(key string) ([]float64, bool) {
	v, ok := t.series[key]
	return v, ok
}

func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.series))
	for k := range t.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Horizon returns the length of the LATA series.
func (t *Table) Horizon() (int, error) {
	lata, ok := t.series[HorizonKey]
	if !ok {
		return 0, ErrMissingRequiredSeries
	}
	return len(lata), nil
}

// Aligned returns the series under key fitted to n elements by Align.
func (t *Table) Aligned(key string, n int) []float64 {
	return Align(t.series[key], n)
}

// Align produces an n-element array from raw. Missing or empty input yields
// zeros; otherwise raw[i] is used where present and the last raw value fills
// the rest. Values of raw beyond n are ignored.
func Align(raw []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	if len(raw) == 0 {
		return out
	}
	last := raw[len(raw)-1]
	for i := range out {
		if i < len(raw) {
			out[i] = raw[i]
		} else {
			out[i] = last
		}
	}
	return out
}
