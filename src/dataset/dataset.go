// Package dataset holds the embedded per-state population records and their tabular projection.
//
// A Dataset is built once at startup and never mutated; every accessor hands out copies so callers
// (HTTP handlers, the desktop viewer) can share one instance without locking.
package dataset

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed states.json
var embeddedStates []byte

var (
	ErrEmpty          = errors.New("dataset: no records")
	ErrDuplicateState = errors.New("dataset: duplicate state")
	ErrInvalidRecord  = errors.New("dataset: invalid record")
)

// StateRecord is one state's total and per-category population counts.
// Field names follow the embedded JSON literal.
type StateRecord struct {
	State          string `json:"State"`
	Total          int64  `json:"Total"`
	WhiteTotal     int64  `json:"WhiteTotal"`
	BlackTotal     int64  `json:"BlackTotal"`
	IndianTotal    int64  `json:"IndianTotal"`
	AsianTotal     int64  `json:"AsianTotal"`
	HawaiianTotal  int64  `json:"HawaiianTotal"`
	OtherTotal     int64  `json:"OtherTotal"`
	TwoOrMoreTotal int64  `json:"TwoOrMoreTotal"`
}

// Count returns the record's count for one category.
func (r StateRecord) Count(c Category) int64 {
	switch c {
	case White:
		return r.WhiteTotal
	case Black:
		return r.BlackTotal
	case Indian:
		return r.IndianTotal
	case Asian:
		return r.AsianTotal
	case Hawaiian:
		return r.HawaiianTotal
	case Other:
		return r.OtherTotal
	case TwoOrMore:
		return r.TwoOrMoreTotal
	}
	return 0
}

// CategorySum adds up the seven category counts.
func (r StateRecord) CategorySum() int64 {
	var s int64
	for _, c := range Categories() {
		s += r.Count(c)
	}
	return s
}

func (r StateRecord) validate() error {
	if strings.TrimSpace(r.State) == "" {
		return fmt.Errorf("%w: empty state name", ErrInvalidRecord)
	}
	if r.Total < 0 {
		return fmt.Errorf("%w: %s has negative total %d", ErrInvalidRecord, r.State, r.Total)
	}
	for _, c := range Categories() {
		if v := r.Count(c); v < 0 {
			return fmt.Errorf("%w: %s has negative %s count %d", ErrInvalidRecord, r.State, c, v)
		}
	}
	return nil
}

// Dataset is an ordered, read-only set of state records.
type Dataset struct {
	records []StateRecord
	byName  map[string]int
}

// New builds a Dataset from records, rejecting empty input, invalid records and duplicate names.
func New(records []StateRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	ds := &Dataset{
		records: make([]StateRecord, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := ds.byName[r.State]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, r.State)
		}
		ds.byName[r.State] = len(ds.records)
		ds.records = append(ds.records, r)
	}
	return ds, nil
}

// Default parses the dataset embedded in the binary.
func Default() (*Dataset, error) {
	ds, err := Parse(embeddedStates)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return ds, nil
}

// Parse decodes a JSON (or JSONC with full-line // comments) array of records.
func Parse(b []byte) (*Dataset, error) {
	raw, err := stripJSONC(b)
	if err != nil {
		return nil, err
	}
	var records []StateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return New(records)
}

// LoadFile reads and parses a dataset file.
func LoadFile(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// stripJSONC drops blank lines and full-line // comments. Inline // is kept since it may sit inside strings.
func stripJSONC(b []byte) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, scanner.Err()
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of all records in dataset order.
func (d *Dataset) Records() []StateRecord {
	out := make([]StateRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Names returns the state names in dataset order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.records))
	for i, r := range d.records {
		out[i] = r.State
	}
	return out
}

// Lookup finds a record by exact state name.
func (d *Dataset) Lookup(name string) (StateRecord, bool) {
	i, ok := d.byName[name]
	if !ok {
		return StateRecord{}, false
	}
	return d.records[i], true
}

// Mismatch describes a record whose category counts do not add up to its total.
type Mismatch struct {
	State    string  `json:"state"`
	Total    int64   `json:"total"`
	Sum      int64   `json:"category_sum"`
	Delta    int64   `json:"delta"`
	DeltaPct float64 `json:"delta_pct"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: categories sum to %d, total %d (%+.2f%%)", m.State, m.Sum, m.Total, m.DeltaPct)
}

// Validate reports records whose category sum deviates from Total by more than tolerancePct percent.
// A zero total with a non-zero sum is always reported.
func (d *Dataset) Validate(tolerancePct float64) []Mismatch {
	var out []Mismatch
	for _, r := range d.records {
		sum := r.CategorySum()
		delta := sum - r.Total
		if delta == 0 {
			continue
		}
		var pct float64
		if r.Total != 0 {
			pct = float64(delta) / float64(r.Total) * 100
		}
		if r.Total != 0 && pct <= tolerancePct && pct >= -tolerancePct {
			continue
		}
		out = append(out, Mismatch{State: r.State, Total: r.Total, Sum: sum, Delta: delta, DeltaPct: pct})
	}
	return out
}
