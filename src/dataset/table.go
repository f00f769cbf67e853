package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category is a race/ethnicity sub-population.
type Category int

const (
	White Category = iota
	Black
	Indian
	Asian
	Hawaiian
	Other
	TwoOrMore
	numCategories
)

var categoryNames = [numCategories]string{"White", "Black", "Indian", "Asian", "Hawaiian", "Other", "TwoOrMore"}

var categoryLabels = [numCategories]string{
	"White",
	"Black or African American",
	"American Indian and Alaska Native",
	"Asian",
	"Native Hawaiian and Other Pacific Islander",
	"Some Other Race",
	"Two or More Races",
}

// Categories returns all categories in column order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// String returns the short column name (e.g. "TwoOrMore").
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Label returns the long human-readable name.
func (c Category) Label() string {
	if c < 0 || c >= numCategories {
		return c.String()
	}
	return categoryLabels[c]
}

// ParseCategory maps a column name back to its category.
func ParseCategory(s string) (Category, bool) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Row is the tabular projection of a record: the state plus one column per category.
type Row struct {
	State  string
	Values [numCategories]int64
}

// Value returns the column for c.
func (r Row) Value(c Category) int64 {
	if c < 0 || c >= numCategories {
		return 0
	}
	return r.Values[c]
}

// Sum adds all category columns.
func (r Row) Sum() int64 {
	var s int64
	for _, v := range r.Values {
		s += v
	}
	return s
}

// MarshalJSON writes {"State": ..., "White": ..., ..., "TwoOrMore": ...} with columns in category order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"State":`)
	name, err := json.Marshal(r.State)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	for i, v := range r.Values {
		fmt.Fprintf(&buf, ",%q:%d", categoryNames[i], v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (r *Row) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Row
	if raw, ok := m["State"]; ok {
		if err := json.Unmarshal(raw, &out.State); err != nil {
			return fmt.Errorf("State: %w", err)
		}
	}
	for i, n := range categoryNames {
		raw, ok := m[n]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &out.Values[i]); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	*r = out
	return nil
}

// Project turns one record into a row, copying counts verbatim.
func Project(rec StateRecord) Row {
	row := Row{State: rec.State}
	for _, c := range Categories() {
		row.Values[c] = rec.Count(c)
	}
	return row
}

// Table projects every record, in dataset order.
func (d *Dataset) Table() []Row {
	rows := make([]Row, len(d.records))
	for i, rec := range d.records {
		rows[i] = Project(rec)
	}
	return rows
}

// Row returns the projected row for a state.
func (d *Dataset) Row(name string) (Row, bool) {
	rec, ok := d.Lookup(name)
	if !ok {
		return Row{}, false
	}
	return Project(rec), true
}
