package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Default()
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}
	return ds
}

func TestDefault_StatesInOrder(t *testing.T) {
	ds := mustDefault(t)
	want := []string{"Alabama", "Alaska", "Arizona", "Arkansas"}
	if got := ds.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v want %v", got, want)
	}
	if ds.Len() != 4 {
		t.Fatalf("len = %d want 4", ds.Len())
	}
}

func TestDefault_AlabamaVerbatim(t *testing.T) {
	ds := mustDefault(t)
	got, ok := ds.Lookup("Alabama")
	if !ok {
		t.Fatalf("Alabama missing")
	}
	want := StateRecord{
		State: "Alabama", Total: 5028090,
		WhiteTotal: 3329010, BlackTotal: 1326343, IndianTotal: 21122, AsianTotal: 69808,
		HawaiianTotal: 2253, OtherTotal: 279556, TwoOrMoreTotal: 185632,
	}
	if got != want {
		t.Fatalf("Alabama = %+v want %+v", got, want)
	}
	if _, ok := ds.Lookup("alabama"); ok {
		t.Fatalf("lookup must be exact-match")
	}
}

func TestTable_ColumnsCopiedVerbatim(t *testing.T) {
	ds := mustDefault(t)
	rows := ds.Table()
	recs := ds.Records()
	if len(rows) != len(recs) {
		t.Fatalf("rows=%d records=%d", len(rows), len(recs))
	}
	for i, row := range rows {
		rec := recs[i]
		if row.State != rec.State {
			t.Fatalf("row %d state %q want %q", i, row.State, rec.State)
		}
		for _, c := range Categories() {
			if row.Value(c) != rec.Count(c) {
				t.Fatalf("%s %s = %d want %d", rec.State, c, row.Value(c), rec.Count(c))
			}
		}
	}
}

func TestRowJSON_ExactlySevenCategoryColumns(t *testing.T) {
	ds := mustDefault(t)
	row, ok := ds.Row("Arizona")
	if !ok {
		t.Fatalf("Arizona missing")
	}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m) != 8 {
		t.Fatalf("expected State + 7 columns, got %d keys: %s", len(m), b)
	}
	for _, c := range Categories() {
		if _, ok := m[c.String()]; !ok {
			t.Fatalf("column %s missing in %s", c, b)
		}
	}
	if !strings.HasPrefix(string(b), `{"State":"Arizona","White":4781701,`) {
		t.Fatalf("unexpected column order: %s", b)
	}
	var back Row
	if err := json.Unmarshal(b, &back); err != nil || back != row {
		t.Fatalf("decode back = %+v err=%v", back, err)
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	ds := mustDefault(t)
	recs := ds.Records()
	recs[0].WhiteTotal = 0
	again, _ := ds.Lookup(recs[0].State)
	if again.WhiteTotal == 0 {
		t.Fatalf("mutating Records() leaked into dataset")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty list", `[]`, ErrEmpty},
		{"duplicate", `[{"State":"Ohio","Total":1},{"State":"Ohio","Total":2}]`, ErrDuplicateState},
		{"negative", `[{"State":"Ohio","Total":10,"AsianTotal":-1}]`, ErrInvalidRecord},
		{"blank name", `[{"State":"  ","Total":10}]`, ErrInvalidRecord},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.in))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v want %v", tc.name, err, tc.want)
		}
	}
	if _, err := Parse([]byte(`{"State":`)); err == nil || !strings.Contains(err.Error(), "decode records") {
		t.Fatalf("malformed JSON err = %v", err)
	}
}

func TestLoadFile_JSONCComments(t *testing.T) {
	p := filepath.Join(t.TempDir(), "states.jsonc")
	body := "// custom dataset\n[\n  // one state\n  {\"State\": \"Ohio\", \"Total\": 10, \"WhiteTotal\": 6, \"BlackTotal\": 4}\n]\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec, ok := ds.Lookup("Ohio")
	if !ok || rec.CategorySum() != 10 {
		t.Fatalf("Ohio = %+v ok=%v", rec, ok)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate_Tolerance(t *testing.T) {
	ds := mustDefault(t)
	// Embedded counts overlap (race alone or in combination) and exceed totals by 3.7%..13.4%.
	if got := ds.Validate(15); len(got) != 0 {
		t.Fatalf("expected no mismatches at 15%%, got %v", got)
	}
	got := ds.Validate(5)
	var names []string
	for _, m := range got {
		names = append(names, m.State)
		if m.Delta != m.Sum-m.Total {
			t.Fatalf("delta mismatch: %+v", m)
		}
	}
	if !reflect.DeepEqual(names, []string{"Alaska", "Arizona", "Arkansas"}) {
		t.Fatalf("mismatches at 5%% = %v", names)
	}

	exact, err := New([]StateRecord{{State: "Ohio", Total: 3, WhiteTotal: 1, BlackTotal: 2}, {State: "Utah", Total: 0, AsianTotal: 1}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got = exact.Validate(100)
	if len(got) != 1 || got[0].State != "Utah" {
		t.Fatalf("zero-total record must always be reported: %v", got)
	}
}

func TestCategory_Names(t *testing.T) {
	if len(Categories()) != 7 {
		t.Fatalf("expected 7 categories")
	}
	c, ok := ParseCategory("TwoOrMore")
	if !ok || c != TwoOrMore || c.Label() != "Two or More Races" {
		t.Fatalf("ParseCategory(TwoOrMore) = %v %v", c, ok)
	}
	if _, ok := ParseCategory("Hispanic"); ok {
		t.Fatalf("unexpected category")
	}
}
