package keyword

import (
	"errors"
	"testing"
)

func TestParseLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Record
	}{
		{
			name: "keyword only",
			raw:  "cbd oil",
			want: []Record{{Text: "cbd oil"}},
		},
		{
			name: "all four fields",
			raw:  "cbd oil, 1200, Wellness, 45.5",
			want: []Record{{Text: "cbd oil", SearchVolume: intPtr(1200), Category: "Wellness", Difficulty: floatPtr(45.5)}},
		},
		{
			name: "malformed volume degrades to absent",
			raw:  "cbd oil, lots, Wellness",
			want: []Record{{Text: "cbd oil", Category: "Wellness"}},
		},
		{
			name: "malformed difficulty degrades to absent",
			raw:  "cbd oil, 500, Wellness, hard",
			want: []Record{{Text: "cbd oil", SearchVolume: intPtr(500), Category: "Wellness"}},
		},
		{
			name: "blank lines skipped",
			raw:  "first\n\n  \nsecond",
			want: []Record{{Text: "first"}, {Text: "second"}},
		},
		{
			name: "duplicates preserved in input order",
			raw:  "CBD oil\nCBD OIL, 500",
			want: []Record{{Text: "CBD oil"}, {Text: "CBD OIL", SearchVolume: intPtr(500)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, ModeLines)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			assertRecords(t, got, tt.want)
		})
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Record
	}{
		{
			name: "canonical header",
			raw:  "keyword,search_volume,category,keyword_difficulty\nCBD gummies for pain,18100,Pain Relief,45\n",
			want: []Record{{Text: "CBD gummies for pain", SearchVolume: intPtr(18100), Category: "Pain Relief", Difficulty: floatPtr(45)}},
		},
		{
			name: "header aliases",
			raw:  "search_term,volume,kd\nsleep gummies,900,12\n",
			want: []Record{{Text: "sleep gummies", SearchVolume: intPtr(900), Difficulty: floatPtr(12)}},
		},
		{
			name: "rows without keyword dropped",
			raw:  "keyword,volume\n,500\nvalid term,100\n",
			want: []Record{{Text: "valid term", SearchVolume: intPtr(100)}},
		},
		{
			name: "quoted thousands separator",
			raw:  "keyword,volume\ncbd oil,\"18,100\"\n",
			want: []Record{{Text: "cbd oil", SearchVolume: intPtr(18100)}},
		},
		{
			name: "short rows tolerated",
			raw:  "keyword,volume,category\nbare term\n",
			want: []Record{{Text: "bare term"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, ModeCSV)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			assertRecords(t, got, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		mode Mode
	}{
		{"empty lines input", "", ModeLines},
		{"whitespace only", "   \n  ", ModeLines},
		{"empty csv input", "", ModeCSV},
		{"csv without keyword column", "foo,bar\n1,2\n", ModeCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.mode)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
		})
	}
}

func assertRecords(t *testing.T, got, want []Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Text != want[i].Text {
			t.Errorf("record %d text = %q, want %q", i, got[i].Text, want[i].Text)
		}
		if !intPtrEq(got[i].SearchVolume, want[i].SearchVolume) {
			t.Errorf("record %d volume = %v, want %v", i, fmtIntPtr(got[i].SearchVolume), fmtIntPtr(want[i].SearchVolume))
		}
		if got[i].Category != want[i].Category {
			t.Errorf("record %d category = %q, want %q", i, got[i].Category, want[i].Category)
		}
		if !floatPtrEq(got[i].Difficulty, want[i].Difficulty) {
			t.Errorf("record %d difficulty = %v, want %v", i, got[i].Difficulty, want[i].Difficulty)
		}
	}
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func intPtrEq(a, b *int) bool       { return (a == nil) == (b == nil) && (a == nil || *a == *b) }
func floatPtrEq(a, b *float64) bool { return (a == nil) == (b == nil) && (a == nil || *a == *b) }

func fmtIntPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
