package keyword

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []Record
		want  []Record
	}{
		{
			name:  "trims and defaults category",
			input: []Record{{Text: "  cbd oil  "}},
			want:  []Record{{Text: "cbd oil", Category: "General"}},
		},
		{
			name:  "drops empty text",
			input: []Record{{Text: "   "}, {Text: "valid"}},
			want:  []Record{{Text: "valid", Category: "General"}},
		},
		{
			name: "case insensitive dedupe keeps first occurrence",
			input: []Record{
				{Text: "CBD oil"},
				{Text: "CBD OIL", SearchVolume: intPtr(500)},
			},
			want: []Record{{Text: "CBD oil", Category: "General"}},
		},
		{
			name:  "existing category kept",
			input: []Record{{Text: "cbd oil", Category: "Wellness"}},
			want:  []Record{{Text: "cbd oil", Category: "Wellness"}},
		},
		{
			name: "optional fields survive",
			input: []Record{
				{Text: "cbd oil", SearchVolume: intPtr(1200), Difficulty: floatPtr(45)},
			},
			want: []Record{
				{Text: "cbd oil", SearchVolume: intPtr(1200), Category: "General", Difficulty: floatPtr(45)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			assertRecords(t, got, tt.want)
		})
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	inputs := [][]Record{
		{},
		{{Text: ""}, {Text: "   "}},
	}
	for _, input := range inputs {
		_, err := Normalize(input)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Normalize(%+v) error = %v, want *ValidationError", input, err)
		}
	}
}

func TestParseThenNormalizeNeverYieldsEmptyText(t *testing.T) {
	raws := []string{
		"a\n \nb, 1\n,\n  c  ",
		"CBD oil\nCBD OIL, 500",
		"x,,,\n y ,bad,, 9.1",
	}
	for _, raw := range raws {
		parsed, err := Parse(raw, ModeLines)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", raw, err)
		}
		normalized, err := Normalize(parsed)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", raw, err)
		}
		for _, rec := range normalized {
			if rec.Text == "" {
				t.Errorf("raw %q produced a record with empty text", raw)
			}
			if rec.Category == "" {
				t.Errorf("raw %q produced a record with empty category", raw)
			}
		}
	}
}
