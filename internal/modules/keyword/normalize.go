package keyword

import "strings"

// DefaultCategory is assigned when a record carries none.
const DefaultCategory = "General"

// Normalize trims, drops empties, deduplicates case-insensitively (first
// occurrence wins, later duplicates are discarded entirely) and applies the
// default category. Returns a ValidationError when nothing survives.
func Normalize(records []Record) ([]Record, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))

	for _, rec := range records {
		text := strings.TrimSpace(rec.Text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec.Text = text
		if strings.TrimSpace(rec.Category) == "" {
			rec.Category = DefaultCategory
		}
		out = append(out, rec)
	}

	if len(out) == 0 {
		return nil, &ValidationError{Reason: "no valid keywords after normalization"}
	}
	return out, nil
}
