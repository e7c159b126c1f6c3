package keyword

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// Mode selects how a raw blob is interpreted.
type Mode int

const (
	ModeLines Mode = iota // one keyword per line, comma-separated optional fields
	ModeCSV               // header row with flexible column names
)

// Record is a parsed keyword before persistence.
type Record struct {
	Text         string   `json:"keyword"`
	SearchVolume *int     `json:"search_volume,omitempty"`
	Category     string   `json:"category,omitempty"`
	Difficulty   *float64 `json:"keyword_difficulty,omitempty"`
}

// Column aliases accepted in CSV headers.
var (
	keywordAliases    = []string{"keyword", "keywords", "search_term", "query"}
	volumeAliases     = []string{"search_volume", "volume", "monthly_searches"}
	categoryAliases   = []string{"category", "topic"}
	difficultyAliases = []string{"keyword_difficulty", "difficulty", "kd"}
)

// Parse turns a raw blob into an ordered sequence of records. Duplicates
// are preserved; malformed optional fields degrade to absent rather than
// failing the row. Only input that yields nothing at all produces a
// ParseError.
func Parse(raw string, mode Mode) ([]Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Reason: "input is empty"}
	}
	if mode == ModeCSV {
		return parseCSV(raw)
	}
	return parseLines(raw), nil
}

func parseLines(raw string) []Record {
	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 4)

		rec := Record{Text: strings.TrimSpace(fields[0])}
		if len(fields) > 1 {
			rec.SearchVolume = parseOptionalInt(fields[1])
		}
		if len(fields) > 2 {
			rec.Category = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			rec.Difficulty = parseOptionalFloat(fields[3])
		}
		records = append(records, rec)
	}
	return records
}

func parseCSV(raw string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: "malformed csv: " + err.Error()}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Reason: "csv has no rows"}
	}

	header := rows[0]
	keywordCol := findColumn(header, keywordAliases)
	volumeCol := findColumn(header, volumeAliases)
	categoryCol := findColumn(header, categoryAliases)
	difficultyCol := findColumn(header, difficultyAliases)
	if keywordCol < 0 {
		return nil, &ParseError{Reason: "csv header has no keyword column"}
	}

	var records []Record
	for _, row := range rows[1:] {
		text := cell(row, keywordCol)
		if strings.TrimSpace(text) == "" {
			continue
		}
		records = append(records, Record{
			Text:         strings.TrimSpace(text),
			SearchVolume: parseOptionalInt(cell(row, volumeCol)),
			Category:     strings.TrimSpace(cell(row, categoryCol)),
			Difficulty:   parseOptionalFloat(cell(row, difficultyCol)),
		})
	}
	return records, nil
}

func findColumn(header []string, aliases []string) int {
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for _, alias := range aliases {
			if normalized == alias {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Numbers may carry thousands separators ("18,100" in quoted CSV cells).
func parseOptionalInt(s string) *int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalFloat(s string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
