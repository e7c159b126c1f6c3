package keyword

import (
	"testing"
	"time"

	"github.com/keywordforge/core/internal/models"
)

func kw(id string, status models.KeywordStatus, generated bool, createdAt time.Time) models.KeywordModel {
	k := models.KeywordModel{
		Keyword:       id,
		Status:        status,
		BlogGenerated: generated,
	}
	k.ID = id
	k.CreatedAt = createdAt
	return k
}

func order(keywords []models.KeywordModel) []string {
	ids := make([]string, len(keywords))
	for i, k := range keywords {
		ids[i] = k.ID
	}
	return ids
}

func assertOrder(t *testing.T, got []models.KeywordModel, want []string) {
	t.Helper()
	gotIDs := order(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestSortForDisplayUngeneratedFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	input := []models.KeywordModel{
		kw("A", models.KeywordPending, false, base.Add(1*time.Hour)),
		kw("B", models.KeywordPending, false, base.Add(2*time.Hour)),
		kw("C", models.KeywordFailed, false, base),
	}

	assertOrder(t, SortForDisplay(input), []string{"B", "A", "C"})
}

func TestSortForDisplayStatusPriority(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	input := []models.KeywordModel{
		kw("completed", models.KeywordCompleted, true, base),
		kw("anomalous", models.KeywordPending, true, base),
		kw("failed", models.KeywordFailed, false, base),
		kw("processing", models.KeywordProcessing, false, base),
		kw("fresh", models.KeywordPending, false, base),
	}

	assertOrder(t, SortForDisplay(input), []string{
		"fresh", "processing", "failed", "completed", "anomalous",
	})
}

func TestSortForDisplayTiesNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	input := []models.KeywordModel{
		kw("old-failed", models.KeywordFailed, false, base),
		kw("new-failed", models.KeywordFailed, false, base.Add(time.Hour)),
	}

	assertOrder(t, SortForDisplay(input), []string{"new-failed", "old-failed"})
}

func TestSortForDisplayPure(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	input := []models.KeywordModel{
		kw("C", models.KeywordFailed, false, base),
		kw("A", models.KeywordPending, false, base.Add(1*time.Hour)),
		kw("B", models.KeywordPending, false, base.Add(2*time.Hour)),
	}
	inputOrder := order(input)

	first := SortForDisplay(input)
	second := SortForDisplay(input)

	assertOrder(t, first, order(second))

	// The input slice must not be reordered.
	for i, id := range order(input) {
		if id != inputOrder[i] {
			t.Fatalf("input mutated: %v", order(input))
		}
	}
}
