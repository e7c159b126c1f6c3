package keyword

import (
	"sort"

	"github.com/keywordforge/core/internal/models"
)

// Status priority for keywords that already have (or had) a generation
// attempt. Lower sorts first.
func statusRank(k *models.KeywordModel) int {
	switch {
	case k.Status == models.KeywordProcessing:
		return 1
	case k.Status == models.KeywordFailed:
		return 2
	case k.Status == models.KeywordCompleted:
		return 3
	case k.Status == models.KeywordPending && k.BlogGenerated:
		// Anomalous: generated but still pending.
		return 4
	default:
		return 99
	}
}

// SortForDisplay orders keywords for the list view: the ungenerated bucket
// (pending, no blog yet) comes first sorted newest-first, then everything
// else by status priority with newest-first tie-breaking. Stable and pure.
func SortForDisplay(keywords []models.KeywordModel) []models.KeywordModel {
	out := make([]models.KeywordModel, len(keywords))
	copy(out, keywords)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aEligible, bEligible := a.Eligible(), b.Eligible()
		if aEligible != bEligible {
			return aEligible
		}
		if aEligible {
			return a.CreatedAt.After(b.CreatedAt)
		}
		ra, rb := statusRank(a), statusRank(b)
		if ra != rb {
			return ra < rb
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}
