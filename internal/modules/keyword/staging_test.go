package keyword

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stagedBatch(terms ...string) *Batch {
	records := make([]Record, len(terms))
	for i, term := range terms {
		records[i] = Record{Text: term, Category: DefaultCategory}
	}
	return &Batch{Records: records, ParsedAt: time.Now()}
}

func TestStagingReplaceAndGet(t *testing.T) {
	s := NewStaging()
	require.Nil(t, s.Get("sess-1"))

	first := stagedBatch("cbd oil")
	s.Replace("sess-1", first)
	require.Same(t, first, s.Get("sess-1"))

	// A new parse replaces the whole batch.
	second := stagedBatch("sleep gummies", "cbd balm")
	s.Replace("sess-1", second)
	require.Same(t, second, s.Get("sess-1"))
	require.Len(t, s.Get("sess-1").Records, 2)
}

func TestStagingSessionsAreIsolated(t *testing.T) {
	s := NewStaging()
	s.Replace("sess-1", stagedBatch("one"))
	s.Replace("sess-2", stagedBatch("two"))

	require.Equal(t, "one", s.Get("sess-1").Records[0].Text)
	require.Equal(t, "two", s.Get("sess-2").Records[0].Text)

	s.Clear("sess-1")
	require.Nil(t, s.Get("sess-1"))
	require.NotNil(t, s.Get("sess-2"))
}

func TestStagingClearIsIdempotent(t *testing.T) {
	s := NewStaging()
	s.Clear("missing")
	s.Replace("sess-1", stagedBatch("x"))
	s.Clear("sess-1")
	s.Clear("sess-1")
	require.Nil(t, s.Get("sess-1"))
}
