package keyword

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/keywordforge/core/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with scriptable failures.
type fakeStore struct {
	mu       sync.Mutex
	keywords []models.KeywordModel

	resetErrs  map[string]error
	deleteErrs map[string]error
	genErr     error

	resetCalls  []string
	deleteCalls []string
	genCalls    [][]string

	fetchGate chan struct{} // when set, FetchKeywords blocks until closed
}

func newFakeStore(keywords ...models.KeywordModel) *fakeStore {
	return &fakeStore{
		keywords:   keywords,
		resetErrs:  map[string]error{},
		deleteErrs: map[string]error{},
	}
}

func (f *fakeStore) FetchKeywords(ctx context.Context) ([]models.KeywordModel, error) {
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.KeywordModel, len(f.keywords))
	copy(out, f.keywords)
	return out, nil
}

func (f *fakeStore) UploadKeywordBatch(ctx context.Context, records []Record, campaignName, templateType string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range records {
		k := models.KeywordModel{Keyword: rec.Text, Status: models.KeywordPending}
		k.ID = rec.Text
		f.keywords = append(f.keywords, k)
	}
	return len(records), nil
}

func (f *fakeStore) ResetKeyword(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls = append(f.resetCalls, id)
	if err := f.resetErrs[id]; err != nil {
		return err
	}
	for i := range f.keywords {
		if f.keywords[i].ID == id {
			if f.keywords[i].Status != models.KeywordFailed {
				return &ResetError{ID: id, Category: FailureUnknown, Err: errNotFailed}
			}
			f.keywords[i].Status = models.KeywordPending
			return nil
		}
	}
	return &ResetError{ID: id, Category: FailureUnknown, Err: errNotFound}
}

func (f *fakeStore) DeleteKeyword(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	for i := range f.keywords {
		if f.keywords[i].ID == id {
			f.keywords = append(f.keywords[:i], f.keywords[i+1:]...)
			return nil
		}
	}
	return &DeleteError{Category: FailureUnknown, Err: errNotFound}
}

func (f *fakeStore) RequestBlogGeneration(ctx context.Context, ids []string, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genCalls = append(f.genCalls, ids)
	if f.genErr != nil {
		return nil, f.genErr
	}
	for i := range f.keywords {
		for _, id := range ids {
			if f.keywords[i].ID == id && f.keywords[i].Eligible() {
				f.keywords[i].Status = models.KeywordProcessing
			}
		}
	}
	return &GenerationReceipt{
		QueuedCount:         len(ids),
		EstimatedCompletion: time.Now().Add(time.Duration(len(ids)) * 3 * time.Minute),
	}, nil
}

func testKeywords() []models.KeywordModel {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []models.KeywordModel{
		kw("pending-1", models.KeywordPending, false, base.Add(time.Hour)),
		kw("pending-2", models.KeywordPending, false, base.Add(2*time.Hour)),
		kw("failed-1", models.KeywordFailed, false, base),
		kw("done-1", models.KeywordCompleted, true, base),
	}
}

func TestSelectAllEligibleOnly(t *testing.T) {
	m := NewManager(newFakeStore(testKeywords()...))
	require.NoError(t, m.Refresh(context.Background()))

	m.SelectAll(true)
	require.ElementsMatch(t, []string{"pending-1", "pending-2"}, m.Selected())

	m.ClearSelection()
	m.SelectAll(false)
	require.ElementsMatch(t, []string{"pending-1", "pending-2", "failed-1", "done-1"}, m.Selected())
}

func TestRetryOnNonFailedKeyword(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	m := NewManager(store)
	require.NoError(t, m.Refresh(context.Background()))

	_, err := m.Retry(context.Background(), "pending-1", "store-1", "ecommerce_general", false)

	var re *ResetError
	require.ErrorAs(t, err, &re)
	require.Empty(t, store.genCalls, "generation must not be called when reset is rejected")
	require.Empty(t, store.resetCalls, "the known non-failed status short-circuits before the store call")
}

func TestRetryResetsThenGenerates(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	m := NewManager(store)
	require.NoError(t, m.Refresh(context.Background()))

	receipt, err := m.Retry(context.Background(), "failed-1", "store-1", "ecommerce_general", false)
	require.NoError(t, err)
	require.Equal(t, 1, receipt.QueuedCount)
	require.Equal(t, []string{"failed-1"}, store.resetCalls)
	require.Len(t, store.genCalls, 1)
	require.Equal(t, []string{"failed-1"}, store.genCalls[0])
}

func TestRetryGenerationFailureLeavesPending(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	store.genErr = errors.New("generation service down")
	m := NewManager(store)
	require.NoError(t, m.Refresh(context.Background()))

	_, err := m.Retry(context.Background(), "failed-1", "store-1", "ecommerce_general", false)

	var ge *GenerationRequestError
	require.ErrorAs(t, err, &ge)

	// The reset is not rolled back.
	require.NoError(t, m.Refresh(context.Background()))
	for _, k := range m.ListSorted() {
		if k.ID == "failed-1" {
			require.Equal(t, models.KeywordPending, k.Status)
			return
		}
	}
	t.Fatal("failed-1 not found after retry")
}

func TestRetryAllFailedPartialResets(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore(
		kw("failed-1", models.KeywordFailed, false, base),
		kw("failed-2", models.KeywordFailed, false, base),
		kw("pending-1", models.KeywordPending, false, base),
	)
	store.resetErrs["failed-2"] = &ResetError{ID: "failed-2", Category: FailureConnectivity, Err: errors.New("timeout")}

	m := NewManager(store)
	result, err := m.RetryAllFailed(context.Background(), "store-1", "ecommerce_general", false)
	require.NoError(t, err)
	require.Equal(t, 1, result.ResetCount)
	require.Equal(t, []string{"failed-2"}, result.FailedResets)
	require.Len(t, store.genCalls, 1)
	require.Equal(t, []string{"failed-1"}, store.genCalls[0], "only successfully reset ids proceed to generation")
}

func TestRequestGenerationValidation(t *testing.T) {
	m := NewManager(newFakeStore(testKeywords()...))
	require.NoError(t, m.Refresh(context.Background()))

	var ge *GenerationRequestError

	_, err := m.RequestGeneration(context.Background(), []string{"pending-1"}, "", "ecommerce_general", false)
	require.ErrorAs(t, err, &ge)

	_, err = m.RequestGeneration(context.Background(), nil, "store-1", "ecommerce_general", false)
	require.ErrorAs(t, err, &ge)
}

func TestBulkDeletePartialFailure(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	store.deleteErrs["pending-2"] = &DeleteError{Category: FailureServer, Err: errors.New("boom")}

	m := NewManager(store)
	require.NoError(t, m.Refresh(context.Background()))
	m.Select("pending-1")
	m.Select("pending-2")

	result, err := m.BulkDelete(context.Background(), []string{"pending-1", "pending-2"})
	require.NoError(t, err)
	require.Equal(t, 1, result.DeletedCount)
	require.Equal(t, []string{"pending-2"}, result.FailedIDs)

	// The failed id is still present after the reconciling fetch, and still
	// selected; the deleted one is gone from both.
	ids := order(m.ListSorted())
	require.Contains(t, ids, "pending-2")
	require.NotContains(t, ids, "pending-1")
	require.Equal(t, []string{"pending-2"}, m.Selected())
}

func TestListSortedIdempotent(t *testing.T) {
	m := NewManager(newFakeStore(testKeywords()...))
	require.NoError(t, m.Refresh(context.Background()))

	first := order(m.ListSorted())
	second := order(m.ListSorted())
	require.Equal(t, first, second)
}

func TestPollSkipsWhileInFlight(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	store.fetchGate = make(chan struct{})
	m := NewManager(store)

	firstDone := make(chan error, 1)
	go func() {
		_, err := m.Poll(context.Background())
		firstDone <- err
	}()

	// Wait for the first poll to be holding the in-flight flag.
	require.Eventually(t, func() bool {
		return m.polling.Load()
	}, time.Second, time.Millisecond)

	ran, err := m.Poll(context.Background())
	require.NoError(t, err)
	require.False(t, ran, "overlapping poll tick must be skipped")

	close(store.fetchGate)
	require.NoError(t, <-firstDone)

	ran, err = m.Poll(context.Background())
	require.NoError(t, err)
	require.True(t, ran)
}

func TestRefreshPrunesSelection(t *testing.T) {
	store := newFakeStore(testKeywords()...)
	m := NewManager(store)
	require.NoError(t, m.Refresh(context.Background()))
	m.Select("pending-1")

	store.mu.Lock()
	store.keywords = store.keywords[1:] // drop pending-1 server-side
	store.mu.Unlock()

	require.NoError(t, m.Refresh(context.Background()))
	require.Empty(t, m.Selected())
}
