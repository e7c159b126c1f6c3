package keyword

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keywordforge/core/internal/models"
)

// Store is the external collaborator holding the authoritative keyword
// records and the generation queue.
type Store interface {
	FetchKeywords(ctx context.Context) ([]models.KeywordModel, error)
	UploadKeywordBatch(ctx context.Context, records []Record, campaignName, templateType string) (addedCount int, err error)
	ResetKeyword(ctx context.Context, id string) error
	DeleteKeyword(ctx context.Context, id string) error
	RequestBlogGeneration(ctx context.Context, ids []string, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error)
}

// GenerationReceipt is the acknowledgement from the generation service.
type GenerationReceipt struct {
	QueuedCount         int       `json:"queued_count"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// BulkDeleteResult reports partial success of a bulk delete.
type BulkDeleteResult struct {
	DeletedCount int      `json:"deleted_count"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
}

// RetryAllResult reports partial success of retrying all failed keywords.
type RetryAllResult struct {
	ResetCount   int                `json:"reset_count"`
	FailedResets []string           `json:"failed_resets,omitempty"`
	Receipt      *GenerationReceipt `json:"receipt,omitempty"`
}

// Manager coordinates keyword status transitions for one client session.
// It never flips status locally: every mutating call is followed by a
// re-fetch so local state always reconciles from the store.
type Manager struct {
	store Store

	mu        sync.RWMutex
	keywords  []models.KeywordModel
	selection map[string]struct{}

	polling atomic.Bool
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:     store,
		selection: make(map[string]struct{}),
	}
}

// Refresh re-fetches the keyword list from the store and prunes the
// selection set of ids that no longer exist.
func (m *Manager) Refresh(ctx context.Context) error {
	keywords, err := m.store.FetchKeywords(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = keywords

	known := make(map[string]struct{}, len(keywords))
	for i := range keywords {
		known[keywords[i].ID] = struct{}{}
	}
	for id := range m.selection {
		if _, ok := known[id]; !ok {
			delete(m.selection, id)
		}
	}
	return nil
}

// ListSorted returns the known keywords in display order. Side-effect-free.
func (m *Manager) ListSorted() []models.KeywordModel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SortForDisplay(m.keywords)
}

// Poll refreshes unless a previous poll is still in flight, in which case
// the tick is skipped. Returns whether the refresh ran.
func (m *Manager) Poll(ctx context.Context) (bool, error) {
	if !m.polling.CompareAndSwap(false, true) {
		return false, nil
	}
	defer m.polling.Store(false)
	return true, m.Refresh(ctx)
}

// Select adds an id to the selection set if it is known.
func (m *Manager) Select(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(id) == nil {
		return false
	}
	m.selection[id] = struct{}{}
	return true
}

// Deselect removes an id from the selection set.
func (m *Manager) Deselect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selection, id)
}

// SelectAll adds every known id, or only generation-eligible ids when
// eligibleOnly is set.
func (m *Manager) SelectAll(eligibleOnly bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keywords {
		k := &m.keywords[i]
		if eligibleOnly && !k.Eligible() {
			continue
		}
		m.selection[k.ID] = struct{}{}
	}
	return len(m.selection)
}

// ClearSelection empties the selection set.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = make(map[string]struct{})
}

// Selected returns the current selection set as a slice.
func (m *Manager) Selected() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.selection))
	for id := range m.selection {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) findLocked(id string) *models.KeywordModel {
	for i := range m.keywords {
		if m.keywords[i].ID == id {
			return &m.keywords[i]
		}
	}
	return nil
}

// RequestGeneration submits one batch generation request for pending ids.
func (m *Manager) RequestGeneration(ctx context.Context, ids []string, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error) {
	if storeID == "" {
		return nil, &GenerationRequestError{Category: FailureUnknown, Err: errNoStore}
	}
	if len(ids) == 0 {
		return nil, &GenerationRequestError{Category: FailureUnknown, Err: errNoKeywords}
	}

	receipt, err := m.store.RequestBlogGeneration(ctx, ids, storeID, templateType, autoPublish)
	if err != nil {
		return nil, wrapGeneration(err)
	}
	if refreshErr := m.Refresh(ctx); refreshErr != nil {
		return receipt, refreshErr
	}
	return receipt, nil
}

// Retry resets a failed keyword to pending, then queues a fresh generation
// attempt for it. The two steps are not atomic: a generation failure after
// a successful reset leaves the keyword pending, which is safe to request
// again.
func (m *Manager) Retry(ctx context.Context, id, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error) {
	m.mu.RLock()
	k := m.findLocked(id)
	if k != nil && k.Status != models.KeywordFailed {
		m.mu.RUnlock()
		return nil, &ResetError{ID: id, Category: FailureUnknown, Err: errNotFailed}
	}
	m.mu.RUnlock()

	if err := m.store.ResetKeyword(ctx, id); err != nil {
		return nil, wrapReset(id, err)
	}
	return m.RequestGeneration(ctx, []string{id}, storeID, templateType, autoPublish)
}

// RetryAllFailed resets every failed keyword best-effort, then requests
// generation for the subset that reset successfully.
func (m *Manager) RetryAllFailed(ctx context.Context, storeID, templateType string, autoPublish bool) (*RetryAllResult, error) {
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	var failedIDs []string
	for i := range m.keywords {
		if m.keywords[i].Status == models.KeywordFailed {
			failedIDs = append(failedIDs, m.keywords[i].ID)
		}
	}
	m.mu.RUnlock()

	result := &RetryAllResult{}
	var resetIDs []string
	for _, id := range failedIDs {
		if err := m.store.ResetKeyword(ctx, id); err != nil {
			result.FailedResets = append(result.FailedResets, id)
			continue
		}
		resetIDs = append(resetIDs, id)
	}
	result.ResetCount = len(resetIDs)

	if len(resetIDs) == 0 {
		_ = m.Refresh(ctx)
		return result, nil
	}

	receipt, err := m.RequestGeneration(ctx, resetIDs, storeID, templateType, autoPublish)
	if err != nil {
		return result, err
	}
	result.Receipt = receipt
	return result, nil
}

// Delete removes one keyword permanently.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeleteKeyword(ctx, id); err != nil {
		return wrapDelete(err)
	}
	m.mu.Lock()
	delete(m.selection, id)
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// BulkDelete removes keywords one by one, tolerating per-id failures, and
// reports how many were actually deleted.
func (m *Manager) BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{}
	for _, id := range ids {
		if err := m.store.DeleteKeyword(ctx, id); err != nil {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.DeletedCount++
		m.mu.Lock()
		delete(m.selection, id)
		m.mu.Unlock()
	}
	if err := m.Refresh(ctx); err != nil {
		return result, err
	}
	return result, nil
}
