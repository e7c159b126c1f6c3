package keyword

import (
	"context"
	"sync"

	"github.com/keywordforge/core/internal/models"
)

// GenerationRequester submits a batch generation request on behalf of a
// tenant. Implemented by the blog module.
type GenerationRequester interface {
	RequestBlogGeneration(ctx context.Context, tenantID string, ids []string, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error)
}

// storeAdapter binds the persistence service and the generation requester
// to one tenant, satisfying the Store interface the Manager works against.
type storeAdapter struct {
	svc      *Service
	gen      GenerationRequester
	tenantID string
}

func newStoreAdapter(svc *Service, gen GenerationRequester, tenantID string) Store {
	return &storeAdapter{svc: svc, gen: gen, tenantID: tenantID}
}

func (a *storeAdapter) FetchKeywords(ctx context.Context) ([]models.KeywordModel, error) {
	return a.svc.FetchKeywords(ctx, a.tenantID)
}

func (a *storeAdapter) UploadKeywordBatch(ctx context.Context, records []Record, campaignName, templateType string) (int, error) {
	return a.svc.UploadBatch(ctx, a.tenantID, records, campaignName, templateType)
}

func (a *storeAdapter) ResetKeyword(ctx context.Context, id string) error {
	return a.svc.Reset(ctx, a.tenantID, id)
}

func (a *storeAdapter) DeleteKeyword(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, a.tenantID, id)
}

func (a *storeAdapter) RequestBlogGeneration(ctx context.Context, ids []string, storeID, templateType string, autoPublish bool) (*GenerationReceipt, error) {
	return a.gen.RequestBlogGeneration(ctx, a.tenantID, ids, storeID, templateType, autoPublish)
}

// Sessions hands out one Manager per client session. Selection state lives
// in the Manager, so two browser tabs with distinct session ids do not
// interfere.
type Sessions struct {
	mu       sync.Mutex
	managers map[string]*Manager
	svc      *Service
	gen      GenerationRequester
}

func NewSessions(svc *Service, gen GenerationRequester) *Sessions {
	return &Sessions{
		managers: make(map[string]*Manager),
		svc:      svc,
		gen:      gen,
	}
}

// Get returns the session's Manager, creating it on first use. The key
// includes the tenant so a session id cannot reach across tenants.
func (s *Sessions) Get(tenantID, sessionID string) *Manager {
	key := tenantID + "/" + sessionID
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.managers[key]; ok {
		return m
	}
	m := NewManager(newStoreAdapter(s.svc, s.gen, tenantID))
	s.managers[key] = m
	return m
}

// Drop discards a session's Manager and its selection state.
func (s *Sessions) Drop(tenantID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.managers, tenantID+"/"+sessionID)
}
