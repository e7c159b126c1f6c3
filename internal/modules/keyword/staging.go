package keyword

import (
	"sync"
	"time"
)

// Batch is a normalized, not-yet-uploaded set of keywords plus the metadata
// the user attached to it.
type Batch struct {
	Records      []Record  `json:"records"`
	CampaignName string    `json:"campaign_name,omitempty"`
	TemplateType string    `json:"template_type,omitempty"`
	Mode         Mode      `json:"mode"`
	ParsedAt     time.Time `json:"parsed_at"`
}

// Staging holds per-session staged batches for preview before commit. A
// failed commit leaves the batch intact so it can be resubmitted.
type Staging struct {
	mu      sync.RWMutex
	batches map[string]*Batch
}

func NewStaging() *Staging {
	return &Staging{batches: make(map[string]*Batch)}
}

// Replace swaps the session's staged batch for a new one.
func (s *Staging) Replace(sessionID string, batch *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[sessionID] = batch
}

// Get returns the session's staged batch, or nil.
func (s *Staging) Get(sessionID string) *Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches[sessionID]
}

// Clear drops the session's staged batch. Called after a successful commit
// or when the user switches campaign or input mode.
func (s *Staging) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, sessionID)
}
