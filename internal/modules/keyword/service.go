package keyword

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keywordforge/core/internal/config"
	"github.com/keywordforge/core/internal/models"
	"github.com/keywordforge/core/internal/pkg/pagination"
	"github.com/keywordforge/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Stats summarizes a tenant's keyword inventory.
type Stats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	Processing     int64 `json:"processing"`
	Completed      int64 `json:"completed"`
	Failed         int64 `json:"failed"`
	BlogsGenerated int64 `json:"blogs_generated"`
}

type Service struct {
	db           *gorm.DB
	maxPerUpload int
}

func NewService(db *gorm.DB, maxPerUpload int) *Service {
	return &Service{db: db, maxPerUpload: maxPerUpload}
}

func (s *Service) scoped(ctx context.Context, tenantID string) *gorm.DB {
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
}

// FetchKeywords returns all keywords for the tenant, unsorted.
func (s *Service) FetchKeywords(ctx context.Context, tenantID string) ([]models.KeywordModel, error) {
	var items []models.KeywordModel
	err := s.scoped(ctx, tenantID).Find(&items).Error
	return items, err
}

// ListSorted returns one page of the tenant's keywords in display order.
// The full set is sorted in memory because the ordering is a bucket policy,
// not a single column.
func (s *Service) ListSorted(ctx context.Context, tenantID string, q pagination.Query, statusFilter *models.KeywordStatus) ([]models.KeywordModel, response.Pagination, error) {
	all, err := s.FetchKeywords(ctx, tenantID)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	if statusFilter != nil {
		filtered := all[:0]
		for _, k := range all {
			if k.Status == *statusFilter {
				filtered = append(filtered, k)
			}
		}
		all = filtered
	}

	sorted := SortForDisplay(all)

	total := int64(len(sorted))
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	start := (q.Page - 1) * q.Size
	end := start + q.Size
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return sorted[start:end], response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

// GetByID returns one keyword, or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, tenantID, id string) (*models.KeywordModel, error) {
	var k models.KeywordModel
	err := s.scoped(ctx, tenantID).First(&k, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// UploadBatch persists a normalized batch as pending keywords, skipping
// terms the tenant already has (case-insensitive). Returns how many rows
// were actually added.
func (s *Service) UploadBatch(ctx context.Context, tenantID string, records []Record, campaignName, templateType string) (int, error) {
	if len(records) == 0 {
		return 0, &UploadError{Category: FailureUnknown, Err: errors.New("batch is empty")}
	}
	if len(records) > s.maxPerUpload {
		return 0, &UploadError{
			Category: FailureUnknown,
			Err:      fmt.Errorf("batch of %d exceeds the limit of %d keywords", len(records), s.maxPerUpload),
		}
	}
	if templateType == "" {
		templateType = config.DefaultTemplateType
	}
	if !config.IsValidTemplateType(templateType) {
		return 0, &UploadError{Category: FailureUnknown, Err: fmt.Errorf("unknown template type %q", templateType)}
	}

	var campaignID *string
	if strings.TrimSpace(campaignName) != "" {
		campaign, err := s.findOrCreateCampaign(ctx, tenantID, strings.TrimSpace(campaignName), templateType)
		if err != nil {
			return 0, &UploadError{Category: FailureServer, Err: err}
		}
		campaignID = &campaign.ID
	}

	existing, err := s.existingTermsLower(ctx, tenantID)
	if err != nil {
		return 0, &UploadError{Category: FailureServer, Err: err}
	}

	var rows []models.KeywordModel
	for _, rec := range records {
		key := strings.ToLower(rec.Text)
		if _, dup := existing[key]; dup {
			continue
		}
		existing[key] = struct{}{}
		rows = append(rows, models.KeywordModel{
			TenantOwned:       models.TenantOwned{TenantID: tenantID},
			CampaignID:        campaignID,
			Keyword:           rec.Text,
			SearchVolume:      rec.SearchVolume,
			KeywordDifficulty: rec.Difficulty,
			Category:          rec.Category,
			Status:            models.KeywordPending,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
		return 0, &UploadError{Category: FailureServer, Err: err}
	}
	return len(rows), nil
}

func (s *Service) findOrCreateCampaign(ctx context.Context, tenantID, name, templateType string) (*models.CampaignModel, error) {
	var campaign models.CampaignModel
	err := s.scoped(ctx, tenantID).Where("name = ?", name).First(&campaign).Error
	if err == nil {
		return &campaign, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tpl := config.TemplateOr(templateType)
	campaign = models.CampaignModel{
		TenantOwned:  models.TenantOwned{TenantID: tenantID},
		Name:         name,
		TemplateType: templateType,
		MinWords:     tpl.MinWords,
		FAQCount:     tpl.FAQCount,
	}
	return &campaign, s.db.WithContext(ctx).Create(&campaign).Error
}

func (s *Service) existingTermsLower(ctx context.Context, tenantID string) (map[string]struct{}, error) {
	var terms []string
	if err := s.scoped(ctx, tenantID).Model(&models.KeywordModel{}).Pluck("keyword", &terms).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set, nil
}

// ListCampaigns returns the tenant's campaigns, newest first.
func (s *Service) ListCampaigns(ctx context.Context, tenantID string) ([]models.CampaignModel, error) {
	var items []models.CampaignModel
	err := s.scoped(ctx, tenantID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// CreateCampaign creates a campaign, deriving word and FAQ targets from the
// chosen template.
func (s *Service) CreateCampaign(ctx context.Context, tenantID string, dto *CreateCampaignDTO) (*models.CampaignModel, error) {
	templateType := dto.TemplateType
	if templateType == "" {
		templateType = config.DefaultTemplateType
	}
	if !config.IsValidTemplateType(templateType) {
		return nil, fmt.Errorf("unknown template type %q", templateType)
	}

	var existing models.CampaignModel
	err := s.scoped(ctx, tenantID).Where("name = ?", dto.Name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("campaign %q already exists", dto.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tpl := config.TemplateOr(templateType)
	campaign := models.CampaignModel{
		TenantOwned:  models.TenantOwned{TenantID: tenantID},
		Name:         dto.Name,
		Description:  dto.Description,
		TemplateType: templateType,
		MinWords:     tpl.MinWords,
		FAQCount:     tpl.FAQCount,
		AutoGenerate: dto.AutoGenerate,
	}
	return &campaign, s.db.WithContext(ctx).Create(&campaign).Error
}

// Reset forces a failed keyword back to pending so it can be queued again.
func (s *Service) Reset(ctx context.Context, tenantID, id string) error {
	k, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return &ResetError{ID: id, Category: FailureServer, Err: err}
	}
	if k == nil {
		return &ResetError{ID: id, Category: FailureUnknown, Err: errNotFound}
	}
	if k.Status != models.KeywordFailed {
		return &ResetError{ID: id, Category: FailureUnknown, Err: errNotFailed}
	}

	err = s.db.WithContext(ctx).Model(k).Updates(map[string]interface{}{
		"status":         models.KeywordPending,
		"blog_generated": false,
		"processed_at":   nil,
	}).Error
	if err != nil {
		return &ResetError{ID: id, Category: FailureServer, Err: err}
	}
	return nil
}

// MarkProcessing transitions keywords to processing when a generation batch
// is accepted. Only eligible keywords are flipped.
func (s *Service) MarkProcessing(ctx context.Context, tenantID string, ids []string) (int64, error) {
	res := s.scoped(ctx, tenantID).
		Model(&models.KeywordModel{}).
		Where("id IN ? AND status = ? AND blog_generated = ?", ids, models.KeywordPending, false).
		Update("status", models.KeywordProcessing)
	return res.RowsAffected, res.Error
}

// MarkCompleted records a successful generation for one keyword.
func (s *Service) MarkCompleted(ctx context.Context, tenantID, id string) error {
	now := time.Now()
	return s.scoped(ctx, tenantID).
		Model(&models.KeywordModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.KeywordCompleted,
			"blog_generated": true,
			"processed_at":   now,
		}).Error
}

// MarkFailed records a failed generation for one keyword.
func (s *Service) MarkFailed(ctx context.Context, tenantID, id string) error {
	now := time.Now()
	return s.scoped(ctx, tenantID).
		Model(&models.KeywordModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.KeywordFailed,
			"processed_at": now,
		}).Error
}

// Delete removes one keyword permanently.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.scoped(ctx, tenantID).Delete(&models.KeywordModel{}, "id = ?", id)
	if res.Error != nil {
		return &DeleteError{Category: FailureServer, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &DeleteError{Category: FailureUnknown, Err: errNotFound}
	}
	return nil
}

// BulkDelete removes keywords one by one and reports partial success.
func (s *Service) BulkDelete(ctx context.Context, tenantID string, ids []string) *BulkDeleteResult {
	result := &BulkDeleteResult{}
	for _, id := range ids {
		if err := s.Delete(ctx, tenantID, id); err != nil {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.DeletedCount++
	}
	return result
}

// GetStats returns per-status counts for the tenant.
func (s *Service) GetStats(ctx context.Context, tenantID string) (*Stats, error) {
	stats := &Stats{}
	base := func() *gorm.DB {
		return s.scoped(ctx, tenantID).Model(&models.KeywordModel{})
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status models.KeywordStatus
		N      int64
	}
	var counts []statusCount
	if err := base().Select("status, COUNT(*) AS n").Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, sc := range counts {
		switch sc.Status {
		case models.KeywordPending:
			stats.Pending = sc.N
		case models.KeywordProcessing:
			stats.Processing = sc.N
		case models.KeywordCompleted:
			stats.Completed = sc.N
		case models.KeywordFailed:
			stats.Failed = sc.N
		}
	}

	err := base().Where("blog_generated = ?", true).Count(&stats.BlogsGenerated).Error
	return stats, err
}
