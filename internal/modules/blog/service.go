package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	appcfg "github.com/keywordforge/core/internal/config"
	"github.com/keywordforge/core/internal/models"
	"github.com/keywordforge/core/internal/modules/keyword"
	"github.com/keywordforge/core/internal/pkg/pagination"
	"github.com/keywordforge/core/internal/pkg/response"
	"github.com/keywordforge/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	taskTypeGenerate = "blog_generate"

	// Rough throughput used for the completion estimate shown to the user.
	perKeywordEstimate = 3 * time.Minute
)

// Stats summarizes a tenant's generated blogs.
type Stats struct {
	Total      int64 `json:"total"`
	Drafts     int64 `json:"drafts"`
	Published  int64 `json:"published"`
	Failed     int64 `json:"failed"`
	TotalWords int64 `json:"total_words"`
}

type Service struct {
	db        *gorm.DB
	keywords  *keyword.Service
	tasks     *taskqueue.Service
	drafter   Drafter
	publisher Publisher
	log       *zap.Logger

	// Bounds concurrent generation workers.
	sem chan struct{}
}

func NewService(db *gorm.DB, keywords *keyword.Service, tasks *taskqueue.Service, drafter Drafter, publisher Publisher, log *zap.Logger, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		db:        db,
		keywords:  keywords,
		tasks:     tasks,
		drafter:   drafter,
		publisher: publisher,
		log:       log,
		sem:       make(chan struct{}, workers),
	}
}

func (s *Service) scoped(ctx context.Context, tenantID string) *gorm.DB {
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
}

type generatePayload struct {
	TenantID  string `json:"tenant_id"`
	KeywordID string `json:"keyword_id"`
	StoreID   string `json:"store_id"`
}

// RequestBlogGeneration queues one generation task per eligible keyword and
// returns an acceptance receipt. Keywords move to processing here; the
// worker moves them to completed or failed.
func (s *Service) RequestBlogGeneration(ctx context.Context, tenantID string, ids []string, storeID, templateType string, autoPublish bool) (*keyword.GenerationReceipt, error) {
	store, err := s.getStore(ctx, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	if templateType == "" {
		templateType = appcfg.DefaultTemplateType
	}
	if !appcfg.IsValidTemplateType(templateType) {
		return nil, &keyword.GenerationRequestError{
			Category: keyword.FailureUnknown,
			Err:      fmt.Errorf("unknown template type %q", templateType),
		}
	}
	tpl := appcfg.TemplateOr(templateType)

	var eligible []models.KeywordModel
	err = s.scoped(ctx, tenantID).
		Where("id IN ? AND status = ? AND blog_generated = ?", ids, models.KeywordPending, false).
		Find(&eligible).Error
	if err != nil {
		return nil, &keyword.GenerationRequestError{Category: keyword.FailureServer, Err: err}
	}
	if len(eligible) == 0 {
		return nil, &keyword.GenerationRequestError{
			Category: keyword.FailureUnknown,
			Err:      errors.New("no eligible keywords in the request"),
		}
	}

	eligibleIDs := make([]string, len(eligible))
	for i := range eligible {
		eligibleIDs[i] = eligible[i].ID
	}
	if _, err := s.keywords.MarkProcessing(ctx, tenantID, eligibleIDs); err != nil {
		return nil, &keyword.GenerationRequestError{Category: keyword.FailureServer, Err: err}
	}

	publish := autoPublish || store.AutoPublish
	for i := range eligible {
		k := eligible[i]
		task, taskErr := s.tasks.Enqueue(ctx, taskTypeGenerate, generatePayload{
			TenantID:  tenantID,
			KeywordID: k.ID,
			StoreID:   store.ID,
		}, k.ID, tenantID)
		if taskErr != nil {
			s.log.Warn("enqueue generation task failed",
				zap.String("keyword_id", k.ID), zap.Error(taskErr))
		}

		taskID := ""
		if task != nil {
			taskID = task.ID
		}
		go s.generateOne(tenantID, k, store, tpl, publish, taskID)
	}

	return &keyword.GenerationReceipt{
		QueuedCount:         len(eligible),
		EstimatedCompletion: time.Now().Add(time.Duration(len(eligible)) * perKeywordEstimate),
	}, nil
}

// generateOne drafts, renders and optionally publishes one post. Runs in
// its own goroutine, detached from the request context.
func (s *Service) generateOne(tenantID string, k models.KeywordModel, store *models.StoreModel, tpl appcfg.BlogTemplate, publish bool, taskID string) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if taskID != "" {
		_ = s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")
	}

	markdown, err := s.drafter.Draft(ctx, draftSystemPrompt, buildDraftPrompt(&k, tpl))
	if err != nil {
		s.failKeyword(ctx, tenantID, &k, store.ID, taskID, fmt.Errorf("draft failed: %w", err))
		return
	}

	html, err := renderHTML(markdown)
	if err != nil {
		s.failKeyword(ctx, tenantID, &k, store.ID, taskID, fmt.Errorf("render failed: %w", err))
		return
	}

	post := models.GeneratedBlogModel{
		TenantOwned:     models.TenantOwned{TenantID: tenantID},
		KeywordID:       k.ID,
		StoreID:         store.ID,
		Title:           extractTitle(markdown, k.Keyword),
		Content:         markdown,
		MetaDescription: extractMetaDescription(markdown),
		WordCount:       countWords(markdown),
		Status:          models.BlogDraft,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		s.failKeyword(ctx, tenantID, &k, store.ID, taskID, fmt.Errorf("save draft failed: %w", err))
		return
	}

	if publish {
		if pubErr := s.publishPost(ctx, &post, store, html); pubErr != nil {
			// The draft survives; only the publish step failed.
			s.log.Warn("auto publish failed",
				zap.String("blog_id", post.ID), zap.Error(pubErr))
			_ = s.db.WithContext(ctx).Model(&post).Update("error_message", pubErr.Error()).Error
		}
	}

	if err := s.keywords.MarkCompleted(ctx, tenantID, k.ID); err != nil {
		s.log.Error("mark keyword completed failed",
			zap.String("keyword_id", k.ID), zap.Error(err))
	}
	if taskID != "" {
		_ = s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{"blog_id": post.ID}, "")
	}
	s.log.Info("blog generated",
		zap.String("keyword", k.Keyword),
		zap.String("blog_id", post.ID),
		zap.Int("word_count", post.WordCount))
}

func (s *Service) failKeyword(ctx context.Context, tenantID string, k *models.KeywordModel, storeID, taskID string, cause error) {
	s.log.Warn("blog generation failed",
		zap.String("keyword", k.Keyword), zap.Error(cause))

	failed := models.GeneratedBlogModel{
		TenantOwned:  models.TenantOwned{TenantID: tenantID},
		KeywordID:    k.ID,
		StoreID:      storeID,
		Title:        k.Keyword,
		Status:       models.BlogFailed,
		ErrorMessage: cause.Error(),
	}
	if err := s.db.WithContext(ctx).Create(&failed).Error; err != nil {
		s.log.Error("save failed blog record", zap.Error(err))
	}

	if err := s.keywords.MarkFailed(ctx, tenantID, k.ID); err != nil {
		s.log.Error("mark keyword failed", zap.String("keyword_id", k.ID), zap.Error(err))
	}
	if taskID != "" {
		_ = s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, cause.Error())
	}
}

func (s *Service) publishPost(ctx context.Context, post *models.GeneratedBlogModel, store *models.StoreModel, html string) error {
	result, err := s.publisher.Publish(ctx, store, &Article{
		Title:           post.Title,
		BodyHTML:        html,
		MetaDescription: post.MetaDescription,
		Published:       true,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"status":             models.BlogPublished,
		"shopify_article_id": result.ArticleID,
		"live_url":           result.LiveURL,
		"published_at":       now,
		"error_message":      "",
	}).Error
}

// Publish pushes an existing draft to its store.
func (s *Service) Publish(ctx context.Context, tenantID, blogID string) (*models.GeneratedBlogModel, error) {
	post, err := s.GetByID(ctx, tenantID, blogID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	if post.Status == models.BlogPublished {
		return nil, errors.New("blog is already published")
	}
	if post.Content == "" {
		return nil, errors.New("blog has no content to publish")
	}

	store, err := s.getStore(ctx, tenantID, post.StoreID)
	if err != nil {
		return nil, err
	}

	html, err := renderHTML(post.Content)
	if err != nil {
		return nil, err
	}
	if err := s.publishPost(ctx, post, store, html); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tenantID, blogID)
}

func (s *Service) getStore(ctx context.Context, tenantID, storeID string) (*models.StoreModel, error) {
	var store models.StoreModel
	err := s.scoped(ctx, tenantID).First(&store, "id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &keyword.GenerationRequestError{
			Category: keyword.FailureUnknown,
			Err:      errors.New("store not found"),
		}
	}
	if err != nil {
		return nil, &keyword.GenerationRequestError{Category: keyword.FailureServer, Err: err}
	}
	if !store.IsActive {
		return nil, &keyword.GenerationRequestError{
			Category: keyword.FailureUnknown,
			Err:      errors.New("store is inactive"),
		}
	}
	return &store, nil
}

// List returns one page of the tenant's blogs, newest first.
func (s *Service) List(ctx context.Context, tenantID string, q pagination.Query, statusFilter *models.BlogStatus) ([]models.GeneratedBlogModel, response.Pagination, error) {
	tx := s.scoped(ctx, tenantID).
		Model(&models.GeneratedBlogModel{}).
		Preload("Keyword").
		Order("created_at DESC")
	if statusFilter != nil {
		tx = tx.Where("status = ?", *statusFilter)
	}

	var items []models.GeneratedBlogModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GetByID returns one blog, or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, tenantID, id string) (*models.GeneratedBlogModel, error) {
	var post models.GeneratedBlogModel
	err := s.scoped(ctx, tenantID).Preload("Keyword").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a generated blog record. The Shopify article, if any, is
// left in place.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.scoped(ctx, tenantID).Delete(&models.GeneratedBlogModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetStats returns per-status counts and total word output.
func (s *Service) GetStats(ctx context.Context, tenantID string) (*Stats, error) {
	stats := &Stats{}
	base := func() *gorm.DB {
		return s.scoped(ctx, tenantID).Model(&models.GeneratedBlogModel{})
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.BlogDraft).Count(&stats.Drafts).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.BlogPublished).Count(&stats.Published).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.BlogFailed).Count(&stats.Failed).Error; err != nil {
		return nil, err
	}

	var totalWords *int64
	if err := base().Select("SUM(word_count)").Scan(&totalWords).Error; err != nil {
		return nil, err
	}
	if totalWords != nil {
		stats.TotalWords = *totalWords
	}
	return stats, nil
}
