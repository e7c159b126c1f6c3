package keyword

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keywordforge/core/internal/middleware"
	"github.com/keywordforge/core/internal/models"
	"github.com/keywordforge/core/internal/pkg/pagination"
	"github.com/keywordforge/core/internal/pkg/response"
)

const sessionHeader = "X-Session-ID"

// csvTemplate is the downloadable upload template.
const csvTemplate = "keyword,search_volume,category,keyword_difficulty\n" +
	"CBD gummies for pain,18100,Pain Relief,45\n"

type Handler struct {
	svc            *Service
	staging        *Staging
	sessions       *Sessions
	maxUploadBytes int64
}

func NewHandler(svc *Service, staging *Staging, sessions *Sessions, maxUploadBytes int64) *Handler {
	return &Handler{
		svc:            svc,
		staging:        staging,
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/keywords", authMW)

	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/template.csv", h.template)

	g.POST("/parse", h.parse)
	g.POST("/parse/file", h.parseFile)
	g.GET("/staging", h.stagingGet)
	g.DELETE("/staging", h.stagingClear)
	g.POST("/staging/commit", h.stagingCommit)
	g.POST("/upload", h.upload)

	g.GET("/selection", h.selectionGet)
	g.DELETE("/selection", h.selectionClear)
	g.POST("/selection/all", h.selectAll)
	g.POST("/selection/:id", h.selectOne)
	g.DELETE("/selection/:id", h.deselectOne)

	g.POST("/generate", h.generate)
	g.POST("/poll", h.poll)
	g.POST("/retry-failed", h.retryAllFailed)
	g.POST("/bulk-delete", h.bulkDelete)
	g.POST("/:id/reset", h.reset)
	g.POST("/:id/retry", h.retry)
	g.DELETE("/:id", h.delete)

	g.GET("/campaigns", h.listCampaigns)
	g.POST("/campaigns", h.createCampaign)
}

// bindOptional binds JSON only when a body is present, so action endpoints
// can be called bare.
func bindOptional(c *gin.Context, dto interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dto)
}

// sessionKey returns the tenant id and the composite staging key for the
// request's session.
func (h *Handler) sessionKey(c *gin.Context) (tenantID, key string) {
	tenantID = middleware.CurrentTenantID(c)
	sessionID := strings.TrimSpace(c.GetHeader(sessionHeader))
	if sessionID == "" {
		sessionID = "default"
	}
	return tenantID, tenantID + "/" + sessionID
}

func (h *Handler) manager(c *gin.Context) *Manager {
	tenantID := middleware.CurrentTenantID(c)
	sessionID := strings.TrimSpace(c.GetHeader(sessionHeader))
	if sessionID == "" {
		sessionID = "default"
	}
	return h.sessions.Get(tenantID, sessionID)
}

// GET /keywords?page=&size=&status=
func (h *Handler) list(c *gin.Context) {
	tenantID := middleware.CurrentTenantID(c)
	q := pagination.FromContext(c)

	var statusFilter *models.KeywordStatus
	if raw := c.Query("status"); raw != "" {
		status := models.KeywordStatus(raw)
		switch status {
		case models.KeywordPending, models.KeywordProcessing, models.KeywordCompleted, models.KeywordFailed:
			statusFilter = &status
		default:
			response.BadRequest(c, "unknown status filter")
			return
		}
	}

	items, pag, err := h.svc.ListSorted(c.Request.Context(), tenantID, q, statusFilter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /keywords/stats
func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

// GET /keywords/template.csv
func (h *Handler) template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="keyword_template.csv"`)
	c.Data(200, "text/csv; charset=utf-8", []byte(csvTemplate))
}

// POST /keywords/parse
func (h *Handler) parse(c *gin.Context) {
	var dto ParseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	mode := ModeLines
	if strings.EqualFold(dto.Mode, "csv") {
		mode = ModeCSV
	}

	h.stage(c, dto.Raw, mode, dto.CampaignName, dto.TemplateType)
}

// POST /keywords/parse/file — multipart CSV upload into staging
func (h *Handler) parseFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		response.BadRequest(c, "file exceeds the upload size limit")
		return
	}
	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if int64(len(content)) > h.maxUploadBytes {
		response.BadRequest(c, "file exceeds the upload size limit")
		return
	}

	h.stage(c, string(content), ModeCSV, c.PostForm("campaign_name"), c.PostForm("template_type"))
}

func (h *Handler) stage(c *gin.Context, raw string, mode Mode, campaignName, templateType string) {
	parsed, err := Parse(raw, mode)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			response.BadRequest(c, pe.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	normalized, err := Normalize(parsed)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			response.UnprocessableEntity(c, ve.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	_, key := h.sessionKey(c)
	batch := &Batch{
		Records:      normalized,
		CampaignName: campaignName,
		TemplateType: templateType,
		Mode:         mode,
		ParsedAt:     time.Now(),
	}
	h.staging.Replace(key, batch)
	response.OK(c, batch)
}

// GET /keywords/staging
func (h *Handler) stagingGet(c *gin.Context) {
	_, key := h.sessionKey(c)
	batch := h.staging.Get(key)
	if batch == nil {
		response.NotFound(c, "no staged batch")
		return
	}
	response.OK(c, batch)
}

// DELETE /keywords/staging
func (h *Handler) stagingClear(c *gin.Context) {
	_, key := h.sessionKey(c)
	h.staging.Clear(key)
	response.NoContent(c)
}

// POST /keywords/staging/commit
func (h *Handler) stagingCommit(c *gin.Context) {
	tenantID, key := h.sessionKey(c)
	batch := h.staging.Get(key)
	if batch == nil {
		response.BadRequest(c, "no staged batch to commit")
		return
	}

	added, err := h.svc.UploadBatch(c.Request.Context(), tenantID, batch.Records, batch.CampaignName, batch.TemplateType)
	if err != nil {
		// The batch stays staged so the user can resubmit.
		h.uploadError(c, err)
		return
	}
	h.staging.Clear(key)
	response.OK(c, gin.H{"added_count": added})
}

// POST /keywords/upload — direct upload without staging
func (h *Handler) upload(c *gin.Context) {
	var dto UploadDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	normalized, err := Normalize(dto.Records)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			response.UnprocessableEntity(c, ve.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	tenantID := middleware.CurrentTenantID(c)
	added, err := h.svc.UploadBatch(c.Request.Context(), tenantID, normalized, dto.CampaignName, dto.TemplateType)
	if err != nil {
		h.uploadError(c, err)
		return
	}
	response.OK(c, gin.H{"added_count": added})
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	var ue *UploadError
	if errors.As(err, &ue) && ue.Category == FailureUnknown {
		response.BadRequest(c, ue.Error())
		return
	}
	response.InternalError(c, err)
}

// GET /keywords/selection
func (h *Handler) selectionGet(c *gin.Context) {
	response.OK(c, gin.H{"ids": h.manager(c).Selected()})
}

// DELETE /keywords/selection
func (h *Handler) selectionClear(c *gin.Context) {
	h.manager(c).ClearSelection()
	response.NoContent(c)
}

// POST /keywords/selection/all
func (h *Handler) selectAll(c *gin.Context) {
	var dto SelectAllDTO
	if err := bindOptional(c, &dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m := h.manager(c)
	if err := m.Refresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	count := m.SelectAll(dto.EligibleOnly)
	response.OK(c, gin.H{"selected_count": count})
}

// POST /keywords/selection/:id
func (h *Handler) selectOne(c *gin.Context) {
	m := h.manager(c)
	if err := m.Refresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	if !m.Select(c.Param("id")) {
		response.NotFound(c, "keyword not found")
		return
	}
	response.NoContent(c)
}

// DELETE /keywords/selection/:id
func (h *Handler) deselectOne(c *gin.Context) {
	h.manager(c).Deselect(c.Param("id"))
	response.NoContent(c)
}

// POST /keywords/generate
func (h *Handler) generate(c *gin.Context) {
	var dto GenerateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m := h.manager(c)
	ids := dto.IDs
	if len(ids) == 0 {
		ids = m.Selected()
	}

	receipt, err := m.RequestGeneration(c.Request.Context(), ids, dto.StoreID, dto.TemplateType, dto.AutoPublish)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}
	m.ClearSelection()
	response.OK(c, receipt)
}

// POST /keywords/poll — refresh unless one is already in flight
func (h *Handler) poll(c *gin.Context) {
	m := h.manager(c)
	ran, err := m.Poll(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"refreshed": ran, "keywords": m.ListSorted()})
}

// POST /keywords/:id/reset
func (h *Handler) reset(c *gin.Context) {
	tenantID := middleware.CurrentTenantID(c)
	if err := h.svc.Reset(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.lifecycleError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /keywords/:id/retry
func (h *Handler) retry(c *gin.Context) {
	var dto RetryDTO
	if err := bindOptional(c, &dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m := h.manager(c)
	if err := m.Refresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	receipt, err := m.Retry(c.Request.Context(), c.Param("id"), dto.StoreID, dto.TemplateType, dto.AutoPublish)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}
	response.OK(c, receipt)
}

// POST /keywords/retry-failed
func (h *Handler) retryAllFailed(c *gin.Context) {
	var dto RetryDTO
	if err := bindOptional(c, &dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.manager(c).RetryAllFailed(c.Request.Context(), dto.StoreID, dto.TemplateType, dto.AutoPublish)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}
	response.OK(c, result)
}

// DELETE /keywords/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.manager(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.lifecycleError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /keywords/bulk-delete
func (h *Handler) bulkDelete(c *gin.Context) {
	var dto BulkDeleteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.manager(c).BulkDelete(c.Request.Context(), dto.IDs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}

// GET /keywords/campaigns
func (h *Handler) listCampaigns(c *gin.Context) {
	items, err := h.svc.ListCampaigns(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /keywords/campaigns
func (h *Handler) createCampaign(c *gin.Context) {
	var dto CreateCampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	campaign, err := h.svc.CreateCampaign(c.Request.Context(), middleware.CurrentTenantID(c), &dto)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, campaign)
}

func (h *Handler) lifecycleError(c *gin.Context, err error) {
	var (
		re *ResetError
		ge *GenerationRequestError
		de *DeleteError
	)
	switch {
	case errors.As(err, &re):
		if errors.Is(re.Err, errNotFound) {
			response.NotFound(c, re.Error())
			return
		}
		if errors.Is(re.Err, errNotFailed) {
			response.UnprocessableEntity(c, re.Error())
			return
		}
	case errors.As(err, &ge):
		if errors.Is(ge.Err, errNoStore) || errors.Is(ge.Err, errNoKeywords) {
			response.BadRequest(c, ge.Error())
			return
		}
	case errors.As(err, &de):
		if errors.Is(de.Err, errNotFound) {
			response.NotFound(c, de.Error())
			return
		}
	}
	response.InternalError(c, err)
}
