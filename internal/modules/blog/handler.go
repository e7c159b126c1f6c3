package blog

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/keywordforge/core/internal/middleware"
	"github.com/keywordforge/core/internal/models"
	"github.com/keywordforge/core/internal/modules/keyword"
	"github.com/keywordforge/core/internal/pkg/pagination"
	"github.com/keywordforge/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blogs", authMW)

	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)

	g.POST("/generate", h.generate)
	g.POST("/:id/publish", h.publish)
	g.DELETE("/:id", h.delete)
}

// GET /blogs?page=&size=&status=
func (h *Handler) list(c *gin.Context) {
	tenantID := middleware.CurrentTenantID(c)
	q := pagination.FromContext(c)

	var statusFilter *models.BlogStatus
	if raw := c.Query("status"); raw != "" {
		status := models.BlogStatus(raw)
		switch status {
		case models.BlogDraft, models.BlogPublished, models.BlogFailed:
			statusFilter = &status
		default:
			response.BadRequest(c, "unknown status filter")
			return
		}
	}

	items, pag, err := h.svc.List(c.Request.Context(), tenantID, q, statusFilter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /blogs/stats
func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

// GET /blogs/:id
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c, "blog not found")
		return
	}
	response.OK(c, post)
}

// POST /blogs/generate
func (h *Handler) generate(c *gin.Context) {
	var dto GenerateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.svc.RequestBlogGeneration(
		c.Request.Context(),
		middleware.CurrentTenantID(c),
		dto.KeywordIDs, dto.StoreID, dto.TemplateType, dto.AutoPublish,
	)
	if err != nil {
		var ge *keyword.GenerationRequestError
		if errors.As(err, &ge) && ge.Category != keyword.FailureServer {
			response.BadRequest(c, ge.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, receipt)
}

// POST /blogs/:id/publish
func (h *Handler) publish(c *gin.Context) {
	post, err := h.svc.Publish(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if post == nil {
		response.NotFound(c, "blog not found")
		return
	}
	response.OK(c, post)
}

// DELETE /blogs/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "blog not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
