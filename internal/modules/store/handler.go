package store

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/keywordforge/core/internal/middleware"
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
	g := rg.Group("/stores", authMW)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /stores
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /stores/:id
func (h *Handler) get(c *gin.Context) {
	store, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if store == nil {
		response.NotFound(c, "store not found")
		return
	}
	response.OK(c, store)
}

// POST /stores
func (h *Handler) create(c *gin.Context) {
	var dto CreateStoreDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	store, err := h.svc.Create(c.Request.Context(), middleware.CurrentTenantID(c), &dto)
	if err != nil {
		if errors.Is(err, errDuplicateStore) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, store)
}

// PUT /stores/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdateStoreDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	store, err := h.svc.Update(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if store == nil {
		response.NotFound(c, "store not found")
		return
	}
	response.OK(c, store)
}

// DELETE /stores/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "store not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
