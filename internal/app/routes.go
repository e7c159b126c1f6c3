package app

import (
	"github.com/gin-gonic/gin"
	"github.com/keywordforge/core/internal/middleware"
	"github.com/keywordforge/core/internal/modules/blog"
	"github.com/keywordforge/core/internal/modules/keyword"
	"github.com/keywordforge/core/internal/modules/store"
	"github.com/keywordforge/core/internal/pkg/response"
	"github.com/keywordforge/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(tasks *taskqueue.Service) {
	authMW := middleware.Auth(a.cfg.JWTSecret, a.cfg.IsDev())
	api := a.router.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	drafter, err := blog.NewDrafter(a.cfg.OpenAI)
	if err != nil {
		a.logger.Warn("blog drafter unavailable", zap.Error(err))
		drafter = blog.NewUnavailableDrafter(err)
	}
	publisher := blog.NewShopifyPublisher(a.cfg.Shopify.APIVersion)

	keywordSvc := keyword.NewService(a.db, a.cfg.Limits.MaxKeywordsPerUpload)
	blogSvc := blog.NewService(a.db, keywordSvc, tasks, drafter, publisher, a.logger, a.cfg.Generation.Workers)
	storeSvc := store.NewService(a.db)

	staging := keyword.NewStaging()
	sessions := keyword.NewSessions(keywordSvc, blogSvc)

	keyword.NewHandler(keywordSvc, staging, sessions, a.cfg.MaxUploadSizeBytes()).RegisterRoutes(api, authMW)
	blog.NewHandler(blogSvc).RegisterRoutes(api, authMW)
	store.NewHandler(storeSvc).RegisterRoutes(api, authMW)

	a.registerTaskRoutes(api, authMW, tasks)
	a.registerCronRoutes(api, authMW)
}

// Task inspection endpoints, backed by the Redis queue.
func (a *App) registerTaskRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, tasks *taskqueue.Service) {
	g := rg.Group("/tasks", authMW)

	g.GET("", func(c *gin.Context) {
		var taskType *string
		if raw := c.Query("type"); raw != "" {
			taskType = &raw
		}
		var status *taskqueue.TaskStatus
		if raw := c.Query("status"); raw != "" {
			st := taskqueue.TaskStatus(raw)
			status = &st
		}

		items, total, err := tasks.List(c.Request.Context(), 1, 100, taskType, status)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{"tasks": items, "total": total})
	})

	g.GET("/:id", func(c *gin.Context) {
		task, err := tasks.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if task == nil {
			response.NotFound(c, "task not found")
			return
		}
		response.OK(c, task)
	})
}

// Cron inspection and manual trigger endpoints.
func (a *App) registerCronRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/cron", authMW)

	g.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})

	g.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFound(c, err.Error())
			return
		}
		response.OK(c, gin.H{"triggered": true})
	})
}
