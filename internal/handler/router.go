package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sbskhp/edu-portal-api/internal/middleware"
	"github.com/sbskhp/edu-portal-api/internal/render"
	"github.com/sbskhp/edu-portal-api/internal/service"
	"github.com/sbskhp/edu-portal-api/pkg/config"
)

// Router bundles every handler and mounts them on a gin engine.
type Router struct {
	Pages        *PageHandler
	Legacy       *LegacyHandler
	Catalog      *CatalogHandler
	Applications *ApplicationHandler
	Auth         *AuthHandler

	auth    *service.AuthService
	metrics *service.MetricsService
	cfg     *config.Config
}

// NewRouter constructs the route table.
func NewRouter(pages *PageHandler, legacy *LegacyHandler, catalog *CatalogHandler, applications *ApplicationHandler, auth *AuthHandler, authSvc *service.AuthService, metrics *service.MetricsService, cfg *config.Config) *Router {
	return &Router{
		Pages:        pages,
		Legacy:       legacy,
		Catalog:      catalog,
		Applications: applications,
		Auth:         auth,
		auth:         authSvc,
		metrics:      metrics,
		cfg:          cfg,
	}
}

// Register mounts all routes. The legacy /exec endpoint lives outside the
// API prefix because its path is fixed by the clients it serves.
func (rt *Router) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(rt.metrics.Handler()))

	r.GET("/", rt.Pages.Serve)
	r.StaticFS("/static", render.StaticFS())

	r.GET("/exec", rt.Legacy.Get)
	r.POST("/exec", rt.Legacy.Post)

	api := r.Group(rt.cfg.APIPrefix)
	{
		api.GET("/courses", rt.Catalog.Courses)
		api.GET("/courses/groups", rt.Catalog.Groups)
		api.GET("/courses/groups/:id", rt.Catalog.Group)
		api.GET("/faqs", rt.Catalog.FAQs)
		api.GET("/companies", rt.Catalog.Companies)

		api.POST("/applications", rt.Applications.Submit)
		api.GET("/applications/lookup", rt.Applications.Lookup)
		api.POST("/applications/:id/cancel", rt.Applications.Cancel)

		api.POST("/auth/login", rt.Auth.Login)

		authed := api.Group("", middleware.JWT(rt.auth))
		{
			authed.GET("/auth/me", rt.Auth.Me)
			authed.POST("/catalog/refresh", rt.Catalog.Refresh)

			admin := authed.Group("/admin", middleware.RequireAdmin())
			{
				admin.GET("/applications", rt.Applications.List)
				admin.GET("/applications/export", rt.Applications.Export)
				admin.GET("/applications/:id", rt.Applications.Get)
				admin.PATCH("/applications/:id/status", rt.Applications.UpdateStatus)
			}
		}
	}
}
