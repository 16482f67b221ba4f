package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/internal/render"
	"github.com/sbskhp/edu-portal-api/internal/route"
	"github.com/sbskhp/edu-portal-api/internal/service"
)

// PageHandler serves the server-rendered portal pages.
type PageHandler struct {
	catalog  *service.CatalogService
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewPageHandler constructs the page handler.
func NewPageHandler(catalog *service.CatalogService, renderer *render.Renderer, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{catalog: catalog, renderer: renderer, logger: logger}
}

// Serve renders the page addressed by the request URL. Every portal page
// hangs off "/" with the page selected by query parameter, so old
// bookmarks keep working.
func (h *PageHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()
	state := route.Parse(c.Request.URL)

	data := render.PageData{State: state}

	switch state.Page {
	case route.PageHome:
		data.OpenCourses = h.catalog.OpenCourses(ctx)
		data.Companies = h.catalog.Companies(ctx)
	case route.PageSchedule:
		data.Groups = h.catalog.Groups(ctx)
	case route.PageCatalog:
		data.Groups = h.catalog.Groups(ctx)
		data.StatusFilter = models.CourseStatus(c.Query("status"))
		if state.Detail != "" {
			if group, ok := service.FindGroup(data.Groups, state.Detail); ok {
				data.Detail = &group
			}
		}
	case route.PageApply:
		data.OpenCourses = h.catalog.OpenCourses(ctx)
	case route.PageFAQ:
		data.FAQs = h.catalog.FAQs(ctx)
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(c.Writer, data); err != nil {
		h.logger.Error("page render failed", zap.String("page", string(state.Page)), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
	}
}
