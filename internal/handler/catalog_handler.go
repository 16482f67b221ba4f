package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/service"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
	"github.com/sbskhp/edu-portal-api/pkg/response"
)

type cachePurger interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogHandler exposes the read-only catalog collections as JSON.
type CatalogHandler struct {
	catalog *service.CatalogService
	cache   cachePurger
	logger  *zap.Logger
}

// NewCatalogHandler constructs the catalog handler.
func NewCatalogHandler(catalog *service.CatalogService, cache cachePurger, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalog, cache: cache, logger: logger}
}

// Courses godoc
// @Summary List course rounds
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Courses(c.Request.Context()), nil)
}

// Groups godoc
// @Summary List course groups
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/groups [get]
func (h *CatalogHandler) Groups(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Groups(c.Request.Context()), nil)
}

// Group godoc
// @Summary Get one course group
// @Tags Catalog
// @Produce json
// @Param id path string true "Round ID"
// @Success 200 {object} response.Envelope
// @Router /courses/groups/{id} [get]
func (h *CatalogHandler) Group(c *gin.Context) {
	group, ok := h.catalog.Group(c.Request.Context(), c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course group not found"))
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// FAQs godoc
// @Summary List FAQ entries
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faqs [get]
func (h *CatalogHandler) FAQs(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.FAQs(c.Request.Context()), nil)
}

// Companies godoc
// @Summary List partner companies
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /companies [get]
func (h *CatalogHandler) Companies(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Companies(c.Request.Context()), nil)
}

// Refresh godoc
// @Summary Drop memoized catalog data
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *gin.Context) {
	h.catalog.Refresh()
	// The legacy passthrough serves raw sheet payloads from Redis; a
	// refresh must drop those too or stale rows outlive the memo slots.
	if h.cache != nil {
		if err := h.cache.DeleteByPattern(c.Request.Context(), sheetCacheKeyPrefix+"*"); err != nil {
			h.logger.Warn("passthrough cache purge failed", zap.Error(err))
		}
	}
	response.NoContent(c)
}
