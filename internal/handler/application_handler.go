package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/internal/service"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
	"github.com/sbskhp/edu-portal-api/pkg/response"
)

// ApplicationHandler exposes the typed application endpoints: the public
// submit/lookup/cancel flow and the authenticated back-office workflow.
type ApplicationHandler struct {
	applications *service.ApplicationService
	exports      *service.ExportService
	metrics      *service.MetricsService
}

// NewApplicationHandler constructs the application handler.
func NewApplicationHandler(applications *service.ApplicationService, exports *service.ExportService, metrics *service.MetricsService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, exports: exports, metrics: metrics}
}

// Submit godoc
// @Summary Submit an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountApplicationEvent("submitted")
	response.Created(c, app)
}

// Lookup godoc
// @Summary Look up applications by name and email
// @Tags Applications
// @Produce json
// @Param name query string true "Applicant name"
// @Param email query string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Router /applications/lookup [get]
func (h *ApplicationHandler) Lookup(c *gin.Context) {
	apps, err := h.applications.Lookup(c.Request.Context(), c.Query("name"), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel godoc
// @Summary Cancel an application by id
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body cancelRequest false "Cancel reason"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/cancel [post]
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	app, err := h.applications.CancelByID(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountApplicationEvent("cancelled")
	response.JSON(c, http.StatusOK, app, nil)
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param course query string false "Filter by course title"
// @Param status query string false "Filter by status"
// @Param search query string false "Search name, email or company"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter models.ApplicationFilter
	filter.Course = strings.TrimSpace(c.Query("course"))
	filter.Status = models.ApplicationStatus(strings.TrimSpace(c.Query("status")))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	apps, pagination, err := h.applications.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, pagination)
}

// Get godoc
// @Summary Get one application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /admin/applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

type updateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update application status
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body updateStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /admin/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	app, err := h.applications.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Export godoc
// @Summary Export the application roster
// @Tags Applications
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Param course query string false "Filter by course title"
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Router /admin/applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	var filter models.ApplicationFilter
	filter.Course = strings.TrimSpace(c.Query("course"))
	filter.Status = models.ApplicationStatus(strings.TrimSpace(c.Query("status")))

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Applications(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
