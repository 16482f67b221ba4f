package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/internal/service"
	"github.com/sbskhp/edu-portal-api/pkg/config"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
)

const (
	legacyTypeCheck = "CheckApplication"

	// Key prefix shared with the catalog refresh purge.
	sheetCacheKeyPrefix = "sheet:raw:"
)

type sheetPassthrough interface {
	FetchRaw(ctx context.Context, sheet string) ([]byte, error)
}

type passthroughCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// LegacyHandler speaks the wire format of the original spreadsheet web
// app, so existing clients can point at this server unchanged. Responses
// always use HTTP 200 with success/error carried in the body, errors
// included, because that is what the legacy clients expect.
type LegacyHandler struct {
	sheets       sheetPassthrough
	cache        passthroughCache
	applications *service.ApplicationService
	metrics      *service.MetricsService
	cfg          config.SheetConfig
	logger       *zap.Logger
}

// NewLegacyHandler constructs the legacy handler.
func NewLegacyHandler(sheets sheetPassthrough, cache passthroughCache, applications *service.ApplicationService, metrics *service.MetricsService, cfg config.SheetConfig, logger *zap.Logger) *LegacyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegacyHandler{
		sheets:       sheets,
		cache:        cache,
		applications: applications,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger,
	}
}

// Get godoc
// @Summary Legacy GET endpoint
// @Description Sheet passthrough plus CheckApplication lookups, matching the original web app contract
// @Tags Legacy
// @Produce json
// @Param type query string true "Sheet name or CheckApplication"
// @Param name query string false "Applicant name (CheckApplication)"
// @Param email query string false "Applicant email (CheckApplication)"
// @Success 200 {array} dto.SheetRecord
// @Router /exec [get]
func (h *LegacyHandler) Get(c *gin.Context) {
	sheetType := c.Query("type")
	if sheetType == "" {
		c.JSON(http.StatusOK, gin.H{"error": "Missing 'type' parameter."})
		return
	}

	if sheetType == legacyTypeCheck {
		h.checkApplication(c)
		return
	}

	h.passthrough(c, sheetType)
}

func (h *LegacyHandler) checkApplication(c *gin.Context) {
	apps, err := h.applications.Lookup(c.Request.Context(), c.Query("name"), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": appErrors.FromError(err).Message})
		return
	}
	records := make([]dto.SheetRecord, 0, len(apps))
	for _, app := range apps {
		records = append(records, dto.LegacyApplicationRecord(app))
	}
	c.JSON(http.StatusOK, records)
}

func (h *LegacyHandler) passthrough(c *gin.Context, sheet string) {
	ctx := c.Request.Context()
	cacheKey := sheetCacheKeyPrefix + sheet

	if h.cfg.PassthroughCache && h.cache != nil {
		var cached json.RawMessage
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			h.logger.Warn("passthrough cache read failed", zap.Error(err))
		}
	}

	body, err := h.sheets.FetchRaw(ctx, sheet)
	if err != nil {
		h.logger.Warn("sheet passthrough failed", zap.String("sheet", sheet), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"error": appErrors.FromError(err).Message})
		return
	}

	if h.cfg.PassthroughCache && h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, json.RawMessage(body), h.cfg.PassthroughTTL); err != nil {
			h.logger.Warn("passthrough cache write failed", zap.Error(err))
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Post godoc
// @Summary Legacy POST endpoint
// @Description Apply and Cancel operations with the original success/error body
// @Tags Legacy
// @Accept json
// @Produce json
// @Param payload body dto.LegacyPostRequest true "Apply or Cancel payload"
// @Success 200 {object} dto.LegacyResult
// @Router /exec [post]
func (h *LegacyHandler) Post(c *gin.Context) {
	var req dto.LegacyPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, dto.LegacyResult{Success: false, Error: "잘못된 요청 형식입니다."})
		return
	}

	if req.Type == dto.LegacyTypeCancel {
		h.cancel(c, req)
		return
	}
	h.apply(c, req)
}

func (h *LegacyHandler) apply(c *gin.Context, req dto.LegacyPostRequest) {
	_, err := h.applications.Submit(c.Request.Context(), service.SubmitApplicationRequest{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Course:     req.Course,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Employment: req.Employment,
		Company:    req.Company,
		Position:   req.Position,
		Agree:      req.Agree,
		FormType:   req.FormType,
	})
	if err != nil {
		c.JSON(http.StatusOK, dto.LegacyResult{Success: false, Error: appErrors.FromError(err).Message})
		return
	}
	h.metrics.CountApplicationEvent("submitted")
	c.JSON(http.StatusOK, dto.LegacyResult{Success: true, Message: service.MsgApplicationReceived})
}

func (h *LegacyHandler) cancel(c *gin.Context, req dto.LegacyPostRequest) {
	_, err := h.applications.CancelByTriple(c.Request.Context(), req.Name, req.Email, req.Course, req.CancelReason)
	if err != nil {
		c.JSON(http.StatusOK, dto.LegacyResult{Success: false, Error: appErrors.FromError(err).Message})
		return
	}
	h.metrics.CountApplicationEvent("cancelled")
	c.JSON(http.StatusOK, dto.LegacyResult{Success: true, Message: service.MsgApplicationCancelled})
}
