package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/pkg/config"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
)

// SheetRepository fetches collections from the upstream spreadsheet web
// app. The upstream speaks a single GET endpoint keyed by a type query
// parameter and returns either a JSON array of row objects or an object
// with an "error" field; it never uses HTTP status codes for application
// errors, so both shapes must be inspected.
type SheetRepository struct {
	endpoint string
	client   *http.Client
	metrics  fetchObserver
	logger   *zap.Logger
}

type fetchObserver interface {
	ObserveSheetFetch(sheet string, duration time.Duration, err error)
}

// NewSheetRepository constructs a SheetRepository.
func NewSheetRepository(cfg config.SheetConfig, metrics fetchObserver, logger *zap.Logger) *SheetRepository {
	return &SheetRepository{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		metrics:  metrics,
		logger:   logger,
	}
}

// FetchRaw performs the upstream request for a sheet and returns the
// response body as-is. Used by the passthrough endpoint, which must not
// reshape the payload. Every upstream round trip, whatever the caller,
// is timed here.
func (r *SheetRepository) FetchRaw(ctx context.Context, sheet string) ([]byte, error) {
	sheet = canonicalSheet(sheet)
	start := time.Now()
	body, err := r.fetchRaw(ctx, sheet)
	if r.metrics != nil {
		r.metrics.ObserveSheetFetch(sheet, time.Since(start), err)
	}
	return body, err
}

func (r *SheetRepository) fetchRaw(ctx context.Context, sheet string) ([]byte, error) {
	if r.endpoint == "" {
		return nil, appErrors.ErrSheetUnavailable
	}

	reqURL := fmt.Sprintf("%s?type=%s", r.endpoint, url.QueryEscape(sheet))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSheetUnavailable.Code, appErrors.ErrSheetUnavailable.Status, appErrors.ErrSheetUnavailable.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Wrap(fmt.Errorf("upstream status %d", resp.StatusCode), appErrors.ErrSheetUnavailable.Code, appErrors.ErrSheetUnavailable.Status, appErrors.ErrSheetUnavailable.Message)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet response: %w", err)
	}
	return body, nil
}

// Fetch retrieves a sheet and decodes it into records. An upstream
// error object surfaces as ErrSheetUnavailable (an unknown sheet name as
// ErrUnknownSheet); cell values of any JSON type are coerced to strings.
func (r *SheetRepository) Fetch(ctx context.Context, sheet string) ([]dto.SheetRecord, error) {
	body, err := r.FetchRaw(ctx, sheet)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err == nil {
		records := make([]dto.SheetRecord, 0, len(rows))
		for _, row := range rows {
			rec := make(dto.SheetRecord, len(row))
			for k, v := range row {
				rec[k] = coerceCell(v)
			}
			records = append(records, rec)
		}
		return records, nil
	}

	var errObj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errObj); err == nil && errObj.Error != "" {
		r.logger.Warn("upstream sheet returned error", zap.String("sheet", sheet), zap.String("error", errObj.Error))
		if strings.Contains(strings.ToLower(errObj.Error), "not found") {
			return nil, appErrors.ErrUnknownSheet
		}
		return nil, appErrors.ErrSheetUnavailable
	}

	return nil, appErrors.Wrap(fmt.Errorf("unexpected sheet payload for %s", sheet), appErrors.ErrSheetUnavailable.Code, appErrors.ErrSheetUnavailable.Status, appErrors.ErrSheetUnavailable.Message)
}

// canonicalSheet maps a sheet name onto the upstream's exact spelling.
// The upstream matches sheet names verbatim, so "faq" or " Education "
// would otherwise come back as a not-found error.
func canonicalSheet(sheet string) string {
	trimmed := strings.TrimSpace(sheet)
	for _, known := range []string{dto.SheetEducation, dto.SheetFAQ, dto.SheetCompanies} {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	return trimmed
}

// coerceCell renders any JSON cell value as a string. Spreadsheet numeric
// cells arrive as float64 even when they hold integers.
func coerceCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
