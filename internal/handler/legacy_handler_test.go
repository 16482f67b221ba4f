package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/internal/service"
	"github.com/sbskhp/edu-portal-api/pkg/config"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
)

// memApplicationRepo is an in-memory application store for handler tests.
type memApplicationRepo struct {
	mu   sync.Mutex
	apps []models.Application
}

func (m *memApplicationRepo) Create(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	m.apps = append(m.apps, *app)
	return nil
}

func (m *memApplicationRepo) ExistsActive(_ context.Context, name, email, course string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.Name == name && a.Email == email && a.Course == course && a.Status != models.ApplicationStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplicationRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memApplicationRepo) FindByNameEmail(_ context.Context, name, email string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.apps {
		if a.Name == name && a.Email == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApplicationRepo) FindActiveByTriple(_ context.Context, name, email, course string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.apps {
		if a.Name == name && a.Email == email && a.Course == course && a.Status != models.ApplicationStatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApplicationRepo) Cancel(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.apps {
		if m.apps[i].ID == id {
			m.apps[i].Status = models.ApplicationStatusCancelled
			m.apps[i].CancelReason = reason
			return nil
		}
	}
	return nil
}

func (m *memApplicationRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.apps {
		if m.apps[i].ID == id {
			m.apps[i].Status = status
			return nil
		}
	}
	return nil
}

func (m *memApplicationRepo) List(_ context.Context, _ models.ApplicationFilter) ([]models.Application, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Application, len(m.apps))
	copy(out, m.apps)
	return out, len(out), nil
}

type stubSheets struct {
	body []byte
	err  error
}

func (s *stubSheets) FetchRaw(_ context.Context, _ string) ([]byte, error) {
	return s.body, s.err
}

func newLegacyHandler(repo *memApplicationRepo, sheets *stubSheets) *LegacyHandler {
	apps := service.NewApplicationService(repo, nil, nil, nil)
	return NewLegacyHandler(sheets, nil, apps, nil, config.SheetConfig{}, nil)
}

func legacyPost(t *testing.T, h *LegacyHandler, payload dto.LegacyPostRequest) (*httptest.ResponseRecorder, dto.LegacyResult) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, "/exec", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Post(c)

	var result dto.LegacyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return w, result
}

func applyPayload() dto.LegacyPostRequest {
	return dto.LegacyPostRequest{
		Type:   dto.LegacyTypeApply,
		Name:   "홍길동",
		Email:  "hong@example.com",
		Phone:  "010-1234-5678",
		Course: "데이터 분석 입문",
		Agree:  true,
	}
}

func TestLegacyPostApply(t *testing.T) {
	repo := &memApplicationRepo{}
	h := newLegacyHandler(repo, &stubSheets{})

	w, result := legacyPost(t, h, applyPayload())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, result.Success)
	assert.Equal(t, "신청이 성공적으로 접수되었습니다.", result.Message)
	require.Len(t, repo.apps, 1)
	assert.Equal(t, models.ApplicationStatusPending, repo.apps[0].Status)
}

func TestLegacyPostDuplicateApply(t *testing.T) {
	repo := &memApplicationRepo{}
	h := newLegacyHandler(repo, &stubSheets{})

	_, first := legacyPost(t, h, applyPayload())
	require.True(t, first.Success)

	w, second := legacyPost(t, h, applyPayload())
	assert.Equal(t, http.StatusOK, w.Code, "legacy errors still ride on HTTP 200")
	assert.False(t, second.Success)
	assert.Equal(t, "신청 확인 메뉴를 이용해 주세요. 이미 해당 교육 과정에 신청하신 내역이 있습니다.", second.Error)
}

func TestLegacyPostCancel(t *testing.T) {
	repo := &memApplicationRepo{}
	h := newLegacyHandler(repo, &stubSheets{})
	_, applied := legacyPost(t, h, applyPayload())
	require.True(t, applied.Success)

	cancelReq := dto.LegacyPostRequest{
		Type:   dto.LegacyTypeCancel,
		Name:   "홍길동",
		Email:  "hong@example.com",
		Course: "데이터 분석 입문",
	}
	_, result := legacyPost(t, h, cancelReq)
	assert.True(t, result.Success)
	assert.Equal(t, "취소가 성공적으로 처리되었습니다.", result.Message)
	assert.Equal(t, models.ApplicationStatusCancelled, repo.apps[0].Status)
	assert.Equal(t, "사용자 요청 취소", repo.apps[0].CancelReason)
}

func TestLegacyPostCancelUnknown(t *testing.T) {
	h := newLegacyHandler(&memApplicationRepo{}, &stubSheets{})

	_, result := legacyPost(t, h, dto.LegacyPostRequest{
		Type:   dto.LegacyTypeCancel,
		Name:   "아무개",
		Email:  "nobody@example.com",
		Course: "없는 과정",
	})
	assert.False(t, result.Success)
	assert.Equal(t, "해당 신청 내역을 찾을 수 없습니다.", result.Error)
}

func TestLegacyGetPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	payload := `[{"Question":"환불이 되나요?"}]`
	h := newLegacyHandler(&memApplicationRepo{}, &stubSheets{body: []byte(payload)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/exec?type=FAQ", nil)

	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, payload, w.Body.String())
}

func TestLegacyGetCheckApplication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &memApplicationRepo{}
	h := newLegacyHandler(repo, &stubSheets{})
	_, applied := legacyPost(t, h, applyPayload())
	require.True(t, applied.Success)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/exec?type=CheckApplication&name=%ED%99%8D%EA%B8%B8%EB%8F%99&email=hong%40example.com", nil)

	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "홍길동", records[0]["이름"])
	assert.Equal(t, "대기", records[0]["처리상태"])
}

func TestLegacyGetMissingType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newLegacyHandler(&memApplicationRepo{}, &stubSheets{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/exec", nil)

	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestLegacyGetUpstreamFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newLegacyHandler(&memApplicationRepo{}, &stubSheets{err: appErrors.ErrSheetUnavailable})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/exec?type=Education", nil)

	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
