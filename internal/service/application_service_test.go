package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbskhp/edu-portal-api/internal/models"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
)

type mockApplicationRepo struct {
	createFn       func(ctx context.Context, app *models.Application) error
	existsFn       func(ctx context.Context, name, email, course string) (bool, error)
	findByIDFn     func(ctx context.Context, id string) (*models.Application, error)
	findByPairFn   func(ctx context.Context, name, email string) ([]models.Application, error)
	findByTripleFn func(ctx context.Context, name, email, course string) ([]models.Application, error)
	cancelFn       func(ctx context.Context, id, reason string) error
	updateStatusFn func(ctx context.Context, id string, status models.ApplicationStatus) error
	listFn         func(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	return m.createFn(ctx, app)
}

func (m *mockApplicationRepo) ExistsActive(ctx context.Context, name, email, course string) (bool, error) {
	return m.existsFn(ctx, name, email, course)
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*models.Application, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockApplicationRepo) FindByNameEmail(ctx context.Context, name, email string) ([]models.Application, error) {
	return m.findByPairFn(ctx, name, email)
}

func (m *mockApplicationRepo) FindActiveByTriple(ctx context.Context, name, email, course string) ([]models.Application, error) {
	return m.findByTripleFn(ctx, name, email, course)
}

func (m *mockApplicationRepo) Cancel(ctx context.Context, id, reason string) error {
	return m.cancelFn(ctx, id, reason)
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockApplicationRepo) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	return m.listFn(ctx, filter)
}

type mockMailer struct {
	sent []models.ApplicationStatus
}

func (m *mockMailer) SendStatusMail(_ models.Application, status models.ApplicationStatus) {
	m.sent = append(m.sent, status)
}

func validSubmitRequest() SubmitApplicationRequest {
	return SubmitApplicationRequest{
		Name:       "홍길동",
		Email:      "hong@example.com",
		Phone:      "010-1234-5678",
		Course:     "데이터 분석 입문",
		Employment: "재직",
		Agree:      true,
	}
}

func TestApplicationServiceSubmit(t *testing.T) {
	mailer := &mockMailer{}
	repo := &mockApplicationRepo{
		existsFn: func(_ context.Context, _, _, _ string) (bool, error) { return false, nil },
		createFn: func(_ context.Context, app *models.Application) error {
			app.ID = "app-1"
			return nil
		},
	}
	svc := NewApplicationService(repo, mailer, nil, nil)

	app, err := svc.Submit(context.Background(), validSubmitRequest())
	require.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, []models.ApplicationStatus{models.ApplicationStatusPending}, mailer.sent)
}

func TestApplicationServiceSubmitTrimsInput(t *testing.T) {
	var gotName, gotEmail string
	repo := &mockApplicationRepo{
		existsFn: func(_ context.Context, name, email, _ string) (bool, error) {
			gotName, gotEmail = name, email
			return false, nil
		},
		createFn: func(_ context.Context, _ *models.Application) error { return nil },
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	req := validSubmitRequest()
	req.Name = "  홍길동  "
	req.Email = " hong@example.com "
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", gotName)
	assert.Equal(t, "hong@example.com", gotEmail)
}

func TestApplicationServiceSubmitDuplicate(t *testing.T) {
	repo := &mockApplicationRepo{
		existsFn: func(_ context.Context, _, _, _ string) (bool, error) { return true, nil },
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateApplication.Code, appErr.Code)
	assert.Equal(t, MsgDuplicateApplication, appErr.Message)
}

func TestApplicationServiceSubmitValidation(t *testing.T) {
	svc := NewApplicationService(&mockApplicationRepo{}, nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(*SubmitApplicationRequest)
	}{
		{"missing name", func(r *SubmitApplicationRequest) { r.Name = "" }},
		{"bad email", func(r *SubmitApplicationRequest) { r.Email = "not-an-email" }},
		{"missing course", func(r *SubmitApplicationRequest) { r.Course = "" }},
		{"no consent", func(r *SubmitApplicationRequest) { r.Agree = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(&req)
			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestApplicationServiceLookup(t *testing.T) {
	repo := &mockApplicationRepo{
		findByPairFn: func(_ context.Context, name, email string) ([]models.Application, error) {
			assert.Equal(t, "홍길동", name)
			assert.Equal(t, "hong@example.com", email)
			return []models.Application{{ID: "app-1"}}, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	apps, err := svc.Lookup(context.Background(), " 홍길동 ", " hong@example.com ")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestApplicationServiceLookupRequiresBoth(t *testing.T) {
	svc := NewApplicationService(&mockApplicationRepo{}, nil, nil, nil)

	_, err := svc.Lookup(context.Background(), "홍길동", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceLookupEmptyResult(t *testing.T) {
	repo := &mockApplicationRepo{
		findByPairFn: func(_ context.Context, _, _ string) ([]models.Application, error) {
			return nil, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	apps, err := svc.Lookup(context.Background(), "홍길동", "hong@example.com")
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestApplicationServiceCancelByID(t *testing.T) {
	mailer := &mockMailer{}
	var gotReason string
	repo := &mockApplicationRepo{
		findByIDFn: func(_ context.Context, id string) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
		cancelFn: func(_ context.Context, _, reason string) error {
			gotReason = reason
			return nil
		},
	}
	svc := NewApplicationService(repo, mailer, nil, nil)

	app, err := svc.CancelByID(context.Background(), "app-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusCancelled, app.Status)
	assert.Equal(t, "사용자 요청 취소", gotReason, "empty reason falls back to the default")
	assert.Equal(t, []models.ApplicationStatus{models.ApplicationStatusCancelled}, mailer.sent)
}

func TestApplicationServiceCancelByIDNotCancellable(t *testing.T) {
	repo := &mockApplicationRepo{
		findByIDFn: func(_ context.Context, id string) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusRejected}, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	_, err := svc.CancelByID(context.Background(), "app-1", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotCancellable.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceCancelByTriple(t *testing.T) {
	repo := &mockApplicationRepo{
		findByTripleFn: func(_ context.Context, _, _, _ string) ([]models.Application, error) {
			return []models.Application{{ID: "app-1", Status: models.ApplicationStatusApproved}}, nil
		},
		cancelFn: func(_ context.Context, _, _ string) error { return nil },
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	app, err := svc.CancelByTriple(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문", "일정 변경")
	require.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)
	assert.Equal(t, "일정 변경", app.CancelReason)
}

func TestApplicationServiceCancelByTripleNotFound(t *testing.T) {
	repo := &mockApplicationRepo{
		findByTripleFn: func(_ context.Context, _, _, _ string) ([]models.Application, error) {
			return nil, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	_, err := svc.CancelByTriple(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문", "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, MsgApplicationNotFound, appErr.Message)
}

func TestApplicationServiceCancelByTripleAmbiguous(t *testing.T) {
	repo := &mockApplicationRepo{
		findByTripleFn: func(_ context.Context, _, _, _ string) ([]models.Application, error) {
			return []models.Application{
				{ID: "app-1", Status: models.ApplicationStatusPending},
				{ID: "app-2", Status: models.ApplicationStatusApproved},
			}, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	_, err := svc.CancelByTriple(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAmbiguousMatch.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceUpdateStatus(t *testing.T) {
	mailer := &mockMailer{}
	repo := &mockApplicationRepo{
		findByIDFn: func(_ context.Context, id string) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, _ models.ApplicationStatus) error { return nil },
	}
	svc := NewApplicationService(repo, mailer, nil, nil)

	app, err := svc.UpdateStatus(context.Background(), "app-1", models.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	assert.Equal(t, []models.ApplicationStatus{models.ApplicationStatusApproved}, mailer.sent)
}

func TestApplicationServiceUpdateStatusRejectsCancel(t *testing.T) {
	svc := NewApplicationService(&mockApplicationRepo{}, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "app-1", models.ApplicationStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceUpdateStatusSameStatusNoMail(t *testing.T) {
	mailer := &mockMailer{}
	repo := &mockApplicationRepo{
		findByIDFn: func(_ context.Context, id string) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusApproved}, nil
		},
	}
	svc := NewApplicationService(repo, mailer, nil, nil)

	app, err := svc.UpdateStatus(context.Background(), "app-1", models.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	assert.Empty(t, mailer.sent)
}

func TestApplicationServiceGetNotFound(t *testing.T) {
	repo := &mockApplicationRepo{
		findByIDFn: func(_ context.Context, _ string) (*models.Application, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceList(t *testing.T) {
	repo := &mockApplicationRepo{
		listFn: func(_ context.Context, _ models.ApplicationFilter) ([]models.Application, int, error) {
			return []models.Application{{ID: "app-1"}}, 1, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil)

	apps, pagination, err := svc.List(context.Background(), models.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}
