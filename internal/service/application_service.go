package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/models"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
)

// User-facing messages, kept verbatim from the original Korean copy.
const (
	MsgApplicationReceived  = "신청이 성공적으로 접수되었습니다."
	MsgApplicationCancelled = "취소가 성공적으로 처리되었습니다."
	MsgDuplicateApplication = "신청 확인 메뉴를 이용해 주세요. 이미 해당 교육 과정에 신청하신 내역이 있습니다."
	MsgApplicationNotFound  = "해당 신청 내역을 찾을 수 없습니다."
	MsgAmbiguousApplication = "동일한 신청 내역이 여러 건 있어 취소할 수 없습니다. 신청 확인 메뉴에서 개별 취소해 주세요."
	MsgNotCancellable       = "이미 처리된 신청은 취소할 수 없습니다."

	defaultCancelReason = "사용자 요청 취소"
)

type applicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	ExistsActive(ctx context.Context, name, email, course string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindByNameEmail(ctx context.Context, name, email string) ([]models.Application, error)
	FindActiveByTriple(ctx context.Context, name, email, course string) ([]models.Application, error)
	Cancel(ctx context.Context, id, reason string) error
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error)
}

type statusMailer interface {
	SendStatusMail(app models.Application, status models.ApplicationStatus)
}

// SubmitApplicationRequest holds the payload for a new application.
type SubmitApplicationRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Course     string `json:"course" validate:"required"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Employment string `json:"employment"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Agree      bool   `json:"agree" validate:"eq=true"`
	FormType   string `json:"form_type"`
}

// ApplicationService handles the application use-cases: submit, lookup,
// cancel and the admin status workflow.
type ApplicationService struct {
	repo      applicationRepository
	mailer    statusMailer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs the application service.
func NewApplicationService(repo applicationRepository, mailer statusMailer, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, mailer: mailer, validator: validate, logger: logger}
}

// Submit files a new application. A live application for the same
// (name, email, course) triple is refused; cancelled ones do not count, so
// an applicant may re-apply after withdrawing.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*models.Application, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Course = strings.TrimSpace(req.Course)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	exists, err := s.repo.ExistsActive(ctx, req.Name, req.Email, req.Course)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for duplicates")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateApplication, MsgDuplicateApplication)
	}

	app := &models.Application{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Course:     req.Course,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Employment: req.Employment,
		Company:    req.Company,
		Position:   req.Position,
		FormType:   req.FormType,
		Status:     models.ApplicationStatusPending,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store application")
	}

	s.logger.Info("application submitted",
		zap.String("id", app.ID),
		zap.String("course", app.Course))
	if s.mailer != nil {
		s.mailer.SendStatusMail(*app, models.ApplicationStatusPending)
	}
	return app, nil
}

// Lookup returns every application for an exact name and email pair. Both
// values are required; an unknown pair is simply an empty result, not an
// error.
func (s *ApplicationService) Lookup(ctx context.Context, name, email string) ([]models.Application, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "이름과 이메일을 모두 입력해 주세요.")
	}

	apps, err := s.repo.FindByNameEmail(ctx, name, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up applications")
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// CancelByID withdraws a single application addressed by id.
func (s *ApplicationService) CancelByID(ctx context.Context, id, reason string) (*models.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, MsgApplicationNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return s.cancel(ctx, app, reason)
}

// CancelByTriple withdraws the application matching a (name, email, course)
// triple. When more than one live application matches, the triple no
// longer identifies a single row and the request is refused; the caller
// must cancel by id instead.
func (s *ApplicationService) CancelByTriple(ctx context.Context, name, email, course, reason string) (*models.Application, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	course = strings.TrimSpace(course)

	matches, err := s.repo.FindActiveByTriple(ctx, name, email, course)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find application")
	}
	switch len(matches) {
	case 0:
		return nil, appErrors.Clone(appErrors.ErrNotFound, MsgApplicationNotFound)
	case 1:
		return s.cancel(ctx, &matches[0], reason)
	default:
		return nil, appErrors.Clone(appErrors.ErrAmbiguousMatch, MsgAmbiguousApplication)
	}
}

func (s *ApplicationService) cancel(ctx context.Context, app *models.Application, reason string) (*models.Application, error) {
	if !app.Status.Cancellable() {
		return nil, appErrors.Clone(appErrors.ErrNotCancellable, MsgNotCancellable)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	if err := s.repo.Cancel(ctx, app.ID, reason); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel application")
	}
	app.Status = models.ApplicationStatusCancelled
	app.CancelReason = reason

	s.logger.Info("application cancelled", zap.String("id", app.ID))
	if s.mailer != nil {
		s.mailer.SendStatusMail(*app, models.ApplicationStatusCancelled)
	}
	return app, nil
}

// Get loads a single application for the back office.
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, MsgApplicationNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

// List returns applications and pagination metadata for the back office.
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, *models.Pagination, error) {
	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return apps, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus moves an application through the admin workflow. Pending
// applications may be approved or rejected; approving or rejecting again
// is idempotent only in the sense that setting the current status is a
// no-op. Cancellation goes through the cancel path so a reason is
// recorded.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	switch status {
	case models.ApplicationStatusPending, models.ApplicationStatusApproved, models.ApplicationStatusRejected:
	case models.ApplicationStatusCancelled:
		return nil, appErrors.Clone(appErrors.ErrValidation, "취소는 취소 API를 이용해 주세요.")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "알 수 없는 처리상태입니다.")
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, MsgApplicationNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.Status == models.ApplicationStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrNotCancellable, "취소된 신청은 상태를 변경할 수 없습니다.")
	}
	if app.Status == status {
		return app, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application status")
	}
	app.Status = status

	s.logger.Info("application status changed",
		zap.String("id", id),
		zap.String("status", string(status)))
	if s.mailer != nil {
		s.mailer.SendStatusMail(*app, status)
	}
	return app, nil
}
