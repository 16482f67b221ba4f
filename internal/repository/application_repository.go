package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbskhp/edu-portal-api/internal/models"
)

// ApplicationRepository manages persistence for course applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application row.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	const query = `INSERT INTO applications (id, submitted_at, name, phone, course, start_date, end_date, status, email, company, position, employment, cancel_reason, form_type, updated_at)
        VALUES (:id, :submitted_at, :name, :phone, :course, :start_date, :end_date, :status, :email, :company, :position, :employment, :cancel_reason, :form_type, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// ExistsActive checks whether a live (not cancelled) application already
// exists for the same applicant and course. Cancelled rows never block a
// re-application.
func (r *ApplicationRepository) ExistsActive(ctx context.Context, name, email, course string) (bool, error) {
	const query = `SELECT 1 FROM applications WHERE name = $1 AND email = $2 AND course = $3 AND status <> $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name, email, course, models.ApplicationStatusCancelled); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check application: %w", err)
	}
	return true, nil
}

// FindByID fetches one application by its id.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, submitted_at, name, phone, course, start_date, end_date, status, email, company, position, employment, cancel_reason, form_type, updated_at
        FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByNameEmail returns every application matching an exact name and
// email pair, newest first. Matching is exact on the stored values; the
// service layer trims input before calling.
func (r *ApplicationRepository) FindByNameEmail(ctx context.Context, name, email string) ([]models.Application, error) {
	const query = `SELECT id, submitted_at, name, phone, course, start_date, end_date, status, email, company, position, employment, cancel_reason, form_type, updated_at
        FROM applications WHERE name = $1 AND email = $2 ORDER BY submitted_at DESC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, name, email); err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	return apps, nil
}

// FindActiveByTriple returns all live applications matching a
// (name, email, course) triple. More than one element means the triple is
// ambiguous and the caller must refuse to mutate by it.
func (r *ApplicationRepository) FindActiveByTriple(ctx context.Context, name, email, course string) ([]models.Application, error) {
	const query = `SELECT id, submitted_at, name, phone, course, start_date, end_date, status, email, company, position, employment, cancel_reason, form_type, updated_at
        FROM applications WHERE name = $1 AND email = $2 AND course = $3 AND status <> $4 ORDER BY submitted_at DESC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, name, email, course, models.ApplicationStatusCancelled); err != nil {
		return nil, fmt.Errorf("find applications by triple: %w", err)
	}
	return apps, nil
}

// Cancel marks an application cancelled and records the reason.
func (r *ApplicationRepository) Cancel(ctx context.Context, id, reason string) error {
	const query = `UPDATE applications SET status = $2, cancel_reason = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ApplicationStatusCancelled, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("cancel application: %w", err)
	}
	return nil
}

// UpdateStatus sets a new processing status on an application.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

// List returns applications matching the provided filters.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	base := "FROM applications a"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Course != "" {
		conditions = append(conditions, fmt.Sprintf("a.course = $%d", len(args)+1))
		args = append(args, filter.Course)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(a.name) LIKE $%d OR LOWER(a.email) LIKE $%d OR LOWER(a.company) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"submitted_at": "a.submitted_at",
		"name":         "a.name",
		"course":       "a.course",
		"status":       "a.status",
	}
	if sortBy == "" {
		sortBy = "submitted_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "a.submitted_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT a.id, a.submitted_at, a.name, a.phone, a.course, a.start_date, a.end_date, a.status, a.email, a.company, a.position, a.employment, a.cancel_reason, a.form_type, a.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	return apps, total, nil
}
