package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbskhp/edu-portal-api/internal/models"
)

var applicationColumns = []string{"id", "submitted_at", "name", "phone", "course", "start_date", "end_date", "status", "email", "company", "position", "employment", "cancel_reason", "form_type", "updated_at"}

func newApplicationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func applicationRow(id string, status models.ApplicationStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(applicationColumns).
		AddRow(id, now, "홍길동", "010-1234-5678", "데이터 분석 입문", "2026-03-02", "2026-03-06", status, "hong@example.com", "예시상사", "대리", "재직", "", "", now)
}

func TestApplicationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	app := &models.Application{Name: "홍길동", Email: "hong@example.com", Course: "데이터 분석 입문"}
	err := repo.Create(context.Background(), app)
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID, "create must assign an id")
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryExistsActive(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT 1 FROM applications").
		WithArgs("홍길동", "hong@example.com", "데이터 분석 입문", models.ApplicationStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsActive(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryExistsActiveNoRows(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT 1 FROM applications").
		WithArgs("홍길동", "hong@example.com", "데이터 분석 입문", models.ApplicationStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsActive(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryFindByNameEmail(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("FROM applications WHERE name = \\$1 AND email = \\$2 ORDER BY submitted_at DESC").
		WithArgs("홍길동", "hong@example.com").
		WillReturnRows(applicationRow("app-1", models.ApplicationStatusPending))

	apps, err := repo.FindByNameEmail(context.Background(), "홍길동", "hong@example.com")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "app-1", apps[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryFindActiveByTriple(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := applicationRow("app-1", models.ApplicationStatusPending).
		AddRow("app-2", time.Now(), "홍길동", "010-1234-5678", "데이터 분석 입문", "2026-04-06", "2026-04-10", models.ApplicationStatusApproved, "hong@example.com", "예시상사", "대리", "재직", "", "", time.Now())
	mock.ExpectQuery("FROM applications WHERE name = \\$1 AND email = \\$2 AND course = \\$3 AND status <> \\$4").
		WithArgs("홍길동", "hong@example.com", "데이터 분석 입문", models.ApplicationStatusCancelled).
		WillReturnRows(rows)

	apps, err := repo.FindActiveByTriple(context.Background(), "홍길동", "hong@example.com", "데이터 분석 입문")
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCancel(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("UPDATE applications SET status = \\$2, cancel_reason = \\$3").
		WithArgs("app-1", models.ApplicationStatusCancelled, "사용자 요청 취소", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), "app-1", "사용자 요청 취소")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryList(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("FROM applications a WHERE 1=1 AND a.status = \\$1 ORDER BY a.submitted_at DESC LIMIT 20 OFFSET 0").
		WithArgs(models.ApplicationStatusPending).
		WillReturnRows(applicationRow("app-1", models.ApplicationStatusPending))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM applications a WHERE 1=1 AND a.status = \\$1").
		WithArgs(models.ApplicationStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	apps, total, err := repo.List(context.Background(), models.ApplicationFilter{Status: models.ApplicationStatusPending})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryListRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("ORDER BY a.submitted_at DESC").
		WillReturnRows(sqlmock.NewRows(applicationColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.ApplicationFilter{SortBy: "cancel_reason; DROP TABLE applications"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
