package models

import "time"

// ApplicationStatus mirrors the 처리상태 column of the legacy Applications
// sheet. The values are user-visible and must stay in Korean.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "대기"
	ApplicationStatusApproved  ApplicationStatus = "승인"
	ApplicationStatusRejected  ApplicationStatus = "반려"
	ApplicationStatusCancelled ApplicationStatus = "취소"
)

// Cancellable reports whether an applicant may still withdraw.
func (s ApplicationStatus) Cancellable() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusApproved
}

// Application is a submitted course application. Each row carries a stable
// unique id so mutations never have to guess between rows sharing the
// (name, email, course) triple.
type Application struct {
	ID           string            `db:"id" json:"id"`
	SubmittedAt  time.Time         `db:"submitted_at" json:"submitted_at"`
	Name         string            `db:"name" json:"name"`
	Phone        string            `db:"phone" json:"phone"`
	Course       string            `db:"course" json:"course"`
	StartDate    string            `db:"start_date" json:"start_date"`
	EndDate      string            `db:"end_date" json:"end_date"`
	Status       ApplicationStatus `db:"status" json:"status"`
	Email        string            `db:"email" json:"email"`
	Company      string            `db:"company" json:"company"`
	Position     string            `db:"position" json:"position"`
	Employment   string            `db:"employment" json:"employment"`
	CancelReason string            `db:"cancel_reason" json:"cancel_reason,omitempty"`
	FormType     string            `db:"form_type" json:"form_type,omitempty"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter encapsulates allowed parameters for admin listings.
type ApplicationFilter struct {
	Course    string
	Status    ApplicationStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
