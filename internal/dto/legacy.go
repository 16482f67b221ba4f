package dto

import (
	"github.com/sbskhp/edu-portal-api/internal/models"
)

// Applications sheet headers, kept for wire compatibility with the legacy
// CheckApplication consumers.
const (
	appKeySubmittedAt  = "신청일시"
	appKeyName         = "이름"
	appKeyPhone        = "연락처"
	appKeyCourse       = "신청과정"
	appKeyStartDate    = "Start Date"
	appKeyEndDate      = "End Date"
	appKeyStatus       = "처리상태"
	appKeyEmail        = "이메일"
	appKeyCompany      = "회사명"
	appKeyPosition     = "부서/직급"
	appKeyEmployment   = "재직여부"
	appKeyCancelReason = "취소사유"
)

// LegacyPostType distinguishes the two POST intents. Anything other than
// "Cancel" is treated as a new application, matching the upstream script.
const (
	LegacyTypeApply  = "Apply"
	LegacyTypeCancel = "Cancel"
)

// LegacyPostRequest is the POST body of the legacy wire API. Field names
// follow the original client payload exactly.
type LegacyPostRequest struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Course       string `json:"course"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Employment   string `json:"employment"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	Agree        bool   `json:"agree"`
	FormType     string `json:"formType"`
	CancelReason string `json:"cancelReason"`
}

// LegacyResult is the legacy success/error envelope.
type LegacyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ApplicationSheetHeaders returns the application columns in the order the
// legacy sheet laid them out.
func ApplicationSheetHeaders() []string {
	return []string{
		appKeySubmittedAt,
		appKeyName,
		appKeyPhone,
		appKeyCourse,
		appKeyStartDate,
		appKeyEndDate,
		appKeyStatus,
		appKeyEmail,
		appKeyCompany,
		appKeyPosition,
		appKeyEmployment,
		appKeyCancelReason,
	}
}

// LegacyApplicationRecord renders a typed application as a sheet-header-keyed
// record, the shape CheckApplication has always returned.
func LegacyApplicationRecord(app models.Application) SheetRecord {
	return SheetRecord{
		appKeySubmittedAt:  app.SubmittedAt.Format("2006-01-02 15:04:05"),
		appKeyName:         app.Name,
		appKeyPhone:        app.Phone,
		appKeyCourse:       app.Course,
		appKeyStartDate:    app.StartDate,
		appKeyEndDate:      app.EndDate,
		appKeyStatus:       string(app.Status),
		appKeyEmail:        app.Email,
		appKeyCompany:      app.Company,
		appKeyPosition:     app.Position,
		appKeyEmployment:   app.Employment,
		appKeyCancelReason: app.CancelReason,
	}
}
