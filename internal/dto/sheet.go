package dto

import (
	"strings"

	"github.com/sbskhp/edu-portal-api/internal/models"
)

// SheetRecord is one raw spreadsheet row: values keyed by the sheet's header
// cells. The headers are backend-defined (partly Korean, partly English) and
// must never leak past this package; translate into typed records
// immediately after fetch.
type SheetRecord map[string]string

// Upstream sheet names.
const (
	SheetEducation = "Education"
	SheetFAQ       = "FAQ"
	SheetCompanies = "Companies"
)

// Education sheet headers.
const (
	courseKeyID           = "ID"
	courseKeyTitle        = "Title"
	courseKeyStatus       = "Status"
	courseKeyRound        = "Round"
	courseKeyStartDate    = "Start Date"
	courseKeyEndDate      = "End Date"
	courseKeyScheduleInfo = "ScheduleInfo"
	courseKeyLocation     = "Location"
	courseKeyImage        = "Image"
	courseKeyCategory     = "Category"
	courseKeyLevel        = "Level"
	courseKeyDescription  = "Description"
	courseKeyBenefits     = "Benefits"
	courseKeyCurriculum   = "Curriculum"
	courseKeyInstructor   = "Instructor"
	courseKeyRequirements = "Requirements"
	courseKeyPrice        = "Price"
)

// Get returns the trimmed value for a header, case-insensitively. Sheet
// headers are hand-typed by staff, so stray spacing and casing happen.
func (r SheetRecord) Get(key string) string {
	if v, ok := r[key]; ok {
		return strings.TrimSpace(v)
	}
	want := strings.ToLower(strings.TrimSpace(key))
	for k, v := range r {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// CourseRoundFromRecord translates an Education sheet row.
func CourseRoundFromRecord(rec SheetRecord) models.CourseRound {
	return models.CourseRound{
		ID:           rec.Get(courseKeyID),
		Title:        rec.Get(courseKeyTitle),
		Status:       models.CourseStatus(rec.Get(courseKeyStatus)),
		Round:        rec.Get(courseKeyRound),
		StartDate:    rec.Get(courseKeyStartDate),
		EndDate:      rec.Get(courseKeyEndDate),
		ScheduleInfo: rec.Get(courseKeyScheduleInfo),
		Location:     rec.Get(courseKeyLocation),
		Image:        rec.Get(courseKeyImage),
		Category:     rec.Get(courseKeyCategory),
		Level:        rec.Get(courseKeyLevel),
		Description:  rec.Get(courseKeyDescription),
		Benefits:     rec.Get(courseKeyBenefits),
		Curriculum:   rec.Get(courseKeyCurriculum),
		Instructor:   rec.Get(courseKeyInstructor),
		Requirements: rec.Get(courseKeyRequirements),
		Price:        rec.Get(courseKeyPrice),
	}
}

// FAQEntryFromRecord translates a FAQ sheet row. Older sheet revisions used
// lowercase headers, which Get already tolerates.
func FAQEntryFromRecord(rec SheetRecord) models.FAQEntry {
	return models.FAQEntry{
		Question: rec.Get("Question"),
		Answer:   rec.Get("Answer"),
	}
}

// CompanyFromRecord translates a Companies sheet row.
func CompanyFromRecord(rec SheetRecord) models.Company {
	name := rec.Get("Company")
	if name == "" {
		name = rec.Get("Name")
	}
	return models.Company{Name: name}
}
