package models

// CourseStatus is the enrollment status of a single course round, using the
// exact values staff enter in the spreadsheet.
type CourseStatus string

const (
	CourseStatusRecruiting CourseStatus = "모집중"
	CourseStatusPreparing  CourseStatus = "준비중"
	CourseStatusUpcoming   CourseStatus = "모집예정"
	CourseStatusClosed     CourseStatus = "마감"
	CourseStatusClosedFull CourseStatus = "모집마감"
	CourseStatusCancelled  CourseStatus = "폐강"
)

// CourseRound is one scheduled offering of a named course. Rounds are owned
// by the upstream spreadsheet and read-only here.
type CourseRound struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Status       CourseStatus `json:"status"`
	Round        string       `json:"round,omitempty"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	ScheduleInfo string       `json:"schedule_info,omitempty"`
	Location     string       `json:"location,omitempty"`
	Image        string       `json:"image,omitempty"`
	Category     string       `json:"category,omitempty"`
	Level        string       `json:"level,omitempty"`
	Description  string       `json:"description,omitempty"`
	Benefits     string       `json:"benefits,omitempty"`
	Curriculum   string       `json:"curriculum,omitempty"`
	Instructor   string       `json:"instructor,omitempty"`
	Requirements string       `json:"requirements,omitempty"`
	Price        string       `json:"price,omitempty"`
}

// Open reports whether the round currently accepts applications.
func (r CourseRound) Open() bool {
	return r.Status == CourseStatusRecruiting || r.Status == CourseStatusPreparing
}

// RoundSchedule is the per-round slice of a course group: the schedule,
// status and identity of one offering.
type RoundSchedule struct {
	ID           string       `json:"id"`
	Round        string       `json:"round,omitempty"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	ScheduleInfo string       `json:"schedule_info,omitempty"`
	Location     string       `json:"location,omitempty"`
	Status       CourseStatus `json:"status"`
}

// CourseGroup aggregates every round sharing a title. It is derived, never
// stored: the embedded round carries the first-seen metadata and
// DisplayStatus is recomputed from the member rounds on every refresh.
type CourseGroup struct {
	CourseRound
	Rounds        []RoundSchedule `json:"rounds"`
	DisplayStatus CourseStatus    `json:"display_status"`
}
