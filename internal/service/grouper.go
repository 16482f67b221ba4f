package service

import "github.com/sbskhp/edu-portal-api/internal/models"

// statusRank orders round statuses by how prominently a group containing
// them should advertise itself. Lower ranks win.
var statusRank = map[models.CourseStatus]int{
	models.CourseStatusRecruiting: 0,
	models.CourseStatusPreparing:  1,
	models.CourseStatusUpcoming:   2,
	models.CourseStatusClosed:     3,
	models.CourseStatusClosedFull: 3,
	models.CourseStatusCancelled:  4,
}

// GroupRounds folds individual course rounds into course groups keyed by
// title. Group order follows the first appearance of each title in the
// input, and within a group rounds keep their input order, so the catalog
// mirrors how staff arranged the sheet. The group's display status is the
// best-ranked status among its rounds; a group whose statuses are all
// unrecognized shows 마감.
func GroupRounds(rounds []models.CourseRound) []models.CourseGroup {
	var groups []models.CourseGroup
	index := make(map[string]int)

	for _, round := range rounds {
		if round.Title == "" {
			continue
		}
		i, ok := index[round.Title]
		if !ok {
			i = len(groups)
			index[round.Title] = i
			groups = append(groups, models.CourseGroup{CourseRound: round})
		}
		groups[i].Rounds = append(groups[i].Rounds, models.RoundSchedule{
			ID:           round.ID,
			Round:        round.Round,
			StartDate:    round.StartDate,
			EndDate:      round.EndDate,
			ScheduleInfo: round.ScheduleInfo,
			Location:     round.Location,
			Status:       round.Status,
		})
	}

	for i := range groups {
		groups[i].DisplayStatus = displayStatus(groups[i].Rounds)
	}
	return groups
}

func displayStatus(rounds []models.RoundSchedule) models.CourseStatus {
	best := models.CourseStatusClosed
	bestRank := len(statusRank) + 1
	for _, r := range rounds {
		rank, ok := statusRank[r.Status]
		if !ok {
			continue
		}
		if rank < bestRank {
			bestRank = rank
			best = r.Status
		}
	}
	return best
}

// FindGroup locates a course group by the id of its representative round.
func FindGroup(groups []models.CourseGroup, id string) (models.CourseGroup, bool) {
	if id == "" {
		return models.CourseGroup{}, false
	}
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
		for _, r := range g.Rounds {
			if r.ID == id {
				return g, true
			}
		}
	}
	return models.CourseGroup{}, false
}
