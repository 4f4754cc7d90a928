package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// VelocityPoint is the completed estimation credited to one sprint
type VelocityPoint struct {
	SprintID uuid.UUID `json:"sprintId"`
	Number   int       `json:"number"`
	Name     string    `json:"name"`
	Points   float64   `json:"points"`
}

// VelocityReport is the per-sprint velocity plus its mean
type VelocityReport struct {
	Sprints []VelocityPoint `json:"sprints"`
	Average float64         `json:"average"`
}

// Velocity credits each done item's estimation to the sprint it was
// completed in, which may differ from its current sprint.
func Velocity(items []domain.WorkItem, sprints []domain.Sprint) VelocityReport {
	live := make([]domain.Sprint, 0, len(sprints))
	for _, s := range sprints {
		if s.State != domain.SprintStateDeleted {
			live = append(live, s)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].Number < live[j].Number })

	points := make(map[uuid.UUID]float64, len(live))
	for _, item := range items {
		if item.Status != domain.StatusDone || item.DoneInSprintID == nil {
			continue
		}
		points[*item.DoneInSprintID] += item.EstimationPoints
	}

	report := VelocityReport{Sprints: make([]VelocityPoint, 0, len(live))}
	total := 0.0
	for _, s := range live {
		p := points[s.ID]
		total += p
		report.Sprints = append(report.Sprints, VelocityPoint{SprintID: s.ID, Number: s.Number, Name: s.Name, Points: p})
	}
	if len(live) > 0 {
		report.Average = total / float64(len(live))
	}
	return report
}

// BurndownReport holds the ideal and actual remaining points per sprint day
type BurndownReport struct {
	Labels      []string  `json:"labels"`
	Ideal       []float64 `json:"ideal"`
	Actual      []float64 `json:"actual"`
	TotalPoints float64   `json:"totalPoints"`
}

// Burndown charts remaining estimation across the days of sprint. An item
// counts as burned on the day its last update moved it to DONE.
func Burndown(sprint domain.Sprint, items []domain.WorkItem) BurndownReport {
	var sprintItems []domain.WorkItem
	for _, item := range items {
		if item.InSprint(sprint.ID) {
			sprintItems = append(sprintItems, item)
		}
	}
	if len(sprintItems) == 0 {
		return BurndownReport{Labels: []string{}, Ideal: []float64{}, Actual: []float64{}}
	}

	days := SprintDays(sprint)
	total := 0.0
	burnedOnDay := make([]float64, days+1)
	for _, item := range sprintItems {
		total += item.EstimationPoints
		if item.Status != domain.StatusDone {
			continue
		}
		day := int(math.Ceil(item.UpdatedAt.Sub(sprint.StartAt).Hours() / 24))
		if day < 1 {
			day = 1
		}
		if day > days {
			day = days
		}
		burnedOnDay[day] += item.EstimationPoints
	}

	report := BurndownReport{
		Labels:      make([]string, days+1),
		Ideal:       make([]float64, days+1),
		Actual:      make([]float64, days+1),
		TotalPoints: total,
	}
	remaining := total
	for i := 0; i <= days; i++ {
		report.Labels[i] = fmt.Sprintf("Day %d", i)
		report.Ideal[i] = total - total/float64(days)*float64(i)
		remaining -= burnedOnDay[i]
		report.Actual[i] = remaining
	}
	return report
}

// WorkloadRow is the open work carried by one assignee
type WorkloadRow struct {
	AssigneeID  uuid.UUID `json:"assigneeId"`
	Open        int       `json:"open"`
	InProgress  int       `json:"inProgress"`
	InReview    int       `json:"inReview"`
	TotalLoad   int       `json:"totalLoad"`
	WIPBreached bool      `json:"wipBreached"`
}

// Workload counts open, in-progress and in-review items per user and flags
// users with more than wipLimit items in progress.
func Workload(items []domain.WorkItem, userIDs []uuid.UUID, wipLimit int) []WorkloadRow {
	rows := make(map[uuid.UUID]*WorkloadRow, len(userIDs))
	for _, id := range userIDs {
		rows[id] = &WorkloadRow{AssigneeID: id}
	}

	for _, item := range items {
		for _, id := range assigneesOf(item) {
			row, ok := rows[id]
			if !ok {
				continue
			}
			switch item.Status {
			case domain.StatusBacklog, domain.StatusTodo:
				row.Open++
			case domain.StatusInProgress:
				row.InProgress++
			case domain.StatusInReview:
				row.InReview++
			}
		}
	}

	out := make([]WorkloadRow, 0, len(userIDs))
	for _, id := range userIDs {
		row := rows[id]
		row.TotalLoad = row.Open + row.InProgress + row.InReview
		row.WIPBreached = row.InProgress > wipLimit
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalLoad > out[j].TotalLoad })
	return out
}

func assigneesOf(item domain.WorkItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(item.Assignees)+1)
	seen := make(map[uuid.UUID]struct{}, len(item.Assignees)+1)
	for _, id := range item.Assignees {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if item.AssigneeID != nil {
		if _, ok := seen[*item.AssigneeID]; !ok {
			ids = append(ids, *item.AssigneeID)
		}
	}
	return ids
}

// SprintDays returns the calendar length of a sprint, at least one day
func SprintDays(sprint domain.Sprint) int {
	days := int(math.Ceil(sprint.EndAt.Sub(sprint.StartAt).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
