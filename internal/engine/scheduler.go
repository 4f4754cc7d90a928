package engine

import (
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// SprintTransition reports one state change made by Tick
type SprintTransition struct {
	SprintID uuid.UUID
	BoardID  uuid.UUID
	From     domain.SprintState
	To       domain.SprintState
}

// EndOfDay returns 23:59:59.999 on t's calendar date in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// NextSprintState derives the state a sprint should be in at now.
// States only move forward; CLOSED and DELETED never change here.
func NextSprintState(s domain.Sprint, now time.Time) domain.SprintState {
	if s.State.IsTerminal() {
		return s.State
	}
	if EndOfDay(s.EndAt, now.Location()).Before(now) {
		return domain.SprintStateClosed
	}
	if s.State == domain.SprintStatePlanned && !now.Before(s.StartAt) {
		return domain.SprintStateActive
	}
	return s.State
}

// Tick brings every sprint in line with the wall clock. When nothing moves
// the input slice is returned as is, so callers can compare by identity.
func Tick(sprints []domain.Sprint, now time.Time) ([]domain.Sprint, []SprintTransition) {
	var (
		out         []domain.Sprint
		transitions []SprintTransition
	)
	for i, s := range sprints {
		next := NextSprintState(s, now)
		if next == s.State {
			continue
		}
		if out == nil {
			out = make([]domain.Sprint, len(sprints))
			copy(out, sprints)
		}
		updated := s.Clone()
		updated.State = next
		updated.UpdatedAt = now
		out[i] = updated
		transitions = append(transitions, SprintTransition{
			SprintID: s.ID,
			BoardID:  s.BoardID,
			From:     s.State,
			To:       next,
		})
	}
	if out == nil {
		return sprints, nil
	}
	return out, transitions
}
