package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprint-board-api/internal/domain"
)

func TestTick_FollowsSprintDates(t *testing.T) {
	start := date(2024, 1, 1)
	end := date(2024, 1, 14)

	tests := []struct {
		name  string
		state domain.SprintState
		now   time.Time
		want  domain.SprintState
	}{
		{"시작 전에는 PLANNED 유지", domain.SprintStatePlanned, date(2023, 12, 31), domain.SprintStatePlanned},
		{"기간 중이면 ACTIVE", domain.SprintStatePlanned, date(2024, 1, 5), domain.SprintStateActive},
		{"시작 시각 정각에 ACTIVE", domain.SprintStatePlanned, start, domain.SprintStateActive},
		{"종료일 마지막 순간까지 ACTIVE", domain.SprintStateActive, time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC), domain.SprintStateActive},
		{"종료일 다음날 CLOSED", domain.SprintStateActive, date(2024, 1, 15), domain.SprintStateClosed},
		{"종료 후 ACTIVE는 CLOSED", domain.SprintStateActive, date(2024, 1, 20), domain.SprintStateClosed},
		{"기간이 지난 PLANNED도 CLOSED", domain.SprintStatePlanned, date(2024, 1, 20), domain.SprintStateClosed},
		{"CLOSED는 그대로", domain.SprintStateClosed, date(2024, 1, 5), domain.SprintStateClosed},
		{"DELETED는 그대로", domain.SprintStateDeleted, date(2024, 1, 5), domain.SprintStateDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []domain.Sprint{newSprint(tt.state, start, end)}

			out, transitions := Tick(in, tt.now)

			assert.Equal(t, tt.want, out[0].State)
			assert.Equal(t, tt.state, in[0].State, "input must not be mutated")
			if tt.want == tt.state {
				assert.Empty(t, transitions)
			} else {
				require.Len(t, transitions, 1)
				assert.Equal(t, tt.state, transitions[0].From)
				assert.Equal(t, tt.want, transitions[0].To)
			}
		})
	}
}

func TestTick_ReturnsSameSliceWhenNothingChanges(t *testing.T) {
	in := []domain.Sprint{
		newSprint(domain.SprintStatePlanned, date(2024, 2, 1), date(2024, 2, 14)),
		newSprint(domain.SprintStateClosed, date(2023, 1, 1), date(2023, 1, 14)),
	}

	out, transitions := Tick(in, date(2024, 1, 10))

	assert.Nil(t, transitions)
	assert.Same(t, &in[0], &out[0])
}

func TestTick_OnlyChangedSprintsAreReplaced(t *testing.T) {
	waiting := newSprint(domain.SprintStatePlanned, date(2024, 3, 1), date(2024, 3, 14))
	due := newSprint(domain.SprintStatePlanned, date(2024, 1, 1), date(2024, 1, 14))
	now := date(2024, 1, 3)

	out, transitions := Tick([]domain.Sprint{waiting, due}, now)

	require.Len(t, transitions, 1)
	assert.Equal(t, due.ID, transitions[0].SprintID)
	assert.Equal(t, waiting, out[0])
	assert.Equal(t, domain.SprintStateActive, out[1].State)
	assert.Equal(t, now, out[1].UpdatedAt)
}

func TestEndOfDay(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	got := EndOfDay(time.Date(2024, 1, 14, 3, 0, 0, 0, seoul), seoul)

	assert.Equal(t, time.Date(2024, 1, 14, 23, 59, 59, 999000000, seoul), got)
}

func sprintGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(-60, 60),
		gen.IntRange(1, 30),
		gen.IntRange(0, 3),
	).Map(func(v []interface{}) domain.Sprint {
		states := []domain.SprintState{
			domain.SprintStatePlanned, domain.SprintStateActive,
			domain.SprintStateClosed, domain.SprintStateDeleted,
		}
		start := date(2024, 6, 1).AddDate(0, 0, v[0].(int))
		end := start.AddDate(0, 0, v[1].(int))
		return newSprint(states[v[2].(int)], start, end)
	})
}

// **Feature: sprint-lifecycle, Property 1: Tick idempotence**
// For any sprint set and time, ticking twice at the same time equals ticking once
func TestProperty_TickIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tick(tick(s, t), t) == tick(s, t)", prop.ForAll(
		func(sprints []domain.Sprint, offsetHours int) bool {
			now := date(2024, 6, 1).Add(time.Duration(offsetHours) * time.Hour)
			once, _ := Tick(sprints, now)
			twice, transitions := Tick(once, now)
			return len(transitions) == 0 && reflect.DeepEqual(once, twice)
		},
		gen.SliceOf(sprintGen()),
		gen.IntRange(-2000, 2000),
	))

	properties.TestingRun(t)
}

// **Feature: sprint-lifecycle, Property 2: States only move forward**
// For any sprint, ticking at a later time never yields an earlier state
func TestProperty_TickMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	rank := map[domain.SprintState]int{
		domain.SprintStatePlanned: 0,
		domain.SprintStateActive:  1,
		domain.SprintStateClosed:  2,
		domain.SprintStateDeleted: 3,
	}

	properties.Property("later ticks never move a sprint backwards", prop.ForAll(
		func(sprint domain.Sprint, first, gap int) bool {
			t1 := date(2024, 6, 1).Add(time.Duration(first) * time.Hour)
			t2 := t1.Add(time.Duration(gap) * time.Hour)
			a, _ := Tick([]domain.Sprint{sprint}, t1)
			b, _ := Tick(a, t2)
			if rank[a[0].State] < rank[sprint.State] {
				return false
			}
			return rank[b[0].State] >= rank[a[0].State]
		},
		sprintGen(),
		gen.IntRange(-2000, 2000),
		gen.IntRange(0, 2000),
	))

	properties.TestingRun(t)
}
