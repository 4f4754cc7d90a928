package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprint-board-api/internal/domain"
)

func legacy(name string) *string {
	return &name
}

func TestMigrateWorkItems(t *testing.T) {
	sprint := newSprint(domain.SprintStateActive, date(2024, 1, 1), date(2024, 1, 14))
	sprint.Name = "Sprint 3"

	named := newItem(domain.StatusTodo, nil, nil, "")
	named.LegacySprint = legacy("Sprint 3")
	unknown := newItem(domain.StatusTodo, nil, nil, domain.SprintBindingAuto)
	unknown.LegacySprint = legacy("Sprint 99")
	bare := newItem(domain.StatusTodo, nil, nil, "")
	current := newItem(domain.StatusTodo, nil, ptr(sprint.ID), domain.SprintBindingAuto)
	items := []domain.WorkItem{named, unknown, bare, current}

	out, changed := MigrateWorkItems(items, []domain.Sprint{sprint})

	require.Len(t, out, 4)
	assert.Equal(t, 3, changed)

	assert.Equal(t, sprint.ID, *out[0].SprintID)
	assert.Equal(t, domain.SprintBindingManual, out[0].SprintBinding)
	assert.Nil(t, out[0].LegacySprint)

	assert.Nil(t, out[1].SprintID)
	assert.Equal(t, domain.SprintBindingAuto, out[1].SprintBinding)
	assert.Nil(t, out[1].LegacySprint)

	assert.Equal(t, domain.SprintBindingManual, out[2].SprintBinding)
	assert.Equal(t, current, out[3])

	assert.NotNil(t, items[0].LegacySprint, "input must not be mutated")
}

func TestMigrateWorkItems_KeepsExistingSprintID(t *testing.T) {
	sprint := newSprint(domain.SprintStateActive, date(2024, 1, 1), date(2024, 1, 14))
	sprint.Name = "Sprint 1"
	other := newSprint(domain.SprintStatePlanned, date(2024, 2, 1), date(2024, 2, 14))

	item := newItem(domain.StatusTodo, nil, ptr(other.ID), domain.SprintBindingManual)
	item.LegacySprint = legacy("Sprint 1")

	out, changed := MigrateWorkItems([]domain.WorkItem{item}, []domain.Sprint{sprint, other})

	assert.Equal(t, 1, changed)
	assert.Equal(t, other.ID, *out[0].SprintID)
	assert.Nil(t, out[0].LegacySprint)
}

func TestMigrateWorkItems_Idempotent(t *testing.T) {
	sprint := newSprint(domain.SprintStateActive, date(2024, 1, 1), date(2024, 1, 14))
	sprint.Name = "Sprint 3"
	item := newItem(domain.StatusTodo, nil, nil, "")
	item.LegacySprint = legacy("Sprint 3")

	first, _ := MigrateWorkItems([]domain.WorkItem{item}, []domain.Sprint{sprint})
	second, changed := MigrateWorkItems(first, []domain.Sprint{sprint})

	assert.Equal(t, 0, changed)
	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0])
}
