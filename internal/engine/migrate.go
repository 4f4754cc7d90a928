package engine

import "sprint-board-api/internal/domain"

// MigrateWorkItems upgrades items loaded from older snapshots: a missing
// binding becomes manual, and a legacy sprint name is resolved to a sprint
// id and dropped. Running it on migrated data changes nothing.
func MigrateWorkItems(items []domain.WorkItem, sprints []domain.Sprint) ([]domain.WorkItem, int) {
	byName := make(map[string]domain.Sprint, len(sprints))
	for _, s := range sprints {
		if _, ok := byName[s.Name]; !ok {
			byName[s.Name] = s
		}
	}

	var (
		out     []domain.WorkItem
		changed int
	)
	for i, item := range items {
		if item.SprintBinding != "" && item.LegacySprint == nil {
			continue
		}
		migrated := item.Clone()
		if migrated.SprintBinding == "" {
			migrated.SprintBinding = domain.SprintBindingManual
		}
		if migrated.LegacySprint != nil {
			if migrated.SprintID == nil {
				if s, ok := byName[*migrated.LegacySprint]; ok {
					sprintID := s.ID
					migrated.SprintID = &sprintID
				}
			}
			migrated.LegacySprint = nil
		}
		if out == nil {
			out = make([]domain.WorkItem, len(items))
			copy(out, items)
		}
		out[i] = migrated
		changed++
	}
	if out == nil {
		return items, 0
	}
	return out, changed
}
