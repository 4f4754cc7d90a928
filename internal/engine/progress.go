package engine

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// ComputeProgress derives the progress fields of epic from the items that
// reference it. It is pure and safe to recompute on every read.
func ComputeProgress(epic domain.Epic, items []domain.WorkItem) domain.EnrichedEpic {
	var children []domain.WorkItem
	for _, item := range items {
		if item.InEpic(epic.ID) {
			children = append(children, item)
		}
	}
	return enrich(epic, children)
}

// EnrichEpics computes progress for every epic in one pass over items
func EnrichEpics(epics []domain.Epic, items []domain.WorkItem) []domain.EnrichedEpic {
	byEpic := make(map[uuid.UUID][]domain.WorkItem, len(epics))
	for _, item := range items {
		if item.EpicID != nil {
			byEpic[*item.EpicID] = append(byEpic[*item.EpicID], item)
		}
	}

	enriched := make([]domain.EnrichedEpic, 0, len(epics))
	for _, epic := range epics {
		enriched = append(enriched, enrich(epic, byEpic[epic.ID]))
	}
	return enriched
}

func enrich(epic domain.Epic, children []domain.WorkItem) domain.EnrichedEpic {
	out := domain.EnrichedEpic{Epic: epic}
	if len(children) == 0 {
		return out
	}

	done := 0
	for _, item := range children {
		out.TotalEstimation += item.EstimationPoints
		if item.Status == domain.StatusDone {
			done++
			out.DoneEstimation += item.EstimationPoints
		}
	}
	out.TotalItemsCount = len(children)
	out.OpenItemsCount = out.TotalItemsCount - done

	if out.TotalEstimation > 0 {
		out.PercentDoneWeighted = out.DoneEstimation / out.TotalEstimation * 100
	} else {
		out.PercentDoneWeighted = float64(done) / float64(out.TotalItemsCount) * 100
	}
	return out
}

// ValidateICE checks the 1..10 range of each ICE component
func ValidateICE(impact, confidence, ease int) error {
	for _, v := range []int{impact, confidence, ease} {
		if v < domain.ICEMin || v > domain.ICEMax {
			return ErrInvalidICE
		}
	}
	return nil
}

// EpicProgressRow is one line of the epic progress report
type EpicProgressRow struct {
	Epic            domain.EnrichedEpic `json:"epic"`
	TotalItems      int                 `json:"totalItems"`
	DoneItems       int                 `json:"doneItems"`
	TotalEstimation float64             `json:"totalEstimation"`
	DoneEstimation  float64             `json:"doneEstimation"`
	Progress        float64             `json:"progress"`
}

// EpicProgressReport lists enriched epics by descending ICE score
func EpicProgressReport(enriched []domain.EnrichedEpic) []EpicProgressRow {
	rows := make([]EpicProgressRow, 0, len(enriched))
	for _, e := range enriched {
		rows = append(rows, EpicProgressRow{
			Epic:            e,
			TotalItems:      e.TotalItemsCount,
			DoneItems:       e.TotalItemsCount - e.OpenItemsCount,
			TotalEstimation: e.TotalEstimation,
			DoneEstimation:  math.Round(e.TotalEstimation * e.PercentDoneWeighted / 100),
			Progress:        e.PercentDoneWeighted,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Epic.ICEScore > rows[j].Epic.ICEScore
	})
	return rows
}

// ActiveEpics keeps epics that are ACTIVE or ON_HOLD
func ActiveEpics(epics []domain.Epic) []domain.Epic {
	var out []domain.Epic
	for _, e := range epics {
		if e.Status == domain.EpicStatusActive || e.Status == domain.EpicStatusOnHold {
			out = append(out, e)
		}
	}
	return out
}
