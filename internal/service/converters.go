package service

import (
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
)

func toBoardResponse(board *domain.Board) *dto.BoardResponse {
	members := make([]dto.BoardMemberResponse, 0, len(board.Members))
	for _, m := range board.Members {
		members = append(members, dto.BoardMemberResponse{UserID: m.UserID, Role: string(m.Role)})
	}
	return &dto.BoardResponse{
		ID:        board.ID,
		Name:      board.Name,
		OwnerID:   board.OwnerID,
		Members:   members,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

func uuidList(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

func toWorkItemResponse(item domain.WorkItem) dto.WorkItemResponse {
	resp := dto.WorkItemResponse{
		ID:               item.ID,
		BoardID:          item.BoardID,
		Title:            item.Title,
		Description:      item.Description,
		Type:             string(item.Type),
		Status:           string(item.Status),
		SprintID:         item.SprintID,
		EpicID:           item.EpicID,
		DoneInSprintID:   item.DoneInSprintID,
		EstimationPoints: item.EstimationPoints,
		ReporterID:       item.ReporterID,
		AssigneeID:       item.AssigneeID,
		Assignees:        uuidList(item.Assignees),
		Watchers:         uuidList(item.Watchers),
		DueDate:          item.DueDate,
		Checklist:        toChecklistResponse(item.Checklist),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
	if item.SprintID != nil {
		resp.SprintBinding = string(item.SprintBinding)
	}
	if item.EpicInfo != nil {
		resp.EpicInfo = &dto.EpicInfoResponse{
			ID:    item.EpicInfo.ID,
			Name:  item.EpicInfo.Name,
			Color: item.EpicInfo.Color,
		}
	}
	return resp
}

func toChecklistResponse(entries []domain.ChecklistItem) []dto.ChecklistItem {
	out := make([]dto.ChecklistItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ChecklistItem{Text: e.Text, Completed: e.Completed})
	}
	return out
}

func toWorkItemResponses(items []domain.WorkItem) []dto.WorkItemResponse {
	out := make([]dto.WorkItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toWorkItemResponse(item))
	}
	return out
}

func toEpicResponse(e domain.EnrichedEpic) dto.EpicResponse {
	return dto.EpicResponse{
		ID:                  e.ID,
		BoardID:             e.BoardID,
		Name:                e.Name,
		Description:         e.Description,
		Color:               e.Color,
		Status:              string(e.Status),
		Impact:              e.Impact,
		Confidence:          e.Confidence,
		Ease:                e.Ease,
		ICEScore:            e.ICEScore,
		OpenItemsCount:      e.OpenItemsCount,
		TotalItemsCount:     e.TotalItemsCount,
		TotalEstimation:     e.TotalEstimation,
		DoneEstimation:      e.DoneEstimation,
		PercentDoneWeighted: e.PercentDoneWeighted,
		ArchivedAt:          e.ArchivedAt,
		DeletedAt:           e.DeletedAt,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func toSprintResponse(s domain.Sprint) dto.SprintResponse {
	return dto.SprintResponse{
		ID:        s.ID,
		BoardID:   s.BoardID,
		Number:    s.Number,
		Name:      s.Name,
		Goal:      s.Goal,
		StartAt:   s.StartAt,
		EndAt:     s.EndAt,
		State:     string(s.State),
		EpicIDs:   uuidList(s.EpicIDs),
		DeletedAt: s.DeletedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toUndoResponse(t engine.UndoToken) dto.UndoResponse {
	return dto.UndoResponse{
		Entity:    t.Entity,
		ID:        t.ID,
		DeletedAt: t.DeletedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

func toCommentResponse(c *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID,
		WorkItemID: c.WorkItemID,
		AuthorID:   c.AuthorID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

func toSpotlightResponse(boardID uuid.UUID, s engine.Spotlight) dto.SpotlightResponse {
	resp := dto.SpotlightResponse{BoardID: boardID, ItemID: s.ItemID}
	if s.ItemID != nil {
		at := s.ChangedAt
		resp.ChangedAt = &at
	}
	return resp
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
