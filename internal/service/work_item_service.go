package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/metrics"
	"sprint-board-api/internal/notify"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

const commentPreviewLength = 80

// WorkItemService defines the interface for work item business logic
type WorkItemService interface {
	CreateWorkItem(ctx context.Context, boardID uuid.UUID, req *dto.CreateWorkItemRequest) (*dto.WorkItemResponse, error)
	GetWorkItem(ctx context.Context, id uuid.UUID) (*dto.WorkItemResponse, error)
	ListWorkItems(ctx context.Context, boardID uuid.UUID, filters dto.WorkItemFilters) ([]dto.WorkItemResponse, error)
	UpdateWorkItem(ctx context.Context, id uuid.UUID, req *dto.UpdateWorkItemRequest) (*dto.WorkItemResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.StatusChangeResponse, error)
	AddComment(ctx context.Context, id uuid.UUID, req *dto.AddCommentRequest) (*dto.CommentResponse, error)
	GetSpotlight(ctx context.Context, boardID uuid.UUID) (*dto.SpotlightResponse, error)
}

// workItemServiceImpl is the implementation of WorkItemService
type workItemServiceImpl struct {
	repos      repository.Repositories
	spotlights SpotlightStore
	dispatcher notify.Dispatcher
	clock      Clock
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewWorkItemService creates a new instance of WorkItemService
func NewWorkItemService(
	repos repository.Repositories,
	spotlights SpotlightStore,
	dispatcher notify.Dispatcher,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) WorkItemService {
	if clock == nil {
		clock = systemClock
	}
	if dispatcher == nil {
		dispatcher = notify.NoOpDispatcher{}
	}
	if spotlights == nil {
		spotlights = NewMemorySpotlightStore()
	}
	return &workItemServiceImpl{
		repos:      repos,
		spotlights: spotlights,
		dispatcher: dispatcher,
		clock:      clock,
		metrics:    m,
		logger:     logger,
	}
}

// CreateWorkItem creates a work item. A sprint chosen by the user is a manual placement.
func (s *workItemServiceImpl) CreateWorkItem(ctx context.Context, boardID uuid.UUID, req *dto.CreateWorkItemRequest) (*dto.WorkItemResponse, error) {
	reporterID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireBoard(ctx, s.repos, boardID); err != nil {
		return nil, err
	}

	itemType := domain.WorkItemType(req.Type)
	if !itemType.IsValid() {
		return nil, response.NewValidationError("Invalid work item type", req.Type)
	}
	status := domain.StatusBacklog
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.IsValid() {
			return nil, response.NewValidationError("Invalid status", req.Status)
		}
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, response.NewValidationError("Title must not be empty", "")
	}
	if req.EstimationPoints < 0 {
		return nil, response.NewValidationError("Estimation points must not be negative", "")
	}

	item := &domain.WorkItem{
		BoardID:          boardID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             itemType,
		Status:           status,
		EstimationPoints: req.EstimationPoints,
		ReporterID:       reporterID,
		AssigneeID:       req.AssigneeID,
		Assignees:        datatypes.JSONSlice[uuid.UUID](req.Assignees),
		Watchers:         datatypes.JSONSlice[uuid.UUID](withWatcher(req.Watchers, reporterID)),
		DueDate:          req.DueDate,
		SprintBinding:    domain.SprintBindingManual,
	}

	if req.SprintID != nil {
		if err := s.placeInSprint(ctx, item, *req.SprintID); err != nil {
			return nil, err
		}
	}
	if req.EpicID != nil {
		if err := s.attachEpic(ctx, item, *req.EpicID); err != nil {
			return nil, err
		}
	}
	if status == domain.StatusDone && item.SprintID != nil {
		sprintID := *item.SprintID
		item.DoneInSprintID = &sprintID
	}

	if err := s.repos.WorkItems.Create(ctx, item); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create work item", err.Error())
	}
	if s.metrics != nil {
		s.metrics.IncrementWorkItemCreated()
	}

	resp := toWorkItemResponse(*item)
	return &resp, nil
}

// GetWorkItem retrieves a work item by ID
func (s *workItemServiceImpl) GetWorkItem(ctx context.Context, id uuid.UUID) (*dto.WorkItemResponse, error) {
	item, err := s.repos.WorkItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work item")
	}
	resp := toWorkItemResponse(*item)
	return &resp, nil
}

// ListWorkItems lists a board's work items
func (s *workItemServiceImpl) ListWorkItems(ctx context.Context, boardID uuid.UUID, filters dto.WorkItemFilters) ([]dto.WorkItemResponse, error) {
	filter := repository.WorkItemFilter{SprintID: filters.SprintID, EpicID: filters.EpicID}
	if filters.Status != nil {
		status := domain.Status(*filters.Status)
		if !status.IsValid() {
			return nil, response.NewValidationError("Invalid status filter", *filters.Status)
		}
		filter.Status = &status
	}

	items, err := s.repos.WorkItems.FindByBoardID(ctx, boardID, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list work items", err.Error())
	}
	return toWorkItemResponses(items), nil
}

// UpdateWorkItem applies an editor change. Any status may be set here;
// status, assignee and due date changes each emit one event, as does a
// change in the number of completed checklist entries.
func (s *workItemServiceImpl) UpdateWorkItem(ctx context.Context, id uuid.UUID, req *dto.UpdateWorkItemRequest) (*dto.WorkItemResponse, error) {
	actorID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.repos.WorkItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work item")
	}
	now := s.clock()
	updated := current.Clone()
	var events []domain.ItemUpdateEvent

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, response.NewValidationError("Title must not be empty", "")
		}
		updated.Title = *req.Title
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Type != nil {
		itemType := domain.WorkItemType(*req.Type)
		if !itemType.IsValid() {
			return nil, response.NewValidationError("Invalid work item type", *req.Type)
		}
		updated.Type = itemType
	}
	if req.EstimationPoints != nil {
		if *req.EstimationPoints < 0 {
			return nil, response.NewValidationError("Estimation points must not be negative", "")
		}
		updated.EstimationPoints = *req.EstimationPoints
	}
	if req.Assignees != nil {
		updated.Assignees = datatypes.JSONSlice[uuid.UUID](*req.Assignees)
	}
	if req.Watchers != nil {
		updated.Watchers = datatypes.JSONSlice[uuid.UUID](*req.Watchers)
	}
	if req.Checklist != nil {
		checklist := make(datatypes.JSONSlice[domain.ChecklistItem], 0, len(*req.Checklist))
		for _, entry := range *req.Checklist {
			if strings.TrimSpace(entry.Text) == "" {
				return nil, response.NewValidationError("Checklist entries need text", "")
			}
			checklist = append(checklist, domain.ChecklistItem{Text: entry.Text, Completed: entry.Completed})
		}
		updated.Checklist = checklist
	}

	switch {
	case req.ClearSprint:
		updated.SprintID = nil
	case req.SprintID != nil && !uuidPtrEqual(current.SprintID, req.SprintID):
		if err := s.placeInSprint(ctx, &updated, *req.SprintID); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearEpic:
		updated.EpicID = nil
		updated.EpicInfo = nil
	case req.EpicID != nil && !uuidPtrEqual(current.EpicID, req.EpicID):
		if err := s.attachEpic(ctx, &updated, *req.EpicID); err != nil {
			return nil, err
		}
	}

	newAssignee := updated.AssigneeID
	if req.ClearAssignee {
		newAssignee = nil
	} else if req.AssigneeID != nil {
		newAssignee = req.AssigneeID
	}
	if !uuidPtrEqual(current.AssigneeID, newAssignee) {
		updated.AssigneeID = newAssignee
		events = append(events, domain.NewItemUpdateEvent(updated, domain.AssigneeChange{From: current.AssigneeID, To: newAssignee}, actorID, now))
	}

	newDue := updated.DueDate
	if req.ClearDueDate {
		newDue = nil
	} else if req.DueDate != nil {
		newDue = req.DueDate
	}
	if !timePtrEqual(current.DueDate, newDue) {
		updated.DueDate = newDue
		events = append(events, domain.NewItemUpdateEvent(updated, domain.DueDateChange{From: current.DueDate, To: newDue}, actorID, now))
	}

	before, after := current.ChecklistProgress(), updated.ChecklistProgress()
	if before.Done != after.Done {
		events = append(events, domain.NewItemUpdateEvent(updated, domain.ChecklistChange{From: before, To: after}, actorID, now))
	}

	statusChanged := false
	if req.Status != nil {
		result, err := engine.ApplyStatusChange(updated, domain.Status(*req.Status), engine.PathEditor, actorID, now)
		if err != nil {
			s.recordStatusChange(engine.PathEditor, "rejected")
			return nil, engineError(err)
		}
		if result.Changed {
			updated = result.Item
			events = append(events, *result.Event)
			statusChanged = true
		}
		s.recordStatusChange(engine.PathEditor, statusResult(result.Changed))
	}

	updated.UpdatedAt = now
	if err := s.repos.WorkItems.Update(ctx, &updated); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update work item", err.Error())
	}

	if statusChanged {
		s.focus(ctx, updated, now)
	}
	for _, event := range events {
		s.dispatcher.Dispatch(detached(ctx), event)
	}

	resp := toWorkItemResponse(updated)
	return &resp, nil
}

// ChangeStatus applies a drag between board columns. The workflow rules apply.
func (s *workItemServiceImpl) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.StatusChangeResponse, error) {
	actorID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.repos.WorkItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work item")
	}

	now := s.clock()
	result, err := engine.ApplyStatusChange(*item, domain.Status(req.Status), engine.PathBoard, actorID, now)
	if err != nil {
		s.recordStatusChange(engine.PathBoard, "rejected")
		s.logger.Info("Status change rejected",
			zap.String("work_item_id", id.String()),
			zap.String("from", string(item.Status)),
			zap.String("to", req.Status),
			zap.Error(err),
		)
		return nil, engineError(err)
	}
	s.recordStatusChange(engine.PathBoard, statusResult(result.Changed))

	if !result.Changed {
		return &dto.StatusChangeResponse{Item: toWorkItemResponse(*item), Changed: false}, nil
	}

	updated := result.Item
	if err := s.repos.WorkItems.Update(ctx, &updated); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update work item status", err.Error())
	}

	s.focus(ctx, updated, now)
	s.dispatcher.Dispatch(detached(ctx), *result.Event)

	return &dto.StatusChangeResponse{Item: toWorkItemResponse(updated), Changed: true}, nil
}

// AddComment stores a comment and notifies the item's audience
func (s *workItemServiceImpl) AddComment(ctx context.Context, id uuid.UUID, req *dto.AddCommentRequest) (*dto.CommentResponse, error) {
	authorID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, response.NewValidationError("Comment must not be empty", "")
	}

	item, err := s.repos.WorkItems.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work item")
	}

	comment := &domain.Comment{WorkItemID: id, AuthorID: authorID, Content: req.Content}
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add comment", err.Error())
	}

	preview := req.Content
	if r := []rune(preview); len(r) > commentPreviewLength {
		preview = string(r[:commentPreviewLength])
	}
	event := domain.NewItemUpdateEvent(*item, domain.CommentAdded{CommentID: comment.ID, Preview: preview}, authorID, s.clock())
	s.dispatcher.Dispatch(detached(ctx), event)

	resp := toCommentResponse(comment)
	return &resp, nil
}

// GetSpotlight returns the board's most recently moved item
func (s *workItemServiceImpl) GetSpotlight(ctx context.Context, boardID uuid.UUID) (*dto.SpotlightResponse, error) {
	spotlight, err := s.spotlights.Get(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load spotlight", err.Error())
	}
	resp := toSpotlightResponse(boardID, spotlight)
	return &resp, nil
}

func (s *workItemServiceImpl) placeInSprint(ctx context.Context, item *domain.WorkItem, sprintID uuid.UUID) error {
	sprint, err := s.repos.Sprints.FindByID(ctx, sprintID)
	if err != nil {
		return notFoundOr(err, "Sprint")
	}
	if sprint.BoardID != item.BoardID || sprint.State == domain.SprintStateDeleted {
		return response.NewValidationError("Sprint is not usable on this board", sprintID.String())
	}
	item.SprintID = &sprintID
	item.SprintBinding = domain.SprintBindingManual
	return nil
}

func (s *workItemServiceImpl) attachEpic(ctx context.Context, item *domain.WorkItem, epicID uuid.UUID) error {
	epic, err := s.repos.Epics.FindByID(ctx, epicID)
	if err != nil {
		return notFoundOr(err, "Epic")
	}
	if epic.BoardID != item.BoardID || epic.IsDeleted() {
		return response.NewValidationError("Epic is not usable on this board", epicID.String())
	}
	info := epic.Info()
	item.EpicID = &epicID
	item.EpicInfo = &info
	return nil
}

// focus moves the board spotlight; a failure only costs the highlight
func (s *workItemServiceImpl) focus(ctx context.Context, item domain.WorkItem, now time.Time) {
	current, err := s.spotlights.Get(ctx, item.BoardID)
	if err == nil {
		err = s.spotlights.Set(ctx, item.BoardID, current.Focus(item.ID, now))
	}
	if err != nil {
		s.logger.Warn("Failed to update spotlight",
			zap.String("board_id", item.BoardID.String()),
			zap.Error(err),
		)
	}
}

func (s *workItemServiceImpl) recordStatusChange(path engine.TransitionPath, result string) {
	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(path), result)
	}
}

func statusResult(changed bool) string {
	if changed {
		return "accepted"
	}
	return "unchanged"
}

func withWatcher(watchers []uuid.UUID, userID uuid.UUID) []uuid.UUID {
	for _, id := range watchers {
		if id == userID {
			return watchers
		}
	}
	return append(append([]uuid.UUID{}, watchers...), userID)
}
