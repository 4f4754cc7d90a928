package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withTestUser puts the authenticated user id where the auth middleware would
func withTestUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// MockBoardService is a mock implementation of BoardService
type MockBoardService struct {
	CreateBoardFunc    func(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoardFunc       func(ctx context.Context, boardID uuid.UUID) (*dto.BoardResponse, error)
	AddMemberFunc      func(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.BoardResponse, error)
	CanFunc            func(ctx context.Context, boardID, userID uuid.UUID, permission string) (bool, error)
	ResolveBoardIDFunc func(ctx context.Context, resource string, id uuid.UUID) (uuid.UUID, error)
}

func (m *MockBoardService) CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, boardID uuid.UUID) (*dto.BoardResponse, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockBoardService) AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.BoardResponse, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, boardID, req)
	}
	return nil, nil
}

func (m *MockBoardService) Can(ctx context.Context, boardID, userID uuid.UUID, permission string) (bool, error) {
	if m.CanFunc != nil {
		return m.CanFunc(ctx, boardID, userID, permission)
	}
	return true, nil
}

func (m *MockBoardService) ResolveBoardID(ctx context.Context, resource string, id uuid.UUID) (uuid.UUID, error) {
	if m.ResolveBoardIDFunc != nil {
		return m.ResolveBoardIDFunc(ctx, resource, id)
	}
	return id, nil
}

// MockWorkItemService is a mock implementation of WorkItemService
type MockWorkItemService struct {
	CreateWorkItemFunc func(ctx context.Context, boardID uuid.UUID, req *dto.CreateWorkItemRequest) (*dto.WorkItemResponse, error)
	GetWorkItemFunc    func(ctx context.Context, id uuid.UUID) (*dto.WorkItemResponse, error)
	ListWorkItemsFunc  func(ctx context.Context, boardID uuid.UUID, filters dto.WorkItemFilters) ([]dto.WorkItemResponse, error)
	UpdateWorkItemFunc func(ctx context.Context, id uuid.UUID, req *dto.UpdateWorkItemRequest) (*dto.WorkItemResponse, error)
	ChangeStatusFunc   func(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.StatusChangeResponse, error)
	AddCommentFunc     func(ctx context.Context, id uuid.UUID, req *dto.AddCommentRequest) (*dto.CommentResponse, error)
	GetSpotlightFunc   func(ctx context.Context, boardID uuid.UUID) (*dto.SpotlightResponse, error)
}

func (m *MockWorkItemService) CreateWorkItem(ctx context.Context, boardID uuid.UUID, req *dto.CreateWorkItemRequest) (*dto.WorkItemResponse, error) {
	if m.CreateWorkItemFunc != nil {
		return m.CreateWorkItemFunc(ctx, boardID, req)
	}
	return nil, nil
}

func (m *MockWorkItemService) GetWorkItem(ctx context.Context, id uuid.UUID) (*dto.WorkItemResponse, error) {
	if m.GetWorkItemFunc != nil {
		return m.GetWorkItemFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkItemService) ListWorkItems(ctx context.Context, boardID uuid.UUID, filters dto.WorkItemFilters) ([]dto.WorkItemResponse, error) {
	if m.ListWorkItemsFunc != nil {
		return m.ListWorkItemsFunc(ctx, boardID, filters)
	}
	return nil, nil
}

func (m *MockWorkItemService) UpdateWorkItem(ctx context.Context, id uuid.UUID, req *dto.UpdateWorkItemRequest) (*dto.WorkItemResponse, error) {
	if m.UpdateWorkItemFunc != nil {
		return m.UpdateWorkItemFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockWorkItemService) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.StatusChangeResponse, error) {
	if m.ChangeStatusFunc != nil {
		return m.ChangeStatusFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockWorkItemService) AddComment(ctx context.Context, id uuid.UUID, req *dto.AddCommentRequest) (*dto.CommentResponse, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockWorkItemService) GetSpotlight(ctx context.Context, boardID uuid.UUID) (*dto.SpotlightResponse, error) {
	if m.GetSpotlightFunc != nil {
		return m.GetSpotlightFunc(ctx, boardID)
	}
	return &dto.SpotlightResponse{BoardID: boardID}, nil
}

// MockEpicService is a mock implementation of EpicService
type MockEpicService struct {
	CreateEpicFunc       func(ctx context.Context, boardID uuid.UUID, req *dto.CreateEpicRequest) (*dto.EpicResponse, error)
	ListEpicsFunc        func(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.EpicResponse, error)
	UpdateEpicFunc       func(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicRequest) (*dto.EpicResponse, error)
	UpdateEpicStatusFunc func(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicStatusRequest) (*dto.EpicResponse, error)
	DeleteEpicFunc       func(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error)
	RestoreEpicFunc      func(ctx context.Context, id uuid.UUID) (*dto.EpicResponse, error)
}

func (m *MockEpicService) CreateEpic(ctx context.Context, boardID uuid.UUID, req *dto.CreateEpicRequest) (*dto.EpicResponse, error) {
	if m.CreateEpicFunc != nil {
		return m.CreateEpicFunc(ctx, boardID, req)
	}
	return nil, nil
}

func (m *MockEpicService) ListEpics(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.EpicResponse, error) {
	if m.ListEpicsFunc != nil {
		return m.ListEpicsFunc(ctx, boardID, includeDeleted)
	}
	return nil, nil
}

func (m *MockEpicService) UpdateEpic(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicRequest) (*dto.EpicResponse, error) {
	if m.UpdateEpicFunc != nil {
		return m.UpdateEpicFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockEpicService) UpdateEpicStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicStatusRequest) (*dto.EpicResponse, error) {
	if m.UpdateEpicStatusFunc != nil {
		return m.UpdateEpicStatusFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockEpicService) DeleteEpic(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error) {
	if m.DeleteEpicFunc != nil {
		return m.DeleteEpicFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEpicService) RestoreEpic(ctx context.Context, id uuid.UUID) (*dto.EpicResponse, error) {
	if m.RestoreEpicFunc != nil {
		return m.RestoreEpicFunc(ctx, id)
	}
	return nil, nil
}

// MockSprintService is a mock implementation of SprintService
type MockSprintService struct {
	CreateSprintFunc  func(ctx context.Context, boardID uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error)
	UpdateSprintFunc  func(ctx context.Context, id uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error)
	ListSprintsFunc   func(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.SprintResponse, error)
	DeleteSprintFunc  func(ctx context.Context, id uuid.UUID, req *dto.DeleteSprintRequest) (*dto.DeleteResponse, error)
	RestoreSprintFunc func(ctx context.Context, id uuid.UUID) (*dto.SprintResponse, error)
	TickFunc          func(ctx context.Context) ([]engine.SprintTransition, error)
}

func (m *MockSprintService) CreateSprint(ctx context.Context, boardID uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error) {
	if m.CreateSprintFunc != nil {
		return m.CreateSprintFunc(ctx, boardID, req)
	}
	return nil, nil
}

func (m *MockSprintService) UpdateSprint(ctx context.Context, id uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error) {
	if m.UpdateSprintFunc != nil {
		return m.UpdateSprintFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockSprintService) ListSprints(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.SprintResponse, error) {
	if m.ListSprintsFunc != nil {
		return m.ListSprintsFunc(ctx, boardID, includeDeleted)
	}
	return nil, nil
}

func (m *MockSprintService) DeleteSprint(ctx context.Context, id uuid.UUID, req *dto.DeleteSprintRequest) (*dto.DeleteResponse, error) {
	if m.DeleteSprintFunc != nil {
		return m.DeleteSprintFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockSprintService) RestoreSprint(ctx context.Context, id uuid.UUID) (*dto.SprintResponse, error) {
	if m.RestoreSprintFunc != nil {
		return m.RestoreSprintFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSprintService) Tick(ctx context.Context) ([]engine.SprintTransition, error) {
	if m.TickFunc != nil {
		return m.TickFunc(ctx)
	}
	return nil, nil
}

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	VelocityFunc     func(ctx context.Context, boardID uuid.UUID) (*engine.VelocityReport, error)
	BurndownFunc     func(ctx context.Context, sprintID uuid.UUID) (*engine.BurndownReport, error)
	WorkloadFunc     func(ctx context.Context, boardID uuid.UUID) ([]engine.WorkloadRow, error)
	EpicProgressFunc func(ctx context.Context, boardID uuid.UUID) ([]dto.EpicProgressResponse, error)
}

func (m *MockReportService) Velocity(ctx context.Context, boardID uuid.UUID) (*engine.VelocityReport, error) {
	if m.VelocityFunc != nil {
		return m.VelocityFunc(ctx, boardID)
	}
	return &engine.VelocityReport{}, nil
}

func (m *MockReportService) Burndown(ctx context.Context, sprintID uuid.UUID) (*engine.BurndownReport, error) {
	if m.BurndownFunc != nil {
		return m.BurndownFunc(ctx, sprintID)
	}
	return &engine.BurndownReport{}, nil
}

func (m *MockReportService) Workload(ctx context.Context, boardID uuid.UUID) ([]engine.WorkloadRow, error) {
	if m.WorkloadFunc != nil {
		return m.WorkloadFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockReportService) EpicProgress(ctx context.Context, boardID uuid.UUID) ([]dto.EpicProgressResponse, error) {
	if m.EpicProgressFunc != nil {
		return m.EpicProgressFunc(ctx, boardID)
	}
	return nil, nil
}

// MockSnapshotService is a mock implementation of SnapshotService
type MockSnapshotService struct {
	ExportFunc     func(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error)
	ImportFunc     func(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error)
	MigrateAllFunc func(ctx context.Context) (int, error)
}

func (m *MockSnapshotService) Export(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, boardID)
	}
	return &dto.SnapshotResponse{BoardID: boardID}, nil
}

func (m *MockSnapshotService) Import(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, boardID)
	}
	return &dto.SnapshotResponse{BoardID: boardID}, nil
}

func (m *MockSnapshotService) MigrateAll(ctx context.Context) (int, error) {
	if m.MigrateAllFunc != nil {
		return m.MigrateAllFunc(ctx)
	}
	return 0, nil
}
