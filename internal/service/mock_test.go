package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/repository"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc       func(ctx context.Context, board *domain.Board) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindAllFunc      func(ctx context.Context) ([]*domain.Board, error)
	FindMemberFunc   func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
	FindMembersFunc  func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error)
	UpsertMemberFunc func(ctx context.Context, member *domain.BoardMember) error
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindAll(ctx context.Context) ([]*domain.Board, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindMember(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error) {
	if m.FindMemberFunc != nil {
		return m.FindMemberFunc(ctx, boardID, userID)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindMembers(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	if m.FindMembersFunc != nil {
		return m.FindMembersFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockBoardRepository) UpsertMember(ctx context.Context, member *domain.BoardMember) error {
	if m.UpsertMemberFunc != nil {
		return m.UpsertMemberFunc(ctx, member)
	}
	return nil
}

// MockWorkItemRepository is a mock implementation of WorkItemRepository
type MockWorkItemRepository struct {
	CreateFunc        func(ctx context.Context, item *domain.WorkItem) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error)
	FindByBoardIDFunc func(ctx context.Context, boardID uuid.UUID, filter repository.WorkItemFilter) ([]domain.WorkItem, error)
	FindAllFunc       func(ctx context.Context) ([]domain.WorkItem, error)
	UpdateFunc        func(ctx context.Context, item *domain.WorkItem) error
	SaveBatchFunc     func(ctx context.Context, items []domain.WorkItem) error
}

func (m *MockWorkItemRepository) Create(ctx context.Context, item *domain.WorkItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil
}

func (m *MockWorkItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkItemRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID, filter repository.WorkItemFilter) ([]domain.WorkItem, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID, filter)
	}
	return nil, nil
}

func (m *MockWorkItemRepository) FindAll(ctx context.Context) ([]domain.WorkItem, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockWorkItemRepository) Update(ctx context.Context, item *domain.WorkItem) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	return nil
}

func (m *MockWorkItemRepository) SaveBatch(ctx context.Context, items []domain.WorkItem) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, items)
	}
	return nil
}

// MockEpicRepository is a mock implementation of EpicRepository
type MockEpicRepository struct {
	CreateFunc         func(ctx context.Context, epic *domain.Epic) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Epic, error)
	FindByBoardIDFunc  func(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Epic, error)
	CountByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) (int64, error)
	UpdateFunc         func(ctx context.Context, epic *domain.Epic) error
}

func (m *MockEpicRepository) Create(ctx context.Context, epic *domain.Epic) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, epic)
	}
	return nil
}

func (m *MockEpicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Epic, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEpicRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Epic, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID, includeDeleted)
	}
	return nil, nil
}

func (m *MockEpicRepository) CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error) {
	if m.CountByBoardIDFunc != nil {
		return m.CountByBoardIDFunc(ctx, boardID)
	}
	return 0, nil
}

func (m *MockEpicRepository) Update(ctx context.Context, epic *domain.Epic) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, epic)
	}
	return nil
}

// MockSprintRepository is a mock implementation of SprintRepository
type MockSprintRepository struct {
	CreateFunc          func(ctx context.Context, sprint *domain.Sprint) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Sprint, error)
	FindByBoardIDFunc   func(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Sprint, error)
	FindAllFunc         func(ctx context.Context) ([]domain.Sprint, error)
	FindSchedulableFunc func(ctx context.Context) ([]domain.Sprint, error)
	CountByBoardIDFunc  func(ctx context.Context, boardID uuid.UUID) (int64, error)
	UpdateFunc          func(ctx context.Context, sprint *domain.Sprint) error
	SaveBatchFunc       func(ctx context.Context, sprints []domain.Sprint) error
}

func (m *MockSprintRepository) Create(ctx context.Context, sprint *domain.Sprint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sprint)
	}
	return nil
}

func (m *MockSprintRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSprintRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Sprint, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID, includeDeleted)
	}
	return nil, nil
}

func (m *MockSprintRepository) FindAll(ctx context.Context) ([]domain.Sprint, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockSprintRepository) FindSchedulable(ctx context.Context) ([]domain.Sprint, error) {
	if m.FindSchedulableFunc != nil {
		return m.FindSchedulableFunc(ctx)
	}
	return nil, nil
}

func (m *MockSprintRepository) CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error) {
	if m.CountByBoardIDFunc != nil {
		return m.CountByBoardIDFunc(ctx, boardID)
	}
	return 0, nil
}

func (m *MockSprintRepository) Update(ctx context.Context, sprint *domain.Sprint) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sprint)
	}
	return nil
}

func (m *MockSprintRepository) SaveBatch(ctx context.Context, sprints []domain.Sprint) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, sprints)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc           func(ctx context.Context, comment *domain.Comment) error
	FindByWorkItemIDFunc func(ctx context.Context, workItemID uuid.UUID) ([]*domain.Comment, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByWorkItemID(ctx context.Context, workItemID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByWorkItemIDFunc != nil {
		return m.FindByWorkItemIDFunc(ctx, workItemID)
	}
	return nil, nil
}

// MockTransactor runs fn against the same repositories without a real transaction
type MockTransactor struct {
	Repos repository.Repositories
	Err   error
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Repos)
}

type mockRepos struct {
	boards    *MockBoardRepository
	workItems *MockWorkItemRepository
	epics     *MockEpicRepository
	sprints   *MockSprintRepository
	comments  *MockCommentRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		boards:    &MockBoardRepository{},
		workItems: &MockWorkItemRepository{},
		epics:     &MockEpicRepository{},
		sprints:   &MockSprintRepository{},
		comments:  &MockCommentRepository{},
	}
}

func (m *mockRepos) repositories() repository.Repositories {
	return repository.Repositories{
		Boards:    m.boards,
		WorkItems: m.workItems,
		Epics:     m.epics,
		Sprints:   m.sprints,
		Comments:  m.comments,
	}
}

// recordingDispatcher keeps every dispatched event
type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.ItemUpdateEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event domain.ItemUpdateEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Events() []domain.ItemUpdateEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ItemUpdateEvent(nil), d.events...)
}

func withUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), "user_id", userID)
}

func intPtr(v int) *int {
	return &v
}
