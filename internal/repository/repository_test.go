package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Board{},
		&domain.BoardMember{},
		&domain.Epic{},
		&domain.Sprint{},
		&domain.WorkItem{},
		&domain.Comment{},
	))
	return db
}

func newSprint(boardID uuid.UUID, number int, state domain.SprintState) *domain.Sprint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14*(number-1))
	return &domain.Sprint{
		BoardID: boardID,
		Number:  number,
		Name:    "Sprint",
		StartAt: start,
		EndAt:   start.AddDate(0, 0, 13),
		State:   state,
	}
}

func TestBoardRepository_MembersAndUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	board := &domain.Board{
		Name:    "Platform",
		OwnerID: owner,
		Members: []domain.BoardMember{{UserID: owner, Role: domain.RoleOwner}},
	}
	require.NoError(t, repo.Create(ctx, board))

	found, err := repo.FindByID(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, found.Members, 1)
	assert.Equal(t, domain.RoleOwner, found.Members[0].Role)

	viewer := uuid.New()
	require.NoError(t, repo.UpsertMember(ctx, &domain.BoardMember{BoardID: board.ID, UserID: viewer, Role: domain.RoleViewer}))
	require.NoError(t, repo.UpsertMember(ctx, &domain.BoardMember{BoardID: board.ID, UserID: viewer, Role: domain.RoleAdmin}))

	member, err := repo.FindMember(ctx, board.ID, viewer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, member.Role)

	members, err := repo.FindMembers(ctx, board.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = repo.FindMember(ctx, board.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWorkItemRepository_FilterAndBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkItemRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	sprintID := uuid.New()
	epicID := uuid.New()
	reporter := uuid.New()

	items := []*domain.WorkItem{
		{BoardID: boardID, Title: "a", Type: domain.WorkItemTypeTask, Status: domain.StatusTodo, SprintID: &sprintID, ReporterID: reporter},
		{BoardID: boardID, Title: "b", Type: domain.WorkItemTypeTask, Status: domain.StatusDone, EpicID: &epicID, ReporterID: reporter, Watchers: []uuid.UUID{reporter}},
		{BoardID: uuid.New(), Title: "c", Type: domain.WorkItemTypeTask, Status: domain.StatusTodo, ReporterID: reporter},
	}
	for _, item := range items {
		require.NoError(t, repo.Create(ctx, item))
	}

	all, err := repo.FindByBoardID(ctx, boardID, WorkItemFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inSprint, err := repo.FindByBoardID(ctx, boardID, WorkItemFilter{SprintID: &sprintID})
	require.NoError(t, err)
	require.Len(t, inSprint, 1)
	assert.Equal(t, "a", inSprint[0].Title)

	done := domain.StatusDone
	doneItems, err := repo.FindByBoardID(ctx, boardID, WorkItemFilter{Status: &done, EpicID: &epicID})
	require.NoError(t, err)
	require.Len(t, doneItems, 1)
	assert.Equal(t, []uuid.UUID{reporter}, []uuid.UUID(doneItems[0].Watchers))

	all[0].Status = domain.StatusInProgress
	all[1].EpicID = nil
	require.NoError(t, repo.SaveBatch(ctx, all))

	reloaded, err := repo.FindByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, reloaded.Status)

	reloaded, err = repo.FindByID(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.EpicID)

	everything, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestEpicRepository_DeletedFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpicRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	now := time.Now()
	live := &domain.Epic{BoardID: boardID, Name: "Live", Status: domain.EpicStatusActive}
	gone := &domain.Epic{BoardID: boardID, Name: "Gone", Status: domain.EpicStatusDeleted, DeletedAt: &now}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, gone))

	visible, err := repo.FindByBoardID(ctx, boardID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Live", visible[0].Name)

	everything, err := repo.FindByBoardID(ctx, boardID, true)
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	count, err := repo.CountByBoardID(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	gone.DeletedAt = nil
	gone.Status = domain.EpicStatusActive
	require.NoError(t, repo.Update(ctx, gone))
	found, err := repo.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Nil(t, found.DeletedAt)
}

func TestSprintRepository_SchedulableAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSprintRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	now := time.Now()
	planned := newSprint(boardID, 1, domain.SprintStatePlanned)
	active := newSprint(boardID, 2, domain.SprintStateActive)
	closed := newSprint(boardID, 3, domain.SprintStateClosed)
	deleted := newSprint(boardID, 4, domain.SprintStatePlanned)
	deleted.DeletedAt = &now
	for _, s := range []*domain.Sprint{planned, active, closed, deleted} {
		require.NoError(t, repo.Create(ctx, s))
	}

	schedulable, err := repo.FindSchedulable(ctx)
	require.NoError(t, err)
	require.Len(t, schedulable, 2)
	assert.Equal(t, 1, schedulable[0].Number)
	assert.Equal(t, 2, schedulable[1].Number)

	visible, err := repo.FindByBoardID(ctx, boardID, false)
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	count, err := repo.CountByBoardID(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	dup := newSprint(boardID, 2, domain.SprintStatePlanned)
	assert.Error(t, repo.Create(ctx, dup), "sprint numbers are unique per board")
}

func TestCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	itemID := uuid.New()
	require.NoError(t, repo.Create(ctx, &domain.Comment{WorkItemID: itemID, AuthorID: uuid.New(), Content: "first"}))
	require.NoError(t, repo.Create(ctx, &domain.Comment{WorkItemID: uuid.New(), AuthorID: uuid.New(), Content: "other"}))

	comments, err := repo.FindByWorkItemID(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Content)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	ctx := context.Background()
	boardID := uuid.New()

	err := tx.WithinTransaction(ctx, func(repos Repositories) error {
		if err := repos.Sprints.Create(ctx, newSprint(boardID, 1, domain.SprintStatePlanned)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	count, err := NewSprintRepository(db).CountByBoardID(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	err = tx.WithinTransaction(ctx, func(repos Repositories) error {
		return repos.Sprints.Create(ctx, newSprint(boardID, 1, domain.SprintStatePlanned))
	})
	require.NoError(t, err)

	count, err = NewSprintRepository(db).CountByBoardID(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
