package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/persistence"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

// SnapshotService exports and imports whole boards through a persistence store
type SnapshotService interface {
	Export(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error)
	Import(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error)
	// MigrateAll upgrades legacy work items on every board and returns how
	// many items changed.
	MigrateAll(ctx context.Context) (int, error)
}

// snapshotServiceImpl is the implementation of SnapshotService
type snapshotServiceImpl struct {
	repos  repository.Repositories
	tx     repository.Transactor
	store  persistence.Store
	clock  Clock
	logger *zap.Logger
}

// NewSnapshotService creates a new instance of SnapshotService
func NewSnapshotService(
	repos repository.Repositories,
	tx repository.Transactor,
	store persistence.Store,
	clock Clock,
	logger *zap.Logger,
) SnapshotService {
	if clock == nil {
		clock = systemClock
	}
	return &snapshotServiceImpl{
		repos:  repos,
		tx:     tx,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// checkSnapshotBoard rejects a snapshot carrying rows of another board
func checkSnapshotBoard(snapshot domain.BoardSnapshot, boardID uuid.UUID) error {
	for _, e := range snapshot.Epics {
		if e.BoardID != boardID {
			return response.NewValidationError("Snapshot epic belongs to another board", e.ID.String())
		}
	}
	for _, sp := range snapshot.Sprints {
		if sp.BoardID != boardID {
			return response.NewValidationError("Snapshot sprint belongs to another board", sp.ID.String())
		}
	}
	for _, item := range snapshot.WorkItems {
		if item.BoardID != boardID {
			return response.NewValidationError("Snapshot work item belongs to another board", item.ID.String())
		}
	}
	return nil
}

func snapshotKey(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}

// Export writes the board's current state under so.board:<id>
func (s *snapshotServiceImpl) Export(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error) {
	board, err := s.repos.Boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, notFoundOr(err, "Board")
	}
	items, err := s.repos.WorkItems.FindByBoardID(ctx, boardID, repository.WorkItemFilter{})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load work items", err.Error())
	}
	epics, err := s.repos.Epics.FindByBoardID(ctx, boardID, true)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load epics", err.Error())
	}
	sprints, err := s.repos.Sprints.FindByBoardID(ctx, boardID, true)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load sprints", err.Error())
	}

	snapshot := domain.BoardSnapshot{Board: *board, WorkItems: items, Epics: epics, Sprints: sprints}
	key := snapshotKey(boardID)
	if err := persistence.Save(ctx, s.store, key, snapshot); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to save snapshot", err.Error())
	}

	s.logger.Info("Board snapshot exported",
		zap.String("board_id", boardID.String()),
		zap.Int("work_items", len(items)),
	)
	return &dto.SnapshotResponse{
		BoardID:   boardID,
		Key:       persistence.Key(key),
		WorkItems: len(items),
		Epics:     len(epics),
		Sprints:   len(sprints),
		At:        s.clock(),
	}, nil
}

// Import upserts the stored snapshot's epics, sprints and work items,
// migrating legacy work items on the way in. Rows created after the export
// are left alone. Nothing is written when no usable snapshot exists or when
// an entry belongs to another board.
func (s *snapshotServiceImpl) Import(ctx context.Context, boardID uuid.UUID) (*dto.SnapshotResponse, error) {
	key := snapshotKey(boardID)
	snapshot := persistence.Load(ctx, s.store, key, domain.BoardSnapshot{})
	if snapshot.Board.ID != boardID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Snapshot not found", persistence.Key(key))
	}
	if err := checkSnapshotBoard(snapshot, boardID); err != nil {
		return nil, err
	}

	items, migrated := engine.MigrateWorkItems(snapshot.WorkItems, snapshot.Sprints)
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		for i := range snapshot.Epics {
			if err := repos.Epics.Update(ctx, &snapshot.Epics[i]); err != nil {
				return err
			}
		}
		if err := repos.Sprints.SaveBatch(ctx, snapshot.Sprints); err != nil {
			return err
		}
		return repos.WorkItems.SaveBatch(ctx, items)
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to import snapshot", err.Error())
	}

	s.logger.Info("Board snapshot imported",
		zap.String("board_id", boardID.String()),
		zap.Int("migrated_items", migrated),
	)
	return &dto.SnapshotResponse{
		BoardID:       boardID,
		Key:           persistence.Key(key),
		WorkItems:     len(items),
		Epics:         len(snapshot.Epics),
		Sprints:       len(snapshot.Sprints),
		MigratedItems: migrated,
		At:            s.clock(),
	}, nil
}

func (s *snapshotServiceImpl) MigrateAll(ctx context.Context) (int, error) {
	boards, err := s.repos.Boards.FindAll(ctx)
	if err != nil {
		return 0, response.NewAppError(response.ErrCodeInternal, "Failed to load boards", err.Error())
	}

	total := 0
	for _, board := range boards {
		var changed int
		err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
			sprints, err := repos.Sprints.FindByBoardID(ctx, board.ID, true)
			if err != nil {
				return err
			}
			items, err := repos.WorkItems.FindByBoardID(ctx, board.ID, repository.WorkItemFilter{})
			if err != nil {
				return err
			}
			migrated, n := engine.MigrateWorkItems(items, sprints)
			if n == 0 {
				return nil
			}
			changed = n
			return repos.WorkItems.SaveBatch(ctx, changedItems(items, migrated))
		})
		if err != nil {
			return total, response.NewAppError(response.ErrCodeInternal, "Failed to migrate board "+board.ID.String(), err.Error())
		}
		if changed > 0 {
			s.logger.Info("Board migrated",
				zap.String("board_id", board.ID.String()),
				zap.Int("migrated_items", changed),
			)
		}
		total += changed
	}
	return total, nil
}

// changedItems keeps the entries of after that differ from before in the
// fields migration touches
func changedItems(before, after []domain.WorkItem) []domain.WorkItem {
	var out []domain.WorkItem
	for i := range after {
		b, a := before[i], after[i]
		if b.SprintBinding != a.SprintBinding || (b.LegacySprint == nil) != (a.LegacySprint == nil) || !uuidPtrEqual(b.SprintID, a.SprintID) {
			out = append(out, a)
		}
	}
	return out
}
