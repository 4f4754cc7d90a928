package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the repositories bound to one connection or transaction
type Repositories struct {
	Boards    BoardRepository
	WorkItems WorkItemRepository
	Epics     EpicRepository
	Sprints   SprintRepository
	Comments  CommentRepository
}

// NewRepositories binds every repository to db
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Boards:    NewBoardRepository(db),
		WorkItems: NewWorkItemRepository(db),
		Epics:     NewEpicRepository(db),
		Sprints:   NewSprintRepository(db),
		Comments:  NewCommentRepository(db),
	}
}

// Transactor runs fn with repositories bound to a single transaction. Any
// error from fn rolls the whole batch back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a gorm backed Transactor
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
