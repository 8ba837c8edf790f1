package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one connection or transaction.
type Store struct {
	db *gorm.DB

	Users    UserRepository
	Projects ProjectRepository
	Tasks    TaskRepository
	Comments CommentRepository
	Activity ActivityRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
		Comments: NewCommentRepository(db),
		Activity: NewActivityRepository(db),
	}
}

// DB exposes the underlying handle, bound to the transaction when inside Transaction.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext returns a store whose queries observe ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn against a store bound to a single transaction. The connection is
// held until fn returns; any error from fn (or a panic) rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
