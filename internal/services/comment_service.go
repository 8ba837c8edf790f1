package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
)

type CommentService struct {
	store *repository.Store
}

func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) ListComments(ctx context.Context, taskID uint64) ([]repository.CommentRow, error) {
	store := s.store.WithContext(ctx)
	if _, err := store.Tasks.FindByID(taskID); err != nil {
		return nil, notFound(err, ErrTaskNotFound, "find task %d", taskID)
	}

	comments, err := store.Comments.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment posts a comment on a task as the requester.
func (s *CommentService) AddComment(ctx context.Context, taskID, requesterID uint64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentRequired
	}

	comment := &models.Comment{TaskID: taskID, UserID: requesterID, Content: content}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(tx, requesterID); err != nil {
			return err
		}
		if _, err := tx.Tasks.FindByID(taskID); err != nil {
			return notFound(err, ErrTaskNotFound, "find task %d", taskID)
		}
		if err := tx.Comments.Create(comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes a comment. Only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Comments.FindByID(commentID); err != nil {
			return notFound(err, ErrCommentNotFound, "find comment %d", commentID)
		}
		if err := authz.RequireCommentAuthor(tx, commentID, requesterID); err != nil {
			return err
		}

		rows, err := tx.Comments.Delete(commentID)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		if rows == 0 {
			return ErrCommentNotFound
		}
		return nil
	})
}
