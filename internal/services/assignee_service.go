package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

// AssigneeTarget names the user to assign, by ID or by username.
type AssigneeTarget struct {
	UserID   uint64
	Username string
}

// ListAssignees returns the users assigned to a task.
func (s *TaskService) ListAssignees(ctx context.Context, taskID uint64) ([]repository.AssigneeRow, error) {
	store := s.store.WithContext(ctx)
	if _, err := store.Tasks.FindByID(taskID); err != nil {
		return nil, notFound(err, ErrTaskNotFound, "find task %d", taskID)
	}

	byTask, err := store.Tasks.ListAssignees(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	if byTask[taskID] == nil {
		return []repository.AssigneeRow{}, nil
	}
	return byTask[taskID], nil
}

// AddAssignee assigns a project member to a task. Managers only.
func (s *TaskService) AddAssignee(ctx context.Context, taskID, requesterID uint64, target AssigneeTarget) (*repository.AssigneeRow, error) {
	target.Username = strings.TrimSpace(target.Username)
	if target.UserID == 0 && target.Username == "" {
		return nil, ErrAssigneeRequired
	}

	var assignee *repository.AssigneeRow
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(taskID)
		if err != nil {
			return notFound(err, ErrTaskNotFound, "find task %d", taskID)
		}
		if err := authz.RequireProjectManager(tx, task.ProjectID, requesterID); err != nil {
			return err
		}

		user, err := resolveAssignee(tx, target)
		if err != nil {
			return err
		}

		isMember, err := authz.IsProjectMember(tx, task.ProjectID, user.ID)
		if err != nil {
			return err
		}
		if !isMember {
			return ErrNotProjectMember
		}

		if _, err := tx.Tasks.FindAssignee(taskID, user.ID); err == nil {
			return ErrAlreadyAssigned
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check assignment: %w", err)
		}

		if err := tx.Tasks.AddAssignee(taskID, user.ID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAssigned
			}
			return fmt.Errorf("failed to add assignee: %w", err)
		}
		assignee = &repository.AssigneeRow{TaskID: taskID, UserID: user.ID, Username: user.Username}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: task.ProjectID,
			TaskID:    &task.ID,
			Payload: activity.AssigneeAdded{
				TaskName:         task.Name,
				AssigneeID:       user.ID,
				AssigneeUsername: user.Username,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return assignee, nil
}

// RemoveAssignee unassigns a user from a task. Managers only. A manager cannot remove
// themselves while the task has at most one assignee, but may leave another user's
// task with no assignees.
func (s *TaskService) RemoveAssignee(ctx context.Context, taskID, requesterID, targetID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(taskID)
		if err != nil {
			return notFound(err, ErrTaskNotFound, "find task %d", taskID)
		}
		if err := authz.RequireProjectManager(tx, task.ProjectID, requesterID); err != nil {
			return err
		}

		if requesterID == targetID {
			last, err := authz.AtMostOneAssignee(tx, taskID)
			if err != nil {
				return err
			}
			if last {
				return ErrSoleAssignee
			}
		}

		user, err := findUser(tx, targetID, ErrAssigneeNotFound)
		if err != nil {
			return err
		}

		rows, err := tx.Tasks.RemoveAssignee(taskID, targetID)
		if err != nil {
			return fmt.Errorf("failed to remove assignee: %w", err)
		}
		if rows == 0 {
			return ErrAssigneeNotFound
		}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: task.ProjectID,
			TaskID:    &task.ID,
			Payload: activity.AssigneeRemoved{
				TaskName:         task.Name,
				AssigneeID:       user.ID,
				AssigneeUsername: user.Username,
			},
		})
	})
}

func resolveAssignee(tx *repository.Store, target AssigneeTarget) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if target.UserID != 0 {
		user, err = tx.Users.FindByID(target.UserID)
	} else {
		user, err = tx.Users.FindByUsername(target.Username)
	}
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find assignee")
	}
	return user, nil
}
