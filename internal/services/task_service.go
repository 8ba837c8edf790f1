package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	store     *repository.Store
	recorder  *activity.Recorder
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. A nil generator disables AI suggestions.
func NewTaskService(store *repository.Store, recorder *activity.Recorder, generator TaskGenerator) *TaskService {
	return &TaskService{
		store:     store,
		recorder:  recorder,
		generator: generator,
		now:       time.Now,
	}
}

// TaskView is a task row with its assignees
type TaskView struct {
	repository.TaskRow
	Assignees []repository.AssigneeRow
}

// TaskDetail is a task with its assignees and comments
type TaskDetail struct {
	TaskView
	Comments []repository.CommentRow
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name    string
	Content string
	Status  models.TaskStatus
	DueDate *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Name         *string
	Content      *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

// CreateTask creates a task in a project and assigns it to its creator.
func (s *TaskService) CreateTask(ctx context.Context, projectID, requesterID uint64, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{
		ProjectID:       projectID,
		Name:            name,
		Content:         input.Content,
		Status:          input.Status,
		DueDate:         input.DueDate,
		CreatedByUserID: requesterID,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(tx, requesterID); err != nil {
			return err
		}
		if err := findProject(tx, projectID); err != nil {
			return err
		}

		if err := tx.Tasks.Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := tx.Tasks.AddAssignee(task.ID, requesterID); err != nil {
			return fmt.Errorf("failed to assign creator: %w", err)
		}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: projectID,
			TaskID:    &task.ID,
			Payload:   activity.TaskCreated{TaskName: task.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns a project's tasks, newest first, with their assignees.
func (s *TaskService) ListTasks(ctx context.Context, projectID uint64) ([]TaskView, error) {
	store := s.store.WithContext(ctx)
	if err := findProject(store, projectID); err != nil {
		return nil, err
	}

	rows, err := store.Tasks.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return withAssignees(store, rows)
}

// GetTask returns a task with its creator's username, assignees and comments.
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*TaskDetail, error) {
	store := s.store.WithContext(ctx)

	row, err := store.Tasks.FindDetail(taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound, "find task %d", taskID)
	}

	views, err := withAssignees(store, []repository.TaskRow{*row})
	if err != nil {
		return nil, err
	}

	comments, err := store.Comments.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &TaskDetail{TaskView: views[0], Comments: comments}, nil
}

// UpdateTask applies the given changes to a task.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, requesterID uint64, input UpdateTaskInput) (*models.Task, error) {
	fields := map[string]interface{}{}
	var changed []string

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTaskNameEmpty
		}
		fields["name"] = name
		changed = append(changed, "title")
	}
	if input.Content != nil {
		fields["content"] = *input.Content
		changed = append(changed, "content")
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		fields["status"] = *input.Status
		changed = append(changed, "status")
	}
	if input.ClearDueDate {
		fields["due_date"] = nil
		changed = append(changed, "due_date")
	} else if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
		changed = append(changed, "due_date")
	}

	var task *models.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(tx, requesterID); err != nil {
			return err
		}

		var err error
		task, err = tx.Tasks.FindByID(taskID)
		if err != nil {
			return notFound(err, ErrTaskNotFound, "find task %d", taskID)
		}
		if len(fields) == 0 {
			return nil
		}

		rows, err := tx.Tasks.Update(taskID, fields)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if rows == 0 {
			return ErrTaskNotFound
		}

		task, err = tx.Tasks.FindByID(taskID)
		if err != nil {
			return notFound(err, ErrTaskNotFound, "reload task %d", taskID)
		}
		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: task.ProjectID,
			TaskID:    &task.ID,
			Payload:   activity.TaskUpdated{TaskName: task.Name, Changed: changed},
		})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task with its comments and assignees. Managers of the task's
// project only. The log entry is written first and outlives the task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, requesterID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(taskID)
		if err != nil {
			return notFound(err, ErrTaskNotFound, "find task %d", taskID)
		}
		if err := authz.RequireProjectManager(tx, task.ProjectID, requesterID); err != nil {
			return err
		}

		if err := s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: task.ProjectID,
			TaskID:    &task.ID,
			Payload:   activity.TaskDeleted{TaskName: task.Name},
		}); err != nil {
			return err
		}

		rows, err := tx.Tasks.Delete(taskID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if rows == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// ListDueTasks returns the user's assigned tasks due from the start of today through
// the end of the seventh day after it, soonest first.
func (s *TaskService) ListDueTasks(ctx context.Context, userID uint64) ([]repository.TaskRow, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, constants.DueAlertWindowDays)

	rows, err := s.store.WithContext(ctx).Tasks.ListDueForUser(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return rows, nil
}

// GenerateTasks asks the AI service for task suggestions. Nothing is persisted; the
// client creates the tasks it keeps.
func (s *TaskService) GenerateTasks(ctx context.Context, projectID, requesterID uint64, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotEnabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrGenerateTextEmpty
	}

	store := s.store.WithContext(ctx)
	if err := findProject(store, projectID); err != nil {
		return nil, err
	}
	if err := authz.RequireProjectMember(store, projectID, requesterID); err != nil {
		return nil, err
	}

	tasks, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		slog.ErrorContext(ctx, "task generation failed", "project_id", projectID, "error", err)
		return nil, ErrAIGenerationFailed
	}
	if len(tasks) > constants.MaxAIGeneratedTasks {
		tasks = tasks[:constants.MaxAIGeneratedTasks]
	}
	if tasks == nil {
		tasks = []GeneratedTask{}
	}
	return tasks, nil
}

func withAssignees(store *repository.Store, rows []repository.TaskRow) ([]TaskView, error) {
	ids := make([]uint64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	assignees, err := store.Tasks.ListAssignees(ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}

	views := make([]TaskView, len(rows))
	for i, row := range rows {
		views[i] = TaskView{TaskRow: row, Assignees: assignees[row.ID]}
		if views[i].Assignees == nil {
			views[i].Assignees = []repository.AssigneeRow{}
		}
	}
	return views, nil
}
