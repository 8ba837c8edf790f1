package dto

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// AssigneeDTO represents a task assignee in API responses
type AssigneeDTO struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	CommentID      uint64    `json:"comment_id"`
	TaskID         uint64    `json:"task_id"`
	Content        string    `json:"content"`
	AuthorID       uint64    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	TaskID          uint64            `json:"task_id"`
	ProjectID       uint64            `json:"project_id"`
	TaskName        string            `json:"task_name"`
	Content         string            `json:"content"`
	Status          models.TaskStatus `json:"status"`
	DueDate         *time.Time        `json:"due_date"`
	CreatedByUserID uint64            `json:"created_by_user_id"`
	CreatorUsername string            `json:"creator_username,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Assignees       []AssigneeDTO     `json:"assignees,omitempty"`
}

// TaskDetailDTO is a task with its assignees and comments
type TaskDetailDTO struct {
	TaskDTO
	Assignees []AssigneeDTO `json:"assignees"`
	Comments  []CommentDTO  `json:"comments"`
}

// GeneratedTaskDTO is an unsaved AI task suggestion
type GeneratedTaskDTO struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	DueDate *time.Time `json:"due_date"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		TaskID:          task.ID,
		ProjectID:       task.ProjectID,
		TaskName:        task.Name,
		Content:         task.Content,
		Status:          task.Status,
		DueDate:         task.DueDate,
		CreatedByUserID: task.CreatedByUserID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

// ToTaskRowDTO converts a joined task row to TaskDTO
func ToTaskRowDTO(row repository.TaskRow) TaskDTO {
	return TaskDTO{
		TaskID:          row.ID,
		ProjectID:       row.ProjectID,
		TaskName:        row.Name,
		Content:         row.Content,
		Status:          row.Status,
		DueDate:         row.DueDate,
		CreatedByUserID: row.CreatedByUserID,
		CreatorUsername: row.CreatorUsername,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// ToTaskListDTO converts task views, keeping each task's assignees
func ToTaskListDTO(views []services.TaskView) []TaskDTO {
	tasks := make([]TaskDTO, len(views))
	for i, view := range views {
		tasks[i] = ToTaskRowDTO(view.TaskRow)
		tasks[i].Assignees = ToAssigneeDTOs(view.Assignees)
	}
	return tasks
}

func ToTaskRowDTOs(rows []repository.TaskRow) []TaskDTO {
	tasks := make([]TaskDTO, len(rows))
	for i, row := range rows {
		tasks[i] = ToTaskRowDTO(row)
	}
	return tasks
}

func ToTaskDetailDTO(detail services.TaskDetail) TaskDetailDTO {
	comments := make([]CommentDTO, len(detail.Comments))
	for i, c := range detail.Comments {
		comments[i] = ToCommentDTO(c)
	}
	return TaskDetailDTO{
		TaskDTO:   ToTaskRowDTO(detail.TaskRow),
		Assignees: ToAssigneeDTOs(detail.Assignees),
		Comments:  comments,
	}
}

func ToAssigneeDTO(row repository.AssigneeRow) AssigneeDTO {
	return AssigneeDTO{UserID: row.UserID, Username: row.Username}
}

func ToAssigneeDTOs(rows []repository.AssigneeRow) []AssigneeDTO {
	assignees := make([]AssigneeDTO, len(rows))
	for i, row := range rows {
		assignees[i] = ToAssigneeDTO(row)
	}
	return assignees
}

func ToCommentDTO(row repository.CommentRow) CommentDTO {
	return CommentDTO{
		CommentID:      row.ID,
		TaskID:         row.TaskID,
		Content:        row.Content,
		AuthorID:       row.UserID,
		AuthorUsername: row.AuthorUsername,
		CreatedAt:      row.CreatedAt,
	}
}

func ToCommentDTOs(rows []repository.CommentRow) []CommentDTO {
	comments := make([]CommentDTO, len(rows))
	for i, row := range rows {
		comments[i] = ToCommentDTO(row)
	}
	return comments
}

func ToGeneratedTaskDTOs(tasks []services.GeneratedTask) []GeneratedTaskDTO {
	out := make([]GeneratedTaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = GeneratedTaskDTO{Title: t.Name, Content: t.Content, DueDate: t.DueDate}
	}
	return out
}
