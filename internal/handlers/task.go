package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns all tasks of a project with their assignees
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), projectID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListDTO(tasks))
}

// GetTask returns a task with its assignees and comments
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	detail, err := h.tasks.GetTask(c.Request.Context(), taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*detail))
}

// CreateTask creates a new task; the creator becomes its first assignee
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title           string            `json:"title"`
		Content         string            `json:"content"`
		Status          models.TaskStatus `json:"status"`
		DueDate         dto.FlexDate      `json:"due_date"`
		CreatedByUserID dto.FlexID        `json:"created_by_user_id"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.CreatedByUserID)
	if !ok {
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), projectID, userID, services.CreateTaskInput{
		Name:    req.Title,
		Content: req.Content,
		Status:  req.Status,
		DueDate: req.DueDate.Value,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{
		Message: "Task created and assigned to its creator",
		ID:      task.ID,
	})
}

// UpdateTask updates only the fields present in the body.
// An explicit null due_date clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Content     *string            `json:"content"`
		Status      *models.TaskStatus `json:"status"`
		DueDate     dto.FlexDate       `json:"due_date"`
		RequesterID dto.FlexID         `json:"requesterId"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterID)
	if !ok {
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), taskID, userID, services.UpdateTaskInput{
		Name:         req.Title,
		Content:      req.Content,
		Status:       req.Status,
		DueDate:      req.DueDate.Value,
		ClearDueDate: req.DueDate.Set && req.DueDate.Value == nil,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its comments and assignees
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	var req struct {
		UserID dto.FlexID `json:"userId"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.UserID)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task and related data deleted"})
}

// ListDueTasks returns the current user's tasks due within the next week
func (h *TaskHandler) ListDueTasks(c *gin.Context) {
	userID, ok := queryRequester(c, "userId")
	if !ok {
		return
	}

	rows, err := h.tasks.ListDueTasks(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskRowDTOs(rows))
}

// GenerateTasks suggests tasks from free text. Suggestions are not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.GenerateTasks(c.Request.Context(), projectID, userID, req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToGeneratedTaskDTOs(tasks),
	})
}
