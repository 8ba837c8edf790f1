package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// ListAssignees returns the users assigned to a task
func (h *TaskHandler) ListAssignees(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	assignees, err := h.tasks.ListAssignees(c.Request.Context(), taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssigneeDTOs(assignees))
}

// AddAssignee assigns a project member, given by username or user_id, to a task
func (h *TaskHandler) AddAssignee(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	type AddAssigneeRequest struct {
		Username        string     `json:"username"`
		UserID          dto.FlexID `json:"user_id"`
		RequesterUserID dto.FlexID `json:"requesterUserId"`
	}

	var req AddAssigneeRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterUserID)
	if !ok {
		return
	}

	assignee, err := h.tasks.AddAssignee(c.Request.Context(), taskID, userID, services.AssigneeTarget{
		UserID:   req.UserID.Value,
		Username: req.Username,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Assignee added",
		"assignee": dto.ToAssigneeDTO(*assignee),
	})
}

// RemoveAssignee unassigns a user from a task
func (h *TaskHandler) RemoveAssignee(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId", "user ID")
	if !ok {
		return
	}

	claimed, ok := queryID(c, "requesterUserId")
	if !ok {
		return
	}
	var req struct {
		RequesterUserID dto.FlexID `json:"requesterUserId"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, ok := requester(c, claimed, req.RequesterUserID)
	if !ok {
		return
	}

	if err := h.tasks.RemoveAssignee(c.Request.Context(), taskID, userID, targetID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Assignee removed"})
}
