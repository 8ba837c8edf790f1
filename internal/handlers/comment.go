package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	taskID, ok := pathID(c, "taskId", "task ID")
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Content string     `json:"content"`
		UserID  dto.FlexID `json:"user_id"`
	}

	var req AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.UserID)
	if !ok {
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), taskID, userID, req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{
		Message: "Comment posted",
		ID:      comment.ID,
	})
}

// DeleteComment removes a comment. Only its author may delete it.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "comment ID")
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

	if err := h.comments.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted"})
}
