package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/services"
)

type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// ListMembers returns the owner first, then managers, then members by username
func (h *MemberHandler) ListMembers(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	members, err := h.members.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}

// AddMember adds a user to the project by username
func (h *MemberHandler) AddMember(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		Username    string     `json:"username"`
		RequesterID dto.FlexID `json:"requesterId"`
	}

	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterID)
	if !ok {
		return
	}

	if _, err := h.members.AddMember(c.Request.Context(), projectID, userID, req.Username); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Member added"})
}

// ChangeRole promotes or demotes a member
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId", "member ID")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role        models.ProjectRole `json:"role"`
		RequesterID dto.FlexID         `json:"requesterId"`
	}

	var req ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterID)
	if !ok {
		return
	}

	if err := h.members.ChangeRole(c.Request.Context(), projectID, userID, memberID, req.Role); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member role changed"})
}

// RemoveMember removes a member from the project
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId", "member ID")
	if !ok {
		return
	}

	var req struct {
		RequesterID dto.FlexID `json:"requesterId"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterID)
	if !ok {
		return
	}

	if err := h.members.RemoveMember(c.Request.Context(), projectID, userID, memberID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member removed from project"})
}

// TransferOwnership hands the project to another member
func (h *MemberHandler) TransferOwnership(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	type TransferOwnershipRequest struct {
		NewOwnerID  dto.FlexID `json:"newOwnerId"`
		RequesterID dto.FlexID `json:"requesterId"`
	}

	var req TransferOwnershipRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.RequesterID)
	if !ok {
		return
	}

	if err := h.members.TransferOwnership(c.Request.Context(), projectID, userID, req.NewOwnerID.Value); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project ownership transferred"})
}
