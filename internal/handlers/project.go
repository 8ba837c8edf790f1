package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProject creates a project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name      string       `json:"name"`
		Content   string       `json:"content"`
		EndDate   dto.FlexDate `json:"end_date"`
		CreatedBy dto.FlexID   `json:"created_by"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.CreatedBy)
	if !ok {
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), userID, services.ProjectInput{
		Name:    req.Name,
		Content: req.Content,
		EndDate: req.EndDate.Value,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{
		Message: "Project created",
		ID:      project.ID,
	})
}

// ListProjects returns the projects the current user belongs to
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := queryRequester(c, "userId")
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListDTO(projects))
}

// GetProject returns a project with its members
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	detail, err := h.projects.GetProject(c.Request.Context(), projectID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*detail))
}

// UpdateProject replaces the editable fields of a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name    string       `json:"name"`
		Content string       `json:"content"`
		EndDate dto.FlexDate `json:"end_date"`
		UserID  dto.FlexID   `json:"userId"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requester(c, req.UserID)
	if !ok {
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), projectID, userID, services.ProjectInput{
		Name:    req.Name,
		Content: req.Content,
		EndDate: req.EndDate.Value,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything it owns
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := pathID(c, "projectId", "project ID")
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

	if err := h.projects.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project and all related data deleted"})
}
