package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/services"
	"github.com/yukikurage/teamboard-api/internal/utils"
)

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// ListActivity returns a page of a project's activity log, newest first
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	projectID, ok := queryID(c, "projectId")
	if !ok {
		return
	}
	if !projectID.Set {
		apierrors.BadRequest(c, "projectId query parameter is required")
		return
	}

	params := utils.GetPaginationParams(c)
	views, total, err := h.activity.ListActivity(c.Request.Context(), projectID.Value, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(views, params, total))
}
