package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/middleware"
)

var (
	errNotAuthenticated = apierrors.NewAuthentication("Not authenticated")
	errImpersonation    = apierrors.NewAPIError(apierrors.ErrCodeInsufficientPermissions, "Requests may only act as the signed-in user")
)

// pathID parses a numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name, label string) (uint64, bool) {
	id, err := dto.ParseID(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter. A missing parameter is not an error.
func queryID(c *gin.Context, name string) (dto.FlexID, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return dto.FlexID{}, true
	}
	id, err := dto.ParseID(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return dto.FlexID{}, false
	}
	return dto.NewFlexID(id), true
}

// requester returns the authenticated user. Identity fields still sent by older clients
// are accepted only when they name that same user.
func requester(c *gin.Context, claimed ...dto.FlexID) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Respond(c, errNotAuthenticated)
		return 0, false
	}
	for _, id := range claimed {
		if id.Set && id.Value != userID {
			apierrors.Respond(c, errImpersonation)
			return 0, false
		}
	}
	return userID, true
}

// queryRequester is requester for identity fields sent in the query string.
func queryRequester(c *gin.Context, names ...string) (uint64, bool) {
	claimed := make([]dto.FlexID, 0, len(names))
	for _, name := range names {
		id, ok := queryID(c, name)
		if !ok {
			return 0, false
		}
		claimed = append(claimed, id)
	}
	return requester(c, claimed...)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for requests whose body may be empty, such as DELETE.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
