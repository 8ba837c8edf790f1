// Package authz holds the role predicates checked before every project mutation.
// Predicates read through the store they are given, so inside a transaction they see
// the transaction's view of the data.
package authz

import (
	"errors"

	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotMember        = apierrors.NewAuthorization("you are not a member of this project")
	ErrNotManager       = apierrors.NewAuthorization("only project managers can perform this action")
	ErrNotOwner         = apierrors.NewAuthorization("only the project owner can perform this action")
	ErrNotCommentAuthor = apierrors.NewAuthorization("only the author can delete this comment")
)

func IsProjectManager(s *repository.Store, projectID, userID uint64) (bool, error) {
	member, err := s.Projects.FindMember(projectID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == models.RoleManager, nil
}

func IsProjectMember(s *repository.Store, projectID, userID uint64) (bool, error) {
	_, err := s.Projects.FindMember(projectID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// IsProjectCreator reports whether userID is the project's current owner.
func IsProjectCreator(s *repository.Store, projectID, userID uint64) (bool, error) {
	project, err := s.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return project.CreatedBy == userID, nil
}

// AtMostOneAssignee reports whether the task has one assignee or none.
func AtMostOneAssignee(s *repository.Store, taskID uint64) (bool, error) {
	count, err := s.Tasks.CountAssignees(taskID)
	if err != nil {
		return false, err
	}
	return count <= 1, nil
}

func IsCommentAuthor(s *repository.Store, commentID, userID uint64) (bool, error) {
	comment, err := s.Comments.FindByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return comment.UserID == userID, nil
}

func RequireProjectMember(s *repository.Store, projectID, userID uint64) error {
	ok, err := IsProjectMember(s, projectID, userID)
	return deny(ok, err, ErrNotMember)
}

// RequireProjectManager returns ErrNotManager unless userID manages the project.
func RequireProjectManager(s *repository.Store, projectID, userID uint64) error {
	ok, err := IsProjectManager(s, projectID, userID)
	return deny(ok, err, ErrNotManager)
}

// RequireProjectCreator returns ErrNotOwner unless userID owns the project.
func RequireProjectCreator(s *repository.Store, projectID, userID uint64) error {
	ok, err := IsProjectCreator(s, projectID, userID)
	return deny(ok, err, ErrNotOwner)
}

func RequireCommentAuthor(s *repository.Store, commentID, userID uint64) error {
	ok, err := IsCommentAuthor(s, commentID, userID)
	return deny(ok, err, ErrNotCommentAuthor)
}

func deny(ok bool, err, denied error) error {
	if err != nil {
		return err
	}
	if !ok {
		return denied
	}
	return nil
}
