package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

// Account errors
var (
	ErrRequesterNotFound   = apierrors.NewAuthentication("requesting user does not exist")
	ErrUserNotFound        = apierrors.NewNotFound("user not found")
	ErrUsernameTaken       = apierrors.NewConflict("username already exists").WithCode(apierrors.ErrCodeAlreadyExists)
	ErrEmailTaken          = apierrors.NewConflict("email already exists").WithCode(apierrors.ErrCodeAlreadyExists)
	ErrInvalidCredentials  = apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "invalid username or password")
	ErrMissingCredentials  = apierrors.NewValidation("username, password and email are required").WithCode(apierrors.ErrCodeMissingField)
	ErrPasswordRequired    = apierrors.NewValidation("password is required").WithCode(apierrors.ErrCodeMissingField)
	ErrInvalidResetToken   = apierrors.NewValidation("password reset token is invalid or has expired")
	ErrGoogleTokenRequired = apierrors.NewValidation("ID token not provided").WithCode(apierrors.ErrCodeMissingField)
	ErrGoogleAuthFailed    = apierrors.NewAuthentication("Google authentication failed")
	ErrGoogleNotConfigured = apierrors.NewUnavailable("Google sign-in is not configured")
)

// Project and membership errors
var (
	ErrProjectNotFound     = apierrors.NewNotFound("project not found")
	ErrProjectNameRequired = apierrors.NewValidation("project name is required").WithCode(apierrors.ErrCodeMissingField)
	ErrAlreadyMember       = apierrors.NewConflict("user is already a member of this project")
	ErrMemberNotFound      = apierrors.NewNotFound("member not found in this project")
	ErrInvalidRole         = apierrors.NewValidation("role must be manager or member")
	ErrCannotDemoteSelf    = apierrors.NewValidation("you cannot change your own role to member").WithCode(apierrors.ErrCodeInvalidOperation)
	ErrCannotDemoteOwner   = apierrors.NewAuthorization("the project owner cannot be demoted")
	ErrCannotRemoveSelf    = apierrors.NewValidation("you cannot remove yourself from the project").WithCode(apierrors.ErrCodeInvalidOperation)
	ErrCannotRemoveOwner   = apierrors.NewAuthorization("the project owner cannot be removed")
	ErrAlreadyOwner        = apierrors.NewValidation("you already own this project").WithCode(apierrors.ErrCodeInvalidOperation)
	ErrNewOwnerNotMember   = apierrors.NewValidation("the new owner must be a member of the project")
	ErrNewOwnerRequired    = apierrors.NewValidation("new owner is required").WithCode(apierrors.ErrCodeMissingField)
	ErrMemberUserRequired  = apierrors.NewValidation("username is required").WithCode(apierrors.ErrCodeMissingField)
)

// Task errors
var (
	ErrTaskNotFound        = apierrors.NewNotFound("task not found")
	ErrTaskNameRequired    = apierrors.NewValidation("task title is required").WithCode(apierrors.ErrCodeMissingField)
	ErrTaskNameEmpty       = apierrors.NewValidation("task title cannot be empty")
	ErrInvalidTaskStatus   = apierrors.NewValidation("status must be one of todo, doing, done, pending")
	ErrAssigneeRequired    = apierrors.NewValidation("username or user_id is required").WithCode(apierrors.ErrCodeMissingField)
	ErrNotProjectMember    = apierrors.NewValidation("user is not a member of this project")
	ErrAlreadyAssigned     = apierrors.NewConflict("user is already assigned to this task")
	ErrAssigneeNotFound    = apierrors.NewNotFound("user is not assigned to this task")
	ErrSoleAssignee        = apierrors.NewValidation("you are the only assignee of this task").WithCode(apierrors.ErrCodeInvalidOperation)
	ErrCommentNotFound     = apierrors.NewNotFound("comment not found")
	ErrCommentRequired     = apierrors.NewValidation("comment content is required").WithCode(apierrors.ErrCodeMissingField)
	ErrGenerateTextEmpty   = apierrors.NewValidation("text is required").WithCode(apierrors.ErrCodeMissingField)
	ErrAIServiceNotEnabled = apierrors.NewUnavailable("AI service is not configured")
	ErrAIGenerationFailed  = apierrors.NewUnavailable("failed to generate tasks")
)

// requireUser loads the acting user, mapping a missing row to ErrRequesterNotFound.
func requireUser(s *repository.Store, id uint64) error {
	_, err := findUser(s, id, ErrRequesterNotFound)
	return err
}

func findUser(s *repository.Store, id uint64, missing error) (*userRef, error) {
	user, err := s.Users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, missing
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &userRef{ID: user.ID, Username: user.Username}, nil
}

type userRef struct {
	ID       uint64
	Username string
}

// notFound maps gorm.ErrRecordNotFound to missing and wraps anything else.
func notFound(err error, missing error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
