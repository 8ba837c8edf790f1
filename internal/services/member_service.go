package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

// MemberService manages project membership, roles and ownership.
//
// The owner (projects.created_by) is always a manager and can be neither demoted nor
// removed, so every project keeps at least one manager.
type MemberService struct {
	store    *repository.Store
	recorder *activity.Recorder
}

func NewMemberService(store *repository.Store, recorder *activity.Recorder) *MemberService {
	return &MemberService{
		store:    store,
		recorder: recorder,
	}
}

// ListMembers returns the owner first, then managers, then members by username.
func (s *MemberService) ListMembers(ctx context.Context, projectID uint64) ([]repository.MemberRow, error) {
	store := s.store.WithContext(ctx)
	if err := findProject(store, projectID); err != nil {
		return nil, err
	}
	members, err := store.Projects.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds the user with the given username to a project as a member.
func (s *MemberService) AddMember(ctx context.Context, projectID, requesterID uint64, username string) (*models.ProjectMember, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMemberUserRequired
	}

	var member *models.ProjectMember
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(tx, requesterID); err != nil {
			return err
		}
		if err := findProject(tx, projectID); err != nil {
			return err
		}

		target, err := tx.Users.FindByUsername(username)
		if err != nil {
			return notFound(err, ErrUserNotFound, "find user %q", username)
		}

		if _, err := tx.Projects.FindMember(projectID, target.ID); err == nil {
			return ErrAlreadyMember
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		member = &models.ProjectMember{
			ProjectID: projectID,
			UserID:    target.ID,
			Role:      models.RoleMember,
			JoinedAt:  time.Now(),
		}
		if err := tx.Projects.AddMember(member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to add member: %w", err)
		}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: projectID,
			Payload:   activity.MemberAdded{UserID: target.ID, Username: target.Username},
		})
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// ChangeRole sets a member's role. Managers only; nobody can demote themselves or the owner.
func (s *MemberService) ChangeRole(ctx context.Context, projectID, requesterID, targetID uint64, role models.ProjectRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := authz.RequireProjectManager(tx, projectID, requesterID); err != nil {
			return err
		}

		if role == models.RoleMember {
			if targetID == requesterID {
				return ErrCannotDemoteSelf
			}
			isOwner, err := authz.IsProjectCreator(tx, projectID, targetID)
			if err != nil {
				return err
			}
			if isOwner {
				return ErrCannotDemoteOwner
			}
		}

		member, err := tx.Projects.FindMember(projectID, targetID)
		if err != nil {
			return notFound(err, ErrMemberNotFound, "find member %d", targetID)
		}
		target, err := findUser(tx, targetID, ErrMemberNotFound)
		if err != nil {
			return err
		}

		// MySQL reports zero affected rows for a no-op update, so skip it instead.
		if member.Role != role {
			rows, err := tx.Projects.UpdateMemberRole(projectID, targetID, role)
			if err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
			if rows == 0 {
				return ErrMemberNotFound
			}
		}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: projectID,
			Payload: activity.RoleChanged{
				TargetUserID:   target.ID,
				TargetUsername: target.Username,
				NewRole:        role,
			},
		})
	})
}

// RemoveMember removes a user from a project. Managers only; the owner cannot be removed
// and managers cannot remove themselves.
func (s *MemberService) RemoveMember(ctx context.Context, projectID, requesterID, targetID uint64) error {
	if targetID == requesterID {
		return ErrCannotRemoveSelf
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := authz.RequireProjectManager(tx, projectID, requesterID); err != nil {
			return err
		}

		isOwner, err := authz.IsProjectCreator(tx, projectID, targetID)
		if err != nil {
			return err
		}
		if isOwner {
			return ErrCannotRemoveOwner
		}

		target, err := findUser(tx, targetID, ErrUserNotFound)
		if err != nil {
			return err
		}

		rows, err := tx.Projects.RemoveMember(projectID, targetID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if rows == 0 {
			return ErrMemberNotFound
		}

		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: projectID,
			Payload:   activity.MemberRemoved{UserID: target.ID, Username: target.Username},
		})
	})
}

// TransferOwnership hands the project to another member, who becomes a manager if they
// were not one already. The previous owner keeps their manager role.
func (s *MemberService) TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerID uint64) error {
	if newOwnerID == 0 {
		return ErrNewOwnerRequired
	}
	if newOwnerID == requesterID {
		return ErrAlreadyOwner
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := authz.RequireProjectCreator(tx, projectID, requesterID); err != nil {
			return err
		}

		member, err := tx.Projects.FindMember(projectID, newOwnerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewOwnerNotMember
		}
		if err != nil {
			return fmt.Errorf("failed to find new owner: %w", err)
		}

		rows, err := tx.Projects.UpdateOwner(projectID, newOwnerID)
		if err != nil {
			return fmt.Errorf("failed to transfer ownership: %w", err)
		}
		if rows == 0 {
			return ErrProjectNotFound
		}

		if member.Role != models.RoleManager {
			if _, err := tx.Projects.UpdateMemberRole(projectID, newOwnerID, models.RoleManager); err != nil {
				return fmt.Errorf("failed to promote new owner: %w", err)
			}
		}
		return nil
	})
}
