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
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProjectService handles project business logic
type ProjectService struct {
	store    *repository.Store
	recorder *activity.Recorder
}

// NewProjectService creates a new ProjectService
func NewProjectService(store *repository.Store, recorder *activity.Recorder) *ProjectService {
	return &ProjectService{
		store:    store,
		recorder: recorder,
	}
}

// ProjectInput holds the editable project fields
type ProjectInput struct {
	Name    string
	Content string
	EndDate *time.Time
}

// ProjectDetail is a project together with its member list
type ProjectDetail struct {
	Project *repository.ProjectSummary
	Members []repository.MemberRow
}

// CreateProject creates a project owned by the requester, who becomes its first manager.
func (s *ProjectService) CreateProject(ctx context.Context, requesterID uint64, input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:      name,
		Content:   input.Content,
		EndDate:   input.EndDate,
		CreatedBy: requesterID,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(tx, requesterID); err != nil {
			return err
		}
		if err := tx.Projects.Create(project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if err := tx.Projects.AddMember(&models.ProjectMember{
			ProjectID: project.ID,
			UserID:    requesterID,
			Role:      models.RoleManager,
			JoinedAt:  time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to add project owner: %w", err)
		}
		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: project.ID,
			Payload:   activity.ProjectCreated{ProjectName: project.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns the projects a user belongs to, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, userID uint64) ([]repository.ProjectSummary, error) {
	projects, err := s.store.WithContext(ctx).Projects.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject loads a project and its members.
func (s *ProjectService) GetProject(ctx context.Context, projectID uint64) (*ProjectDetail, error) {
	var detail ProjectDetail

	g, gctx := errgroup.WithContext(ctx)
	store := s.store.WithContext(gctx)
	g.Go(func() error {
		project, err := store.Projects.FindDetail(projectID)
		if err != nil {
			return notFound(err, ErrProjectNotFound, "find project %d", projectID)
		}
		detail.Project = project
		return nil
	})
	g.Go(func() error {
		members, err := store.Projects.ListMembers(projectID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		detail.Members = members
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateProject replaces a project's editable fields. Managers only.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, requesterID uint64, input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	var project *models.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := authz.RequireProjectManager(tx, projectID, requesterID); err != nil {
			return err
		}

		rows, err := tx.Projects.Update(projectID, map[string]interface{}{
			"name":     name,
			"content":  input.Content,
			"end_date": input.EndDate,
		})
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		if rows == 0 {
			return ErrProjectNotFound
		}

		project, err = tx.Projects.FindByID(projectID)
		if err != nil {
			return notFound(err, ErrProjectNotFound, "reload project %d", projectID)
		}
		return s.recorder.Record(ctx, tx.DB(), activity.Entry{
			ActorID:   requesterID,
			ProjectID: projectID,
			Payload:   activity.ProjectUpdated{ProjectName: project.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project with its tasks, comments, assignees, members and
// activity log. Managers only.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, requesterID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := authz.RequireProjectManager(tx, projectID, requesterID); err != nil {
			return err
		}

		rows, err := tx.Projects.Delete(projectID)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		if rows == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}

func findProject(tx *repository.Store, projectID uint64) error {
	_, err := tx.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("find project %d: %w", projectID, err)
	}
	return nil
}
