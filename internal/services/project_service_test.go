package services

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
)

func (s *ServicesTestSuite) TestCreateProject_OwnerBecomesManager() {
	owner := s.createUser("alice")
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	project, err := s.projects.CreateProject(s.ctx, owner.ID, ProjectInput{Name: "  Launch ", EndDate: &end})
	s.Require().NoError(err)

	s.Equal("Launch", project.Name)
	s.Equal(owner.ID, project.CreatedBy)
	s.Equal(models.RoleManager, s.role(project, owner))
	s.Equal([]string{string(activity.KindProjectCreated)}, s.actions(project.ID))
}

func (s *ServicesTestSuite) TestCreateProject_Validation() {
	owner := s.createUser("alice")

	_, err := s.projects.CreateProject(s.ctx, owner.ID, ProjectInput{Name: " "})
	s.ErrorIs(err, ErrProjectNameRequired)

	_, err = s.projects.CreateProject(s.ctx, 9999, ProjectInput{Name: "Ghost"})
	s.ErrorIs(err, ErrRequesterNotFound)
	s.Zero(s.count(&models.Project{}, "1 = 1"))
}

func (s *ServicesTestSuite) TestGetProject_LoadsMembers() {
	owner := s.createUser("alice")
	project := s.createProject(owner)
	s.addMember(project, s.createUser("bob"), models.RoleMember)

	detail, err := s.projects.GetProject(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal("alice", detail.Project.OwnerName)
	s.Require().Len(detail.Members, 2)
	s.Equal("alice", detail.Members[0].Username)

	_, err = s.projects.GetProject(s.ctx, 9999)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServicesTestSuite) TestListProjects_IncludesRole() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(alice)
	s.addMember(project, bob, models.RoleMember)

	projects, err := s.projects.ListProjects(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(projects, 1)
	s.Equal(models.RoleMember, projects[0].RoleInProject)
	s.Equal("alice", projects[0].OwnerName)
}

func (s *ServicesTestSuite) TestUpdateProject() {
	owner := s.createUser("alice")
	member := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, member, models.RoleMember)

	_, err := s.projects.UpdateProject(s.ctx, project.ID, member.ID, ProjectInput{Name: "Hijack"})
	s.ErrorIs(err, authz.ErrNotManager)

	updated, err := s.projects.UpdateProject(s.ctx, project.ID, owner.ID, ProjectInput{Name: "Launch v2", Content: "new"})
	s.Require().NoError(err)
	s.Equal("Launch v2", updated.Name)
	s.Equal("new", updated.Content)
	s.Equal([]string{string(activity.KindProjectCreated), string(activity.KindProjectUpdated)}, s.actions(project.ID))

	_, err = s.projects.UpdateProject(s.ctx, 9999, owner.ID, ProjectInput{Name: "x"})
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.projects.UpdateProject(s.ctx, project.ID, owner.ID, ProjectInput{})
	s.ErrorIs(err, ErrProjectNameRequired)
}

func (s *ServicesTestSuite) TestDeleteProject_RemovesEverything() {
	owner := s.createUser("alice")
	member := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, member, models.RoleMember)
	task := s.createTask(project, owner, "Write docs")
	_, err := s.comments.AddComment(s.ctx, task.ID, member.ID, "on it")
	s.Require().NoError(err)

	s.ErrorIs(s.projects.DeleteProject(s.ctx, project.ID, member.ID), authz.ErrNotManager)
	s.Require().NoError(s.projects.DeleteProject(s.ctx, project.ID, owner.ID))

	s.Zero(s.count(&models.Project{}, "id = ?", project.ID))
	s.Zero(s.count(&models.Task{}, "project_id = ?", project.ID))
	s.Zero(s.count(&models.Comment{}, "task_id = ?", task.ID))
	s.Zero(s.count(&models.TaskAssignee{}, "task_id = ?", task.ID))
	s.Zero(s.count(&models.ProjectMember{}, "project_id = ?", project.ID))
	s.Zero(s.count(&models.ActivityLog{}, "project_id = ?", project.ID))

	s.ErrorIs(s.projects.DeleteProject(s.ctx, project.ID, owner.ID), ErrProjectNotFound)
}
