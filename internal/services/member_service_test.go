package services

import (
	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
)

func (s *ServicesTestSuite) TestAddMember() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)

	member, err := s.members.AddMember(s.ctx, project.ID, owner.ID, "bob")
	s.Require().NoError(err)
	s.Equal(bob.ID, member.UserID)
	s.Equal(models.RoleMember, member.Role)

	_, err = s.members.AddMember(s.ctx, project.ID, owner.ID, "bob")
	s.ErrorIs(err, ErrAlreadyMember)

	_, err = s.members.AddMember(s.ctx, project.ID, owner.ID, "nobody")
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.members.AddMember(s.ctx, 9999, owner.ID, "bob")
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.members.AddMember(s.ctx, project.ID, owner.ID, "")
	s.ErrorIs(err, ErrMemberUserRequired)

	s.Equal([]string{string(activity.KindProjectCreated), string(activity.KindMemberAdded)}, s.actions(project.ID))
}

func (s *ServicesTestSuite) TestChangeRole() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)
	s.addMember(project, carol, models.RoleMember)

	s.ErrorIs(s.members.ChangeRole(s.ctx, project.ID, bob.ID, carol.ID, models.RoleManager), authz.ErrNotManager)
	s.ErrorIs(s.members.ChangeRole(s.ctx, project.ID, owner.ID, bob.ID, "admin"), ErrInvalidRole)

	s.Require().NoError(s.members.ChangeRole(s.ctx, project.ID, owner.ID, bob.ID, models.RoleManager))
	s.Equal(models.RoleManager, s.role(project, bob))

	// Promoting an existing manager again is a no-op, not a 404.
	s.NoError(s.members.ChangeRole(s.ctx, project.ID, owner.ID, bob.ID, models.RoleManager))

	s.ErrorIs(s.members.ChangeRole(s.ctx, project.ID, bob.ID, bob.ID, models.RoleMember), ErrCannotDemoteSelf)
	s.ErrorIs(s.members.ChangeRole(s.ctx, project.ID, bob.ID, owner.ID, models.RoleMember), ErrCannotDemoteOwner)
	s.Equal(models.RoleManager, s.role(project, owner))

	stranger := s.createUser("dave")
	s.ErrorIs(s.members.ChangeRole(s.ctx, project.ID, owner.ID, stranger.ID, models.RoleManager), ErrMemberNotFound)
}

func (s *ServicesTestSuite) TestChangeRole_LogsTargetUsername() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)

	s.Require().NoError(s.members.ChangeRole(s.ctx, project.ID, owner.ID, bob.ID, models.RoleManager))

	var entry models.ActivityLog
	s.Require().NoError(s.db.Where("project_id = ? AND action_type = ?", project.ID, activity.KindRoleChanged).First(&entry).Error)
	payload, err := activity.Decode(activity.KindRoleChanged, entry.Details)
	s.Require().NoError(err)
	s.Equal("bob", payload.(*activity.RoleChanged).TargetUsername)
	s.Equal(models.RoleManager, payload.(*activity.RoleChanged).NewRole)
}

func (s *ServicesTestSuite) TestRemoveMember() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleManager)
	s.addMember(project, carol, models.RoleMember)

	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, carol.ID, bob.ID), authz.ErrNotManager)
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, bob.ID, owner.ID), ErrCannotRemoveOwner)
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, bob.ID, bob.ID), ErrCannotRemoveSelf)
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, bob.ID, 9999), ErrUserNotFound)

	s.Require().NoError(s.members.RemoveMember(s.ctx, project.ID, bob.ID, carol.ID))
	s.Zero(s.count(&models.ProjectMember{}, "project_id = ? AND user_id = ?", project.ID, carol.ID))
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, bob.ID, carol.ID), ErrMemberNotFound)
}

// A creates P, adds B and promotes B. B cannot remove A (the owner) and cannot remove
// themselves; the project keeps a manager either way.
func (s *ServicesTestSuite) TestOwnerAndManagerScenario() {
	a := s.createUser("a")
	b := s.createUser("b")
	project := s.createProject(a)

	_, err := s.members.AddMember(s.ctx, project.ID, a.ID, "b")
	s.Require().NoError(err)
	s.Require().NoError(s.members.ChangeRole(s.ctx, project.ID, a.ID, b.ID, models.RoleManager))

	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, b.ID, a.ID), ErrCannotRemoveOwner)
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, b.ID, b.ID), ErrCannotRemoveSelf)

	members, err := s.members.ListMembers(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Len(members, 2)
}

func (s *ServicesTestSuite) TestTransferOwnership() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	outsider := s.createUser("carol")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)

	s.ErrorIs(s.members.TransferOwnership(s.ctx, project.ID, owner.ID, owner.ID), ErrAlreadyOwner)
	s.ErrorIs(s.members.TransferOwnership(s.ctx, project.ID, owner.ID, outsider.ID), ErrNewOwnerNotMember)
	s.ErrorIs(s.members.TransferOwnership(s.ctx, project.ID, bob.ID, outsider.ID), authz.ErrNotOwner)
	s.ErrorIs(s.members.TransferOwnership(s.ctx, 9999, owner.ID, bob.ID), ErrProjectNotFound)

	s.Require().NoError(s.members.TransferOwnership(s.ctx, project.ID, owner.ID, bob.ID))

	reloaded, err := s.store.Projects.FindByID(project.ID)
	s.Require().NoError(err)
	s.Equal(bob.ID, reloaded.CreatedBy)
	s.Equal(models.RoleManager, s.role(project, bob))
	s.Equal(models.RoleManager, s.role(project, owner))

	// The new owner is now protected; the old one is an ordinary manager.
	s.ErrorIs(s.members.RemoveMember(s.ctx, project.ID, owner.ID, bob.ID), ErrCannotRemoveOwner)
	s.NoError(s.members.ChangeRole(s.ctx, project.ID, bob.ID, owner.ID, models.RoleMember))
}
