package services

import (
	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
)

func (s *ServicesTestSuite) TestAddAssignee() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	outsider := s.createUser("carol")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)
	task := s.createTask(project, owner, "Write docs")

	assignee, err := s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{UserID: bob.ID})
	s.Require().NoError(err)
	s.Equal("bob", assignee.Username)

	_, err = s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{Username: "bob"})
	s.ErrorIs(err, ErrAlreadyAssigned)

	_, err = s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{Username: "carol"})
	s.ErrorIs(err, ErrNotProjectMember)

	_, err = s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{Username: "nobody"})
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.tasks.AddAssignee(s.ctx, task.ID, bob.ID, AssigneeTarget{UserID: outsider.ID})
	s.ErrorIs(err, authz.ErrNotManager)

	_, err = s.tasks.AddAssignee(s.ctx, 9999, owner.ID, AssigneeTarget{UserID: bob.ID})
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{})
	s.ErrorIs(err, ErrAssigneeRequired)

	s.Equal(int64(1), s.count(&models.ActivityLog{}, "action_type = ?", activity.KindAssigneeAdded))
}

func (s *ServicesTestSuite) TestRemoveAssignee_SelfAsSoleAssigneeRejected() {
	owner := s.createUser("alice")
	project := s.createProject(owner)
	task := s.createTask(project, owner, "Write docs")

	s.ErrorIs(s.tasks.RemoveAssignee(s.ctx, task.ID, owner.ID, owner.ID), ErrSoleAssignee)
	s.Equal(int64(1), s.count(&models.TaskAssignee{}, "task_id = ?", task.ID))
}

func (s *ServicesTestSuite) TestRemoveAssignee_SelfWhenSomeoneElseIsOnlyAssignee() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleManager)
	task := s.createTask(project, owner, "Write docs")

	// bob is not assigned, but the task has a single assignee
	s.ErrorIs(s.tasks.RemoveAssignee(s.ctx, task.ID, bob.ID, bob.ID), ErrSoleAssignee)
	s.Equal(int64(1), s.count(&models.TaskAssignee{}, "task_id = ?", task.ID))
}

func (s *ServicesTestSuite) TestRemoveAssignee_ManagerMayRemoveOtherSoleAssignee() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)
	task := s.createTask(project, owner, "Write docs")

	_, err := s.tasks.AddAssignee(s.ctx, task.ID, owner.ID, AssigneeTarget{UserID: bob.ID})
	s.Require().NoError(err)
	// With two assignees the manager may leave the task.
	s.Require().NoError(s.tasks.RemoveAssignee(s.ctx, task.ID, owner.ID, owner.ID))

	// bob is now the only assignee; the manager can still remove him.
	s.Require().NoError(s.tasks.RemoveAssignee(s.ctx, task.ID, owner.ID, bob.ID))
	s.Zero(s.count(&models.TaskAssignee{}, "task_id = ?", task.ID))

	s.ErrorIs(s.tasks.RemoveAssignee(s.ctx, task.ID, owner.ID, bob.ID), ErrAssigneeNotFound)
	s.Equal(int64(2), s.count(&models.ActivityLog{}, "action_type = ?", activity.KindAssigneeRemoved))
}

func (s *ServicesTestSuite) TestRemoveAssignee_RequiresManager() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)
	s.addMember(project, bob, models.RoleMember)
	task := s.createTask(project, owner, "Write docs")

	s.ErrorIs(s.tasks.RemoveAssignee(s.ctx, task.ID, bob.ID, owner.ID), authz.ErrNotManager)
	s.ErrorIs(s.tasks.RemoveAssignee(s.ctx, 9999, owner.ID, owner.ID), ErrTaskNotFound)
}
