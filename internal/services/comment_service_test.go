package services

import (
	"github.com/yukikurage/teamboard-api/internal/authz"
	"github.com/yukikurage/teamboard-api/internal/models"
)

func (s *ServicesTestSuite) TestComments() {
	owner := s.createUser("alice")
	bob := s.createUser("bob")
	project := s.createProject(owner)
	task := s.createTask(project, owner, "Write docs")

	first, err := s.comments.AddComment(s.ctx, task.ID, owner.ID, "first")
	s.Require().NoError(err)
	_, err = s.comments.AddComment(s.ctx, task.ID, bob.ID, "second")
	s.Require().NoError(err)

	comments, err := s.comments.ListComments(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal("first", comments[0].Content)
	s.Equal("alice", comments[0].AuthorUsername)

	s.ErrorIs(s.comments.DeleteComment(s.ctx, first.ID, bob.ID), authz.ErrNotCommentAuthor)
	s.Require().NoError(s.comments.DeleteComment(s.ctx, first.ID, owner.ID))
	s.ErrorIs(s.comments.DeleteComment(s.ctx, first.ID, owner.ID), ErrCommentNotFound)
	s.Equal(int64(1), s.count(&models.Comment{}, "task_id = ?", task.ID))
}

func (s *ServicesTestSuite) TestAddComment_Validation() {
	owner := s.createUser("alice")
	project := s.createProject(owner)
	task := s.createTask(project, owner, "Write docs")

	_, err := s.comments.AddComment(s.ctx, task.ID, owner.ID, "  ")
	s.ErrorIs(err, ErrCommentRequired)

	_, err = s.comments.AddComment(s.ctx, 9999, owner.ID, "hello")
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.comments.AddComment(s.ctx, task.ID, 9999, "hello")
	s.ErrorIs(err, ErrRequesterNotFound)

	_, err = s.comments.ListComments(s.ctx, 9999)
	s.ErrorIs(err, ErrTaskNotFound)
}
