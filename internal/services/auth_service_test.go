package services

import (
	"errors"
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func (s *ServicesTestSuite) TestRegister_Success() {
	user, err := s.auth.Register(s.ctx, RegisterInput{Username: " alice ", Password: "password123", Email: "alice@example.com"})
	s.Require().NoError(err)

	s.NotZero(user.ID)
	s.Equal("alice", user.Username)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func (s *ServicesTestSuite) TestRegister_DuplicateUsernameOrEmail() {
	s.createUser("alice")

	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "alice", Password: "password123", Email: "other@example.com"})
	s.ErrorIs(err, ErrUsernameTaken)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "alice2", Password: "password123", Email: "alice@example.com"})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *ServicesTestSuite) TestRegister_Validation() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "bob", Password: "password123"})
	s.ErrorIs(err, ErrMissingCredentials)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "bob", Email: "bob@example.com"})
	s.ErrorIs(err, ErrMissingCredentials)

	// Any non-empty password is accepted
	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "bob", Password: "pw1", Email: "bob@example.com"})
	s.NoError(err)
}

func (s *ServicesTestSuite) TestLogin() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "alice", Password: "password123", Email: "alice@example.com"})
	s.Require().NoError(err)

	user, err := s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "password123"})
	s.Require().NoError(err)
	s.Equal("alice", user.Username)

	_, err = s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "wrongpassword"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, LoginInput{Username: "nobody", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServicesTestSuite) TestLoginWithGoogle_ExistingEmail() {
	existing := s.createUser("alice")
	s.google.identity = &GoogleIdentity{Subject: "1", Email: existing.Email, Name: "Alice"}

	user, created, err := s.auth.LoginWithGoogle(s.ctx, "id-token")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(existing.ID, user.ID)
}

func (s *ServicesTestSuite) TestLoginWithGoogle_RegistersWithUniqueUsername() {
	s.createUser("alice")
	s.google.identity = &GoogleIdentity{Subject: "2", Email: "alice@gmail.com"}

	user, created, err := s.auth.LoginWithGoogle(s.ctx, "id-token")
	s.Require().NoError(err)
	s.True(created)
	s.Equal("alice2", user.Username)
	s.Equal("alice@gmail.com", user.Email)
}

func (s *ServicesTestSuite) TestLoginWithGoogle_Failures() {
	_, _, err := s.auth.LoginWithGoogle(s.ctx, "")
	s.ErrorIs(err, ErrGoogleTokenRequired)

	s.google.err = errors.New("bad signature")
	_, _, err = s.auth.LoginWithGoogle(s.ctx, "id-token")
	s.ErrorIs(err, ErrGoogleAuthFailed)

	disabled := NewAuthService(s.store, nil, s.mailer, "")
	_, _, err = disabled.LoginWithGoogle(s.ctx, "id-token")
	s.ErrorIs(err, ErrGoogleNotConfigured)
}

func (s *ServicesTestSuite) TestForgotAndResetPassword() {
	user := s.createUser("alice")

	s.Require().NoError(s.auth.ForgotPassword(s.ctx, user.Email))
	s.Require().Len(s.mailer.sent, 1)
	s.Equal(user.Email, s.mailer.sent[0].To)

	var stored models.User
	s.Require().NoError(s.db.First(&stored, user.ID).Error)
	s.Require().NotNil(stored.PasswordResetToken)
	token := *stored.PasswordResetToken
	s.Len(token, 40)
	s.Contains(s.mailer.sent[0].Body, "http://localhost:3000/reset-password/"+token)

	s.ErrorIs(s.auth.ResetPassword(s.ctx, "not-a-token", "newpassword1"), ErrInvalidResetToken)
	s.ErrorIs(s.auth.ResetPassword(s.ctx, token, ""), ErrPasswordRequired)
	s.Require().NoError(s.auth.ResetPassword(s.ctx, token, "newpassword1"))

	_, err := s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "newpassword1"})
	s.NoError(err)
	s.ErrorIs(s.auth.ResetPassword(s.ctx, token, "again-password"), ErrInvalidResetToken)
}

func (s *ServicesTestSuite) TestResetPassword_ExpiredToken() {
	user := s.createUser("alice")
	s.Require().NoError(s.auth.ForgotPassword(s.ctx, user.Email))

	var stored models.User
	s.Require().NoError(s.db.First(&stored, user.ID).Error)

	s.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	s.ErrorIs(s.auth.ResetPassword(s.ctx, *stored.PasswordResetToken, "newpassword1"), ErrInvalidResetToken)
}

func (s *ServicesTestSuite) TestForgotPassword_UnknownEmailIsSilent() {
	s.NoError(s.auth.ForgotPassword(s.ctx, "ghost@example.com"))
	s.Empty(s.mailer.sent)
}

func (s *ServicesTestSuite) TestForgotPassword_MailFailure() {
	user := s.createUser("alice")
	s.mailer.err = errors.New("smtp down")

	s.NoError(s.auth.ForgotPassword(s.ctx, user.Email))

	var stored models.User
	s.Require().NoError(s.db.First(&stored, user.ID).Error)
	s.NotNil(stored.PasswordResetToken)
}

func (s *ServicesTestSuite) TestGetUser() {
	user := s.createUser("alice")

	found, err := s.auth.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", found.Username)

	_, err = s.auth.GetUser(s.ctx, 9999)
	s.ErrorIs(err, ErrUserNotFound)
}
