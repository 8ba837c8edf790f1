package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/teamboard-api/internal/constants"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrAccountExists = apierrors.NewConflict("username or email already exists").WithCode(apierrors.ErrCodeAlreadyExists)

// AuthService handles authentication related business logic.
type AuthService struct {
	store       *repository.Store
	google      GoogleVerifier
	mailer      Mailer
	frontendURL string
	now         func() time.Time
}

// NewAuthService creates a new AuthService. A nil google verifier disables Google sign-in.
func NewAuthService(store *repository.Store, google GoogleVerifier, mailer Mailer, frontendURL string) *AuthService {
	return &AuthService{
		store:       store,
		google:      google,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.UsernameExists(username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}

		if _, err := tx.Users.FindByEmail(email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		return createUser(tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LoginWithGoogle verifies a Google ID token and returns the matching user, registering
// one when no account has the token's email. created reports whether a user was registered.
func (s *AuthService) LoginWithGoogle(ctx context.Context, token string) (user *models.User, created bool, err error) {
	if s.google == nil {
		return nil, false, ErrGoogleNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return nil, false, ErrGoogleTokenRequired
	}

	identity, err := s.google.Verify(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "google token rejected", "error", err)
		return nil, false, ErrGoogleAuthFailed
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Users.FindByEmail(identity.Email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find user by email: %w", err)
		}

		username, err := availableUsername(tx, googleUsername(identity))
		if err != nil {
			return err
		}

		// The account gets a random password; it signs in through Google or a reset link.
		secret, err := utils.GenerateToken(16)
		if err != nil {
			return err
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user = &models.User{
			Username:     username,
			Email:        identity.Email,
			PasswordHash: string(hashedPassword),
		}
		created = true
		return createUser(tx, user)
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// ForgotPassword mails a reset link to the account with the given email. Unknown
// addresses succeed silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	store := s.store.WithContext(ctx)
	user, err := store.Users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user by email: %w", err)
	}

	token, err := utils.GenerateToken(constants.PasswordResetTokenBytes)
	if err != nil {
		return err
	}
	expires := s.now().Add(constants.PasswordResetTTL)
	if err := store.Users.SetResetToken(user.ID, token, expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password/" + token
	body := fmt.Sprintf("To reset your password, open the following link:\n\n%s\n\nThis link is valid for one hour.", link)
	// The caller always sees success so the response does not reveal which emails exist.
	if err := s.mailer.Send(ctx, user.Email, "Password reset request", body); err != nil {
		slog.ErrorContext(ctx, "failed to send reset mail", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	store := s.store.WithContext(ctx)
	user, err := store.Users.FindByResetToken(token, s.now())
	if err != nil {
		return notFound(err, ErrInvalidResetToken, "find reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.Users.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user %d", id)
	}
	return user, nil
}

func createUser(tx *repository.Store, user *models.User) error {
	if err := tx.Users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func googleUsername(identity *GoogleIdentity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(identity.Email, "@")
	return local
}

// availableUsername returns base, or base with the first free numeric suffix.
func availableUsername(tx *repository.Store, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := tx.Users.UsernameExists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(n)
	}
}
