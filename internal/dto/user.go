package dto

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	UserID    uint64     `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// LoginResponse is returned by password and Google sign-in
type LoginResponse struct {
	Message  string `json:"message,omitempty"`
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// GoogleLoginResponse nests the user the way the sign-in page stores it
type GoogleLoginResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// ProfileDTO is the profile page view of a user
type ProfileDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreatedResponse acknowledges a created resource
type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
}

// MessageResponse carries a human readable result
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	createdAt := user.CreatedAt
	return UserDTO{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: &createdAt,
	}
}

func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		ID:        user.ID,
		Name:      user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
