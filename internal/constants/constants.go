package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "teamboard_session"
	RequestIDHeader     = "X-Request-ID"
	RefreshTokenHeader  = "X-Refresh-Token"
)

// Authentication
const (
	// PasswordResetTokenBytes is the number of random bytes in a reset token before hex encoding.
	PasswordResetTokenBytes = 20
	PasswordResetTTL        = time.Hour
	BearerPrefix            = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Tasks
const (
	// DueAlertWindowDays covers today plus the following seven days.
	DueAlertWindowDays  = 8
	MaxAIGeneratedTasks = 20
)
