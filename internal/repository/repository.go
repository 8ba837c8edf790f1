package repository

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/utils"
	"gorm.io/datatypes"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByResetToken finds the user holding an unexpired password reset token
	FindByResetToken(token string, now time.Time) (*models.User, error)

	// UsernameExists reports whether the username is taken
	UsernameExists(username string) (bool, error)

	// SetResetToken stores a password reset token and its expiry
	SetResetToken(userID uint64, token string, expires time.Time) error

	// UpdatePassword replaces the password hash and clears any reset token
	UpdatePassword(userID uint64, passwordHash string) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindDetail finds a project together with its owner's username
	FindDetail(id uint64) (*ProjectSummary, error)

	// ListForUser lists the projects a user belongs to, newest first
	ListForUser(userID uint64) ([]ProjectSummary, error)

	// Update updates the given columns and returns the number of rows matched
	Update(id uint64, fields map[string]interface{}) (int64, error)

	// UpdateOwner moves ownership to another user
	UpdateOwner(id, newOwnerID uint64) (int64, error)

	// Delete removes a project and everything it owns. Callers run it inside a transaction.
	Delete(id uint64) (int64, error)

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// UpdateMemberRole changes a member's role
	UpdateMemberRole(projectID, userID uint64, role models.ProjectRole) (int64, error)

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) (int64, error)

	// ListMembers lists members: owner first, then managers, then by username
	ListMembers(projectID uint64) ([]MemberRow, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// FindDetail finds a task with its creator's username
	FindDetail(id uint64) (*TaskRow, error)

	// ListByProject lists a project's tasks, newest first
	ListByProject(projectID uint64) ([]TaskRow, error)

	// ListDueForUser lists tasks assigned to a user with a due date in [from, to)
	ListDueForUser(userID uint64, from, to time.Time) ([]TaskRow, error)

	// Update updates the given columns and returns the number of rows matched
	Update(id uint64, fields map[string]interface{}) (int64, error)

	// Delete removes a task with its comments and assignees. Callers run it inside a transaction.
	Delete(id uint64) (int64, error)

	// AddAssignee assigns a user to a task
	AddAssignee(taskID, userID uint64) error

	// RemoveAssignee removes a user from a task
	RemoveAssignee(taskID, userID uint64) (int64, error)

	// FindAssignee finds a specific assignment
	FindAssignee(taskID, userID uint64) (*models.TaskAssignee, error)

	// CountAssignees counts a task's assignees
	CountAssignees(taskID uint64) (int64, error)

	// ListAssignees lists assignees of the given tasks keyed by task ID
	ListAssignees(taskIDs ...uint64) (map[uint64][]AssigneeRow, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// ListByTask lists a task's comments, oldest first
	ListByTask(taskID uint64) ([]CommentRow, error)

	// Delete deletes a comment
	Delete(id uint64) (int64, error)
}

// ActivityRepository defines the interface for activity log reads
type ActivityRepository interface {
	// ListByProject lists a project's entries, newest first
	ListByProject(projectID uint64, params utils.PaginationParams) ([]ActivityRow, int64, error)
}

// ProjectSummary is a project joined with its owner and, for list queries, the viewer's role.
type ProjectSummary struct {
	ID            uint64             `gorm:"column:id"`
	Name          string             `gorm:"column:name"`
	Content       string             `gorm:"column:content"`
	EndDate       *time.Time         `gorm:"column:end_date"`
	CreatedBy     uint64             `gorm:"column:created_by"`
	CreatedAt     time.Time          `gorm:"column:created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at"`
	OwnerName     string             `gorm:"column:owner_name"`
	RoleInProject models.ProjectRole `gorm:"column:role_in_project"`
}

// MemberRow is a project member joined with the user's profile.
type MemberRow struct {
	UserID   uint64             `gorm:"column:user_id"`
	Username string             `gorm:"column:username"`
	Email    string             `gorm:"column:email"`
	Role     models.ProjectRole `gorm:"column:role"`
	JoinedAt time.Time          `gorm:"column:joined_at"`
}

// TaskRow is a task joined with its creator's username.
type TaskRow struct {
	ID              uint64            `gorm:"column:id"`
	ProjectID       uint64            `gorm:"column:project_id"`
	Name            string            `gorm:"column:name"`
	Content         string            `gorm:"column:content"`
	DueDate         *time.Time        `gorm:"column:due_date"`
	Status          models.TaskStatus `gorm:"column:status"`
	CreatedByUserID uint64            `gorm:"column:created_by_user_id"`
	CreatedAt       time.Time         `gorm:"column:created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at"`
	CreatorUsername string            `gorm:"column:creator_username"`
}

type AssigneeRow struct {
	TaskID   uint64 `gorm:"column:task_id"`
	UserID   uint64 `gorm:"column:user_id"`
	Username string `gorm:"column:username"`
}

type CommentRow struct {
	ID             uint64    `gorm:"column:id"`
	TaskID         uint64    `gorm:"column:task_id"`
	UserID         uint64    `gorm:"column:user_id"`
	Content        string    `gorm:"column:content"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	AuthorUsername string    `gorm:"column:author_username"`
}

type ActivityRow struct {
	ID         uint64         `gorm:"column:id"`
	UserID     uint64         `gorm:"column:user_id"`
	ProjectID  uint64         `gorm:"column:project_id"`
	TaskID     *uint64        `gorm:"column:task_id"`
	ActionType string         `gorm:"column:action_type"`
	Details    datatypes.JSON `gorm:"column:details"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	Username   string         `gorm:"column:username"`
}
