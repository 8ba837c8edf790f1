// Package activity records the project audit trail.
//
// Every entry is a typed payload; its Kind is derived from the payload type, so an
// action label can never carry another action's details.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindProjectCreated  Kind = "project_created"
	KindProjectUpdated  Kind = "project_updated"
	KindTaskCreated     Kind = "task_created"
	KindTaskUpdated     Kind = "task_updated"
	KindTaskDeleted     Kind = "task_deleted"
	KindAssigneeAdded   Kind = "assignee_added"
	KindAssigneeRemoved Kind = "assignee_removed"
	KindMemberAdded     Kind = "member_added"
	KindRoleChanged     Kind = "role_changed"
	KindMemberRemoved   Kind = "member_removed"
)

var labels = map[Kind]string{
	KindProjectCreated:  "project created",
	KindProjectUpdated:  "project updated",
	KindTaskCreated:     "task created",
	KindTaskUpdated:     "task updated",
	KindTaskDeleted:     "task deleted",
	KindAssigneeAdded:   "assignee added",
	KindAssigneeRemoved: "assignee removed",
	KindMemberAdded:     "user added",
	KindRoleChanged:     "role changed",
	KindMemberRemoved:   "member removed",
}

// Label is the human readable action name shown in the activity feed.
func (k Kind) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

func (k Kind) Valid() bool {
	_, ok := labels[k]
	return ok
}

// Payload is implemented by every action's detail type.
type Payload interface {
	Kind() Kind
}

type ProjectCreated struct {
	ProjectName string `json:"project_name"`
}

type ProjectUpdated struct {
	ProjectName string `json:"project_name"`
}

type TaskCreated struct {
	TaskName string `json:"task_name"`
}

type TaskUpdated struct {
	TaskName string   `json:"task_name"`
	Changed  []string `json:"changed"`
}

type TaskDeleted struct {
	TaskName string `json:"task_name"`
}

type AssigneeAdded struct {
	TaskName         string `json:"task_name"`
	AssigneeID       uint64 `json:"assignee_id"`
	AssigneeUsername string `json:"assignee_username"`
}

type AssigneeRemoved struct {
	TaskName         string `json:"task_name"`
	AssigneeID       uint64 `json:"assignee_id"`
	AssigneeUsername string `json:"assignee_username"`
}

type MemberAdded struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

type RoleChanged struct {
	TargetUserID   uint64             `json:"target_user_id"`
	TargetUsername string             `json:"target_username"`
	NewRole        models.ProjectRole `json:"new_role"`
}

type MemberRemoved struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

func (ProjectCreated) Kind() Kind  { return KindProjectCreated }
func (ProjectUpdated) Kind() Kind  { return KindProjectUpdated }
func (TaskCreated) Kind() Kind     { return KindTaskCreated }
func (TaskUpdated) Kind() Kind     { return KindTaskUpdated }
func (TaskDeleted) Kind() Kind     { return KindTaskDeleted }
func (AssigneeAdded) Kind() Kind   { return KindAssigneeAdded }
func (AssigneeRemoved) Kind() Kind { return KindAssigneeRemoved }
func (MemberAdded) Kind() Kind     { return KindMemberAdded }
func (RoleChanged) Kind() Kind     { return KindRoleChanged }
func (MemberRemoved) Kind() Kind   { return KindMemberRemoved }

type Entry struct {
	ActorID   uint64
	ProjectID uint64
	TaskID    *uint64
	Payload   Payload
}

// Row converts e into its table representation.
func (e Entry) Row() (*models.ActivityLog, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("activity entry without payload")
	}
	details, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s details: %w", e.Payload.Kind(), err)
	}
	return &models.ActivityLog{
		UserID:     e.ActorID,
		ProjectID:  e.ProjectID,
		TaskID:     e.TaskID,
		ActionType: string(e.Payload.Kind()),
		Details:    datatypes.JSON(details),
	}, nil
}

const savepoint = "activity_entry"

// Recorder appends entries inside the caller's transaction.
//
// Entries are best effort: the insert runs behind a savepoint and a failed insert is
// rolled back to it, logged, and swallowed, so the surrounding mutation still commits.
// A successful entry commits or rolls back together with that mutation.
type Recorder struct {
	log *slog.Logger
}

func NewRecorder(log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{log: log}
}

// Record writes e on tx. It returns an error only when the transaction itself can no
// longer be used (the savepoint could not be set or restored).
func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, e Entry) error {
	row, err := e.Row()
	if err != nil {
		r.log.WarnContext(ctx, "activity entry dropped", "project_id", e.ProjectID, "error", err)
		return nil
	}

	if err := tx.SavePoint(savepoint).Error; err != nil {
		return fmt.Errorf("activity savepoint: %w", err)
	}

	if err := tx.Create(row).Error; err != nil {
		r.log.WarnContext(ctx, "activity entry not recorded",
			"action", row.ActionType,
			"project_id", row.ProjectID,
			"actor_id", row.UserID,
			"error", err,
		)
		if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
			return fmt.Errorf("activity rollback to savepoint: %w", rbErr)
		}
	}
	return nil
}

// Decode restores the typed payload of a stored row.
func Decode(kind Kind, details []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindProjectCreated:
		p = &ProjectCreated{}
	case KindProjectUpdated:
		p = &ProjectUpdated{}
	case KindTaskCreated:
		p = &TaskCreated{}
	case KindTaskUpdated:
		p = &TaskUpdated{}
	case KindTaskDeleted:
		p = &TaskDeleted{}
	case KindAssigneeAdded:
		p = &AssigneeAdded{}
	case KindAssigneeRemoved:
		p = &AssigneeRemoved{}
	case KindMemberAdded:
		p = &MemberAdded{}
	case KindRoleChanged:
		p = &RoleChanged{}
	case KindMemberRemoved:
		p = &MemberRemoved{}
	default:
		return nil, fmt.Errorf("unknown activity kind %q", kind)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, p); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", kind, err)
		}
	}
	return p, nil
}
