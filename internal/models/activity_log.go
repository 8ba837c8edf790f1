package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is append-only. TaskID carries no foreign key so entries about a
// deleted task remain readable until their project is deleted.
type ActivityLog struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	UserID     uint64         `gorm:"not null;index" json:"user_id"`
	ProjectID  uint64         `gorm:"not null;index" json:"project_id"`
	TaskID     *uint64        `gorm:"index" json:"task_id"`
	ActionType string         `gorm:"type:varchar(50);not null" json:"action_type"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// All lists every model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&ProjectMember{},
		&Task{},
		&TaskAssignee{},
		&Comment{},
		&ActivityLog{},
	}
}
