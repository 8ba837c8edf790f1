package models

import "time"

// Project.CreatedBy is the current owner. It starts as the creating user and changes
// only through an ownership transfer.
type Project struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Content   string     `gorm:"type:text" json:"content"`
	EndDate   *time.Time `json:"end_date"`
	CreatedBy uint64     `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Owner   User            `gorm:"foreignKey:CreatedBy" json:"-"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"-"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"-"`
}

type ProjectRole string

const (
	RoleManager ProjectRole = "manager"
	RoleMember  ProjectRole = "member"
)

func (r ProjectRole) Valid() bool {
	return r == RoleManager || r == RoleMember
}

type ProjectMember struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	UserID    uint64      `gorm:"primarykey;index" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}
