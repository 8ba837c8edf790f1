package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo    TaskStatus = "todo"
	TaskStatusDoing   TaskStatus = "doing"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusPending TaskStatus = "pending"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone, TaskStatusPending:
		return true
	}
	return false
}

type Task struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	ProjectID       uint64     `gorm:"not null;index" json:"project_id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Content         string     `gorm:"type:text" json:"content"`
	DueDate         *time.Time `gorm:"index" json:"due_date"`
	Status          TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	CreatedByUserID uint64     `gorm:"not null;index" json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relations
	Creator   User           `gorm:"foreignKey:CreatedByUserID" json:"-"`
	Project   Project        `gorm:"foreignKey:ProjectID" json:"-"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"-"`
	Comments  []Comment      `gorm:"foreignKey:TaskID" json:"-"`
}

type TaskAssignee struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author User `gorm:"foreignKey:UserID" json:"-"`
}
