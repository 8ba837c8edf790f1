package repository

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/database"
	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

const taskRowColumns = "tasks.id, tasks.project_id, tasks.name, tasks.content, tasks.due_date, tasks.status, " +
	"tasks.created_by_user_id, tasks.created_at, tasks.updated_at, COALESCE(users.username, '') AS creator_username"

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit("Creator", "Project", "Assignees", "Comments").Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormTaskRepository) FindDetail(id uint64) (*TaskRow, error) {
	var row TaskRow
	err := r.db.Table("tasks").
		Select(taskRowColumns).
		Joins("LEFT JOIN users ON users.id = tasks.created_by_user_id").
		Where("tasks.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormTaskRepository) ListByProject(projectID uint64) ([]TaskRow, error) {
	rows := []TaskRow{}
	err := r.db.Table("tasks").
		Select(taskRowColumns).
		Joins("LEFT JOIN users ON users.id = tasks.created_by_user_id").
		Where("tasks.project_id = ?", projectID).
		Scopes(database.NewestFirst("tasks")).
		Scan(&rows).Error
	return rows, err
}

func (r *GormTaskRepository) ListDueForUser(userID uint64, from, to time.Time) ([]TaskRow, error) {
	rows := []TaskRow{}
	err := r.db.Table("tasks").
		Select(taskRowColumns).
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Joins("LEFT JOIN users ON users.id = tasks.created_by_user_id").
		Where("task_assignees.user_id = ?", userID).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date >= ? AND tasks.due_date < ?", from, to).
		Order("tasks.due_date ASC").
		Order("tasks.id ASC").
		Scan(&rows).Error
	return rows, err
}

// Update updates a task
func (r *GormTaskRepository) Update(id uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete deletes a task with its comments and assignments
func (r *GormTaskRepository) Delete(id uint64) (int64, error) {
	if err := r.db.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("task_id = ?", id).Delete(&models.TaskAssignee{}).Error; err != nil {
		return 0, err
	}

	result := r.db.Delete(&models.Task{}, id)
	return result.RowsAffected, result.Error
}

func (r *GormTaskRepository) AddAssignee(taskID, userID uint64) error {
	return r.db.Omit("Task", "User").Create(&models.TaskAssignee{
		TaskID: taskID,
		UserID: userID,
	}).Error
}

func (r *GormTaskRepository) RemoveAssignee(taskID, userID uint64) (int64, error) {
	result := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskAssignee{})
	return result.RowsAffected, result.Error
}

// FindAssignee finds a specific task assignment
func (r *GormTaskRepository) FindAssignee(taskID, userID uint64) (*models.TaskAssignee, error) {
	var assignee models.TaskAssignee
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignee).Error; err != nil {
		return nil, err
	}
	return &assignee, nil
}

func (r *GormTaskRepository) CountAssignees(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskAssignee{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) ListAssignees(taskIDs ...uint64) (map[uint64][]AssigneeRow, error) {
	byTask := make(map[uint64][]AssigneeRow, len(taskIDs))
	if len(taskIDs) == 0 {
		return byTask, nil
	}

	var rows []AssigneeRow
	err := r.db.Table("task_assignees").
		Select("task_assignees.task_id, users.id AS user_id, users.username").
		Joins("JOIN users ON users.id = task_assignees.user_id").
		Where("task_assignees.task_id IN ?", taskIDs).
		Order("task_assignees.created_at ASC").
		Order("users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], row)
	}
	return byTask, nil
}
