package repository

import (
	"github.com/yukikurage/teamboard-api/internal/database"
	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit("Owner", "Members", "Tasks").Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) FindDetail(id uint64) (*ProjectSummary, error) {
	var summary ProjectSummary
	err := r.db.Table("projects").
		Select("projects.*, users.username AS owner_name").
		Joins("JOIN users ON users.id = projects.created_by").
		Where("projects.id = ?", id).
		Take(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *GormProjectRepository) ListForUser(userID uint64) ([]ProjectSummary, error) {
	summaries := []ProjectSummary{}
	err := r.db.Table("projects").
		Select("projects.*, users.username AS owner_name, project_members.role AS role_in_project").
		Joins("JOIN users ON users.id = projects.created_by").
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Scopes(database.NewestFirst("projects")).
		Scan(&summaries).Error
	return summaries, err
}

// Update updates a project
func (r *GormProjectRepository) Update(id uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *GormProjectRepository) UpdateOwner(id, newOwnerID uint64) (int64, error) {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Update("created_by", newOwnerID)
	return result.RowsAffected, result.Error
}

// Delete deletes a project and all related data, children before parents
func (r *GormProjectRepository) Delete(id uint64) (int64, error) {
	taskIDs := r.db.Model(&models.Task{}).Select("id").Where("project_id = ?", id)

	if err := r.db.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignee{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return 0, err
	}

	result := r.db.Delete(&models.Project{}, id)
	return result.RowsAffected, result.Error
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Omit("Project", "User").Create(member).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GormProjectRepository) UpdateMemberRole(projectID, userID uint64, role models.ProjectRole) (int64, error) {
	result := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	return result.RowsAffected, result.Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) (int64, error) {
	result := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	return result.RowsAffected, result.Error
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]MemberRow, error) {
	members := []MemberRow{}
	err := r.db.Table("project_members").
		Select("users.id AS user_id, users.username, users.email, project_members.role, project_members.joined_at").
		Joins("JOIN users ON users.id = project_members.user_id").
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("project_members.project_id = ?", projectID).
		Order("CASE WHEN project_members.user_id = projects.created_by THEN 0 WHEN project_members.role = 'manager' THEN 1 ELSE 2 END").
		Order("users.username ASC").
		Scan(&members).Error
	return members, err
}
