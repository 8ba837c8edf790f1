package repository

import (
	"github.com/yukikurage/teamboard-api/internal/database"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/utils"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) ListByProject(projectID uint64, params utils.PaginationParams) ([]ActivityRow, int64, error) {
	var total int64
	if err := r.db.Model(&models.ActivityLog{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []ActivityRow{}
	err := r.db.Table("activity_logs").
		Select("activity_logs.id, activity_logs.user_id, activity_logs.project_id, activity_logs.task_id, " +
			"activity_logs.action_type, activity_logs.details, activity_logs.created_at, COALESCE(users.username, '') AS username").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Where("activity_logs.project_id = ?", projectID).
		Scopes(database.NewestFirst("activity_logs"), database.Paginate(params)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
