package repository

import (
	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Author").Create(comment).Error
}

func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) ListByTask(taskID uint64) ([]CommentRow, error) {
	rows := []CommentRow{}
	err := r.db.Table("comments").
		Select("comments.id, comments.task_id, comments.user_id, comments.content, comments.created_at, users.username AS author_username").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.task_id = ?", taskID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *GormCommentRepository) Delete(id uint64) (int64, error) {
	result := r.db.Delete(&models.Comment{}, id)
	return result.RowsAffected, result.Error
}
