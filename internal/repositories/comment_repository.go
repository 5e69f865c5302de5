package repositories

import (
	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
	ListByTarget(targetID uint, targetType string, params CursorParams) ([]models.Comment, *uint, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment updates an existing comment
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// ListByTarget retrieves a cursor-mode page of comments for a target,
// newest first with id as the tie breaker. The second return value is
// the cursor for the next page, nil when the list is exhausted.
func (r *PostgresCommentRepository) ListByTarget(targetID uint, targetType string, params CursorParams) ([]models.Comment, *uint, error) {
	params.Clamp()

	query := r.db.Where("target_id = ? AND target_type = ?", targetID, targetType)
	if params.Cursor > 0 {
		// Skip the cursor row itself and everything newer than it.
		query = query.Where(
			"(created_at, id) < (SELECT created_at, id FROM comments WHERE id = ?)",
			params.Cursor,
		)
	}

	var comments []models.Comment
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *uint
	if len(comments) == params.Limit {
		last := comments[len(comments)-1].ID
		nextCursor = &last
	}
	return comments, nextCursor, nil
}
