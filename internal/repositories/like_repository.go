package repositories

import (
	"errors"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// Toggle removes the caller's like when present, otherwise creates one.
	// Returns the created like and true on the create branch, nil and false
	// on the cancel branch.
	Toggle(userID, targetID uint, targetType string) (*models.Like, bool, error)
	LikerIDs(targetID uint, targetType string) ([]uint, error)
	LikedSet(userID uint, targetType string, targetIDs []uint) (map[uint]bool, error)
	CountByTarget(targetID uint, targetType string) (int64, error)
	HasUserLiked(userID, targetID uint, targetType string) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Toggle runs the delete-then-create sequence inside one transaction.
// The composite unique index on (user_id, target_id, target_type)
// backstops concurrent toggles by the same user: a conflicting create
// surfaces as "already liked" and is reported as the cancel branch.
func (r *PostgresLikeRepository) Toggle(userID, targetID uint, targetType string) (*models.Like, bool, error) {
	var created *models.Like

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil // cancel branch
		}

		like := &models.Like{UserID: userID, TargetID: targetID, TargetType: targetType}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		created = like
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return created, created != nil, nil
}

// LikerIDs returns the IDs of all users who currently like the target.
func (r *PostgresLikeRepository) LikerIDs(targetID uint, targetType string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// LikedSet reports which of the given targets the user has liked, for
// annotating list responses.
func (r *PostgresLikeRepository) LikedSet(userID uint, targetType string, targetIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountByTarget retrieves the number of likes for a target.
func (r *PostgresLikeRepository) CountByTarget(targetID uint, targetType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Count(&count).Error
	return count, err
}

// HasUserLiked checks whether the user currently likes the target.
func (r *PostgresLikeRepository) HasUserLiked(userID, targetID uint, targetType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		Count(&count).Error
	return count > 0, err
}
