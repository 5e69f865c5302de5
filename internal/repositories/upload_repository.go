package repositories

import (
	"time"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// UploadRepository defines the interface for upload record operations
type UploadRepository interface {
	CreateUpload(upload *models.Upload) error
	GetUploadByKey(key string) (*models.Upload, error)
	GetUploadByURL(url string) (*models.Upload, error)
	MarkAttached(id uint) error
	ListOrphans(olderThan time.Time) ([]models.Upload, error)
	DeleteUpload(id uint) error
}

type postgresUploadRepository struct {
	db *gorm.DB
}

// NewPostgresUploadRepository creates a new UploadRepository backed by PostgreSQL.
func NewPostgresUploadRepository(db *gorm.DB) UploadRepository {
	return &postgresUploadRepository{db: db}
}

func (r *postgresUploadRepository) CreateUpload(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

func (r *postgresUploadRepository) GetUploadByKey(key string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.Where("key = ?", key).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// GetUploadByURL resolves the upload row behind a public URL, for
// attaching when the URL is referenced by an owning record.
func (r *postgresUploadRepository) GetUploadByURL(url string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.Where("url = ?", url).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// MarkAttached records that the upload is referenced by an owning record
// and is no longer a sweep candidate.
func (r *postgresUploadRepository) MarkAttached(id uint) error {
	return r.db.Model(&models.Upload{}).
		Where("id = ?", id).
		Update("status", models.UploadStatusAttached).Error
}

// ListOrphans returns pending uploads older than the given time.
func (r *postgresUploadRepository) ListOrphans(olderThan time.Time) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Where("status = ? AND created_at < ?", models.UploadStatusPending, olderThan).
		Find(&uploads).Error
	return uploads, err
}

func (r *postgresUploadRepository) DeleteUpload(id uint) error {
	return r.db.Delete(&models.Upload{}, id).Error
}
