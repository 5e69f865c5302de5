package repositories

import (
	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	CreateArticle(article *models.Article) error
	GetArticleByID(id uint) (*models.Article, error)
	UpdateArticle(article *models.Article) error
	DeleteArticle(id uint) error
	ListArticles(params OffsetParams) ([]models.Article, int64, error)
}

// PostgresArticleRepository implements ArticleRepository for PostgreSQL
type PostgresArticleRepository struct {
	db *gorm.DB
}

// NewPostgresArticleRepository creates a new PostgresArticleRepository
func NewPostgresArticleRepository(db *gorm.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db}
}

// CreateArticle creates a new article
func (r *PostgresArticleRepository) CreateArticle(article *models.Article) error {
	return r.db.Create(article).Error
}

// GetArticleByID retrieves an article by ID
func (r *PostgresArticleRepository) GetArticleByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle updates an existing article
func (r *PostgresArticleRepository) UpdateArticle(article *models.Article) error {
	return r.db.Save(article).Error
}

// DeleteArticle deletes an article by ID. Dependent likes, comments and
// notifications-by-entity are cascade-deleted at the persistence layer.
func (r *PostgresArticleRepository) DeleteArticle(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}

// ListArticles retrieves an offset-mode page of articles with the total count.
func (r *PostgresArticleRepository) ListArticles(params OffsetParams) ([]models.Article, int64, error) {
	query := r.db.Model(&models.Article{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []models.Article
	err := query.Order(params.orderClause()).
		Offset(params.Offset).Limit(params.Limit).
		Find(&articles).Error
	return articles, total, err
}
