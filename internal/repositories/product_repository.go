package repositories

import (
	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	CreateProduct(product *models.Product) error
	GetProductByID(id uint) (*models.Product, error)
	UpdateProduct(product *models.Product) error
	DeleteProduct(id uint) error
	ListProducts(params OffsetParams) ([]models.Product, int64, error)
}

// PostgresProductRepository implements ProductRepository for PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// CreateProduct creates a new product
func (r *PostgresProductRepository) CreateProduct(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetProductByID retrieves a product by ID
func (r *PostgresProductRepository) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates an existing product
func (r *PostgresProductRepository) UpdateProduct(product *models.Product) error {
	return r.db.Save(product).Error
}

// DeleteProduct deletes a product by ID
func (r *PostgresProductRepository) DeleteProduct(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// ListProducts retrieves an offset-mode page of products with the total count.
func (r *PostgresProductRepository) ListProducts(params OffsetParams) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Order(params.orderClause()).
		Offset(params.Offset).Limit(params.Limit).
		Find(&products).Error
	return products, total, err
}
