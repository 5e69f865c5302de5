package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/services"
)

// ProductHandler handles HTTP requests related to products
type ProductHandler struct {
	productRepository repositories.ProductRepository
	likeRepository    repositories.LikeRepository
	uploadRepository  repositories.UploadRepository
	notifier          *services.Notifier
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repositories.ProductRepository, likeRepo repositories.LikeRepository, uploadRepo repositories.UploadRepository, notifier *services.Notifier) *ProductHandler {
	return &ProductHandler{
		productRepository: productRepo,
		likeRepository:    likeRepo,
		uploadRepository:  uploadRepo,
		notifier:          notifier,
	}
}

// RegisterPublicRoutes registers routes readable without authentication.
func (h *ProductHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
}

// RegisterProtectedRoutes registers the mutating routes. requireOwner is
// the ownership guard bound to the product loader.
func (h *ProductHandler) RegisterProtectedRoutes(g *echo.Group, requireOwner echo.MiddlewareFunc) {
	g.POST("/products", h.CreateProduct)
	g.PUT("/products/:id", h.UpdateProduct, requireOwner)
	g.DELETE("/products/:id", h.DeleteProduct, requireOwner)
}

// Loader returns the ownership-guard loader for products.
func (h *ProductHandler) Loader() middleware.Loader {
	return func(c echo.Context, id uint) (middleware.Owned, error) {
		return h.productRepository.GetProductByID(id)
	}
}

// EnrichedProduct is a product with per-caller flags
type EnrichedProduct struct {
	models.Product
	IsLiked bool `json:"is_liked"`
}

// ListProducts returns an offset-mode page of products, annotated with
// is_liked for authenticated callers.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	params := offsetParamsFromQuery(c)

	products, total, err := h.productRepository.ListProducts(params)
	if err != nil {
		return err
	}

	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	liked, err := h.likeRepository.LikedSet(middleware.UserID(c), models.TargetTypeProduct, ids)
	if err != nil {
		return err
	}

	enriched := make([]EnrichedProduct, len(products))
	for i, p := range products {
		enriched[i] = EnrichedProduct{Product: p, IsLiked: liked[p.ID]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"products": enriched},
		"meta": echo.Map{
			"totalItems": total,
			"offset":     params.Offset,
			"limit":      params.Limit,
			"order":      params.Order,
		},
	})
}

// GetProduct returns one product with its like count and per-caller flag.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	product, err := h.productRepository.GetProductByID(id)
	if err != nil {
		return err
	}

	likeCount, err := h.likeRepository.CountByTarget(product.ID, models.TargetTypeProduct)
	if err != nil {
		return err
	}

	isLiked := false
	if userID := middleware.UserID(c); userID > 0 {
		isLiked, err = h.likeRepository.HasUserLiked(userID, product.ID, models.TargetTypeProduct)
		if err != nil {
			return err
		}
	}

	return OK(c, http.StatusOK, echo.Map{
		"product":    product,
		"like_count": likeCount,
		"is_liked":   isLiked,
	})
}

// CreateProduct creates a new product owned by the caller.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req models.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	product := &models.Product{
		UserID:   middleware.UserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Price:    *req.Price,
		Status:   models.ProductStatusSelling,
		ImageURL: req.ImageURL,
	}
	if err := h.productRepository.CreateProduct(product); err != nil {
		return err
	}
	if err := markUploadAttached(h.uploadRepository, product.ImageURL); err != nil {
		return err
	}
	return OK(c, http.StatusCreated, product)
}

// UpdateProduct updates the caller's product. When the price changes,
// everyone who liked the product is notified. A request that changes
// nothing is rejected before any write.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req models.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	product := middleware.Resource(c).(*models.Product)
	previousPrice := product.Price

	changed := false
	imageChanged := false
	if req.Title != nil && *req.Title != product.Title {
		product.Title = *req.Title
		changed = true
	}
	if req.Content != nil && *req.Content != product.Content {
		product.Content = *req.Content
		changed = true
	}
	if req.Price != nil && *req.Price != product.Price {
		product.Price = *req.Price
		changed = true
	}
	if req.Status != nil && *req.Status != product.Status {
		product.Status = *req.Status
		changed = true
	}
	if req.ImageURL != nil && *req.ImageURL != product.ImageURL {
		product.ImageURL = *req.ImageURL
		changed = true
		imageChanged = true
	}
	if !changed {
		return apperrors.ErrInvalidInput
	}

	if err := h.productRepository.UpdateProduct(product); err != nil {
		return err
	}
	if imageChanged {
		if err := markUploadAttached(h.uploadRepository, product.ImageURL); err != nil {
			return err
		}
	}

	if product.Price != previousPrice {
		if err := h.notifyPriceChange(product, previousPrice); err != nil {
			return err
		}
	}
	return OK(c, http.StatusOK, product)
}

// notifyPriceChange fans a price-change notification out to every user
// who currently likes the product. The owner is filtered by the notifier.
func (h *ProductHandler) notifyPriceChange(product *models.Product, previousPrice int64) error {
	likerIDs, err := h.likeRepository.LikerIDs(product.ID, models.TargetTypeProduct)
	if err != nil {
		return err
	}
	if len(likerIDs) == 0 {
		return nil
	}

	message := fmt.Sprintf("The price of %q changed from %d to %d", product.Title, previousPrice, product.Price)
	drafts := make([]models.NotificationDraft, len(likerIDs))
	for i, likerID := range likerIDs {
		drafts[i] = models.NotificationDraft{
			RecipientID: likerID,
			SenderID:    product.UserID,
			EntityID:    product.ID,
			Type:        models.NotificationProductPriceChange,
			Message:     message,
		}
	}
	_, err = h.notifier.NotifyMany(drafts)
	return err
}

// DeleteProduct deletes the caller's product.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	product := middleware.Resource(c).(*models.Product)
	if err := h.productRepository.DeleteProduct(product.ID); err != nil {
		return err
	}
	return Message(c, http.StatusOK, "Product deleted")
}
