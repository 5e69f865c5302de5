package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

// ArticleHandler handles HTTP requests related to articles
type ArticleHandler struct {
	articleRepository repositories.ArticleRepository
	likeRepository    repositories.LikeRepository
	uploadRepository  repositories.UploadRepository
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleRepo repositories.ArticleRepository, likeRepo repositories.LikeRepository, uploadRepo repositories.UploadRepository) *ArticleHandler {
	return &ArticleHandler{
		articleRepository: articleRepo,
		likeRepository:    likeRepo,
		uploadRepository:  uploadRepo,
	}
}

// RegisterPublicRoutes registers routes readable without authentication.
// OptionalAuth still annotates results for signed-in callers.
func (h *ArticleHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/articles", h.ListArticles)
	g.GET("/articles/:id", h.GetArticle)
}

// RegisterProtectedRoutes registers the mutating routes. requireOwner is
// the ownership guard bound to the article loader.
func (h *ArticleHandler) RegisterProtectedRoutes(g *echo.Group, requireOwner echo.MiddlewareFunc) {
	g.POST("/articles", h.CreateArticle)
	g.PUT("/articles/:id", h.UpdateArticle, requireOwner)
	g.DELETE("/articles/:id", h.DeleteArticle, requireOwner)
}

// Loader returns the ownership-guard loader for articles.
func (h *ArticleHandler) Loader() middleware.Loader {
	return func(c echo.Context, id uint) (middleware.Owned, error) {
		return h.articleRepository.GetArticleByID(id)
	}
}

// EnrichedArticle is an article with per-caller flags
type EnrichedArticle struct {
	models.Article
	IsLiked bool `json:"is_liked"`
}

// ListArticles returns an offset-mode page of articles, annotated with
// is_liked for authenticated callers.
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	params := offsetParamsFromQuery(c)

	articles, total, err := h.articleRepository.ListArticles(params)
	if err != nil {
		return err
	}

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	liked, err := h.likeRepository.LikedSet(middleware.UserID(c), models.TargetTypeArticle, ids)
	if err != nil {
		return err
	}

	enriched := make([]EnrichedArticle, len(articles))
	for i, a := range articles {
		enriched[i] = EnrichedArticle{Article: a, IsLiked: liked[a.ID]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"articles": enriched},
		"meta": echo.Map{
			"totalItems": total,
			"offset":     params.Offset,
			"limit":      params.Limit,
			"order":      params.Order,
		},
	})
}

// GetArticle returns one article with its like count and per-caller flag.
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	article, err := h.articleRepository.GetArticleByID(id)
	if err != nil {
		return err
	}

	likeCount, err := h.likeRepository.CountByTarget(article.ID, models.TargetTypeArticle)
	if err != nil {
		return err
	}

	isLiked := false
	if userID := middleware.UserID(c); userID > 0 {
		isLiked, err = h.likeRepository.HasUserLiked(userID, article.ID, models.TargetTypeArticle)
		if err != nil {
			return err
		}
	}

	return OK(c, http.StatusOK, echo.Map{
		"article":    article,
		"like_count": likeCount,
		"is_liked":   isLiked,
	})
}

// CreateArticle creates a new article owned by the caller.
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	var req models.CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	article := &models.Article{
		UserID:   middleware.UserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := h.articleRepository.CreateArticle(article); err != nil {
		return err
	}
	if err := markUploadAttached(h.uploadRepository, article.ImageURL); err != nil {
		return err
	}
	return OK(c, http.StatusCreated, article)
}

// UpdateArticle updates the caller's article. A request that changes
// nothing is rejected before any write.
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	var req models.UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	article := middleware.Resource(c).(*models.Article)

	changed := false
	imageChanged := false
	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		changed = true
	}
	if req.Content != nil && *req.Content != article.Content {
		article.Content = *req.Content
		changed = true
	}
	if req.ImageURL != nil && *req.ImageURL != article.ImageURL {
		article.ImageURL = *req.ImageURL
		changed = true
		imageChanged = true
	}
	if !changed {
		return apperrors.ErrInvalidInput
	}

	if err := h.articleRepository.UpdateArticle(article); err != nil {
		return err
	}
	if imageChanged {
		if err := markUploadAttached(h.uploadRepository, article.ImageURL); err != nil {
			return err
		}
	}
	return OK(c, http.StatusOK, article)
}

// DeleteArticle deletes the caller's article.
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	article := middleware.Resource(c).(*models.Article)
	if err := h.articleRepository.DeleteArticle(article.ID); err != nil {
		return err
	}
	return Message(c, http.StatusOK, "Article deleted")
}
