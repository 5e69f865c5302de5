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

// CommentHandler handles HTTP requests related to comments on articles
// and products.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	notifier          *services.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, notifier *services.Notifier) *CommentHandler {
	return &CommentHandler{commentRepository: commentRepo, notifier: notifier}
}

// RegisterPublicRoutes registers the comment listing routes. The exists
// guards 404 before listing under a missing target.
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group, articleExists, productExists echo.MiddlewareFunc) {
	g.GET("/articles/:id/comments", h.listFor(models.TargetTypeArticle), articleExists)
	g.GET("/products/:id/comments", h.listFor(models.TargetTypeProduct), productExists)
}

// RegisterProtectedRoutes registers the mutating comment routes.
func (h *CommentHandler) RegisterProtectedRoutes(g *echo.Group, articleExists, productExists, requireOwner echo.MiddlewareFunc) {
	g.POST("/articles/:id/comments", h.createFor(models.TargetTypeArticle), articleExists)
	g.POST("/products/:id/comments", h.createFor(models.TargetTypeProduct), productExists)
	g.PUT("/comments/:id", h.UpdateComment, requireOwner)
	g.DELETE("/comments/:id", h.DeleteComment, requireOwner)
}

// Loader returns the ownership-guard loader for comments.
func (h *CommentHandler) Loader() middleware.Loader {
	return func(c echo.Context, id uint) (middleware.Owned, error) {
		return h.commentRepository.GetCommentByID(id)
	}
}

// listFor returns a cursor-mode page of comments for the target loaded
// by the exists guard, newest first.
func (h *CommentHandler) listFor(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		targetID, err := idParam(c)
		if err != nil {
			return err
		}
		params := cursorParamsFromQuery(c)

		comments, nextCursor, err := h.commentRepository.ListByTarget(targetID, targetType, params)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data":    echo.Map{"comments": comments},
			"meta": echo.Map{
				"nextCursor": nextCursor,
				"limit":      params.Limit,
			},
		})
	}
}

// createFor creates a comment on the target loaded by the exists guard
// and notifies the target's owner.
func (h *CommentHandler) createFor(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateCommentRequest
		if err := c.Bind(&req); err != nil {
			return apperrors.ErrInvalidInput
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		targetID, err := idParam(c)
		if err != nil {
			return err
		}
		target := middleware.Resource(c)

		comment := &models.Comment{
			UserID:     middleware.UserID(c),
			TargetID:   targetID,
			TargetType: targetType,
			Content:    req.Content,
		}
		if err := h.commentRepository.CreateComment(comment); err != nil {
			return err
		}

		draft := models.NotificationDraft{
			RecipientID: target.OwnerID(),
			SenderID:    comment.UserID,
			EntityID:    comment.ID,
			Type:        commentNotificationType(targetType),
			Message:     fmt.Sprintf("New comment on your %s", targetType),
		}
		if _, err := h.notifier.Notify(draft); err != nil {
			return err
		}
		return OK(c, http.StatusCreated, comment)
	}
}

func commentNotificationType(targetType string) string {
	if targetType == models.TargetTypeProduct {
		return models.NotificationProductComment
	}
	return models.NotificationArticleComment
}

// UpdateComment rewrites the caller's comment. A request that changes
// nothing is rejected before any write.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	comment := middleware.Resource(c).(*models.Comment)
	if req.Content == comment.Content {
		return apperrors.ErrInvalidInput
	}
	comment.Content = req.Content

	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return err
	}
	return OK(c, http.StatusOK, comment)
}

// DeleteComment deletes the caller's comment.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment := middleware.Resource(c).(*models.Comment)
	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return err
	}
	return Message(c, http.StatusOK, "Comment deleted")
}
