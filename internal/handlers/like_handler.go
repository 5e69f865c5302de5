package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/services"
)

// LikeHandler handles the like toggle on articles and products.
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	notifier       *services.Notifier
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, notifier *services.Notifier) *LikeHandler {
	return &LikeHandler{likeRepository: likeRepo, notifier: notifier}
}

// RegisterProtectedRoutes registers the toggle routes. The exists guards
// 404 before toggling on a missing target.
func (h *LikeHandler) RegisterProtectedRoutes(g *echo.Group, articleExists, productExists echo.MiddlewareFunc) {
	g.POST("/articles/:id/like", h.toggleFor(models.TargetTypeArticle), articleExists)
	g.POST("/products/:id/like", h.toggleFor(models.TargetTypeProduct), productExists)
}

// toggleFor flips the caller's like on the target loaded by the exists
// guard. The create branch notifies the target's owner; the cancel
// branch is silent.
func (h *LikeHandler) toggleFor(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		targetID, err := idParam(c)
		if err != nil {
			return err
		}
		target := middleware.Resource(c)
		userID := middleware.UserID(c)

		like, created, err := h.likeRepository.Toggle(userID, targetID, targetType)
		if err != nil {
			return err
		}

		if created {
			draft := models.NotificationDraft{
				RecipientID: target.OwnerID(),
				SenderID:    userID,
				EntityID:    targetID,
				Type:        likeNotificationType(targetType),
				Message:     fmt.Sprintf("Someone liked your %s", targetType),
			}
			if _, err := h.notifier.Notify(draft); err != nil {
				return err
			}
		}

		likeCount, err := h.likeRepository.CountByTarget(targetID, targetType)
		if err != nil {
			return err
		}

		return OK(c, http.StatusOK, echo.Map{
			"liked":      created,
			"like_count": likeCount,
			"like":       like,
		})
	}
}

func likeNotificationType(targetType string) string {
	if targetType == models.TargetTypeProduct {
		return models.NotificationProductLike
	}
	return models.NotificationArticleLike
}
