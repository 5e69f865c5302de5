package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/storage"
)

// UploadHandler hands out presigned upload grants and finalizes the
// uploaded objects.
type UploadHandler struct {
	uploadRepository repositories.UploadRepository
	storage          storage.ObjectStorage
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadRepo repositories.UploadRepository, store storage.ObjectStorage) *UploadHandler {
	return &UploadHandler{uploadRepository: uploadRepo, storage: store}
}

// RegisterProtectedRoutes registers the upload routes.
func (h *UploadHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/uploads/grant", h.GrantUpload)
	g.POST("/uploads/complete", h.CompleteUpload)
}

// GrantUpload validates the declared file and returns a short-lived
// presigned PUT into the temporary namespace.
func (h *UploadHandler) GrantUpload(c echo.Context) error {
	var req models.UploadGrantRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	grant, err := h.storage.GrantUpload(c.Request().Context(), middleware.UserID(c), req.ContentType, req.ContentLength)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, grant)
}

// CompleteUpload promotes the uploaded temporary object into the
// permanent namespace and records it. When recording fails the
// promoted object is deleted again so storage and database stay in step.
func (h *UploadHandler) CompleteUpload(c echo.Context) error {
	var req models.CompleteUploadRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	key, publicURL, err := h.storage.Promote(ctx, userID, req.Key)
	if err != nil {
		return err
	}

	upload := &models.Upload{
		UserID: userID,
		Key:    key,
		URL:    publicURL,
		Status: models.UploadStatusPending,
	}
	if err := h.uploadRepository.CreateUpload(upload); err != nil {
		if removeErr := h.storage.Remove(ctx, key); removeErr != nil {
			slog.Warn("rollback of promoted object failed", "key", key, "error", removeErr)
		}
		return err
	}
	return OK(c, http.StatusCreated, upload)
}

// markUploadAttached flips the upload row behind a referenced image URL
// to attached so the orphan sweep leaves it alone. URLs that were not
// minted by the upload bridge resolve to no row and are left as is.
func markUploadAttached(uploads repositories.UploadRepository, imageURL string) error {
	if imageURL == "" {
		return nil
	}
	upload, err := uploads.GetUploadByURL(imageURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if upload.Status == models.UploadStatusAttached {
		return nil
	}
	return uploads.MarkAttached(upload.ID)
}
