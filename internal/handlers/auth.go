package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/token"
)

// refreshCookiePath scopes the refresh cookie to the refresh endpoint.
const refreshCookiePath = "/api/v1/auth/refresh"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository   repositories.UserRepository
	uploadRepository repositories.UploadRepository
	tokens           *token.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, uploadRepo repositories.UploadRepository, tokens *token.Service) *AuthHandler {
	return &AuthHandler{userRepository: userRepo, uploadRepository: uploadRepo, tokens: tokens}
}

// RegisterAuthRoutes registers the unprotected authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.Signin)
	g.POST("/refresh", h.Refresh)
	g.POST("/signout", h.Signout)
}

// RegisterProfileRoutes registers the routes requiring authentication
func (h *AuthHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
	g.PUT("/auth/me", h.UpdateMe)
}

// Signup registers a new user and signs them in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict
		}
		return err
	}

	if err := h.issueCookies(c, user.ID); err != nil {
		return err
	}
	return OK(c, http.StatusCreated, user)
}

// Signin authenticates a user by email and password.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.ErrUnauthorized
	}

	if err := h.issueCookies(c, user.ID); err != nil {
		return err
	}
	return OK(c, http.StatusOK, user)
}

// Refresh rotates the token pair from the refresh cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return apperrors.ErrUnauthorized
	}
	userID, err := h.tokens.VerifyRefresh(cookie.Value)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	if err := h.issueCookies(c, userID); err != nil {
		return err
	}
	return Message(c, http.StatusOK, "Token refreshed")
}

// Signout expires both auth cookies.
func (h *AuthHandler) Signout(c echo.Context) error {
	expireCookie(c, middleware.AccessCookieName, "/")
	expireCookie(c, middleware.RefreshCookieName, refreshCookiePath)
	return Message(c, http.StatusOK, "Signed out")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(middleware.UserID(c))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, user)
}

// UpdateMe updates the authenticated user's profile.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(middleware.UserID(c))
	if err != nil {
		return err
	}

	changed := false
	avatarChanged := false
	if req.Name != "" && req.Name != user.Name {
		user.Name = req.Name
		changed = true
	}
	if req.AvatarURL != "" && req.AvatarURL != user.AvatarURL {
		user.AvatarURL = req.AvatarURL
		changed = true
		avatarChanged = true
	}
	if !changed {
		return apperrors.ErrInvalidInput
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	if avatarChanged {
		if err := markUploadAttached(h.uploadRepository, user.AvatarURL); err != nil {
			return err
		}
	}
	return OK(c, http.StatusOK, user)
}

func (h *AuthHandler) issueCookies(c echo.Context, userID uint) error {
	pair, err := h.tokens.IssuePair(userID)
	if err != nil {
		return err
	}
	setCookie(c, middleware.AccessCookieName, pair.AccessToken, "/", h.tokens.AccessTTL())
	setCookie(c, middleware.RefreshCookieName, pair.RefreshToken, refreshCookiePath, h.tokens.RefreshTTL())
	return nil
}

func setCookie(c echo.Context, name, value, path string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(c echo.Context, name, path string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
