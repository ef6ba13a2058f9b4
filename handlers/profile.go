package handlers

import (
	"context"
	"errors"
	"net/http"

	"financial-advisor/api/logger"
	"financial-advisor/api/models"
	"financial-advisor/api/pagination"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileStore is the persistence contract the profile handlers depend
// on. mongodb.Store is the production implementation.
type ProfileStore interface {
	GetLatest(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, in *models.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context, userID string) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, page, limit int) ([]models.Profile, int64, error)
}

// ProfileHandler serves the profile resource endpoints.
type ProfileHandler struct {
	Store ProfileStore
}

func NewProfileHandler(store ProfileStore) *ProfileHandler {
	return &ProfileHandler{Store: store}
}

// GetMyProfile handles GET /api/profile/me.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	profile, err := h.Store.GetLatest(c.Request.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logger.Get().Error("error retrieving profile",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// UpsertProfile handles PUT and POST /api/profile. The payload replaces
// the caller's whole profile document.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Store.Upsert(c.Request.Context(), claims.Sub, &input)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		case errors.Is(err, models.ErrDuplicateProfile):
			c.JSON(http.StatusConflict, gin.H{"error": "Profile already exists, please retry"})
		default:
			logger.Get().Error("error saving profile",
				zap.String("user_id", claims.Sub),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Get().Info("profile saved",
		zap.String("user_id", claims.Sub))
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// DeleteProfile handles DELETE /api/profile.
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	err := h.Store.Delete(c.Request.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logger.Get().Error("error deleting profile",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Get().Info("profile deleted",
		zap.String("user_id", claims.Sub))
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}

// GetProfileByID handles GET /api/profile/:id. Admins may read any
// profile; everyone else only their own.
func (h *ProfileHandler) GetProfileByID(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if !claims.IsAdmin() && id != claims.Sub {
		logger.Get().Warn("cross-user profile read denied",
			zap.String("user_id", claims.Sub),
			zap.String("requested_id", id))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	profile, err := h.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logger.Get().Error("error retrieving profile by id",
			zap.String("requested_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// ListProfiles handles GET /api/profile?page=&limit= (admin only).
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	if !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Defaults()

	profiles, total, err := h.Store.List(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		logger.Get().Error("error listing profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(profiles, req.Page, req.Limit, total))
}
