package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"lockguard-backend/internal/auth"
	"lockguard-backend/internal/model"
	"lockguard-backend/internal/mw"
	"lockguard-backend/internal/store"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.store.CreateUser(c.Request.Context(), req.Name, req.Email, string(hashed)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login. Unknown emails and wrong passwords get
// the same answer.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.NewToken([]byte(h.auth.JWTSecret), user.ID, h.auth.LoginTokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Refresh handles POST /api/auth/refresh. The presented token may be expired;
// only its signature has to check out. The fresh token carries the shorter
// refresh TTL.
func (h *Handler) Refresh(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	userID, err := auth.ParseExpiredToken([]byte(h.auth.JWTSecret), tokenString)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if _, err := h.store.UserByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := auth.NewToken([]byte(h.auth.JWTSecret), userID, h.auth.RefreshTokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type pushTokenRequest struct {
	PushToken string `json:"pushToken" binding:"required"`
}

// SavePushToken handles POST /api/auth/save-push-token. Saving the same token
// twice is a no-op.
func (h *Handler) SavePushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.AddPushToken(c.Request.Context(), mw.UserID(c), req.PushToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token saved"})
}

// ClearPushToken handles POST /api/auth/clear-push-token.
func (h *Handler) ClearPushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RemovePushToken(c.Request.Context(), mw.UserID(c), req.PushToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token removed"})
}

type favoriteRequest struct {
	Kind   model.FavoriteKind `json:"kind" binding:"required"`
	ItemID string             `json:"itemId" binding:"required"`
}

// SetFavoriteMain handles PATCH /api/auth/favorite-main.
func (h *Handler) SetFavoriteMain(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := h.store.SetFavoriteMain(c.Request.Context(), mw.UserID(c), req.Kind, req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite main updated", "favoriteMain": ref})
}

// AddFavorite handles POST /api/auth/favorite-list.
func (h *Handler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.store.AddFavorite(c.Request.Context(), mw.UserID(c), req.Kind, req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorite list", "favoriteList": list})
}

// RemoveFavorite handles DELETE /api/auth/favorite-list/:itemId. Removing an
// item that isn't listed reports 404.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	list, err := h.store.RemoveFavorite(c.Request.Context(), mw.UserID(c), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorite list", "favoriteList": list})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.store.Profile(c.Request.Context(), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AdminDeleteUser handles DELETE /api/auth/admin/delete/:userId.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	groupsDeleted, err := h.store.DeleteUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "User deleted successfully",
		"groupsDeleted": groupsDeleted,
	})
}
