package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lockguard-backend/config"
	"lockguard-backend/internal/notification"
	"lockguard-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	dispatcher *notification.Dispatcher
	auth       *config.AuthConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, d *notification.Dispatcher, authCfg *config.AuthConfig) *Handler {
	return &Handler{
		store:      s,
		dispatcher: d,
		auth:       authCfg,
	}
}

// respondError maps store sentinel errors onto the HTTP error taxonomy.
// Anything unrecognized is an internal failure: logged, reported as a bare
// 500 so database details never leak into responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrSerialTaken),
		errors.Is(err, store.ErrDeviceAssigned),
		errors.Is(err, store.ErrDeviceGrouped),
		errors.Is(err, store.ErrInvalidKind),
		errors.Is(err, store.ErrFavoriteIneligible),
		errors.Is(err, store.ErrFavoriteIsMain),
		errors.Is(err, store.ErrFavoriteExists),
		errors.Is(err, store.ErrFavoriteListFull):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
