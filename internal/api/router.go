package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"lockguard-backend/config"
	"lockguard-backend/internal/mw"
	"lockguard-backend/internal/notification"
	"lockguard-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, d *notification.Dispatcher, authCfg *config.AuthConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, d, authCfg)

	// Validated tokens are cached for a minute to skip repeated HMAC checks.
	tokenCache := cache.New(time.Minute, 5*time.Minute)
	authRequired := mw.Auth([]byte(authCfg.JWTSecret), tokenCache)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
			auth.POST("/refresh", handler.Refresh)
			auth.POST("/save-push-token", authRequired, handler.SavePushToken)
			auth.POST("/clear-push-token", authRequired, handler.ClearPushToken)
			auth.PATCH("/favorite-main", authRequired, handler.SetFavoriteMain)
			auth.POST("/favorite-list", authRequired, handler.AddFavorite)
			auth.DELETE("/favorite-list/:itemId", authRequired, handler.RemoveFavorite)
			auth.GET("/me", authRequired, handler.Me)
			auth.DELETE("/admin/delete/:userId", handler.AdminDeleteUser)
		}

		devices := api.Group("/devices")
		{
			devices.GET("/my", authRequired, handler.MyDevices)
			devices.POST("/assign", authRequired, handler.AssignDevice)
			devices.POST("/unassign", authRequired, handler.UnassignDevice)
			devices.PATCH("/rename/:deviceId", authRequired, handler.RenameDevice)
			devices.PATCH("/lock/:deviceId", authRequired, handler.SetDeviceLock)
			devices.POST("/admin/create", handler.AdminCreateDevice)
			devices.DELETE("/admin/delete/:deviceId", handler.AdminDeleteDevice)
		}

		events := api.Group("/events")
		{
			events.POST("/create", handler.CreateEvent)
			events.GET("/device/:deviceId", authRequired, handler.DeviceEvents)
		}

		groups := api.Group("/groups")
		groups.Use(authRequired)
		{
			groups.POST("/create", handler.CreateGroup)
			groups.GET("/my", handler.MyGroups)
			groups.GET("/:groupId", handler.GetGroup)
			groups.GET("/:groupId/devices", handler.GroupDevices)
			groups.GET("/:groupId/events", handler.GroupEvents)
			groups.POST("/:groupId/add-device", handler.AddDeviceToGroup)
			groups.POST("/:groupId/remove-device/:deviceId", handler.RemoveDeviceFromGroup)
			groups.POST("/:groupId/lock", handler.LockGroup)
			groups.POST("/:groupId/unlock", handler.UnlockGroup)
			groups.PATCH("/:groupId/rename", handler.RenameGroup)
			groups.DELETE("/:groupId", handler.DeleteGroup)
		}
	}

	return r
}
