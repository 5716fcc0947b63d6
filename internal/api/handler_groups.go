package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lockguard-backend/internal/mw"
)

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroup handles POST /api/groups/create. The caller becomes the
// group's immutable creator.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.store.CreateGroup(c.Request.Context(), req.Name, mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// MyGroups handles GET /api/groups/my.
func (h *Handler) MyGroups(c *gin.Context) {
	groups, err := h.store.GroupsByCreator(c.Request.Context(), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup handles GET /api/groups/:groupId.
func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.store.GroupByID(c.Request.Context(), c.Param("groupId"), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// GroupDevices handles GET /api/groups/:groupId/devices.
func (h *Handler) GroupDevices(c *gin.Context) {
	devices, err := h.store.GroupDevices(c.Request.Context(), c.Param("groupId"), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GroupEvents handles GET /api/groups/:groupId/events. An empty group yields
// an empty list, not an error.
func (h *Handler) GroupEvents(c *gin.Context) {
	events, err := h.store.GroupEvents(c.Request.Context(), c.Param("groupId"), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type addDeviceRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

// AddDeviceToGroup handles POST /api/groups/:groupId/add-device.
func (h *Handler) AddDeviceToGroup(c *gin.Context) {
	var req addDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.AddDeviceToGroup(c.Request.Context(), c.Param("groupId"), req.DeviceID, mw.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device added to group successfully"})
}

// RemoveDeviceFromGroup handles POST /api/groups/:groupId/remove-device/:deviceId.
func (h *Handler) RemoveDeviceFromGroup(c *gin.Context) {
	if err := h.store.RemoveDeviceFromGroup(c.Request.Context(), c.Param("groupId"), c.Param("deviceId"), mw.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device removed from group and lock disabled"})
}

// LockGroup handles POST /api/groups/:groupId/lock.
func (h *Handler) LockGroup(c *gin.Context) {
	h.setGroupLock(c, true, "Group locked (devices activated)")
}

// UnlockGroup handles POST /api/groups/:groupId/unlock.
func (h *Handler) UnlockGroup(c *gin.Context) {
	h.setGroupLock(c, false, "Group unlocked (devices deactivated)")
}

func (h *Handler) setGroupLock(c *gin.Context, locked bool, message string) {
	updated, err := h.store.SetGroupLock(c.Request.Context(), c.Param("groupId"), mw.UserID(c), locked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "devicesUpdated": updated})
}

// RenameGroup handles PATCH /api/groups/:groupId/rename.
func (h *Handler) RenameGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RenameGroup(c.Request.Context(), c.Param("groupId"), mw.UserID(c), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group renamed successfully"})
}

// DeleteGroup handles DELETE /api/groups/:groupId.
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.store.DeleteGroup(c.Request.Context(), c.Param("groupId"), mw.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}
