package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lockguard-backend/internal/mw"
)

// MyDevices handles GET /api/devices/my.
func (h *Handler) MyDevices(c *gin.Context) {
	devices, err := h.store.DevicesByUser(c.Request.Context(), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

type assignRequest struct {
	SerialNumber string `json:"serialNumber" binding:"required"`
}

// AssignDevice handles POST /api/devices/assign. A device already claimed by
// any user is a conflict.
func (h *Handler) AssignDevice(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device, err := h.store.AssignDevice(c.Request.Context(), req.SerialNumber, mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device assigned successfully", "device": device})
}

type unassignRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

// UnassignDevice handles POST /api/devices/unassign.
func (h *Handler) UnassignDevice(c *gin.Context) {
	var req unassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device, err := h.store.UnassignDevice(c.Request.Context(), req.DeviceID, mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device unassigned successfully", "device": device})
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameDevice handles PATCH /api/devices/rename/:deviceId.
func (h *Handler) RenameDevice(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
		return
	}

	device, err := h.store.RenameDevice(c.Request.Context(), c.Param("deviceId"), mw.UserID(c), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device name updated successfully", "device": device})
}

type lockRequest struct {
	LockActive *bool `json:"lockActive" binding:"required"`
}

// SetDeviceLock handles PATCH /api/devices/lock/:deviceId.
func (h *Handler) SetDeviceLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device, err := h.store.SetDeviceLock(c.Request.Context(), c.Param("deviceId"), mw.UserID(c), *req.LockActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device lock status updated", "device": device})
}

type createDeviceRequest struct {
	Name         string `json:"name" binding:"required"`
	SerialNumber string `json:"serialNumber" binding:"required"`
}

// AdminCreateDevice handles POST /api/devices/admin/create.
func (h *Handler) AdminCreateDevice(c *gin.Context) {
	var req createDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device, err := h.store.CreateDevice(c.Request.Context(), req.Name, req.SerialNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Device created successfully", "device": device})
}

// AdminDeleteDevice handles DELETE /api/devices/admin/delete/:deviceId.
func (h *Handler) AdminDeleteDevice(c *gin.Context) {
	if err := h.store.DeleteDevice(c.Request.Context(), c.Param("deviceId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
}
