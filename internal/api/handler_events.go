package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lockguard-backend/internal/mw"
	"lockguard-backend/internal/notification"
)

type createEventRequest struct {
	SerialNumber string `json:"serialNumber" binding:"required"`
}

// CreateEvent handles POST /api/events/create, the endpoint devices call when
// they are activated. When the device's lock is engaged and its owner has
// push tokens, one notification per token goes out before the response; push
// failures never affect the already-persisted event or the status code.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Serial number is required"})
		return
	}

	receipt, err := h.store.CreateEvent(c.Request.Context(), req.SerialNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	if receipt.LockActive && len(receipt.PushTokens) > 0 {
		var msg notification.Message
		if receipt.FromGroup {
			msg = notification.Message{
				Title: "Zone alert",
				Body:  fmt.Sprintf("Zone %q has registered an opening", receipt.GroupName),
			}
		} else {
			msg = notification.Message{
				Title: "Door opened",
				Body:  fmt.Sprintf("Your device %q has been activated", receipt.DeviceName),
			}
		}
		h.dispatcher.Notify(c.Request.Context(), receipt.PushTokens, msg)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully", "event": receipt.Event})
}

// DeviceEvents handles GET /api/events/device/:deviceId, newest first.
func (h *Handler) DeviceEvents(c *gin.Context) {
	events, err := h.store.DeviceEvents(c.Request.Context(), c.Param("deviceId"), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
