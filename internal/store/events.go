package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lockguard-backend/internal/model"
)

// CreateEvent records an activation for the device with the given serial
// number. The event's notified flag mirrors the device's lock state at this
// moment and fromGroup records group membership. The receipt carries the
// owner's push tokens and naming so the caller can dispatch notifications
// without going back to the database.
func (s *gormStore) CreateEvent(ctx context.Context, serial string) (*EventReceipt, error) {
	tx := s.db.WithContext(ctx)

	var device model.Device
	if err := tx.First(&device, "serial_number = ?", serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	receipt := EventReceipt{
		DeviceName: device.Name,
		FromGroup:  device.GroupID != nil,
		LockActive: device.LockActive,
	}

	if device.GroupID != nil {
		var group model.Group
		if err := tx.First(&group, "id = ?", *device.GroupID).Error; err == nil {
			receipt.GroupName = group.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if device.UserID != nil {
		var tokens []string
		if err := tx.Model(&model.PushToken{}).
			Where("user_id = ?", *device.UserID).Order("id").
			Pluck("token", &tokens).Error; err != nil {
			return nil, err
		}
		receipt.PushTokens = tokens
	}

	event := model.Event{
		DeviceID:  device.ID,
		Date:      time.Now().UTC(),
		Notified:  device.LockActive,
		FromGroup: device.GroupID != nil,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, err
	}
	receipt.Event = event

	return &receipt, nil
}

// DeviceEvents returns a device's event history newest first. Only the
// current owner may read it.
func (s *gormStore) DeviceEvents(ctx context.Context, deviceID, userID string) ([]model.Event, error) {
	tx := s.db.WithContext(ctx)
	if _, err := ownedDevice(tx, deviceID, userID); err != nil {
		return nil, err
	}
	events := []model.Event{}
	if err := tx.Where("device_id = ?", deviceID).Order("date DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
