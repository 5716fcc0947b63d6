package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lockguard-backend/internal/model"
)

func (s *gormStore) CreateDevice(ctx context.Context, name, serial string) (*model.Device, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Device{}).
		Where("serial_number = ?", serial).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSerialTaken
	}

	device := model.Device{Name: name, SerialNumber: serial}
	if err := s.db.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *gormStore) DevicesByUser(ctx context.Context, userID string) ([]model.Device, error) {
	devices := []model.Device{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// AssignDevice claims an unowned device by serial number. The claim is a
// single conditional update so two concurrent callers cannot both win; the
// loser sees ErrDeviceAssigned.
func (s *gormStore) AssignDevice(ctx context.Context, serial, userID string) (*model.Device, error) {
	tx := s.db.WithContext(ctx)

	var device model.Device
	if err := tx.First(&device, "serial_number = ?", serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res := tx.Model(&model.Device{}).
		Where("id = ? AND user_id IS NULL", device.ID).
		Update("user_id", userID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDeviceAssigned
	}

	if err := tx.First(&device, "id = ?", device.ID).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// UnassignDevice releases a device owned by the caller. The lock is forced
// off and the device is purged from every user's favorites.
func (s *gormStore) UnassignDevice(ctx context.Context, deviceID, userID string) (*model.Device, error) {
	var device *model.Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := ownedDevice(tx, deviceID, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(d).Updates(map[string]any{"user_id": nil, "lock_active": false}).Error; err != nil {
			return fmt.Errorf("failed to unassign device %s: %w", deviceID, err)
		}
		if err := clearDeviceFavorites(tx, deviceID); err != nil {
			return err
		}
		d.UserID = nil
		d.LockActive = false
		device = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (s *gormStore) RenameDevice(ctx context.Context, deviceID, userID, name string) (*model.Device, error) {
	tx := s.db.WithContext(ctx)
	device, err := ownedDevice(tx, deviceID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(device).Update("name", name).Error; err != nil {
		return nil, err
	}
	device.Name = name
	return device, nil
}

func (s *gormStore) SetDeviceLock(ctx context.Context, deviceID, userID string, lock bool) (*model.Device, error) {
	tx := s.db.WithContext(ctx)
	device, err := ownedDevice(tx, deviceID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(device).Update("lock_active", lock).Error; err != nil {
		return nil, err
	}
	device.LockActive = lock
	return device, nil
}

// DeleteDevice removes a device regardless of state, cascading to its events
// and to any favorite references. Group membership disappears with the row.
func (s *gormStore) DeleteDevice(ctx context.Context, deviceID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var device model.Device
		if err := tx.First(&device, "id = ?", deviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("device_id = ?", deviceID).Delete(&model.Event{}).Error; err != nil {
			return fmt.Errorf("failed to delete events of device %s: %w", deviceID, err)
		}
		if err := clearDeviceFavorites(tx, deviceID); err != nil {
			return err
		}
		return tx.Delete(&model.Device{}, "id = ?", deviceID).Error
	})
}

// ownedDevice loads a device and checks the caller currently owns it.
func ownedDevice(tx *gorm.DB, deviceID, userID string) (*model.Device, error) {
	var device model.Device
	if err := tx.First(&device, "id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if device.UserID == nil || *device.UserID != userID {
		return nil, ErrNotOwner
	}
	return &device, nil
}
