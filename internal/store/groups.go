package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lockguard-backend/internal/model"
)

func (s *gormStore) CreateGroup(ctx context.Context, name, creatorID string) (*model.Group, error) {
	group := model.Group{Name: name, CreatorID: creatorID}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *gormStore) GroupsByCreator(ctx context.Context, userID string) ([]model.Group, error) {
	groups := []model.Group{}
	if err := s.db.WithContext(ctx).Where("creator_id = ?", userID).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *gormStore) GroupByID(ctx context.Context, groupID, userID string) (*model.Group, error) {
	return ownedGroup(s.db.WithContext(ctx), groupID, userID)
}

func (s *gormStore) GroupDevices(ctx context.Context, groupID, userID string) ([]model.Device, error) {
	tx := s.db.WithContext(ctx)
	if _, err := ownedGroup(tx, groupID, userID); err != nil {
		return nil, err
	}
	devices := []model.Device{}
	if err := tx.Where("group_id = ?", groupID).Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// GroupEvents returns the combined event history of the group's member
// devices, newest first.
func (s *gormStore) GroupEvents(ctx context.Context, groupID, userID string) ([]GroupEvent, error) {
	tx := s.db.WithContext(ctx)
	if _, err := ownedGroup(tx, groupID, userID); err != nil {
		return nil, err
	}

	events := []GroupEvent{}
	err := tx.Model(&model.Event{}).
		Select("events.*, devices.name AS device_name, devices.serial_number AS serial_number").
		Joins("JOIN devices ON devices.id = events.device_id").
		Where("devices.group_id = ?", groupID).
		Order("events.date DESC").
		Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AddDeviceToGroup attaches a device to a group owned by the caller. The
// device's lock flag immediately tracks the group's lock state, and the
// device is purged from every user's favorites since group members are not
// favorite-eligible. Adding a device already in this group just reapplies the
// lock state.
func (s *gormStore) AddDeviceToGroup(ctx context.Context, groupID, deviceID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := ownedGroup(tx, groupID, userID)
		if err != nil {
			return err
		}
		var device model.Device
		if err := tx.First(&device, "id = ?", deviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if device.GroupID != nil && *device.GroupID != groupID {
			return ErrDeviceGrouped
		}

		if err := tx.Model(&device).
			Updates(map[string]any{"group_id": groupID, "lock_active": group.Locked}).Error; err != nil {
			return fmt.Errorf("failed to attach device %s to group %s: %w", deviceID, groupID, err)
		}
		return clearDeviceFavorites(tx, deviceID)
	})
}

// RemoveDeviceFromGroup detaches a device: group reference cleared, lock
// forced off, favorites purged (a freshly detached device was only ever a
// favorite through a stale reference).
func (s *gormStore) RemoveDeviceFromGroup(ctx context.Context, groupID, deviceID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedGroup(tx, groupID, userID); err != nil {
			return err
		}
		var device model.Device
		if err := tx.First(&device, "id = ?", deviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&device).
			Updates(map[string]any{"group_id": nil, "lock_active": false}).Error; err != nil {
			return fmt.Errorf("failed to detach device %s: %w", deviceID, err)
		}
		return clearDeviceFavorites(tx, deviceID)
	})
}

// SetGroupLock writes the lock flag to every member device in one bulk
// update, then persists the group's own flag. The device flags are the
// authoritative ones; the group flag is advisory metadata.
func (s *gormStore) SetGroupLock(ctx context.Context, groupID, userID string, locked bool) (int64, error) {
	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedGroup(tx, groupID, userID); err != nil {
			return err
		}
		res := tx.Model(&model.Device{}).Where("group_id = ?", groupID).Update("lock_active", locked)
		if res.Error != nil {
			return fmt.Errorf("failed to propagate lock to group %s devices: %w", groupID, res.Error)
		}
		updated = res.RowsAffected
		return tx.Model(&model.Group{}).Where("id = ?", groupID).Update("locked", locked).Error
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *gormStore) RenameGroup(ctx context.Context, groupID, userID, name string) error {
	tx := s.db.WithContext(ctx)
	if _, err := ownedGroup(tx, groupID, userID); err != nil {
		return err
	}
	return tx.Model(&model.Group{}).Where("id = ?", groupID).Update("name", name).Error
}

// DeleteGroup removes a group owned by the caller: members are detached with
// their locks forced off, favorites referencing the group or its former
// members are purged, then the group row is deleted.
func (s *gormStore) DeleteGroup(ctx context.Context, groupID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedGroup(tx, groupID, userID); err != nil {
			return err
		}
		memberIDs, err := deviceIDsWhere(tx, "group_id = ?", groupID)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Device{}).Where("group_id = ?", groupID).
			Updates(map[string]any{"group_id": nil, "lock_active": false}).Error; err != nil {
			return fmt.Errorf("failed to detach devices of group %s: %w", groupID, err)
		}
		if err := clearGroupFavorites(tx, groupID); err != nil {
			return err
		}
		if err := clearDeviceFavorites(tx, memberIDs...); err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, "id = ?", groupID).Error
	})
}

// ownedGroup loads a group and checks the caller created it.
func ownedGroup(tx *gorm.DB, groupID, userID string) (*model.Group, error) {
	var group model.Group
	if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if group.CreatorID != userID {
		return nil, ErrNotOwner
	}
	return &group, nil
}
