package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lockguard-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Users
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (groupsDeleted int64, err error)
	AddPushToken(ctx context.Context, userID, token string) error
	RemovePushToken(ctx context.Context, userID, token string) error

	// Favorites
	SetFavoriteMain(ctx context.Context, userID string, kind model.FavoriteKind, itemID string) (*FavoriteRef, error)
	AddFavorite(ctx context.Context, userID string, kind model.FavoriteKind, itemID string) ([]model.FavoriteItem, error)
	RemoveFavorite(ctx context.Context, userID, itemID string) ([]model.FavoriteItem, error)
	Profile(ctx context.Context, userID string) (*Profile, error)

	// Devices
	CreateDevice(ctx context.Context, name, serial string) (*model.Device, error)
	DevicesByUser(ctx context.Context, userID string) ([]model.Device, error)
	AssignDevice(ctx context.Context, serial, userID string) (*model.Device, error)
	UnassignDevice(ctx context.Context, deviceID, userID string) (*model.Device, error)
	RenameDevice(ctx context.Context, deviceID, userID, name string) (*model.Device, error)
	SetDeviceLock(ctx context.Context, deviceID, userID string, lock bool) (*model.Device, error)
	DeleteDevice(ctx context.Context, deviceID string) error

	// Groups
	CreateGroup(ctx context.Context, name, creatorID string) (*model.Group, error)
	GroupsByCreator(ctx context.Context, userID string) ([]model.Group, error)
	GroupByID(ctx context.Context, groupID, userID string) (*model.Group, error)
	GroupDevices(ctx context.Context, groupID, userID string) ([]model.Device, error)
	GroupEvents(ctx context.Context, groupID, userID string) ([]GroupEvent, error)
	AddDeviceToGroup(ctx context.Context, groupID, deviceID, userID string) error
	RemoveDeviceFromGroup(ctx context.Context, groupID, deviceID, userID string) error
	SetGroupLock(ctx context.Context, groupID, userID string, locked bool) (devicesUpdated int64, err error)
	RenameGroup(ctx context.Context, groupID, userID, name string) error
	DeleteGroup(ctx context.Context, groupID, userID string) error

	// Events
	CreateEvent(ctx context.Context, serial string) (*EventReceipt, error)
	DeviceEvents(ctx context.Context, deviceID, userID string) ([]model.Event, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := model.User{Name: name, Email: email, Password: passwordHash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and everything hanging off them: owned devices
// are released (owner, group and lock cleared), created groups are deleted
// with the same cleanup a direct group deletion performs, and every favorite
// reference left dangling by those changes is purged.
func (s *gormStore) DeleteUser(ctx context.Context, id string) (int64, error) {
	var groupsDeleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Release devices assigned to the user. Released devices lose
		// favorite eligibility along with their owner.
		ownedIDs, err := deviceIDsWhere(tx, "user_id = ?", id)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Device{}).Where("user_id = ?", id).
			Updates(map[string]any{"user_id": nil, "group_id": nil, "lock_active": false}).Error; err != nil {
			return fmt.Errorf("failed to release devices: %w", err)
		}
		if err := clearDeviceFavorites(tx, ownedIDs...); err != nil {
			return err
		}

		// Delete the user's groups, detaching their members first.
		var groups []model.Group
		if err := tx.Where("creator_id = ?", id).Find(&groups).Error; err != nil {
			return err
		}
		for _, g := range groups {
			memberIDs, err := deviceIDsWhere(tx, "group_id = ?", g.ID)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Device{}).Where("group_id = ?", g.ID).
				Updates(map[string]any{"group_id": nil, "lock_active": false}).Error; err != nil {
				return fmt.Errorf("failed to detach devices of group %s: %w", g.ID, err)
			}
			if err := clearGroupFavorites(tx, g.ID); err != nil {
				return err
			}
			if err := clearDeviceFavorites(tx, memberIDs...); err != nil {
				return err
			}
			if err := tx.Delete(&model.Group{}, "id = ?", g.ID).Error; err != nil {
				return err
			}
			groupsDeleted++
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.PushToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.FavoriteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}
	return groupsDeleted, nil
}

func (s *gormStore) AddPushToken(ctx context.Context, userID, token string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.PushToken{}).
			Where("user_id = ? AND token = ?", userID, token).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil // set semantics
		}
		return tx.Create(&model.PushToken{UserID: userID, Token: token}).Error
	})
}

func (s *gormStore) RemovePushToken(ctx context.Context, userID, token string) error {
	if err := requireUser(s.db.WithContext(ctx), userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.PushToken{}).Error
}

// --- shared helpers ---

func requireUser(tx *gorm.DB, userID string) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func deviceIDsWhere(tx *gorm.DB, query string, args ...any) ([]string, error) {
	var ids []string
	if err := tx.Model(&model.Device{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
