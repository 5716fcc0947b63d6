package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lockguard-backend/internal/model"
)

// Favorite eligibility: a device qualifies only while it has no group (its
// lock state is otherwise governed by the group), a group only for its
// creator. Device favorites deliberately do not require ownership.
func validateFavoriteTarget(tx *gorm.DB, userID string, kind model.FavoriteKind, itemID string) error {
	switch kind {
	case model.KindDevice:
		var device model.Device
		if err := tx.First(&device, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if device.GroupID != nil {
			return ErrFavoriteIneligible
		}
	case model.KindGroup:
		var group model.Group
		if err := tx.First(&group, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if group.CreatorID != userID {
			return ErrNotOwner
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

// SetFavoriteMain replaces the user's main favorite. The item is removed from
// the favorite list if present; main and list stay disjoint.
func (s *gormStore) SetFavoriteMain(ctx context.Context, userID string, kind model.FavoriteKind, itemID string) (*FavoriteRef, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateFavoriteTarget(tx, userID, kind, itemID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND kind = ? AND item_id = ?", userID, kind, itemID).
			Delete(&model.FavoriteItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", userID).
			Updates(map[string]any{"favorite_main_kind": kind, "favorite_main_id": itemID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &FavoriteRef{Kind: kind, Item: itemID}, nil
}

// AddFavorite appends an item to the user's favorite list, rejecting
// duplicates of the main favorite, duplicates within the list, and a fifth
// entry.
func (s *gormStore) AddFavorite(ctx context.Context, userID string, kind model.FavoriteKind, itemID string) ([]model.FavoriteItem, error) {
	list := []model.FavoriteItem{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateFavoriteTarget(tx, userID, kind, itemID); err != nil {
			return err
		}
		var user model.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.FavoriteMainKind == kind && user.FavoriteMainID == itemID {
			return ErrFavoriteIsMain
		}

		var existing []model.FavoriteItem
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&existing).Error; err != nil {
			return err
		}
		for _, f := range existing {
			if f.Kind == kind && f.ItemID == itemID {
				return ErrFavoriteExists
			}
		}
		if len(existing) >= 4 {
			return ErrFavoriteListFull
		}

		item := model.FavoriteItem{UserID: userID, Kind: kind, ItemID: itemID}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		list = append(existing, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// RemoveFavorite removes an item from the user's favorite list by item id.
// Absence is reported as ErrNotFound rather than silently succeeding.
func (s *gormStore) RemoveFavorite(ctx context.Context, userID, itemID string) ([]model.FavoriteItem, error) {
	list := []model.FavoriteItem{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&model.FavoriteItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ?", userID).Order("id").Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Profile returns the user's profile with favorites resolved to their current
// names and lock states.
func (s *gormStore) Profile(ctx context.Context, userID string) (*Profile, error) {
	tx := s.db.WithContext(ctx)

	var user model.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile := Profile{Name: user.Name, Email: user.Email, FavoriteList: []ResolvedFavorite{}}

	if user.FavoriteMainKind.Valid() && user.FavoriteMainID != "" {
		target, err := resolveFavorite(tx, user.FavoriteMainKind, user.FavoriteMainID)
		if err != nil {
			return nil, err
		}
		profile.FavoriteMain = &ResolvedFavorite{Kind: user.FavoriteMainKind, Item: target}
	}

	var items []model.FavoriteItem
	if err := tx.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	for _, f := range items {
		target, err := resolveFavorite(tx, f.Kind, f.ItemID)
		if err != nil {
			return nil, err
		}
		profile.FavoriteList = append(profile.FavoriteList, ResolvedFavorite{Kind: f.Kind, Item: target})
	}

	return &profile, nil
}

func resolveFavorite(tx *gorm.DB, kind model.FavoriteKind, itemID string) (*FavoriteTarget, error) {
	switch kind {
	case model.KindDevice:
		var device model.Device
		if err := tx.First(&device, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		lock := device.LockActive
		return &FavoriteTarget{
			ID:           device.ID,
			Name:         device.Name,
			SerialNumber: device.SerialNumber,
			LockActive:   &lock,
		}, nil
	case model.KindGroup:
		var group model.Group
		if err := tx.First(&group, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		locked := group.Locked
		return &FavoriteTarget{ID: group.ID, Name: group.Name, Locked: &locked}, nil
	}
	return nil, nil
}

// clearDeviceFavorites strips every user's favorite references to the given
// devices. Called whenever a device is deleted, unassigned, joins a group or
// loses its group; all of those end the device's favorite eligibility.
// Unconditional bulk updates over the whole user table, which is fine at this
// scale but linear in users.
func clearDeviceFavorites(tx *gorm.DB, deviceIDs ...string) error {
	if len(deviceIDs) == 0 {
		return nil
	}
	if err := tx.Model(&model.User{}).
		Where("favorite_main_kind = ? AND favorite_main_id IN ?", model.KindDevice, deviceIDs).
		Updates(map[string]any{"favorite_main_kind": "", "favorite_main_id": ""}).Error; err != nil {
		return err
	}
	return tx.Where("kind = ? AND item_id IN ?", model.KindDevice, deviceIDs).
		Delete(&model.FavoriteItem{}).Error
}

// clearGroupFavorites strips every user's favorite references to a group.
func clearGroupFavorites(tx *gorm.DB, groupID string) error {
	if err := tx.Model(&model.User{}).
		Where("favorite_main_kind = ? AND favorite_main_id = ?", model.KindGroup, groupID).
		Updates(map[string]any{"favorite_main_kind": "", "favorite_main_id": ""}).Error; err != nil {
		return err
	}
	return tx.Where("kind = ? AND item_id = ?", model.KindGroup, groupID).
		Delete(&model.FavoriteItem{}).Error
}
