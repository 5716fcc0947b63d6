package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteKind tags a favorite reference with the entity it points at.
type FavoriteKind string

const (
	KindDevice FavoriteKind = "Device"
	KindGroup  FavoriteKind = "Group"
)

// Valid reports whether k is one of the two recognized kinds.
func (k FavoriteKind) Valid() bool {
	return k == KindDevice || k == KindGroup
}

// User represents a registered account.
//
// FavoriteMainKind/FavoriteMainID hold the single main favorite; both are
// empty strings when no main favorite is set. The ordered favorite list lives
// in favorite_items (max 4 per user, disjoint from the main favorite).
type User struct {
	ID               string       `gorm:"primaryKey;size:36" json:"id"`
	Name             string       `gorm:"size:128;not null" json:"name"`
	Email            string       `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Password         string       `gorm:"not null" json:"-"`
	FavoriteMainKind FavoriteKind `gorm:"size:16;not null;default:''" json:"-"`
	FavoriteMainID   string       `gorm:"size:36;not null;default:''" json:"-"`
	CreatedAt        time.Time    `json:"-"`
	UpdatedAt        time.Time    `json:"-"`

	// Associations
	PushTokens   []PushToken    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FavoriteList []FavoriteItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PushToken is one opaque push-routing identifier saved by a user's device
// installation. The (user_id, token) pair is unique, giving set semantics.
type PushToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_user_push_token" json:"userId"`
	Token     string    `gorm:"size:512;not null;uniqueIndex:idx_user_push_token" json:"token"`
	CreatedAt time.Time `json:"-"`
}

// FavoriteItem is one entry of a user's favorite list. Insertion order is the
// list order.
type FavoriteItem struct {
	ID     int64        `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID string       `gorm:"size:36;not null;index" json:"-"`
	Kind   FavoriteKind `gorm:"size:16;not null" json:"kind"`
	ItemID string       `gorm:"size:36;not null" json:"item"`
}
