package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a named collection of devices with a group-wide lock flag. The
// creator is the immutable owner; membership is the group_id column on
// devices, so the member list is always consistent with the devices' own
// group references.
type Group struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatorID string    `gorm:"size:36;not null;index" json:"creator"`
	Locked    bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Devices []Device `gorm:"foreignKey:GroupID" json:"-"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
