package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device is a serial-numbered locking device. UserID is the assigned owner
// and GroupID the containing group; both are nil while unassigned. While the
// device belongs to a group its lock flag tracks the group's lock state and
// the device is not favorite-eligible.
type Device struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	SerialNumber string    `gorm:"uniqueIndex;size:64;not null" json:"serialNumber"`
	UserID       *string   `gorm:"size:36;index" json:"user"`
	GroupID      *string   `gorm:"size:36;index" json:"group"`
	LockActive   bool      `gorm:"not null;default:false" json:"lockActive"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
