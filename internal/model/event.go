package model

import "time"

// Event is one recorded device activation. Notified mirrors the device's lock
// flag at creation time (a locked device triggers a push) and FromGroup
// records whether the device belonged to a group when it fired. Events are
// never updated or deleted through the API.
type Event struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID  string    `gorm:"size:36;not null;index" json:"device"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Notified  bool      `gorm:"not null;default:false" json:"notified"`
	FromGroup bool      `gorm:"not null;default:false" json:"fromGroup"`
}
