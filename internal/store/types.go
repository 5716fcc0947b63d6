package store

import "lockguard-backend/internal/model"

// FavoriteRef is a kind-tagged reference to a Device or Group.
type FavoriteRef struct {
	Kind model.FavoriteKind `json:"kind"`
	Item string             `json:"item"`
}

// FavoriteTarget is the resolved view of a favorite item as surfaced by the
// profile endpoint. LockActive is set for devices, Locked for groups.
type FavoriteTarget struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber,omitempty"`
	LockActive   *bool  `json:"lockActive,omitempty"`
	Locked       *bool  `json:"locked,omitempty"`
}

// ResolvedFavorite pairs a favorite's kind with its resolved target. Item is
// nil when the referenced entity no longer exists.
type ResolvedFavorite struct {
	Kind model.FavoriteKind `json:"kind"`
	Item *FavoriteTarget    `json:"item"`
}

// Profile is the authenticated user's profile view.
type Profile struct {
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	FavoriteMain *ResolvedFavorite  `json:"favoriteMain"`
	FavoriteList []ResolvedFavorite `json:"favoriteList"`
}

// GroupEvent is an event joined with its originating device's identity, as
// returned by the group event history.
type GroupEvent struct {
	model.Event
	DeviceName   string `json:"deviceName"`
	SerialNumber string `json:"serialNumber"`
}

// EventReceipt carries a freshly persisted event together with everything the
// notification dispatcher needs, so event creation touches the database once.
type EventReceipt struct {
	Event      model.Event
	DeviceName string
	GroupName  string
	FromGroup  bool
	LockActive bool
	PushTokens []string
}
