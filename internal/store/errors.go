package store

import "errors"

// Sentinel errors returned by Store operations. The API layer maps these to
// HTTP statuses: ErrNotFound to 404, ErrNotOwner to 403, everything else in
// this list to 400. Errors outside this list are internal failures.
var (
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("permission denied")

	ErrEmailTaken     = errors.New("email already exists")
	ErrSerialTaken    = errors.New("device with this serial number already exists")
	ErrDeviceAssigned = errors.New("device already assigned to another user")
	ErrDeviceGrouped  = errors.New("device already belongs to another group")

	ErrInvalidKind        = errors.New("invalid favorite kind")
	ErrFavoriteIneligible = errors.New("device in a group cannot be a favorite")
	ErrFavoriteIsMain     = errors.New("item is already the main favorite")
	ErrFavoriteExists     = errors.New("item is already in the favorite list")
	ErrFavoriteListFull   = errors.New("favorite list holds at most 4 items")
)
