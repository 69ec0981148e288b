package repository

import "errors"

// Storage-level sentinels. Services translate these into domain errors so
// handlers never see gorm internals.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)
