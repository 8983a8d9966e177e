package domain

import "errors"

// Common errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrForbidden    = errors.New("access forbidden: you don't own this resource")
	ErrInvalidRange = errors.New("invalid date range")
	ErrUnknownAddon = errors.New("unknown add-on key for this plan")
	ErrDuplicate    = errors.New("record already exists")
)
