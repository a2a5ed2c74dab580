package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert rule")
	ErrFailedToGet    = errors.New("failed to get rule")
	ErrFailedToList   = errors.New("failed to list rules")
	ErrFailedToUpdate = errors.New("failed to update rule")
	ErrFailedToDelete = errors.New("failed to delete rule")
	ErrDuplicate      = errors.New("duplicate rule pattern")
)
