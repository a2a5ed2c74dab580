package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert channel")
	ErrFailedToGet    = errors.New("failed to get channel")
	ErrFailedToList   = errors.New("failed to list channels")
	ErrFailedToUpdate = errors.New("failed to update channel")
	ErrFailedToDelete = errors.New("failed to delete channel")
)
