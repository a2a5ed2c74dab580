package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert webhook log")
	ErrFailedToGet    = errors.New("failed to get webhook log")
	ErrFailedToList   = errors.New("failed to list webhook logs")
	ErrFailedToDelete = errors.New("failed to delete webhook logs")
)
