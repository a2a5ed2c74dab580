package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert project")
	ErrFailedToGet    = errors.New("failed to get project")
	ErrFailedToList   = errors.New("failed to list projects")
	ErrFailedToUpdate = errors.New("failed to update project")
	ErrFailedToCount  = errors.New("failed to count projects")
)
