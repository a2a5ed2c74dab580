package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert review job")
	ErrFailedToGet    = errors.New("failed to get review job")
	ErrFailedToList   = errors.New("failed to list review jobs")
	ErrFailedToUpdate = errors.New("failed to update review job")
	ErrFailedToCount  = errors.New("failed to count review jobs")
)
