package repository

import "errors"

var (
	ErrFailedToSave   = errors.New("failed to save conflict resolution")
	ErrFailedToList   = errors.New("failed to list conflict resolutions")
	ErrFailedToDelete = errors.New("failed to delete conflict resolutions")
)
