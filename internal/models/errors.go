package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("item already in your list")
	ErrEmptyQuery       = errors.New("search query cannot be empty")
	ErrMissingMediaID   = errors.New("media_id is required")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrInvalidStatus    = errors.New("invalid status for media type")
	ErrInvalidRating    = errors.New("rating must be between 0 and 10")
	ErrInvalidTheme     = errors.New("invalid theme")
)
