package model

import "errors"

var (
	ErrStoreUnavailable = errors.New("event store unavailable")
	ErrNotFound         = errors.New("not found")
)
