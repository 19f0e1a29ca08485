package editor

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSaveFailed      = errors.New("failed to save flow")
)
