package model

import "errors"

// Lookup errors surfaced by the status endpoints.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrGameNotFound = errors.New("game not found")
)
