package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")

	// Member errors
	ErrMemberNotFound = errors.New("member not found")
)
