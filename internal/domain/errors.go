package domain

import "errors"

// Sentinel errors for domain-level error discrimination. Services wrap these
// with %w so HTTP handlers can pick a status code without inspecting
// infrastructure errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)
