package domain

import "errors"

// ErrInvalidInput covers malformed or missing required fields across entities.
var ErrInvalidInput = errors.New("invalid input")
