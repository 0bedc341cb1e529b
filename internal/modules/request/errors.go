package request

import "errors"

var (
	ErrNotFound         = errors.New("request not found")
	ErrConflict         = errors.New("request status conflict")
	ErrCategoryMismatch = errors.New("request is not for your service category")
	ErrUnauthorized     = errors.New("not allowed to act on this request")
	ErrValidation       = errors.New("validation error")
	ErrNoProvider       = errors.New("provider profile not found")
)
