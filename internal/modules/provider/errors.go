package provider

import "errors"

var (
	ErrNotFound     = errors.New("provider not found")
	ErrInvalidToken = errors.New("invalid verification token")
	ErrVerified     = errors.New("provider is already verified")
)
