package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNotVerified        = errors.New("provider account is not verified")
	ErrUnauthorized       = errors.New("unauthorized")
)
