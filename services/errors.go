package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrInvalidPage        = errors.New("invalid page")
)
