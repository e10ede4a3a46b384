package domain

import "errors"

var (
	ErrFetch    = errors.New("fetch failed")
	ErrUpload   = errors.New("upload failed")
	ErrCreate   = errors.New("create failed")
	ErrUpdate   = errors.New("update failed")
	ErrDelete   = errors.New("delete failed")
	ErrNotFound = errors.New("not found")

	ErrValidation      = errors.New("all fields are required")
	ErrInvalidPrice    = errors.New("price must be a number")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrNotConfirmed    = errors.New("this action cannot be undone")
	ErrInvalidAssetRef = errors.New("invalid asset reference")
	ErrInvalidImage    = errors.New("file is not a supported image")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("session expired")
)
