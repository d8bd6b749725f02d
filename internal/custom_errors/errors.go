package custom_errors

import "errors"

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrPostValidation     = errors.New("post validation failed")
	ErrForbidden          = errors.New("operation not allowed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrSlugExists         = errors.New("group slug already exists")

	ErrDatabaseQuery = errors.New("database query error")
	ErrDatabaseScan  = errors.New("database scan error")
	ErrNoUpdateRows  = errors.New("no fields to update")
	ErrCacheMiss     = errors.New("cache miss")
)
