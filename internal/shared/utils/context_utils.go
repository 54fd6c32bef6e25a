package utils

import (
	"context"
	"errors"

	"inkq/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrRoleNotFound       = errors.New("role not found in context")
	ErrRoleNotString      = errors.New("role in context is not a string")
	ErrLocaleNotFound     = errors.New("locale not found in context")
	ErrLocaleNotString    = errors.New("locale in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetUserIDFromContext retrieves the authenticated user's ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.UserIDKey, ErrUserIDNotFound, ErrUserIDNotString)
}

// GetRoleFromContext retrieves the authenticated user's role from the context.
func GetRoleFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.RoleKey, ErrRoleNotFound, ErrRoleNotString)
}

// GetLocaleFromContext retrieves the request locale from the context.
func GetLocaleFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.LocaleKey, ErrLocaleNotFound, ErrLocaleNotString)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

func stringFromContext(ctx context.Context, key interface{}, errNotFound, errNotString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", errNotFound
	}
	s, ok := val.(string)
	if !ok {
		return "", errNotString
	}
	return s, nil
}
