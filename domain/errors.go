package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrUnauthorized will throw if no user identity is attached to the request
	ErrUnauthorized = errors.New("user not authenticated")
	// ErrUpstream will throw if a collaborator (store, blob store, AI service) fails
	ErrUpstream = errors.New("upstream service failed")
	// ErrCacheMiss will throw if the requested key is not in cache
	ErrCacheMiss = errors.New("requested key is not cached")
)
