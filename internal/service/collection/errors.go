package collection

import "errors"

var (
	// ErrListNotFound indicates the user has no parsable list page.
	ErrListNotFound = errors.New("collection list not found")
	// ErrAnonymousUser indicates the username is an IP address.
	ErrAnonymousUser = errors.New("anonymous user")
	// ErrMissingUsername indicates an empty username.
	ErrMissingUsername = errors.New("username required")
)
