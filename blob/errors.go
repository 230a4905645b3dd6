package blob

import "errors"

var (
	// ErrBlobNotFound indicates the reference does not resolve to any content.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrInvalidRef indicates the reference is malformed or escapes the store root.
	ErrInvalidRef = errors.New("invalid blob reference")
)
