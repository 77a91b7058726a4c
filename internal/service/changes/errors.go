package changes

import "errors"

var (
	ErrInvalidEvent   = errors.New("invalid change event")
	ErrTenantMismatch = errors.New("change event tenant mismatch")
)
