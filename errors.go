package mailcheck

import "errors"

var (
	ErrDomainRequired = errors.New("mailcheck: domain is required")
	ErrUnknownFormat  = errors.New("mailcheck: unknown output format")

	// ErrInvalidSelector is returned for a DKIM selector that cannot form a
	// DNS name: it holds whitespace or a tag separator.
	ErrInvalidSelector = errors.New("mailcheck: invalid DKIM selector")
)
