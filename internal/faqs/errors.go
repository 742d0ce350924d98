package faqs

import "errors"

var (
	// ErrNotFound indicates no record exists for the given identifier.
	ErrNotFound = errors.New("faq request not found")
	// ErrInputRequired indicates neither a file nor a URL was supplied.
	ErrInputRequired = errors.New("either a file or a url is required")
	// ErrEmptyContent indicates extraction produced no text to work with.
	ErrEmptyContent = errors.New("no content found")
)
