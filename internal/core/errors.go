package core

import "github.com/git-pkgs/cratescope/client"

// ErrNotFound is returned when a package is not found.
var ErrNotFound = client.ErrNotFound

// Error types shared by all registry implementations.
type (
	HTTPError     = client.HTTPError
	NotFoundError = client.NotFoundError
	ParseError    = client.ParseError
)

// IsNotFound reports whether err represents a missing package.
var IsNotFound = client.IsNotFound
