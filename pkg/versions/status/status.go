// Copyright © 2018 One Concern

// Package status declares error constants returned by the versions registry.
package status

import "github.com/oneconcern/docshelf/pkg/errors"

var (
	// ErrNotFound indicates that an identifier resolves neither to a version nor to an alias
	ErrNotFound = errors.New("identifier not found")

	// ErrConflict indicates that an identifier is already used by another version or alias
	ErrConflict = errors.New("identifier already exists")

	// ErrInvalidIdentifier indicates that a version or alias name cannot be used as a directory name
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
