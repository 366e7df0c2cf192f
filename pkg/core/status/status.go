// Copyright © 2018 One Concern

// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/docshelf/pkg/errors"
)

var (
	// ErrInvalidArgs indicates that an operation was called with inconsistent arguments
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrInvalidRegistry indicates that the versions file found on the branch cannot be read
	ErrInvalidRegistry = errors.New("invalid versions file")

	// ErrInvalidProperty indicates a malformed property edit
	ErrInvalidProperty = errors.New("invalid property edit")
)
