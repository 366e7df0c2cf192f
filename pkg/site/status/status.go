// Copyright © 2018 One Concern

// Package status declares error constants returned by the site package.
package status

import "github.com/oneconcern/docshelf/pkg/errors"

var (
	// ErrConfigNotFound indicates that the docs config file does not exist
	ErrConfigNotFound = errors.New("docs config not found")

	// ErrInvalidConfig indicates that the docs config file could not be parsed
	ErrInvalidConfig = errors.New("invalid docs config")

	// ErrBuild indicates that the site builder failed
	ErrBuild = errors.New("site build failed")

	// ErrNoTheme indicates that neither the docs config nor the caller named a theme
	ErrNoTheme = errors.New("no theme specified")

	// ErrUnknownTheme indicates that no extras are bundled for a theme
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrTemplate indicates that a redirect template could not be loaded or rendered
	ErrTemplate = errors.New("invalid redirect template")
)
