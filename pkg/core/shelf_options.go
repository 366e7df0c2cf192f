// Copyright © 2018 One Concern

package core

import (
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/site"
)

// DefaultBranch holds deployed docs unless told otherwise
const DefaultBranch = "gh-pages"

// ShelfOption configures a Shelf
type ShelfOption func(*Shelf)

// Branch sets the branch holding deployed docs
func Branch(branch string) ShelfOption {
	return func(s *Shelf) {
		if branch != "" {
			s.branch = branch
		}
	}
}

// Prefix deploys docs in a subdirectory of the branch
func Prefix(prefix string) ShelfOption {
	return func(s *Shelf) {
		s.prefix = cleanPrefix(prefix)
	}
}

// Message overrides the default commit message of operations
func Message(message string) ShelfOption {
	return func(s *Shelf) {
		s.message = message
	}
}

// AllowEmpty records commits which do not change anything
func AllowEmpty(allow bool) ShelfOption {
	return func(s *Shelf) {
		s.allowEmpty = allow
	}
}

// WithAliasType sets how aliases are materialized on the branch
func WithAliasType(t AliasType) ShelfOption {
	return func(s *Shelf) {
		if t != "" {
			s.aliasType = t
		}
	}
}

// RedirectTemplate sets the template of redirect pages
func RedirectTemplate(tpl *site.RedirectTemplate) ShelfOption {
	return func(s *Shelf) {
		if tpl != nil {
			s.template = tpl
		}
	}
}

// DirectoryURLs tells that pages are served as directories, e.g. "page/" rather than "page/index.html"
func DirectoryURLs(enabled bool) ShelfOption {
	return func(s *Shelf) {
		s.useDirectoryURLs = enabled
	}
}

// AppVersion is the version of the tool, mentioned in commit messages
func AppVersion(version string) ShelfOption {
	return func(s *Shelf) {
		s.appVersion = version
	}
}

// Logger sets the logger of the shelf
func Logger(l *zap.Logger) ShelfOption {
	return func(s *Shelf) {
		if l != nil {
			s.logger = l
		}
	}
}
