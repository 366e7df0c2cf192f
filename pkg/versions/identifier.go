// Copyright © 2018 One Concern

package versions

import (
	"strings"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/versions/status"
)

// reserved holds names the deployed site already uses at its root
var reserved = map[string]bool{
	".":             true,
	"..":            true,
	"versions.json": true,
	"index.html":    true,
	".nojekyll":     true,
}

// ValidateIdentifier checks that a version or alias may be used as a directory name on the target branch
func ValidateIdentifier(identifier string) error {
	switch {
	case identifier == "":
		return errors.New("identifier may not be empty").Wrap(status.ErrInvalidIdentifier)
	case reserved[identifier]:
		return errors.Newf("identifier %q is reserved", identifier).Wrap(status.ErrInvalidIdentifier)
	case strings.ContainsAny(identifier, `/\`):
		return errors.Newf("identifier %q may not contain path separators", identifier).Wrap(status.ErrInvalidIdentifier)
	}
	return nil
}
