// Copyright © 2018 One Concern

package core

import (
	"context"
	"fmt"
	"strings"
)

const appName = "docshelf"

func (s *Shelf) suffix() string {
	var b strings.Builder
	if s.prefix != "" {
		fmt.Fprintf(&b, " in %s", s.prefix)
	}
	b.WriteString(" with " + appName)
	if s.appVersion != "" {
		b.WriteString(" " + s.appVersion)
	}
	return b.String()
}

func (s *Shelf) deployMessage(ctx context.Context, version string) string {
	rev, err := s.repo.LatestCommit(ctx, "HEAD", true)
	if err != nil {
		return fmt.Sprintf("Deployed to %s%s", version, s.suffix())
	}
	return fmt.Sprintf("Deployed %s to %s%s", rev, version, s.suffix())
}

func (s *Shelf) deleteMessage(identifiers []string, all bool) string {
	what := strings.Join(identifiers, ", ")
	if all {
		what = "everything"
	}
	return fmt.Sprintf("Removed %s%s", what, s.suffix())
}

func (s *Shelf) aliasMessage(version string, aliases []string) string {
	return fmt.Sprintf("Copied %s to %s%s", version, strings.Join(aliases, ", "), s.suffix())
}

func (s *Shelf) retitleMessage(identifier, title string) string {
	return fmt.Sprintf("Set title of %s to %s%s", identifier, title, s.suffix())
}

func (s *Shelf) defaultMessage(identifier string) string {
	return fmt.Sprintf("Set default version to %s%s", identifier, s.suffix())
}

func (s *Shelf) propsMessage(identifier string) string {
	return fmt.Sprintf("Set properties for %s%s", identifier, s.suffix())
}
