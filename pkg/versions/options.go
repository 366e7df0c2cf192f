// Copyright © 2018 One Concern

package versions

// Option is a functor to describe changes to a version entry
type Option func(*changes)

type changes struct {
	title         *string
	aliases       []string
	updateAliases bool
}

// Title sets the display title of a version. When not set, the title is left
// untouched for existing versions and defaults to the version string for new ones.
func Title(title string) Option {
	return func(c *changes) {
		c.title = &title
	}
}

// Aliases adds aliases to a version
func Aliases(aliases ...string) Option {
	return func(c *changes) {
		c.aliases = append(c.aliases, aliases...)
	}
}

// UpdateAliases allows aliases owned by other versions to be moved to the target version
func UpdateAliases(enabled bool) Option {
	return func(c *changes) {
		c.updateAliases = enabled
	}
}

func makeChanges(opts []Option) changes {
	var c changes
	for _, apply := range opts {
		apply(&c)
	}
	return c
}
