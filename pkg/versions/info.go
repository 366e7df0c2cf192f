// Copyright © 2018 One Concern

package versions

import (
	"sort"

	"github.com/oneconcern/docshelf/pkg/jsonpath"
)

// AliasSet holds the aliases of a version
type AliasSet map[string]struct{}

// NewAliasSet builds a set from a list of aliases
func NewAliasSet(aliases ...string) AliasSet {
	s := make(AliasSet, len(aliases))
	for _, a := range aliases {
		s[a] = struct{}{}
	}
	return s
}

// Has tells if alias belongs to the set
func (s AliasSet) Has(alias string) bool {
	_, ok := s[alias]
	return ok
}

// Sorted returns the aliases in lexical order
func (s AliasSet) Sorted() []string {
	l := make([]string, 0, len(s))
	for a := range s {
		l = append(l, a)
	}
	sort.Strings(l)
	return l
}

// VersionInfo describes a deployed version of the documentation
type VersionInfo struct {
	Version Version
	Title   string
	Aliases AliasSet

	// Properties holds an arbitrary JSON value. A nil value means no properties.
	Properties interface{}
}

func newVersionInfo(version string) *VersionInfo {
	return &VersionInfo{
		Version: ParseVersion(version),
		Title:   version,
		Aliases: NewAliasSet(),
	}
}

// String yields the canonical identifier of this version
func (i *VersionInfo) String() string {
	return i.Version.String()
}

// SetProperty applies a property edit. Passing jsonpath.Deleted as value removes the property at path.
func (i *VersionInfo) SetProperty(path jsonpath.Path, value interface{}) error {
	props, err := jsonpath.SetValue(i.Properties, path, value)
	if err != nil {
		return err
	}
	i.Properties = props
	return nil
}

// GetProperty retrieves the property at path
func (i *VersionInfo) GetProperty(path jsonpath.Path, strict bool) (interface{}, error) {
	return jsonpath.GetValue(i.Properties, path, strict)
}

// apply title and aliases changes, returning the aliases actually added
func (i *VersionInfo) apply(c changes) AliasSet {
	if c.title != nil {
		i.Title = *c.title
	}
	added := NewAliasSet()
	for _, a := range c.aliases {
		if !i.Aliases.Has(a) {
			added[a] = struct{}{}
			i.Aliases[a] = struct{}{}
		}
	}
	return added
}

func (i *VersionInfo) record() versionRecord {
	title := i.Title
	return versionRecord{
		Version:    i.Version.String(),
		Title:      &title,
		Aliases:    i.Aliases.Sorted(),
		Properties: i.Properties,
	}
}

// MarshalJSON encodes a single entry of the registry
func (i *VersionInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.record())
}
