// Copyright © 2018 One Concern

package versions

import (
	"sort"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/jsonpath"
	"github.com/oneconcern/docshelf/pkg/versions/status"
)

var json = jsonpath.Codec

// Key locates an identifier in the registry.
//
// Alias is empty when the identifier is a canonical version.
type Key struct {
	Version string
	Alias   string
}

// IsAlias tells if the key designates an alias
func (k Key) IsAlias() bool {
	return k.Alias != ""
}

// Identifier returns the identifier this key was resolved from
func (k Key) Identifier() string {
	if k.IsAlias() {
		return k.Alias
	}
	return k.Version
}

// Removed reports an identifier removed from the registry.
//
// When a version is removed, Info holds its former entry so callers may clean up its aliases too.
type Removed struct {
	Key  Key
	Info *VersionInfo
}

// Versions is the registry of deployed versions
type Versions struct {
	data map[string]*VersionInfo
}

// New builds an empty registry
func New() *Versions {
	return &Versions{data: make(map[string]*VersionInfo)}
}

// Len yields the number of versions in the registry
func (v *Versions) Len() int {
	return len(v.data)
}

// Get a version by its canonical identifier
func (v *Versions) Get(version string) (*VersionInfo, bool) {
	info, ok := v.data[version]
	return info, ok
}

// List returns all versions, newest first.
//
// Non-numeric versions (e.g. "dev") come first, then numeric versions in descending order.
func (v *Versions) List() []*VersionInfo {
	l := make([]*VersionInfo, 0, len(v.data))
	for _, info := range v.data {
		l = append(l, info)
	}
	sort.Slice(l, func(i, j int) bool {
		a, b := l[i].Version, l[j].Version
		if a.IsNumeric() != b.IsNumeric() {
			return !a.IsNumeric()
		}
		if c := a.Compare(b); c != 0 {
			return c > 0
		}
		return a.String() > b.String()
	})
	return l
}

// Find resolves an identifier to a version or an alias
func (v *Versions) Find(identifier string) (Key, bool) {
	if _, ok := v.data[identifier]; ok {
		return Key{Version: identifier}, true
	}
	for version, info := range v.data {
		if info.Aliases.Has(identifier) {
			return Key{Version: version, Alias: identifier}, true
		}
	}
	return Key{}, false
}

// FindStrict resolves an identifier and fails when it is unknown
func (v *Versions) FindStrict(identifier string) (Key, error) {
	key, ok := v.Find(identifier)
	if !ok {
		return Key{}, errors.Newf("identifier %s does not exist", identifier).Wrap(status.ErrNotFound)
	}
	return key, nil
}

// Add a new version to the registry, or merge changes into an existing one.
//
// An alias already owned by another version may be moved only when UpdateAliases is enabled.
// An alias may never take over a canonical version name, and a version may never take over an alias.
func (v *Versions) Add(version string, opts ...Option) (*VersionInfo, error) {
	c := makeChanges(opts)
	if err := ValidateIdentifier(version); err != nil {
		return nil, err
	}
	if key, ok := v.Find(version); ok && key.IsAlias() {
		return nil, errors.Newf("version %s already exists as an alias of %s", version, key.Version).
			Wrap(status.ErrConflict)
	}
	moved, err := v.checkAliases(version, c)
	if err != nil {
		return nil, err
	}

	info, ok := v.data[version]
	if !ok {
		info = newVersionInfo(version)
		v.data[version] = info
	}
	info.apply(c)
	v.release(moved)
	return info, nil
}

// Update the title or aliases of an existing version, designated by one of its identifiers.
//
// It returns the aliases that were not already associated with this version.
func (v *Versions) Update(identifier string, opts ...Option) (AliasSet, error) {
	key, err := v.FindStrict(identifier)
	if err != nil {
		return nil, err
	}
	c := makeChanges(opts)
	moved, err := v.checkAliases(key.Version, c)
	if err != nil {
		return nil, err
	}

	added := v.data[key.Version].apply(c)
	v.release(moved)
	return added, nil
}

// Remove a version with all its aliases, or a single alias
func (v *Versions) Remove(identifier string) (Removed, error) {
	key, err := v.FindStrict(identifier)
	if err != nil {
		return Removed{}, err
	}
	return v.remove(key), nil
}

// DifferenceUpdate removes several identifiers at once.
//
// All identifiers are resolved before any removal: when one is unknown, the registry is left unchanged.
func (v *Versions) DifferenceUpdate(identifiers []string) ([]Removed, error) {
	keys := make([]Key, 0, len(identifiers))
	for _, identifier := range identifiers {
		key, err := v.FindStrict(identifier)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	removed := make([]Removed, 0, len(keys))
	for _, key := range keys {
		info, ok := v.data[key.Version]
		if !ok || (key.IsAlias() && !info.Aliases.Has(key.Alias)) {
			// already removed along with its version, or listed twice
			continue
		}
		removed = append(removed, v.remove(key))
	}
	return removed, nil
}

func (v *Versions) remove(key Key) Removed {
	info := v.data[key.Version]
	if key.IsAlias() {
		delete(info.Aliases, key.Alias)
		return Removed{Key: key}
	}
	delete(v.data, key.Version)
	return Removed{Key: key, Info: info}
}

// checkAliases verifies the aliases requested for version, and returns the keys of aliases
// which are to be moved from other versions.
func (v *Versions) checkAliases(version string, c changes) ([]Key, error) {
	var moved []Key
	for _, alias := range c.aliases {
		if err := ValidateIdentifier(alias); err != nil {
			return nil, err
		}
		if alias == version {
			return nil, errors.Newf("alias %s duplicates its version", alias).Wrap(status.ErrConflict)
		}
		key, ok := v.Find(alias)
		if !ok || key.Version == version {
			continue
		}
		if key.IsAlias() && c.updateAliases {
			moved = append(moved, key)
			continue
		}
		if key.IsAlias() {
			return nil, errors.Newf("alias %s already exists for version %s", alias, key.Version).
				Wrap(status.ErrConflict)
		}
		return nil, errors.Newf("alias %s already specified as a version", alias).Wrap(status.ErrConflict)
	}
	return moved, nil
}

func (v *Versions) release(moved []Key) {
	for _, key := range moved {
		delete(v.data[key.Version].Aliases, key.Alias)
	}
}

type versionRecord struct {
	Version    string      `json:"version"`
	Title      *string     `json:"title"`
	Aliases    []string    `json:"aliases"`
	Properties interface{} `json:"properties,omitempty"`
}

// MarshalJSON encodes the registry as a JSON array, newest versions first
func (v *Versions) MarshalJSON() ([]byte, error) {
	records := make([]versionRecord, 0, v.Len())
	for _, info := range v.List() {
		records = append(records, info.record())
	}
	return json.Marshal(records)
}

// UnmarshalJSON decodes a registry from its JSON array form, replacing any previous content
func (v *Versions) UnmarshalJSON(data []byte) error {
	var records []versionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	result := New()
	for _, r := range records {
		opts := []Option{Aliases(r.Aliases...)}
		if r.Title != nil {
			opts = append(opts, Title(*r.Title))
		}
		info, err := result.Add(r.Version, opts...)
		if err != nil {
			return err
		}
		info.Properties = r.Properties
	}
	v.data = result.data
	return nil
}

// Dumps serializes the registry
func (v *Versions) Dumps() ([]byte, error) {
	return v.MarshalJSON()
}

// Loads deserializes a registry
func Loads(data []byte) (*Versions, error) {
	v := New()
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}
