// Copyright © 2018 One Concern

package core

import (
	"context"

	"github.com/oneconcern/docshelf/pkg/core/status"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/jsonpath"
	"github.com/oneconcern/docshelf/pkg/versions"
)

var json = jsonpath.Codec

// PropEdit is an edit of the properties of a version.
//
// A Value of jsonpath.Deleted removes the property at Path. An empty Path addresses all properties.
type PropEdit struct {
	Path  jsonpath.Path
	Value interface{}
}

func decodeJSON(raw string) (interface{}, error) {
	var value interface{}
	if err := json.UnmarshalFromString(raw, &value); err != nil {
		return nil, errors.Newf("invalid JSON value %q: %v", raw, err).Wrap(status.ErrInvalidProperty)
	}
	return value, nil
}

func parseSet(expr string) (jsonpath.Path, string, error) {
	p, value, err := jsonpath.ParseSet(expr)
	if err != nil {
		return nil, "", errors.Newf("invalid property edit %q: %v", expr, err).Wrap(status.ErrInvalidProperty)
	}
	return p, value, nil
}

// PropSet parses an edit like "path=json"
func PropSet(expr string) (PropEdit, error) {
	p, raw, err := parseSet(expr)
	if err != nil {
		return PropEdit{}, err
	}
	value, err := decodeJSON(raw)
	if err != nil {
		return PropEdit{}, err
	}
	return PropEdit{Path: p, Value: value}, nil
}

// PropSetString parses an edit like "path=string"
func PropSetString(expr string) (PropEdit, error) {
	p, raw, err := parseSet(expr)
	if err != nil {
		return PropEdit{}, err
	}
	return PropEdit{Path: p, Value: raw}, nil
}

// PropSetAll replaces all properties with a JSON value
func PropSetAll(raw string) (PropEdit, error) {
	value, err := decodeJSON(raw)
	if err != nil {
		return PropEdit{}, err
	}
	return PropEdit{Value: value}, nil
}

// PropDelete parses the path of a property to remove
func PropDelete(expr string) (PropEdit, error) {
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return PropEdit{}, errors.Newf("invalid property path %q: %v", expr, err).Wrap(status.ErrInvalidProperty)
	}
	return PropEdit{Path: p, Value: jsonpath.Deleted}, nil
}

// PropDeleteAll removes all properties
func PropDeleteAll() PropEdit {
	return PropEdit{Value: jsonpath.Deleted}
}

func applyProps(info *versions.VersionInfo, edits []PropEdit) error {
	for _, edit := range edits {
		if err := info.SetProperty(edit.Path, edit.Value); err != nil {
			return errors.Newf("cannot edit property %q of %s: %v", edit.Path.String(), info.Version, err).Wrap(err)
		}
	}
	return nil
}

// GetProperty retrieves the property of a version found at some path
func (s *Shelf) GetProperty(ctx context.Context, identifier string, p jsonpath.Path) (interface{}, error) {
	all, err := s.ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	key, err := all.FindStrict(identifier)
	if err != nil {
		return nil, err
	}
	info, _ := all.Get(key.Version)
	return info.GetProperty(p, true)
}

// SetProperties applies property edits to a version
func (s *Shelf) SetProperties(ctx context.Context, identifier string, edits []PropEdit) error {
	all, err := s.ListVersions(ctx)
	if err != nil {
		return err
	}
	key, err := all.FindStrict(identifier)
	if err != nil {
		return err
	}
	info, _ := all.Get(key.Version)
	if err = applyProps(info, edits); err != nil {
		return err
	}

	return s.commit(ctx, s.propsMessage(identifier), func(c *git.Commit) error {
		return s.addVersionsFile(c, all)
	})
}
