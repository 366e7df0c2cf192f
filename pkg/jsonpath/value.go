// Copyright © 2018 One Concern

package jsonpath

import (
	"github.com/oneconcern/docshelf/pkg/errors"
)

type deleted struct{}

func (deleted) String() string { return "<deleted>" }

// Deleted is a sentinel value: setting a path to Deleted removes it
var Deleted interface{} = deleted{}

func mismatch(step Step, data interface{}) error {
	return errors.Newf("%s %s for value of type %T", ErrTypeMismatch.Error(), step, data).Wrap(ErrTypeMismatch)
}

func checkStep(data interface{}, step Step) error {
	switch step.Kind {
	case FieldStep:
		if _, ok := data.(map[string]interface{}); ok {
			return nil
		}
	case IndexStep:
		if _, ok := data.([]interface{}); ok {
			return nil
		}
	default:
		return errors.Newf("%s only allowed when setting values", step).Wrap(ErrTypeMismatch)
	}
	return mismatch(step, data)
}

func resolveIndex(l []interface{}, i int) (int, bool) {
	if i < 0 {
		i += len(l)
	}
	return i, i >= 0 && i < len(l)
}

func notFound(step Step) error {
	if step.Kind == FieldStep {
		return errors.Newf("%s: %s", ErrKeyNotFound.Error(), step.Field).Wrap(ErrKeyNotFound)
	}
	return errors.Newf("%s: %d", ErrIndexOutOfRange.Error(), step.Index).Wrap(ErrIndexOutOfRange)
}

// child returns the value addressed by one step, after the step has been checked against data
func child(data interface{}, step Step) (interface{}, bool) {
	if step.Kind == FieldStep {
		v, ok := data.(map[string]interface{})[step.Field]
		return v, ok
	}
	l := data.([]interface{})
	i, ok := resolveIndex(l, step.Index)
	if !ok {
		return nil, false
	}
	return l[i], true
}

// GetValue returns the value at path.
//
// A missing key or index yields nil, unless strict is enabled. A step which does not apply
// to the current value (e.g. a field on a list) is always an error.
func GetValue(data interface{}, path Path, strict bool) (interface{}, error) {
	for _, step := range path {
		if err := checkStep(data, step); err != nil {
			return nil, err
		}
		v, ok := child(data, step)
		if !ok {
			if strict {
				return nil, notFound(step)
			}
			return nil, nil
		}
		data = v
	}
	return data, nil
}

// SetValue writes value at path, creating missing intermediate objects and lists,
// and returns the updated top-level value. Nested values are updated in place.
//
// An empty path replaces the whole value. The head and tail steps insert value at the front
// or the back of a list, and are only allowed as the last step.
func SetValue(data interface{}, path Path, value interface{}) (interface{}, error) {
	if value == Deleted {
		return DeleteValue(data, path, false)
	}
	if len(path) == 0 {
		return value, nil
	}

	step := path[0]
	if step.Kind == FieldStep {
		var m map[string]interface{}
		switch d := data.(type) {
		case nil:
			m = make(map[string]interface{})
		case map[string]interface{}:
			m = d
		default:
			return nil, mismatch(step, data)
		}
		v, err := SetValue(m[step.Field], path[1:], value)
		if err != nil {
			return nil, err
		}
		m[step.Field] = v
		return m, nil
	}

	var l []interface{}
	switch d := data.(type) {
	case nil:
		l = []interface{}{}
	case []interface{}:
		l = d
	default:
		return nil, mismatch(step, data)
	}

	switch step.Kind {
	case IndexStep:
		i := step.Index
		if i >= len(l) {
			l = append(l, make([]interface{}, i-len(l)+1)...)
		}
		i, ok := resolveIndex(l, i)
		if !ok {
			return nil, notFound(step)
		}
		v, err := SetValue(l[i], path[1:], value)
		if err != nil {
			return nil, err
		}
		l[i] = v
	default:
		if len(path) > 1 {
			return nil, errors.Newf("%s only allowed as last step", step).Wrap(ErrTypeMismatch)
		}
		if step.Kind == HeadStep {
			l = append([]interface{}{value}, l...)
		} else {
			l = append(l, value)
		}
	}
	return l, nil
}

// DeleteValue removes the value at path and returns the updated top-level value.
//
// Deleting the empty path removes the whole value. A missing key or index leaves data untouched,
// unless strict is enabled.
func DeleteValue(data interface{}, path Path, strict bool) (interface{}, error) {
	if len(path) == 0 {
		return nil, nil
	}

	step := path[0]
	if err := checkStep(data, step); err != nil {
		return nil, err
	}

	if len(path) > 1 {
		v, ok := child(data, step)
		if !ok {
			if strict {
				return nil, notFound(step)
			}
			return data, nil
		}
		updated, err := DeleteValue(v, path[1:], strict)
		if err != nil {
			return nil, err
		}
		if step.Kind == FieldStep {
			data.(map[string]interface{})[step.Field] = updated
		} else {
			l := data.([]interface{})
			i, _ := resolveIndex(l, step.Index)
			l[i] = updated
		}
		return data, nil
	}

	if step.Kind == FieldStep {
		m := data.(map[string]interface{})
		if _, ok := m[step.Field]; !ok {
			if strict {
				return nil, notFound(step)
			}
			return data, nil
		}
		delete(m, step.Field)
		return m, nil
	}

	l := data.([]interface{})
	i, ok := resolveIndex(l, step.Index)
	if !ok {
		if strict {
			return nil, notFound(step)
		}
		return data, nil
	}
	return append(l[:i:i], l[i+1:]...), nil
}
