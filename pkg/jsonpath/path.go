// Copyright © 2018 One Concern

// Package jsonpath implements a very small subset of JSONPath to address and edit JSON values.
//
// Supported expressions are made of bare or quoted field names, and of indices or quoted
// field names inside square brackets, separated by ".":
//
//	foo."bar"[0]["baz"]
//
// When setting values, the head or tail of a list is addressed by the "head" and "tail" keywords:
//
//	foo[head]
//
// Values are the generic types produced by Codec: nil, bool, json.Number, string,
// []interface{} and map[string]interface{}. Numbers and strings are scalars.
package jsonpath

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/oneconcern/docshelf/pkg/errors"
)

// Codec encodes and decodes JSON values. Numbers decode as json.Number and are written back verbatim.
var Codec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

var (
	// ErrSyntax indicates a malformed path expression
	ErrSyntax = errors.New("invalid path expression")

	// ErrTypeMismatch indicates that a step does not apply to the value it is evaluated on
	ErrTypeMismatch = errors.New("incompatible type for step")

	// ErrKeyNotFound indicates that a field step addresses a missing key
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange indicates that an index step addresses a missing list element
	ErrIndexOutOfRange = errors.New("index out of range")
)

// StepKind tells how a step addresses a value
type StepKind uint8

// Kinds of steps
const (
	FieldStep StepKind = iota
	IndexStep
	HeadStep
	TailStep
)

// Step is one element of a path
type Step struct {
	Kind  StepKind
	Field string
	Index int
}

var (
	// Head inserts at the front of a list
	Head = Step{Kind: HeadStep}

	// Tail inserts at the back of a list
	Tail = Step{Kind: TailStep}
)

// Field builds a step addressing a key of an object
func Field(name string) Step {
	return Step{Kind: FieldStep, Field: name}
}

// Index builds a step addressing an element of a list. Negative indices count from the end.
func Index(i int) Step {
	return Step{Kind: IndexStep, Index: i}
}

func (s Step) String() string {
	switch s.Kind {
	case FieldStep:
		if isIdentifier(s.Field) {
			return s.Field
		}
		return `"` + s.Field + `"`
	case IndexStep:
		return "[" + strconv.Itoa(s.Index) + "]"
	case HeadStep:
		return "[head]"
	default:
		return "[tail]"
	}
}

// Path is a parsed path expression
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	for i, step := range p {
		if i > 0 && step.Kind == FieldStep {
			b.WriteByte('.')
		}
		b.WriteString(step.String())
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
