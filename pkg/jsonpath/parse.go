// Copyright © 2018 One Concern

package jsonpath

import (
	"strconv"
	"strings"

	"github.com/oneconcern/docshelf/pkg/errors"
)

// Parse a path expression. The empty expression addresses the whole value.
func Parse(expr string) (Path, error) {
	p := &parser{src: expr}
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return path, nil
}

// ParseSet parses an assignment of the form "path=value".
//
// The value is returned verbatim, with leading spaces trimmed.
func ParseSet(expr string) (Path, string, error) {
	p := &parser{src: expr, stopAt: '='}
	path, err := p.path()
	if err != nil {
		return nil, "", err
	}
	if p.eof() || p.peek() != '=' {
		return nil, "", p.errorf("expected '='")
	}
	return path, strings.TrimLeft(p.src[p.pos+1:], " \t"), nil
}

type parser struct {
	src    string
	pos    int
	stopAt byte
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Newf("%s at position %d in %q: "+format,
		append([]interface{}{ErrSyntax.Error(), p.pos, p.src}, args...)...).Wrap(ErrSyntax)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) atStop() bool {
	return p.stopAt != 0 && p.peek() == p.stopAt
}

func (p *parser) path() (Path, error) {
	path := Path{}
	p.skipSpace()
	if p.eof() || p.atStop() {
		return path, nil
	}

	// the first step is either a field or a subscript
	if p.peek() == '[' {
		step, err := p.subscript()
		if err != nil {
			return nil, err
		}
		path = append(path, step)
	} else {
		name, err := p.field()
		if err != nil {
			return nil, err
		}
		path = append(path, Field(name))
	}

	for {
		p.skipSpace()
		if p.eof() || p.atStop() {
			return path, nil
		}
		switch p.peek() {
		case '.':
			p.pos++
			p.skipSpace()
			name, err := p.field()
			if err != nil {
				return nil, err
			}
			path = append(path, Field(name))
		case '[':
			step, err := p.subscript()
			if err != nil {
				return nil, err
			}
			path = append(path, step)
		default:
			return nil, p.errorf("unexpected character %q", p.peek())
		}
	}
}

func (p *parser) field() (string, error) {
	if p.eof() {
		return "", p.errorf("expected a field name")
	}
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted()
	}
	return p.identifier()
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		return "", p.errorf("expected a field name")
	}
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) quoted() (string, error) {
	quote := p.peek()
	end := strings.IndexByte(p.src[p.pos+1:], quote)
	if end < 0 {
		return "", p.errorf("unterminated string")
	}
	s := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2
	return s, nil
}

func (p *parser) subscript() (Step, error) {
	p.pos++ // '['
	p.skipSpace()
	if p.eof() {
		return Step{}, p.errorf("unterminated subscript")
	}

	var step Step
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		name, err := p.quoted()
		if err != nil {
			return Step{}, err
		}
		step = Field(name)
	case c == '-' || c == '+' || c >= '0' && c <= '9':
		i, err := p.integer()
		if err != nil {
			return Step{}, err
		}
		step = Index(i)
	default:
		word, err := p.identifier()
		if err != nil {
			return Step{}, err
		}
		switch word {
		case "head":
			step = Head
		case "tail":
			step = Tail
		default:
			return Step{}, p.errorf("expected an index, a string, head or tail, got %q", word)
		}
	}

	p.skipSpace()
	if p.eof() || p.peek() != ']' {
		return Step{}, p.errorf("expected ']'")
	}
	p.pos++
	return step, nil
}

func (p *parser) integer() (int, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == digits {
		return 0, p.errorf("expected an integer")
	}
	i, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("invalid integer: %v", err)
	}
	return i, nil
}
