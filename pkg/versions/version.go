// Copyright © 2018 One Concern

package versions

import (
	"regexp"
	"strings"
)

var (
	componentRe = regexp.MustCompile(`\d+|[a-z]+|\.|-`)
	numericRe   = regexp.MustCompile(`^v?\d`)

	// development-like tags sort by convention rather than by value
	componentReplacements = map[string]string{
		"pre":     "c",
		"preview": "c",
		"-":       "final-",
		"rc":      "c",
		"dev":     "@",
	}
)

const (
	finalComponent   = "*final"
	finalDashMarker  = "*final-"
	zeroComponent    = "00000000"
	numericPadLength = 8
)

// Version is a loosely parsed version identifier.
//
// Any string is a valid Version: numeric components compare by value and
// alphabetic components compare lexically, with conventional handling of
// pre-release markers such as "dev", "pre" or "rc".
type Version struct {
	raw string
	key []string
}

// ParseVersion builds a Version from its string form
func ParseVersion(s string) Version {
	return Version{raw: s, key: looseKey(s)}
}

func (v Version) String() string {
	return v.raw
}

// IsNumeric tells if the version starts with a digit, optionally prefixed by "v".
//
// Non-numeric versions such as "dev" or "main" are listed before numeric ones.
func (v Version) IsNumeric() bool {
	return numericRe.MatchString(v.raw)
}

// Compare returns -1, 0 or 1 when v is respectively older, equivalent or newer than o.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v.key) && i < len(o.key); i++ {
		switch {
		case v.key[i] < o.key[i]:
			return -1
		case v.key[i] > o.key[i]:
			return 1
		}
	}
	switch {
	case len(v.key) < len(o.key):
		return -1
	case len(v.key) > len(o.key):
		return 1
	}
	return 0
}

func versionParts(s string) []string {
	parts := make([]string, 0, 8)
	emit := func(part string) {
		if r, ok := componentReplacements[part]; ok {
			part = r
		}
		if part == "" || part == "." {
			return
		}
		if part[0] >= '0' && part[0] <= '9' {
			if pad := numericPadLength - len(part); pad > 0 {
				part = strings.Repeat("0", pad) + part
			}
			parts = append(parts, part)
			return
		}
		parts = append(parts, "*"+part)
	}

	last := 0
	for _, loc := range componentRe.FindAllStringIndex(s, -1) {
		emit(s[last:loc[0]])
		emit(s[loc[0]:loc[1]])
		last = loc[1]
	}
	emit(s[last:])

	// alpha, beta and candidate releases sort before the final release
	return append(parts, finalComponent)
}

func looseKey(s string) []string {
	key := make([]string, 0, 8)
	for _, part := range versionParts(strings.ToLower(s)) {
		if strings.HasPrefix(part, "*") {
			if part < finalComponent {
				for len(key) > 0 && key[len(key)-1] == finalDashMarker {
					key = key[:len(key)-1]
				}
			}
			for len(key) > 0 && key[len(key)-1] == zeroComponent {
				key = key[:len(key)-1]
			}
		}
		key = append(key, part)
	}
	return key
}
