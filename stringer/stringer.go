// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stringer provides string helpers for identifier handling.
package stringer

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
)

// CamelToSnake of the given string.
func CamelToSnake(s string) string {
	return snaker.CamelToSnake(s)
}

// SnakeToCamel of the given string.
func SnakeToCamel(s string) string {
	return snaker.SnakeToCamel(s)
}

// Plural of the given string.
func Plural(s string) string {
	return inflection.Plural(s)
}

// Singular of the given string.
func Singular(s string) string {
	return inflection.Singular(s)
}

// Sanitize strips every character which is not allowed in a sql identifier.
// Allowed are letters, digits and the underscore. A hyphen is mapped to an
// underscore, every other disallowed character is dropped.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		if r == '-' {
			return '_'
		}
		return -1
	}, s)
}

// Hash returns a short deterministic fnv32a hex digest of the given string.
// It is used as a collision suffix for truncated identifiers and for
// generated constraint names.
func Hash(s string) string {
	h := fnv.New32a()
	// hash.Hash32 never returns a write error.
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}
