// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stringer_test

import (
	"testing"

	"github.com/patrickascher/relmeta/stringer"
	"github.com/stretchr/testify/assert"
)

// TestStringer tests the snake/camel, plural/singular, sanitize and hash helpers.
func TestStringer(t *testing.T) {
	asserts := assert.New(t)

	asserts.Equal("user_role", stringer.CamelToSnake("UserRole"))
	asserts.Equal("UserRole", stringer.SnakeToCamel("user_role"))

	asserts.Equal("categories", stringer.Plural("category"))
	asserts.Equal("category", stringer.Singular("categories"))

	asserts.Equal("user_role1", stringer.Sanitize("user-role 1!"))
	asserts.Equal("abc", stringer.Sanitize("a.b.c"))

	// hash must be deterministic and 8 chars long.
	asserts.Equal(stringer.Hash("category"), stringer.Hash("category"))
	asserts.Len(stringer.Hash("category"), 8)
	asserts.NotEqual(stringer.Hash("category"), stringer.Hash("categories"))
}
