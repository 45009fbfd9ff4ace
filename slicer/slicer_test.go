// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slicer_test

import (
	"testing"

	"github.com/patrickascher/relmeta/slicer"
	"github.com/stretchr/testify/assert"
)

func TestStringExists(t *testing.T) {
	asserts := assert.New(t)

	pool := []string{"id", "name"}

	k, exists := slicer.StringExists(pool, "id")
	asserts.True(exists)
	asserts.Equal(0, k)

	k, exists = slicer.StringExists(pool, "name")
	asserts.True(exists)
	asserts.Equal(1, k)

	k, exists = slicer.StringExists(pool, "title")
	asserts.False(exists)
	asserts.Equal(0, k)
}

func TestStringPrefixExists(t *testing.T) {
	asserts := assert.New(t)

	pool := []string{"ancestor_id", "descendant_id", "id"}
	asserts.Equal([]string{"ancestor_id"}, slicer.StringPrefixExists(pool, "ancestor"))
	asserts.Nil(slicer.StringPrefixExists(pool, "level"))
}

func TestStringUnique(t *testing.T) {
	asserts := assert.New(t)
	asserts.Equal([]string{"a", "b", "c"}, slicer.StringUnique([]string{"a", "b", "a", "c", "b"}))
}

func TestStringsEqual(t *testing.T) {
	asserts := assert.New(t)

	asserts.True(slicer.StringsEqual([]string{"a", "b"}, []string{"a", "b"}))
	asserts.False(slicer.StringsEqual([]string{"a", "b"}, []string{"b", "a"}))
	asserts.False(slicer.StringsEqual([]string{"a"}, []string{"a", "b"}))
}
