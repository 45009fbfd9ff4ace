// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package naming_test

import (
	"strings"
	"testing"

	"github.com/patrickascher/relmeta/naming"
	"github.com/stretchr/testify/assert"
)

// TestStrategy_TableName tests the default table naming and the override.
func TestStrategy_TableName(t *testing.T) {
	asserts := assert.New(t)
	s := naming.New(63)

	asserts.Equal("categories", s.TableName("Category", ""))
	asserts.Equal("categories", s.TableName("shop.Category", ""))
	asserts.Equal("user_roles", s.TableName("UserRole", ""))
	asserts.Equal("tree", s.TableName("Category", "tree"))
}

// TestStrategy_ColumnName tests property and embedded prefix handling.
func TestStrategy_ColumnName(t *testing.T) {
	asserts := assert.New(t)
	s := naming.New(63)

	asserts.Equal("created_at", s.ColumnName("CreatedAt", "", nil))
	asserts.Equal("custom", s.ColumnName("CreatedAt", "custom", nil))
	asserts.Equal("address_zip_code", s.ColumnName("ZipCode", "", []string{"Address"}))
	asserts.Equal("a_b_c", s.ColumnName("c", "", []string{"a", "", "b"}))
}

// TestStrategy_RelationNames tests the fk/junction/closure name derivation.
func TestStrategy_RelationNames(t *testing.T) {
	asserts := assert.New(t)
	s := naming.New(63)

	asserts.Equal("parent_id", s.RelationColumnName("parent", "id"))
	asserts.Equal("author_uuid", s.RelationColumnName("Author", "UUID"))

	asserts.Equal("question_categories_categories", s.JoinTableName("questions", "categories", "categories"))
	asserts.Equal("question_id", s.JoinTableColumnName("questions", "id"))

	asserts.Equal("category_closure", s.ClosureTableName("category"))
	asserts.Equal("ancestor", s.ClosureColumnName("id", true))
	asserts.Equal("descendant", s.ClosureColumnName("id", false))
	asserts.Equal("ancestor_uuid", s.ClosureColumnName("uuid", true))

	asserts.Equal("type", s.DiscriminatorName(""))
	asserts.Equal("kind", s.DiscriminatorName("kind"))
}

// TestStrategy_ConstraintNames tests determinism and prefixes.
func TestStrategy_ConstraintNames(t *testing.T) {
	asserts := assert.New(t)
	s := naming.New(63)

	idx := s.IndexName("categories", []string{"type"})
	asserts.True(strings.HasPrefix(idx, "IDX_"))
	asserts.Equal(idx, s.IndexName("categories", []string{"type"}))
	asserts.NotEqual(idx, s.IndexName("categories", []string{"name"}))

	asserts.True(strings.HasPrefix(s.UniqueName("t", []string{"a"}), "UQ_"))
	asserts.True(strings.HasPrefix(s.CheckName("t", "a>0"), "CHK_"))
	asserts.True(strings.HasPrefix(s.ExclusionName("t", "a WITH &&"), "XCL_"))
	asserts.True(strings.HasPrefix(s.ForeignKeyName("t", []string{"a"}, "r", []string{"id"}), "FK_"))
}

// TestStrategy_Identifier tests the truncation with the hash suffix.
func TestStrategy_Identifier(t *testing.T) {
	asserts := assert.New(t)
	s := naming.New(20)

	// short names stay untouched.
	asserts.Equal("categories", s.Identifier("categories"))

	long := strings.Repeat("category_relation", 4)
	truncated := s.Identifier(long)
	asserts.Len(truncated, 20)
	// deterministic.
	asserts.Equal(truncated, s.Identifier(long))
	// different long names must not collide.
	asserts.NotEqual(truncated, s.Identifier(long+"x"))

	// a maximum too short for the hash suffix is raised, not a panic.
	tiny := naming.New(4)
	asserts.Len(tiny.Identifier(long), 10)
	asserts.Equal(tiny.Identifier(long), tiny.Identifier(long))
}
