// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blueprint_test

import (
	"testing"

	"github.com/patrickascher/relmeta/blueprint"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_Defaults checks the zero value defaults applied on add.
func TestStore_Defaults(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()

	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User"}))
	tbl, ok := s.Table("app.User")
	require.True(t, ok)
	asserts.Equal(blueprint.KindRegular, tbl.Kind)
	asserts.Equal(blueprint.InheritanceNone, tbl.Inheritance)
	asserts.Equal(blueprint.TreeNone, tbl.Tree)

	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id"}))
	cols := s.Columns("app.User")
	require.Len(t, cols, 1)
	asserts.Equal(blueprint.ModeRegular, cols[0].Mode)
	asserts.Equal(dialect.GeneratedNone, cols[0].Generated)
}

// TestStore_Validation checks that invalid records are rejected.
func TestStore_Validation(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()

	// missing target.
	asserts.Error(s.AddTable(blueprint.Table{}))
	asserts.Error(s.AddColumn(blueprint.Column{Property: "id"}))

	// invalid enum members.
	asserts.Error(s.AddTable(blueprint.Table{Target: "app.User", Kind: "weird"}))
	asserts.Error(s.AddColumn(blueprint.Column{Target: "app.User", Property: "id", Generated: "auto"}))
	asserts.Error(s.AddRelation(blueprint.Relation{Target: "app.User", Property: "posts", Kind: "has-many", RelatedTarget: "app.Post"}))
	asserts.Error(s.AddListener(blueprint.Listener{Target: "app.User", Method: "hash", Event: "on-save"}))
	asserts.Error(s.AddIndex(blueprint.Index{Target: "app.User"}))
	asserts.Error(s.AddForeignKey(blueprint.ForeignKey{Target: "app.User", Columns: []string{"a"}}))

	// nothing invalid was stored.
	asserts.Empty(s.Tables())
	asserts.Empty(s.Columns())
}

// TestStore_Filter checks the target allow list of the getters.
func TestStore_Filter(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()

	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User"}))
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.Post"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.Post", Property: "id"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.Post", Property: "title"}))

	asserts.Len(s.Tables(), 2)
	asserts.Len(s.Tables("app.User"), 1)
	asserts.Len(s.Columns("app.Post"), 2)
	asserts.Len(s.Columns("app.User", "app.Post"), 3)
	asserts.Empty(s.Columns("app.Unknown"))

	_, ok := s.Table("app.Unknown")
	asserts.False(ok)
}

// TestStore_JoinRecords checks the relation keyed join record lookups.
func TestStore_JoinRecords(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()

	require.NoError(t, s.AddJoinColumn(blueprint.JoinColumn{Target: "app.User", Property: "profile", Name: "profile_fk"}))
	require.NoError(t, s.AddJoinTable(blueprint.JoinTable{Target: "app.Post", Property: "tags", Name: "post_tags"}))

	jcs := s.JoinColumns("app.User", "profile")
	require.Len(t, jcs, 1)
	asserts.Equal("profile_fk", jcs[0].Name)
	asserts.Empty(s.JoinColumns("app.User", "other"))

	jt, ok := s.JoinTable("app.Post", "tags")
	require.True(t, ok)
	asserts.Equal("post_tags", jt.Name)
	_, ok = s.JoinTable("app.Post", "categories")
	asserts.False(ok)
}
