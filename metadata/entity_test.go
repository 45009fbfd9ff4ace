// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata_test

import (
	"testing"

	"github.com/patrickascher/relmeta/blueprint"
	"github.com/patrickascher/relmeta/dialect/postgres"
	"github.com/patrickascher/relmeta/dialect/types"
	"github.com/patrickascher/relmeta/metadata"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEntity_Lookups checks the column, relation and primary key accessors.
func TestEntity_Lookups(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id", Generated: "increment", Primary: true}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "firstName", Type: types.TEXT}))

	set := build(t, s)
	e, err := set.Entity("app.User")
	require.NoError(t, err)

	// lookup by property path and by physical name.
	byPath, err := e.Column("firstName")
	require.NoError(t, err)
	byName, err := e.Column("first_name")
	require.NoError(t, err)
	asserts.Same(byPath, byName)
	asserts.Equal("first_name", byPath.Information.Name)

	_, err = e.Column("missing")
	asserts.Error(err)
	_, err = e.Relation("missing")
	asserts.Error(err)

	pks, err := e.PrimaryKeys()
	require.NoError(t, err)
	require.Len(t, pks, 1)

	// single key yields the bare value.
	v, err := e.PrimaryKey(map[string]interface{}{"id": 5})
	require.NoError(t, err)
	asserts.Equal(5, v)

	_, err = e.PrimaryKey(map[string]interface{}{"name": "x"})
	asserts.Error(err)
}

// TestEntity_CompositePrimaryKey checks the named map of a composite key.
func TestEntity_CompositePrimaryKey(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.Membership"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.Membership", Property: "userId", Type: types.INTEGER, Primary: true}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.Membership", Property: "groupId", Type: types.INTEGER, Primary: true}))

	set := build(t, s)
	e, _ := set.Entity("app.Membership")

	v, err := e.PrimaryKey(map[string]interface{}{"userId": 1, "groupId": 2})
	require.NoError(t, err)
	asserts.Equal(map[string]interface{}{"userId": 1, "groupId": 2}, v)

	_, err = e.PrimaryKey(map[string]interface{}{"userId": 1})
	asserts.Error(err)
}

// TestSet_Lookups checks the target and table keyed set accessors.
func TestSet_Lookups(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id", Generated: "increment", Primary: true}))

	set := build(t, s)
	asserts.Len(set.Entities(), 1)

	_, err := set.Entity("app.Unknown")
	asserts.Error(err)
	_, err = set.EntityByTable("unknowns")
	asserts.Error(err)

	e, err := set.EntityByTable("users")
	require.NoError(t, err)
	asserts.Equal("app.User", e.Target)
	asserts.Empty(set.Junctions())
}

// TestSet_DuplicateTable checks the duplicate table name detection.
func TestSet_DuplicateTable(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User", Name: "people"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id", Generated: "increment", Primary: true}))
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.Person", Name: "people"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.Person", Property: "id", Generated: "increment", Primary: true}))

	logger, _ := test.NewNullLogger()
	_, err := metadata.New(s, postgres.New(), metadata.WithLogger(logger)).Build()
	asserts.Error(err)
	asserts.Contains(err.Error(), "people")
}
