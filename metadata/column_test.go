// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata_test

import (
	"encoding/base64"
	"testing"

	"github.com/patrickascher/relmeta/blueprint"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/dialect/postgres"
	"github.com/patrickascher/relmeta/dialect/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base64Transformer obfuscates string values on write.
type base64Transformer struct{}

func (base64Transformer) To(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	return base64.StdEncoding.EncodeToString([]byte(value.(string))), nil
}

func (base64Transformer) From(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(value.(string))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// TestColumn_Codec checks the transformer chain around the dialect codec.
func TestColumn_Codec(t *testing.T) {
	asserts := assert.New(t)
	s := blueprint.New()
	require.NoError(t, s.AddTable(blueprint.Table{Target: "app.User"}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "id", Generated: "increment", Primary: true}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "secret", Type: types.TEXT, Transformers: []dialect.Transformer{base64Transformer{}}}))
	require.NoError(t, s.AddColumn(blueprint.Column{Target: "app.User", Property: "active", Type: types.BOOL}))

	set := build(t, s)
	e, _ := set.Entity("app.User")
	d := postgres.New()

	secret, err := e.Column("secret")
	require.NoError(t, err)

	stored, err := secret.Encode(d, "hunter2")
	require.NoError(t, err)
	asserts.Equal("aHVudGVyMg==", stored)

	domain, err := secret.Decode(d, stored)
	require.NoError(t, err)
	asserts.Equal("hunter2", domain)

	// a logical nil skips the dialect codec but runs the transformers.
	stored, err = secret.Encode(d, nil)
	require.NoError(t, err)
	asserts.Nil(stored)

	// without transformers the dialect codec is applied directly.
	active, err := e.Column("active")
	require.NoError(t, err)
	v, err := active.Decode(d, "t")
	require.NoError(t, err)
	asserts.Equal(true, v)
}
