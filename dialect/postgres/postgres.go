// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package postgres provides the reference dialect adapter.
// It supplies the capability flags, the dialect normalized type mapping and
// the value codec for a PostgreSQL shaped database.
package postgres

import (
	"strings"

	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/dialect/types"
)

// New creates the postgres dialect.
func New() dialect.Dialect {
	return &postgres{}
}

type postgres struct{}

// Capabilities returns the postgres capability flags.
// A one-to-one foreign key needs a physical unique index and every foreign
// key column set gets a supporting index.
func (p *postgres) Capabilities() dialect.Capabilities {
	return dialect.Capabilities{
		Name:                "postgres",
		MaxIdentifierLength: 63,
		Upsert:              true,
		NativeBoolean:       true,
		UniqueAsIndex:       true,
		IndexForeignKeys:    true,
		SupportedTypes: []string{
			types.BOOL, types.INTEGER, types.FLOAT, types.DECIMAL,
			types.TEXT, types.TEXTAREA, types.TIME, types.DATE,
			types.DATETIME, types.DATETIMETZ, types.JSON,
			types.SIMPLEARRAY, types.SIMPLEJSON, types.ENUM,
			types.UUID, types.SPATIAL, types.HSTORE, types.LTREE,
			types.CUBE, types.CUSTOM,
		},
		SpatialTypes: []string{
			"geometry", "geography", "point", "line", "lseg", "box",
			"path", "polygon", "circle",
		},
		WithLengthTypes: []string{
			"character varying", "varchar", "character", "char",
			"bit", "bit varying", "varbit",
		},
		WithPrecisionTypes: []string{
			"numeric", "decimal", "interval",
			"time without time zone", "time with time zone",
			"timestamp without time zone", "timestamp with time zone",
		},
		WithScaleTypes: []string{"numeric", "decimal"},
		Extensions: []string{
			"hstore", "ltree", "cube", "citext", "uuid-ossp", "postgis",
		},
	}
}

// NormalizedType returns the dialect normalized physical type string.
// Aliases are folded to the canonical postgres name (varchar -> character
// varying), an empty raw falls back to a default per sanitized kind.
func (p *postgres) NormalizedType(t types.Interface) string {
	if t == nil {
		return ""
	}

	switch strings.ToLower(t.Raw()) {
	case "int", "int4", "integer":
		return "integer"
	case "int2", "smallint":
		return "smallint"
	case "int8", "bigint":
		return "bigint"
	case "varchar", "character varying":
		return "character varying"
	case "char", "character":
		return "character"
	case "float", "float8", "double precision":
		return "double precision"
	case "float4", "real":
		return "real"
	case "dec", "decimal", "numeric":
		return "numeric"
	case "bool", "boolean":
		return "boolean"
	case "datetime", "timestamp", "timestamp without time zone":
		return "timestamp without time zone"
	case "timestamptz", "timestamp with time zone":
		return "timestamp with time zone"
	case "time", "time without time zone":
		return "time without time zone"
	case "timetz", "time with time zone":
		return "time with time zone"
	case "":
		return defaultType(t.Kind())
	}

	return strings.ToLower(t.Raw())
}

// defaultType returns the postgres default per sanitized kind.
func defaultType(kind string) string {
	switch kind {
	case types.BOOL:
		return "boolean"
	case types.INTEGER:
		return "integer"
	case types.FLOAT:
		return "double precision"
	case types.DECIMAL:
		return "numeric"
	case types.TEXT:
		return "character varying"
	case types.TEXTAREA, types.SIMPLEARRAY, types.SIMPLEJSON:
		return "text"
	case types.TIME:
		return "time without time zone"
	case types.DATE:
		return "date"
	case types.DATETIME:
		return "timestamp without time zone"
	case types.DATETIMETZ:
		return "timestamp with time zone"
	case types.JSON:
		return "jsonb"
	case types.ENUM:
		return "text"
	case types.UUID:
		return "uuid"
	case types.SPATIAL:
		return "geometry"
	case types.HSTORE:
		return "hstore"
	case types.LTREE:
		return "ltree"
	case types.CUBE:
		return "cube"
	}
	return ""
}

// TypeFor returns the inferred storage type of a generation strategy.
func (p *postgres) TypeFor(generated string) types.Interface {
	switch generated {
	case dialect.GeneratedIncrement, dialect.GeneratedIdentity:
		return types.NewInt("integer")
	case dialect.GeneratedRowID:
		return types.NewInt("bigint")
	case dialect.GeneratedUUID:
		return types.NewUuid("uuid")
	}
	return nil
}
