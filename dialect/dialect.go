// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dialect defines the driver adapter boundary of the metadata engine.
//
// A Dialect supplies the capability flags of one database (supported types,
// maximum identifier length, upsert support) and the value codec which
// transforms a typed domain value to its storage representation and back.
// The metadata builder consults the capabilities instead of hardcoding any
// dialect assumption, the persistence layer calls the codec per column.
package dialect

import (
	"github.com/patrickascher/relmeta/dialect/types"
	"github.com/patrickascher/relmeta/slicer"
)

// Generation strategies of a column value.
const (
	GeneratedNone      = "none"
	GeneratedIncrement = "increment"
	GeneratedUUID      = "uuid"
	GeneratedRowID     = "rowid"
	GeneratedIdentity  = "identity"
)

// Dialect provides the capability flags and the value codec of one database.
// Implementations must be stateless - the codec is called concurrently from
// any number of workers.
type Dialect interface {
	// Capabilities returns the dialect capability flags.
	Capabilities() Capabilities
	// NormalizedType returns the dialect normalized physical type string of
	// the given logical type (varchar -> character varying).
	NormalizedType(t types.Interface) string
	// TypeFor returns the inferred storage type of a generation strategy.
	// Nil will return on GeneratedNone or an unknown strategy.
	TypeFor(generated string) types.Interface
	// Encode transforms a domain value to its storage representation.
	Encode(value interface{}, col Column) (interface{}, error)
	// Decode transforms a storage value back to its domain representation.
	Decode(value interface{}, col Column) (interface{}, error)
}

// Capabilities holds the static capability flags of a dialect.
type Capabilities struct {
	// Name is the dialect identifier.
	Name string
	// MaxIdentifierLength defines the longest allowed identifier.
	MaxIdentifierLength int
	// Upsert defines if the dialect supports insert-or-update statements.
	Upsert bool
	// NativeBoolean defines if the dialect has a native boolean type.
	NativeBoolean bool
	// UniqueAsIndex defines if a one-to-one foreign key needs a physical
	// unique index instead of a named unique constraint.
	UniqueAsIndex bool
	// IndexForeignKeys defines if foreign key columns need a supporting index.
	IndexForeignKeys bool
	// SupportedTypes lists the sanitized type kinds the dialect can store.
	SupportedTypes []string
	// SpatialTypes lists the raw spatial type names.
	SpatialTypes []string
	// WithLengthTypes lists the raw types requiring a length.
	WithLengthTypes []string
	// WithPrecisionTypes lists the raw types requiring a precision.
	WithPrecisionTypes []string
	// WithScaleTypes lists the raw types requiring a scale.
	WithScaleTypes []string
	// Extensions lists database extensions the adapter can install on connect.
	Extensions []string
}

// Supports checks if the sanitized type kind is supported by the dialect.
func (c Capabilities) Supports(kind string) bool {
	_, ok := slicer.StringExists(c.SupportedTypes, kind)
	return ok
}

// HasExtension checks if the adapter can provision the given extension.
func (c Capabilities) HasExtension(name string) bool {
	_, ok := slicer.StringExists(c.Extensions, name)
	return ok
}

// Transformer is one link of a column transformer chain.
// On write To is applied in declared order before the dialect codec runs, on
// read From is applied in reverse order after the dialect codec ran.
// Transformers always run, even for a logical null value.
type Transformer interface {
	To(value interface{}) (interface{}, error)
	From(value interface{}) (interface{}, error)
}
