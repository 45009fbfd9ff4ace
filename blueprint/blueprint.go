// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blueprint holds the raw per-class metadata records consumed by the
// metadata builder.
//
// The records are plain declarative descriptions keyed by the owning target -
// they carry no behavior. An annotation front-end (reflection scanning,
// struct tags, builder apis or schema files) populates a Store, the metadata
// builder resolves it. The Store is treated as read-only input for the
// duration of a build.
package blueprint

import (
	"github.com/patrickascher/relmeta/dialect"
)

// Table kinds.
const (
	KindRegular     = "regular"
	KindClosure     = "closure"
	KindEntityChild = "entity-child"
	KindView        = "view"
	KindJunction    = "junction"
)

// Inheritance patterns.
const (
	InheritanceNone        = "none"
	InheritanceSingleTable = "single-table"
	InheritanceClassTable  = "class-table"
)

// Tree kinds.
const (
	TreeNone             = "none"
	TreeAdjacencyList    = "adjacency-list"
	TreeClosureTable     = "closure-table"
	TreeMaterializedPath = "materialized-path"
	TreeNestedSet        = "nested-set"
)

// Relation cardinalities.
const (
	OneToOne   = "one-to-one"
	OneToMany  = "one-to-many"
	ManyToOne  = "many-to-one"
	ManyToMany = "many-to-many"
)

// Column modes.
const (
	ModeRegular    = "regular"
	ModeVirtual    = "virtual"
	ModeCreateDate = "create-date"
	ModeUpdateDate = "update-date"
	ModeDeleteDate = "delete-date"
	ModeVersion    = "version"
	ModeTreeLevel  = "tree-level"
	ModeObjectID   = "object-id"
)

// Table declares one mapped type.
type Table struct {
	// Target is the class identifier the record belongs to.
	Target string `validate:"required"`
	// Name overrides the derived table name.
	Name string
	// Kind of the table.
	Kind string `validate:"oneof=regular closure entity-child view junction"`
	// Inheritance pattern declared on the table.
	Inheritance string `validate:"oneof=none single-table class-table"`
	// Discriminator overrides the discriminator column name.
	Discriminator string
	// DiscriminatorValue overrides the subtype marker of this target.
	DiscriminatorValue string
	// Tree kind declared on the table.
	Tree string `validate:"oneof=none adjacency-list closure-table materialized-path nested-set"`
	// Ancestors is the ordered inheritance chain, nearest first.
	Ancestors []string
}

// Column declares one mapped scalar property.
type Column struct {
	Target   string `validate:"required"`
	Property string `validate:"required"`
	// Name overrides the derived column name.
	Name string
	// Type is the sanitized kind (dialect/types constants), empty infers.
	Type string
	// Raw overrides the dialect sql type.
	Raw       string
	Length    int
	Precision int
	Scale     int
	Nullable  bool
	Unique    bool
	Primary   bool
	Default   string
	// HasDefault marks an explicit default, empty string included.
	HasDefault bool
	// Generated strategy of the column value.
	Generated string `validate:"oneof=none increment uuid rowid identity"`
	// Enum members, EnumNumeric marks integer valued members.
	Enum        []string
	EnumNumeric bool
	// Array marks a dialect array column.
	Array bool
	// Mode of the column.
	Mode string `validate:"oneof=regular virtual create-date update-date delete-date version tree-level object-id"`
	// Transformers is the ordered value transformer chain.
	Transformers []dialect.Transformer
}

// Relation declares one association property.
type Relation struct {
	Target   string `validate:"required"`
	Property string `validate:"required"`
	// Kind is the cardinality.
	Kind string `validate:"required,oneof=one-to-one one-to-many many-to-one many-to-many"`
	// RelatedTarget is the target identifier or the table name of the
	// related entity.
	RelatedTarget string `validate:"required"`
	// Inverse is the property path of the inverse relation side.
	Inverse  string
	Lazy     bool
	Eager    bool
	Nullable bool
	// HasNullable marks an explicit nullability declaration.
	HasNullable bool
	OnDelete    string
	OnUpdate    string
}

// JoinColumn declares one foreign key column of an owning relation.
type JoinColumn struct {
	Target   string `validate:"required"`
	Property string `validate:"required"`
	// Name overrides the derived join column name.
	Name string
	// ReferencedColumn names the referenced column, empty falls back to the
	// target primary key.
	ReferencedColumn string
}

// JoinTable declares the junction table of a many to many relation.
type JoinTable struct {
	Target   string `validate:"required"`
	Property string `validate:"required"`
	// Name overrides the derived junction table name.
	Name string
	// JoinColumns reference the owning side, InverseJoinColumns the inverse.
	JoinColumns        []JoinColumn
	InverseJoinColumns []JoinColumn
}

// Embedded declares a property subtree grouped under a nested path.
type Embedded struct {
	Target   string `validate:"required"`
	Property string `validate:"required"`
	// Prefix prepended to all embedded column names, empty uses the property.
	Prefix string
	// HasPrefix marks an explicit prefix, empty string included (no prefix).
	HasPrefix bool
	// EmbeddedTarget is the class identifier of the embedded type.
	EmbeddedTarget string `validate:"required"`
}

// Index declares an explicit index.
type Index struct {
	Target string `validate:"required"`
	Name   string
	// Columns are property paths or physical column names.
	Columns []string `validate:"required,min=1"`
	Unique  bool
	Where   string
}

// Unique declares an explicit unique constraint.
type Unique struct {
	Target  string   `validate:"required"`
	Name    string
	Columns []string `validate:"required,min=1"`
}

// Check declares an explicit check constraint.
type Check struct {
	Target     string `validate:"required"`
	Name       string
	Expression string `validate:"required"`
}

// Exclusion declares an explicit exclusion constraint.
type Exclusion struct {
	Target     string `validate:"required"`
	Name       string
	Expression string `validate:"required"`
}

// ForeignKey declares an explicit foreign key which is not derived of a
// relation.
type ForeignKey struct {
	Target  string   `validate:"required"`
	Name    string
	Columns []string `validate:"required,min=1"`
	// RefTarget is the referenced target identifier or table name.
	RefTarget string `validate:"required"`
	// RefColumns default to the referenced primary key.
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

// Listener declares an entity lifecycle listener method.
type Listener struct {
	Target string `validate:"required"`
	Method string `validate:"required"`
	Event  string `validate:"required,oneof=before-insert after-insert before-update after-update before-remove after-remove after-load"`
}
