// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

// Index represents a resolved table index.
// The physical name is computed by the naming strategy in the finalization
// pass unless user supplied.
type Index struct {
	Entity *Entity
	Name   string
	// Fields are the declared property paths or physical column names,
	// Columns the resolved instances.
	Fields  []string
	Columns []*Column
	Unique  bool
	Where   string
	// Synthetic marks builder generated supporting indices.
	Synthetic bool
}

// Unique represents a resolved unique constraint.
type Unique struct {
	Entity  *Entity
	Name    string
	Fields  []string
	Columns []*Column
	// Synthetic marks builder generated constraints.
	Synthetic bool
}

// Check represents a resolved check constraint.
type Check struct {
	Entity     *Entity
	Name       string
	Expression string
}

// Exclusion represents a resolved exclusion constraint.
type Exclusion struct {
	Entity     *Entity
	Name       string
	Expression string
}

// ForeignKey represents a resolved foreign key.
// It is derived of an owning relation or of an explicit declaration.
type ForeignKey struct {
	Entity            *Entity
	Name              string
	Columns           []*Column
	Referenced        *Entity
	ReferencedColumns []*Column
	OnDelete          string
	OnUpdate          string
}
