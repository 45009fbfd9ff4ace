// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

import (
	"github.com/patrickascher/relmeta/blueprint"
)

// Relation represents one association between two entities.
type Relation struct {
	// Entity owning the relation property.
	Entity *Entity
	// Field is the property path, Kind the cardinality.
	Field string
	Kind  string
	// Target is the declared related target (type identity or table name),
	// Related the resolved entity.
	Target  string
	Related *Entity
	// Inverse is the back reference to the computed inverse relation side.
	// It stays nil for a one sided relation.
	Inverse      *Relation
	InverseField string
	// Owner marks the side carrying the join column or join table.
	Owner    bool
	Lazy     bool
	Eager    bool
	Nullable bool
	OnDelete string
	OnUpdate string

	// JoinColumns are the foreign key columns on the owning table,
	// ReferencedColumns the referenced primary key columns.
	JoinColumns       []*Column
	ReferencedColumns []*Column
	// JoinEntity is the junction entity of a many to many relation.
	JoinEntity *Entity

	// raw declarations, consumed when the join side is materialized.
	hasJoinColumns bool
	hasJoinTable   bool
	hasNullable    bool
	joinColumnArgs []blueprint.JoinColumn
	joinTableArgs  blueprint.JoinTable
}

// IsOneToOne checks the cardinality.
func (r *Relation) IsOneToOne() bool {
	return r.Kind == blueprint.OneToOne
}

// IsOneToMany checks the cardinality.
func (r *Relation) IsOneToMany() bool {
	return r.Kind == blueprint.OneToMany
}

// IsManyToOne checks the cardinality.
func (r *Relation) IsManyToOne() bool {
	return r.Kind == blueprint.ManyToOne
}

// IsManyToMany checks the cardinality.
func (r *Relation) IsManyToMany() bool {
	return r.Kind == blueprint.ManyToMany
}
