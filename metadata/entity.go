// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"

	"github.com/patrickascher/relmeta/blueprint"
)

// Error messages.
var (
	ErrPrimaryKey    = "metadata: no primary key is defined in %s"
	ErrField         = "metadata: field/relation (%s) does not exist in %s"
	ErrMissingValues = "metadata: primary key value %s is missing for %s"
)

// Entity represents one mapped type or a synthesized junction/closure table.
//
// After the resolved set is published the entity is immutable and safe for
// unsynchronized concurrent reads.
type Entity struct {
	// Target is the class identifier, Name the physical table name.
	Target string
	Name   string
	// Kind of the table, Inheritance pattern and Tree kind.
	Kind        string
	Inheritance string
	Tree        string
	// Ancestors is the ordered inheritance chain, nearest first.
	Ancestors []string
	// DiscriminatorValue marks the subtype in a shared table.
	DiscriminatorValue string

	// Parent/Children link an inheritance hierarchy. A single table child
	// shares the parent table, a class table child keeps its own table and
	// links to the parent by a mirrored primary key.
	Parent   *Entity
	Children []*Entity
	// ClosureJunction is a back reference to the synthesized closure table.
	// The closure table does not own its source tree entity.
	ClosureJunction *Entity
	// TreeEntity references the source tree entity of a closure table.
	TreeEntity *Entity

	// Discriminator is the injected subtype column of an inheritance root.
	Discriminator *Column

	Columns     []*Column
	Relations   []*Relation
	Embeddeds   []*Embedded
	Indexes     []*Index
	Uniques     []*Unique
	Checks      []*Check
	Exclusions  []*Exclusion
	ForeignKeys []*ForeignKey
	Listeners   []Listener

	// derived sets, computed once all own members exist.
	PrimaryColumns         []*Column
	ObjectIDColumn         *Column
	VersionColumn          *Column
	CreateDateColumn       *Column
	UpdateDateColumn       *Column
	DeleteDateColumn       *Column
	TreeLevelColumn        *Column
	MaterializedPathColumn *Column
	NestedSetLeftColumn    *Column
	NestedSetRightColumn   *Column

	// synthesized marks builder generated junction/closure entities.
	synthesized bool

	properties map[string]*Column

	// discriminatorName is the resolved discriminator column name of an
	// inheritance root, kept until the column is injected.
	discriminatorName string

	// raw records carried until their resolution pass.
	fkArgs []blueprint.ForeignKey
}

// IsSynthesized returns true for a builder generated junction or closure
// entity.
func (e *Entity) IsSynthesized() bool {
	return e.synthesized
}

// Physical returns the entity owning the physical table.
// For a single table child this is the inheritance root.
func (e *Entity) Physical() *Entity {
	if e.Kind == blueprint.KindEntityChild && e.Parent != nil {
		return e.Parent.Physical()
	}
	return e
}

// addColumn appends the column to the entity.
// A single table child shares the physical table of its parent, the identical
// instance is appended there as well.
func (e *Entity) addColumn(c *Column) {
	e.Columns = append(e.Columns, c)
	if e.properties != nil && c.Path != "" {
		e.properties[c.Path] = c
	}
	if e.Kind == blueprint.KindEntityChild && e.Parent != nil {
		e.Parent.addColumn(c)
	}
}

// Column returns a column by its property path or physical name.
// Error will return if it does not exist.
func (e *Entity) Column(path string) (*Column, error) {
	if e.properties != nil {
		if c, ok := e.properties[path]; ok {
			return c, nil
		}
	}
	for _, c := range e.Columns {
		if c.Path == path || c.Name == path || c.Information.Name == path {
			return c, nil
		}
	}
	return nil, fmt.Errorf(ErrField, path, e.Target)
}

// HasColumnName checks if a column with the given physical name exists.
func (e *Entity) HasColumnName(name string) bool {
	for _, c := range e.Columns {
		if c.Information.Name == name {
			return true
		}
	}
	return false
}

// ColumnByName returns a column by its physical name.
func (e *Entity) ColumnByName(name string) (*Column, error) {
	for _, c := range e.Columns {
		if c.Information.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf(ErrField, name, e.Target)
}

// Relation returns a relation by its property path.
// Error will return if it does not exist.
func (e *Entity) Relation(path string) (*Relation, error) {
	for _, r := range e.Relations {
		if r.Field == path {
			return r, nil
		}
	}
	return nil, fmt.Errorf(ErrField, path, e.Target)
}

// RelationsOf returns all relations of the given cardinality.
func (e *Entity) RelationsOf(kind string) []*Relation {
	var rv []*Relation
	for _, r := range e.Relations {
		if r.Kind == kind {
			rv = append(rv, r)
		}
	}
	return rv
}

// OwningRelations returns all relations carrying the join column or table.
func (e *Entity) OwningRelations() []*Relation {
	var rv []*Relation
	for _, r := range e.Relations {
		if r.Owner {
			rv = append(rv, r)
		}
	}
	return rv
}

// PrimaryKeys returns the primary key columns.
// Error will return if no primary key is defined.
func (e *Entity) PrimaryKeys() ([]*Column, error) {
	if len(e.PrimaryColumns) == 0 {
		return nil, fmt.Errorf(ErrPrimaryKey, e.Target)
	}
	return e.PrimaryColumns, nil
}

// PrimaryKey returns the primary key value of an entity instance given as a
// property path keyed map. A single column key produces the bare value, a
// composite key a named field map.
func (e *Entity) PrimaryKey(values map[string]interface{}) (interface{}, error) {
	pks, err := e.PrimaryKeys()
	if err != nil {
		return nil, err
	}
	if len(pks) == 1 {
		v, ok := values[pks[0].Path]
		if !ok {
			return nil, fmt.Errorf(ErrMissingValues, pks[0].Path, e.Target)
		}
		return v, nil
	}
	rv := make(map[string]interface{}, len(pks))
	for _, pk := range pks {
		v, ok := values[pk.Path]
		if !ok {
			return nil, fmt.Errorf(ErrMissingValues, pk.Path, e.Target)
		}
		rv[pk.Path] = v
	}
	return rv, nil
}

// fqdn is a helper to name an entity member in error messages.
func (e *Entity) fqdn(member string) string {
	return e.Target + "." + member
}
