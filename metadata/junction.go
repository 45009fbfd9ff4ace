// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"

	"github.com/patrickascher/relmeta/blueprint"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/sirupsen/logrus"
)

// Error messages.
var (
	ErrAmbiguousOwner = "metadata: relation %s and its inverse side both declare the owning side"
	ErrNoOwner        = "metadata: relation %s has no owning side"
)

// buildJunction synthesizes the junction entity of an owning many to many
// relation and folds it into the working set.
//
// If a user defined table with the identical name already exists it wins and
// the synthesized entity is dropped to avoid duplicate tables. The drop is
// logged because the user table is assumed, not checked, to be schema
// compatible.
func (b *Builder) buildJunction(set *Set, r *Relation) error {
	owner := r.Entity.Physical()
	related := r.Related.Physical()

	jt := r.joinTableArgs
	name := jt.Name
	if name == "" {
		name = b.naming.JoinTableName(owner.Name, related.Name, r.Field)
	}

	if existing, err := set.EntityByTable(name); err == nil {
		b.log.WithFields(logrus.Fields{
			"relation": r.Entity.fqdn(r.Field),
			"table":    name,
			"target":   existing.Target,
		}).Warning("metadata: user defined junction table wins, synthesized entity dropped")
		r.JoinEntity = existing
		if r.Inverse != nil {
			r.Inverse.JoinEntity = existing
		}
		return nil
	}

	junction := newSynthesized(name, blueprint.KindJunction)

	ownerPks, err := owner.PrimaryKeys()
	if err != nil {
		return err
	}
	relatedPks, err := related.PrimaryKeys()
	if err != nil {
		return err
	}

	ownerCols := b.junctionColumns(junction, owner, ownerPks, jt.JoinColumns)
	relatedCols := b.junctionColumns(junction, related, relatedPks, jt.InverseJoinColumns)

	junction.ForeignKeys = append(junction.ForeignKeys,
		&ForeignKey{Entity: junction, Columns: ownerCols, Referenced: owner, ReferencedColumns: ownerPks},
		&ForeignKey{Entity: junction, Columns: relatedCols, Referenced: related, ReferencedColumns: relatedPks},
	)

	if b.dialect.Capabilities().IndexForeignKeys {
		junction.Indexes = append(junction.Indexes,
			&Index{Entity: junction, Columns: ownerCols, Fields: columnNames(ownerCols), Synthetic: true},
			&Index{Entity: junction, Columns: relatedCols, Fields: columnNames(relatedCols), Synthetic: true},
		)
	}

	if err := set.add(junction); err != nil {
		return err
	}
	r.JoinEntity = junction
	if r.Inverse != nil {
		r.Inverse.JoinEntity = junction
	}
	return nil
}

// junctionColumns derives one foreign key column per primary key of the
// given side. All junction columns are part of a composite primary key which
// covers the mandatory uniqueness of the pair.
func (b *Builder) junctionColumns(junction *Entity, side *Entity, pks []*Column, args []blueprint.JoinColumn) []*Column {
	var rv []*Column
	for i, pk := range pks {
		name := ""
		if i < len(args) {
			name = args[i].Name
		}
		if name == "" {
			name = b.naming.JoinTableColumnName(side.Name, pk.Information.Name)
		}
		// a self referencing relation derives both sides of the identical
		// primary key, the second side becomes the child column.
		if junction.HasColumnName(name) {
			name = b.naming.JoinTableColumnName("child", pk.Information.Name)
		}

		c := &Column{
			Entity: junction,
			Name:   name,
			Path:   name,
			Mode:   blueprint.ModeRegular,
			Information: dialect.Column{
				Table:      junction.Name,
				Name:       name,
				Type:       pk.Information.Type,
				Length:     pk.Information.Length,
				Precision:  pk.Information.Precision,
				Scale:      pk.Information.Scale,
				PrimaryKey: true,
				NullAble:   false,
			},
		}
		junction.addColumn(c)
		junction.PrimaryColumns = append(junction.PrimaryColumns, c)
		rv = append(rv, c)
	}
	return rv
}

// buildClosure synthesizes the closure junction of a closure table tree
// entity: ancestor and descendant foreign key columns, both referencing the
// source primary key. The composite primary key allows the reflexive
// ancestor-self row every source row must have.
func (b *Builder) buildClosure(set *Set, e *Entity) error {
	name := b.naming.ClosureTableName(e.Name)

	// a user declared closure table wins.
	if existing, err := set.EntityByTable(name); err == nil {
		e.ClosureJunction = existing
		existing.TreeEntity = e
		return nil
	}

	pks, err := e.PrimaryKeys()
	if err != nil {
		return err
	}

	closure := newSynthesized(name, blueprint.KindClosure)

	ancestors := b.closureColumns(closure, e, pks, true)
	descendants := b.closureColumns(closure, e, pks, false)

	closure.ForeignKeys = append(closure.ForeignKeys,
		&ForeignKey{Entity: closure, Columns: ancestors, Referenced: e, ReferencedColumns: pks},
		&ForeignKey{Entity: closure, Columns: descendants, Referenced: e, ReferencedColumns: pks},
	)

	if b.dialect.Capabilities().IndexForeignKeys {
		closure.Indexes = append(closure.Indexes,
			&Index{Entity: closure, Columns: ancestors, Fields: columnNames(ancestors), Synthetic: true},
			&Index{Entity: closure, Columns: descendants, Fields: columnNames(descendants), Synthetic: true},
		)
	}

	if err := set.add(closure); err != nil {
		return err
	}
	e.ClosureJunction = closure
	closure.TreeEntity = e
	return nil
}

// closureColumns derives the ancestor or descendant column set.
func (b *Builder) closureColumns(closure *Entity, source *Entity, pks []*Column, ancestor bool) []*Column {
	var rv []*Column
	for _, pk := range pks {
		name := b.naming.ClosureColumnName(pk.Information.Name, ancestor)
		c := &Column{
			Entity: closure,
			Name:   name,
			Path:   name,
			Mode:   blueprint.ModeRegular,
			Information: dialect.Column{
				Table:      closure.Name,
				Name:       name,
				Type:       pk.Information.Type,
				Length:     pk.Information.Length,
				Precision:  pk.Information.Precision,
				Scale:      pk.Information.Scale,
				PrimaryKey: true,
				NullAble:   false,
			},
		}
		closure.addColumn(c)
		closure.PrimaryColumns = append(closure.PrimaryColumns, c)
		rv = append(rv, c)
	}
	return rv
}

// newSynthesized creates a builder generated entity skeleton.
func newSynthesized(name string, kind string) *Entity {
	return &Entity{
		Target:      name,
		Name:        name,
		Kind:        kind,
		Inheritance: blueprint.InheritanceNone,
		Tree:        blueprint.TreeNone,
		synthesized: true,
		properties:  map[string]*Column{},
	}
}

// columnNames returns the physical names of the given columns.
func columnNames(cols []*Column) []string {
	rv := make([]string, len(cols))
	for i, c := range cols {
		rv[i] = c.Information.Name
	}
	return rv
}

// checkOwnership validates the ownership of a two sided relation pair.
// A one to one pair is owned by the side declaring join columns, a many to
// many pair by the side declaring the join table. Exactly one side must do so.
func checkOwnership(r *Relation) error {
	if r.Inverse == nil {
		return nil
	}
	var owns, inverseOwns bool
	switch r.Kind {
	case blueprint.OneToOne:
		owns, inverseOwns = r.hasJoinColumns, r.Inverse.hasJoinColumns
	case blueprint.ManyToMany:
		owns, inverseOwns = r.hasJoinTable, r.Inverse.hasJoinTable
	default:
		return nil
	}
	if owns && inverseOwns {
		return fmt.Errorf(ErrAmbiguousOwner, r.Entity.fqdn(r.Field))
	}
	if !owns && !inverseOwns {
		return fmt.Errorf(ErrNoOwner, r.Entity.fqdn(r.Field))
	}
	return nil
}
