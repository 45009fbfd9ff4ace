// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blueprint

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/slicer"
)

// Error messages.
var (
	ErrValidation = "blueprint: invalid %T record for target %s: %w"
)

// Default is the process wide record store.
// Annotation front-ends without an own store populate it on init.
var Default = New()

// Store is a container for the raw metadata records.
// Records are validated when added and kept in insertion order - the order
// defines the resolved column order and must be deterministic.
type Store struct {
	validate *validator.Validate

	tables      []Table
	columns     []Column
	relations   []Relation
	joinColumns []JoinColumn
	joinTables  []JoinTable
	embeddeds   []Embedded
	indexes     []Index
	uniques     []Unique
	checks      []Check
	exclusions  []Exclusion
	foreignKeys []ForeignKey
	listeners   []Listener
}

// New creates an empty record store.
func New() *Store {
	return &Store{validate: validator.New()}
}

// check validates a record after the zero-value defaults were applied.
func (s *Store) check(target string, record interface{}) error {
	if err := s.validate.Struct(record); err != nil {
		return fmt.Errorf(ErrValidation, record, target, err)
	}
	return nil
}

// AddTable adds a table record.
// An empty kind defaults to regular, empty inheritance/tree to none.
func (s *Store) AddTable(t Table) error {
	if t.Kind == "" {
		t.Kind = KindRegular
	}
	if t.Inheritance == "" {
		t.Inheritance = InheritanceNone
	}
	if t.Tree == "" {
		t.Tree = TreeNone
	}
	if err := s.check(t.Target, t); err != nil {
		return err
	}
	s.tables = append(s.tables, t)
	return nil
}

// AddColumn adds a column record.
// An empty mode defaults to regular, an empty generation strategy to none.
func (s *Store) AddColumn(c Column) error {
	if c.Mode == "" {
		c.Mode = ModeRegular
	}
	if c.Generated == "" {
		c.Generated = dialect.GeneratedNone
	}
	if err := s.check(c.Target, c); err != nil {
		return err
	}
	s.columns = append(s.columns, c)
	return nil
}

// AddRelation adds a relation record.
func (s *Store) AddRelation(r Relation) error {
	if err := s.check(r.Target, r); err != nil {
		return err
	}
	s.relations = append(s.relations, r)
	return nil
}

// AddJoinColumn adds a join column record.
func (s *Store) AddJoinColumn(j JoinColumn) error {
	if err := s.check(j.Target, j); err != nil {
		return err
	}
	s.joinColumns = append(s.joinColumns, j)
	return nil
}

// AddJoinTable adds a join table record.
func (s *Store) AddJoinTable(j JoinTable) error {
	if err := s.check(j.Target, j); err != nil {
		return err
	}
	s.joinTables = append(s.joinTables, j)
	return nil
}

// AddEmbedded adds an embedded record.
func (s *Store) AddEmbedded(e Embedded) error {
	if err := s.check(e.Target, e); err != nil {
		return err
	}
	s.embeddeds = append(s.embeddeds, e)
	return nil
}

// AddIndex adds an index record.
func (s *Store) AddIndex(i Index) error {
	if err := s.check(i.Target, i); err != nil {
		return err
	}
	s.indexes = append(s.indexes, i)
	return nil
}

// AddUnique adds a unique constraint record.
func (s *Store) AddUnique(u Unique) error {
	if err := s.check(u.Target, u); err != nil {
		return err
	}
	s.uniques = append(s.uniques, u)
	return nil
}

// AddCheck adds a check constraint record.
func (s *Store) AddCheck(c Check) error {
	if err := s.check(c.Target, c); err != nil {
		return err
	}
	s.checks = append(s.checks, c)
	return nil
}

// AddExclusion adds an exclusion constraint record.
func (s *Store) AddExclusion(e Exclusion) error {
	if err := s.check(e.Target, e); err != nil {
		return err
	}
	s.exclusions = append(s.exclusions, e)
	return nil
}

// AddForeignKey adds an explicit foreign key record.
func (s *Store) AddForeignKey(f ForeignKey) error {
	if err := s.check(f.Target, f); err != nil {
		return err
	}
	s.foreignKeys = append(s.foreignKeys, f)
	return nil
}

// AddListener adds a lifecycle listener record.
func (s *Store) AddListener(l Listener) error {
	if err := s.check(l.Target, l); err != nil {
		return err
	}
	s.listeners = append(s.listeners, l)
	return nil
}

// matches checks the target against the allow list. An empty list allows all.
func matches(target string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	_, ok := slicer.StringExists(allow, target)
	return ok
}

// Tables returns the table records of the given targets in insertion order.
// Without targets all records will return.
func (s *Store) Tables(targets ...string) []Table {
	var rv []Table
	for _, t := range s.tables {
		if matches(t.Target, targets) {
			rv = append(rv, t)
		}
	}
	return rv
}

// Table returns the table record of the given target.
func (s *Store) Table(target string) (Table, bool) {
	for _, t := range s.tables {
		if t.Target == target {
			return t, true
		}
	}
	return Table{}, false
}

// Columns returns the column records of the given targets in insertion order.
func (s *Store) Columns(targets ...string) []Column {
	var rv []Column
	for _, c := range s.columns {
		if matches(c.Target, targets) {
			rv = append(rv, c)
		}
	}
	return rv
}

// Relations returns the relation records of the given targets.
func (s *Store) Relations(targets ...string) []Relation {
	var rv []Relation
	for _, r := range s.relations {
		if matches(r.Target, targets) {
			rv = append(rv, r)
		}
	}
	return rv
}

// JoinColumns returns the join column records of a relation property.
func (s *Store) JoinColumns(target string, property string) []JoinColumn {
	var rv []JoinColumn
	for _, j := range s.joinColumns {
		if j.Target == target && j.Property == property {
			rv = append(rv, j)
		}
	}
	return rv
}

// JoinTable returns the join table record of a relation property.
func (s *Store) JoinTable(target string, property string) (JoinTable, bool) {
	for _, j := range s.joinTables {
		if j.Target == target && j.Property == property {
			return j, true
		}
	}
	return JoinTable{}, false
}

// Embeddeds returns the embedded records of the given targets.
func (s *Store) Embeddeds(targets ...string) []Embedded {
	var rv []Embedded
	for _, e := range s.embeddeds {
		if matches(e.Target, targets) {
			rv = append(rv, e)
		}
	}
	return rv
}

// Indexes returns the index records of the given targets.
func (s *Store) Indexes(targets ...string) []Index {
	var rv []Index
	for _, i := range s.indexes {
		if matches(i.Target, targets) {
			rv = append(rv, i)
		}
	}
	return rv
}

// Uniques returns the unique constraint records of the given targets.
func (s *Store) Uniques(targets ...string) []Unique {
	var rv []Unique
	for _, u := range s.uniques {
		if matches(u.Target, targets) {
			rv = append(rv, u)
		}
	}
	return rv
}

// Checks returns the check constraint records of the given targets.
func (s *Store) Checks(targets ...string) []Check {
	var rv []Check
	for _, c := range s.checks {
		if matches(c.Target, targets) {
			rv = append(rv, c)
		}
	}
	return rv
}

// Exclusions returns the exclusion constraint records of the given targets.
func (s *Store) Exclusions(targets ...string) []Exclusion {
	var rv []Exclusion
	for _, e := range s.exclusions {
		if matches(e.Target, targets) {
			rv = append(rv, e)
		}
	}
	return rv
}

// ForeignKeys returns the explicit foreign key records of the given targets.
func (s *Store) ForeignKeys(targets ...string) []ForeignKey {
	var rv []ForeignKey
	for _, f := range s.foreignKeys {
		if matches(f.Target, targets) {
			rv = append(rv, f)
		}
	}
	return rv
}

// Listeners returns the listener records of the given targets.
func (s *Store) Listeners(targets ...string) []Listener {
	var rv []Listener
	for _, l := range s.listeners {
		if matches(l.Target, targets) {
			rv = append(rv, l)
		}
	}
	return rv
}
