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
	ErrUnknownEntity  = "metadata: entity %s is not part of the resolved set"
	ErrDuplicateTable = "metadata: table name %s is used by %s and %s"
)

// Set is the resolved entity metadata graph.
//
// Once published by the builder it is immutable and safe for unsynchronized
// concurrent reads by any number of consumers for the remainder of the
// process lifetime.
type Set struct {
	entities []*Entity
	byTarget map[string]*Entity
	byTable  map[string]*Entity
}

func newSet() *Set {
	return &Set{byTarget: map[string]*Entity{}, byTable: map[string]*Entity{}}
}

// add registers an entity.
// Single table children share the parent table and are not registered by
// table name. Error will return on a duplicate table or target.
func (s *Set) add(e *Entity) error {
	if existing, ok := s.byTarget[e.Target]; ok {
		return fmt.Errorf(ErrDuplicateTable, e.Name, existing.Target, e.Target)
	}
	if e.Kind != blueprint.KindEntityChild {
		if existing, ok := s.byTable[e.Name]; ok {
			return fmt.Errorf(ErrDuplicateTable, e.Name, existing.Target, e.Target)
		}
		s.byTable[e.Name] = e
	}
	s.byTarget[e.Target] = e
	s.entities = append(s.entities, e)
	return nil
}

// lookup finds an entity by target identity or by table name equality for
// string declared targets.
func (s *Set) lookup(name string) *Entity {
	if e, ok := s.byTarget[name]; ok {
		return e
	}
	if e, ok := s.byTable[name]; ok {
		return e
	}
	return nil
}

// Entities returns all resolved entities in build order.
func (s *Set) Entities() []*Entity {
	return s.entities
}

// Entity returns the resolved entity of the given target.
// Error will return if the target is not part of the set.
func (s *Set) Entity(target string) (*Entity, error) {
	if e, ok := s.byTarget[target]; ok {
		return e, nil
	}
	return nil, fmt.Errorf(ErrUnknownEntity, target)
}

// EntityByTable returns the resolved entity of the given physical table name.
// Error will return if the table is not part of the set.
func (s *Set) EntityByTable(name string) (*Entity, error) {
	if e, ok := s.byTable[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf(ErrUnknownEntity, name)
}

// Junctions returns all synthesized and declared junction/closure entities.
func (s *Set) Junctions() []*Entity {
	var rv []*Entity
	for _, e := range s.entities {
		if e.Kind == blueprint.KindJunction || e.Kind == blueprint.KindClosure {
			rv = append(rv, e)
		}
	}
	return rv
}
