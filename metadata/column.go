// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

import (
	"github.com/patrickascher/relmeta/dialect"
)

// Column represents one mapped scalar property of an entity.
//
// A column is created during the build pass from its raw record, mutated
// while the generation strategy or type is inferred and treated as immutable
// once the resolved set is published. Under single table inheritance a child
// entity references the identical column instance of its parent for every
// inherited property.
type Column struct {
	// Entity owning the column.
	Entity *Entity
	// Name is the property name, Path the dot path through embeds.
	Name string
	Path string
	// Information holds the physical column description.
	Information dialect.Column
	// Generated strategy of the column value.
	Generated string
	// Virtual marks administrative columns which have no property on the
	// mapped type (discriminator, tree bookkeeping).
	Virtual bool
	// Mode of the column (blueprint modes).
	Mode string
	// Transformers is the ordered value transformer chain.
	// On write the chain runs in declared order before the dialect codec, on
	// read in reverse order after it.
	Transformers []dialect.Transformer
}

// Encode transforms a property value to its storage representation.
// The transformer chain runs in declared order, a logical nil skips the
// dialect codec but not the transformers.
func (c *Column) Encode(d dialect.Dialect, value interface{}) (interface{}, error) {
	var err error
	for _, t := range c.Transformers {
		if value, err = t.To(value); err != nil {
			return nil, err
		}
	}
	if value == nil {
		return nil, nil
	}
	return d.Encode(value, c.Information)
}

// Decode transforms a storage value back to its property representation.
// A nil storage value yields a logical nil before the transformer chain runs
// in reverse order.
func (c *Column) Decode(d dialect.Dialect, value interface{}) (interface{}, error) {
	var err error
	if value != nil {
		if value, err = d.Decode(value, c.Information); err != nil {
			return nil, err
		}
	}
	for i := len(c.Transformers) - 1; i >= 0; i-- {
		if value, err = c.Transformers[i].From(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}
