// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metadata

// Embedded represents a property subtree of columns and relations grouped
// under a nested path.
//
// The embedded columns and relations are flattened into the owning entity's
// effective lists, the descriptor keeps the subtree view. Embedded columns
// under a single table inherited context are forced nullable.
type Embedded struct {
	// Entity owning the embed.
	Entity *Entity
	// Field is the property path of the embed, Prefix the physical column
	// name prefix (empty for none).
	Field  string
	Prefix string
	// Target is the class identifier of the embedded type.
	Target string
	// Parent is set for a nested embed.
	Parent *Embedded

	Columns   []*Column
	Relations []*Relation
	Embeddeds []*Embedded
}

// Listener represents one resolved entity lifecycle listener.
// The invocation is the persistence layer's job, the metadata only keeps the
// bookkeeping of the declared methods.
type Listener struct {
	Method string
	Event  string
}
