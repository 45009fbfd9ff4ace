// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package naming converts logical names (property, relation, join table) into
// physical database identifiers.
//
// All functions are pure and deterministic. Identical inputs always produce
// identical identifiers, which keeps a rebuild of the metadata stable for
// schema diffing. Identifiers longer than the dialect maximum are truncated
// and suffixed with a short hash of the untruncated name to avoid collisions.
package naming

import (
	"strings"

	"github.com/patrickascher/relmeta/stringer"
)

// Constraint name prefixes.
const (
	prefixIndex      = "IDX_"
	prefixUnique     = "UQ_"
	prefixCheck      = "CHK_"
	prefixExclusion  = "XCL_"
	prefixForeignKey = "FK_"
)

// DefaultMaxLength is used if no dialect maximum is given.
const DefaultMaxLength = 63

// minMaxLength is the smallest usable maximum: the hash suffix and its
// separator take 9 characters and at least one character of the name must
// survive the truncation.
const minMaxLength = 10

// Strategy converts logical names to physical database identifiers.
// Implementations must be pure, deterministic and side-effect free.
type Strategy interface {
	// TableName returns the physical table name of an entity.
	// The override always wins, otherwise the plural snake style of the bare
	// entity name is used.
	TableName(target string, override string) string
	// ColumnName returns the physical column name of a property.
	// Embedded prefixes are prepended in declaration order.
	ColumnName(property string, override string, prefixes []string) string
	// RelationColumnName returns the default foreign key column name derived
	// from a relation property and the referenced primary key column.
	RelationColumnName(property string, referenced string) string
	// JoinTableName returns the junction table name of a many to many relation.
	JoinTableName(firstTable string, secondTable string, property string) string
	// JoinTableColumnName returns a junction table column name referencing
	// the given table/column pair.
	JoinTableColumnName(table string, column string) string
	// ClosureTableName returns the closure table name of a tree entity.
	ClosureTableName(table string) string
	// ClosureColumnName returns the ancestor or descendant column name of a
	// closure table referencing the given primary key column.
	ClosureColumnName(column string, ancestor bool) string
	// DiscriminatorName returns the discriminator column name of a single
	// table inheritance root.
	DiscriminatorName(override string) string
	// MaterializedPathName returns the synthetic path column name.
	MaterializedPathName() string
	// NestedSetNames returns the synthetic left/right bound column names.
	NestedSetNames() (string, string)
	// TreeLevelName returns the synthetic tree level column name.
	TreeLevelName() string

	// IndexName returns a deterministic index name.
	IndexName(table string, columns []string) string
	// UniqueName returns a deterministic unique constraint name.
	UniqueName(table string, columns []string) string
	// CheckName returns a deterministic check constraint name.
	CheckName(table string, expression string) string
	// ExclusionName returns a deterministic exclusion constraint name.
	ExclusionName(table string, expression string) string
	// ForeignKeyName returns a deterministic foreign key name.
	ForeignKeyName(table string, columns []string, refTable string, refColumns []string) string

	// Identifier truncates the given identifier to the dialect maximum.
	// A truncated identifier carries a hash suffix of the untruncated name.
	Identifier(name string) string
}

// New creates the default naming strategy.
// The maxLength defines the dialect maximum identifier length, zero or below
// falls back to DefaultMaxLength. A maximum too short to carry the collision
// hash suffix is raised to the smallest usable length.
func New(maxLength int) Strategy {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if maxLength < minMaxLength {
		maxLength = minMaxLength
	}
	return strategy{maxLength: maxLength}
}

type strategy struct {
	maxLength int
}

// TableName - see the Strategy interface.
func (s strategy) TableName(target string, override string) string {
	if override != "" {
		return s.Identifier(override)
	}
	return s.Identifier(stringer.CamelToSnake(stringer.Plural(bareName(target))))
}

// ColumnName - see the Strategy interface.
func (s strategy) ColumnName(property string, override string, prefixes []string) string {
	name := override
	if name == "" {
		name = stringer.CamelToSnake(property)
	}
	if len(prefixes) > 0 {
		var parts []string
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			parts = append(parts, stringer.CamelToSnake(p))
		}
		name = strings.Join(append(parts, name), "_")
	}
	return s.Identifier(name)
}

// RelationColumnName - see the Strategy interface.
func (s strategy) RelationColumnName(property string, referenced string) string {
	return s.Identifier(stringer.CamelToSnake(property) + "_" + stringer.CamelToSnake(referenced))
}

// JoinTableName - see the Strategy interface.
func (s strategy) JoinTableName(firstTable string, secondTable string, property string) string {
	return s.Identifier(stringer.Singular(firstTable) + "_" + stringer.CamelToSnake(property) + "_" + secondTable)
}

// JoinTableColumnName - see the Strategy interface.
func (s strategy) JoinTableColumnName(table string, column string) string {
	return s.Identifier(stringer.Singular(table) + "_" + stringer.CamelToSnake(column))
}

// ClosureTableName - see the Strategy interface.
func (s strategy) ClosureTableName(table string) string {
	return s.Identifier(table + "_closure")
}

// ClosureColumnName - see the Strategy interface.
// For the common single primary key `id` the plain names ancestor/descendant
// are used, every other key is suffixed to stay unique on composite keys.
func (s strategy) ClosureColumnName(column string, ancestor bool) string {
	prefix := "descendant"
	if ancestor {
		prefix = "ancestor"
	}
	if column == "id" {
		return prefix
	}
	return s.Identifier(prefix + "_" + stringer.CamelToSnake(column))
}

// DiscriminatorName - see the Strategy interface.
func (s strategy) DiscriminatorName(override string) string {
	if override != "" {
		return s.Identifier(override)
	}
	return "type"
}

// MaterializedPathName - see the Strategy interface.
func (s strategy) MaterializedPathName() string {
	return "mpath"
}

// NestedSetNames - see the Strategy interface.
func (s strategy) NestedSetNames() (string, string) {
	return "nsleft", "nsright"
}

// TreeLevelName - see the Strategy interface.
func (s strategy) TreeLevelName() string {
	return "level"
}

// IndexName - see the Strategy interface.
func (s strategy) IndexName(table string, columns []string) string {
	return prefixIndex + stringer.Hash(table+"_"+strings.Join(columns, "_"))
}

// UniqueName - see the Strategy interface.
func (s strategy) UniqueName(table string, columns []string) string {
	return prefixUnique + stringer.Hash(table+"_"+strings.Join(columns, "_"))
}

// CheckName - see the Strategy interface.
func (s strategy) CheckName(table string, expression string) string {
	return prefixCheck + stringer.Hash(table+"_"+expression)
}

// ExclusionName - see the Strategy interface.
func (s strategy) ExclusionName(table string, expression string) string {
	return prefixExclusion + stringer.Hash(table+"_"+expression)
}

// ForeignKeyName - see the Strategy interface.
func (s strategy) ForeignKeyName(table string, columns []string, refTable string, refColumns []string) string {
	key := table + "_" + strings.Join(columns, "_") + "_" + refTable + "_" + strings.Join(refColumns, "_")
	return prefixForeignKey + stringer.Hash(key)
}

// Identifier - see the Strategy interface.
func (s strategy) Identifier(name string) string {
	name = stringer.Sanitize(name)
	if len(name) <= s.maxLength {
		return name
	}
	hash := stringer.Hash(name)
	return name[:s.maxLength-len(hash)-1] + "_" + hash
}

// bareName strips a package or namespace qualifier of a target identifier.
// `shop.Category` and `*shop.Category` become `Category`.
func bareName(target string) string {
	target = strings.TrimPrefix(target, "*")
	if i := strings.LastIndex(target, "."); i >= 0 {
		target = target[i+1:]
	}
	return target
}
