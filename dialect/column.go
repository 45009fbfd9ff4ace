// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dialect

import "github.com/patrickascher/relmeta/dialect/types"

// Column represents the physical description of a database table column.
// It is embedded in the resolved metadata column and is the unit the value
// codec operates on.
type Column struct {
	Table    string
	Name     string
	Position int

	Type         types.Interface
	NullAble     bool
	PrimaryKey   bool
	Unique       bool
	Array        bool
	DefaultValue NullString
	Length       NullInt
	Precision    NullInt
	Scale        NullInt

	Autoincrement bool
	Comment       string
}

// ForeignKey represents a physical table relation.
type ForeignKey struct {
	Name      string
	Primary   Relation
	Secondary Relation
}

// Relation defines the table and columns of one foreign key side.
type Relation struct {
	Table   string
	Columns []string
}
