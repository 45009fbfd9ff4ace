// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package types provides sanitized logical column types over multiple databases.
//
// A type is a closed tagged variant: the logical kind is resolved once during
// the metadata build and never re-inspected at runtime. The raw value carries
// the dialect specific sql type string.
package types

// sanitized kinds over multiple databases.
const (
	BOOL        = "Bool"
	INTEGER     = "Integer"
	FLOAT       = "Float"
	DECIMAL     = "Decimal"
	TEXT        = "Text"
	TEXTAREA    = "TextArea"
	TIME        = "Time"
	DATE        = "Date"
	DATETIME    = "DateTime"
	DATETIMETZ  = "DateTimeTz"
	JSON        = "Json"
	SIMPLEARRAY = "SimpleArray"
	SIMPLEJSON  = "SimpleJson"
	ENUM        = "Enum"
	UUID        = "UUID"
	SPATIAL     = "Spatial"
	HSTORE      = "HStore"
	LTREE       = "LTree"
	CUBE        = "Cube"
	CUSTOM      = "Custom"
)

// Interface of the types to access the sanitized kind and the raw sql data.
type Interface interface {
	Kind() string
	Raw() string
}

type common struct {
	raw  string
	name string
}

func (c *common) Raw() string {
	return c.raw
}

func (c *common) Kind() string {
	return c.name
}

// NewBool returns a ptr to a Bool.
func NewBool(raw string) *Bool {
	return &Bool{common: common{name: BOOL, raw: raw}}
}

// NewInt returns a ptr to an Int.
func NewInt(raw string) *Int {
	return &Int{common: common{name: INTEGER, raw: raw}}
}

// NewFloat returns a ptr to a Float.
func NewFloat(raw string) *Float {
	return &Float{common: common{name: FLOAT, raw: raw}}
}

// NewDecimal returns a ptr to a Decimal.
func NewDecimal(raw string) *Decimal {
	return &Decimal{common: common{name: DECIMAL, raw: raw}}
}

// NewText returns a ptr to a Text.
func NewText(raw string) *Text {
	return &Text{common: common{name: TEXT, raw: raw}}
}

// NewTextArea returns a ptr to a TextArea.
func NewTextArea(raw string) *TextArea {
	return &TextArea{common: common{name: TEXTAREA, raw: raw}}
}

// NewTime returns a ptr to a Time.
func NewTime(raw string) *Time {
	return &Time{common: common{name: TIME, raw: raw}}
}

// NewDate returns a ptr to a Date.
func NewDate(raw string) *Date {
	return &Date{common: common{name: DATE, raw: raw}}
}

// NewDateTime returns a ptr to a DateTime.
func NewDateTime(raw string) *DateTime {
	return &DateTime{common: common{name: DATETIME, raw: raw}}
}

// NewDateTimeTz returns a ptr to a time zone aware DateTime.
func NewDateTimeTz(raw string) *DateTime {
	return &DateTime{common: common{name: DATETIMETZ, raw: raw}}
}

// NewJson returns a ptr to a Json.
func NewJson(raw string) *Json {
	return &Json{common: common{name: JSON, raw: raw}}
}

// NewSimpleArray returns a ptr to a SimpleArray.
func NewSimpleArray(raw string) *SimpleArray {
	return &SimpleArray{common: common{name: SIMPLEARRAY, raw: raw}}
}

// NewSimpleJSON returns a ptr to a SimpleJSON.
func NewSimpleJSON(raw string) *SimpleJSON {
	return &SimpleJSON{common: common{name: SIMPLEJSON, raw: raw}}
}

// NewEnum returns a ptr to an Enum.
// The values define the allowed enum members, numeric marks an enum which was
// declared over integer values - the codec will coerce decoded members back.
func NewEnum(raw string, values []string, numeric bool) *Enum {
	return &Enum{common: common{name: ENUM, raw: raw}, Values: values, Numeric: numeric}
}

// NewUuid returns a ptr to an Uuid.
func NewUuid(raw string) *Uuid {
	return &Uuid{common: common{name: UUID, raw: raw}}
}

// NewSpatial returns a ptr to a Spatial.
func NewSpatial(raw string) *Spatial {
	return &Spatial{common: common{name: SPATIAL, raw: raw}}
}

// NewHStore returns a ptr to a HStore.
func NewHStore(raw string) *HStore {
	return &HStore{common: common{name: HSTORE, raw: raw}}
}

// NewLTree returns a ptr to a LTree.
func NewLTree(raw string) *LTree {
	return &LTree{common: common{name: LTREE, raw: raw}}
}

// NewCube returns a ptr to a Cube.
func NewCube(raw string) *Cube {
	return &Cube{common: common{name: CUBE, raw: raw}}
}

// NewCustom returns a ptr to a Custom.
// It is used for dialect types without a sanitized kind.
func NewCustom(raw string) *Custom {
	return &Custom{common: common{name: CUSTOM, raw: raw}}
}

// Bool represents all kind of sql booleans.
type Bool struct {
	common
}

// Int represents all kind of sql integers.
type Int struct {
	Min int64
	Max uint64
	common
}

// Float represents all kind of sql floats.
type Float struct {
	common
}

// Decimal represents exact numeric sql types.
type Decimal struct {
	Precision int
	Scale     int
	common
}

// Text represents all kind of sql character types.
type Text struct {
	Size int
	common
}

// TextArea represents all kind of sql text types.
type TextArea struct {
	Size int
	common
}

// Time represents all kind of sql times.
type Time struct {
	common
}

// Date represents all kind of sql dates.
type Date struct {
	common
}

// DateTime represents sql timestamps, with or without a time zone.
type DateTime struct {
	common
}

// Json represents sql json documents.
type Json struct {
	common
}

// SimpleArray represents a primitive list stored as a comma separated string.
type SimpleArray struct {
	common
}

// SimpleJSON represents a structured value stored as a json string.
type SimpleJSON struct {
	common
}

// Enum represents sql enums.
type Enum struct {
	Values  []string
	Numeric bool
	common
}

// Items will return the defined enum values.
func (e *Enum) Items() []string {
	return e.Values
}

// Uuid represents sql uuids.
type Uuid struct {
	common
}

// Spatial represents geometric and geographic sql types.
type Spatial struct {
	common
}

// HStore represents a sql key/value store column.
type HStore struct {
	common
}

// LTree represents a hierarchical label path column.
type LTree struct {
	common
}

// Cube represents a fixed arity numeric tuple column.
type Cube struct {
	common
}

// Custom represents a not sanitized dialect type.
type Custom struct {
	common
}

// Items interface.
type Items interface {
	Items() []string
}
