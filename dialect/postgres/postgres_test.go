// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/dialect/postgres"
	"github.com/patrickascher/relmeta/dialect/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(t types.Interface) dialect.Column {
	return dialect.Column{Name: "test", Type: t}
}

// TestCapabilities checks the static postgres capability flags.
func TestCapabilities(t *testing.T) {
	asserts := assert.New(t)
	caps := postgres.New().Capabilities()

	asserts.Equal("postgres", caps.Name)
	asserts.Equal(63, caps.MaxIdentifierLength)
	asserts.True(caps.Upsert)
	asserts.True(caps.NativeBoolean)
	asserts.True(caps.UniqueAsIndex)
	asserts.True(caps.IndexForeignKeys)
	asserts.True(caps.Supports(types.HSTORE))
	asserts.True(caps.Supports(types.CUBE))
	asserts.False(caps.Supports("NoSuchKind"))
	asserts.True(caps.HasExtension("ltree"))
	asserts.False(caps.HasExtension("timescaledb"))
}

// TestNormalizedType checks the alias folding and the kind defaults.
func TestNormalizedType(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()

	asserts.Equal("character varying", p.NormalizedType(types.NewText("varchar")))
	asserts.Equal("integer", p.NormalizedType(types.NewInt("int4")))
	asserts.Equal("double precision", p.NormalizedType(types.NewFloat("float8")))
	asserts.Equal("timestamp without time zone", p.NormalizedType(types.NewDateTime("datetime")))
	asserts.Equal("boolean", p.NormalizedType(types.NewBool("")))
	asserts.Equal("jsonb", p.NormalizedType(types.NewJson("")))
	asserts.Equal("hstore", p.NormalizedType(types.NewHStore("")))
	asserts.Equal("ltree", p.NormalizedType(types.NewLTree("")))
	asserts.Equal("cube", p.NormalizedType(types.NewCube("")))
	asserts.Equal("uuid", p.NormalizedType(types.NewUuid("")))
	asserts.Equal("citext", p.NormalizedType(types.NewCustom("citext")))
	asserts.Equal("", p.NormalizedType(nil))
}

// TestTypeFor checks the generation strategy type inference.
func TestTypeFor(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()

	asserts.Equal(types.INTEGER, p.TypeFor(dialect.GeneratedIncrement).Kind())
	asserts.Equal("integer", p.TypeFor(dialect.GeneratedIdentity).Raw())
	asserts.Equal("bigint", p.TypeFor(dialect.GeneratedRowID).Raw())
	asserts.Equal(types.UUID, p.TypeFor(dialect.GeneratedUUID).Kind())
	asserts.Nil(p.TypeFor(dialect.GeneratedNone))
	asserts.Nil(p.TypeFor("unknown"))
}

// TestCodec_Nil checks that a logical nil passes the codec unchanged.
func TestCodec_Nil(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewBool(""))

	v, err := p.Encode(nil, col)
	asserts.NoError(err)
	asserts.Nil(v)

	v, err = p.Decode(nil, col)
	asserts.NoError(err)
	asserts.Nil(v)
}

// TestCodec_Bool checks the boolean normalization of both directions.
func TestCodec_Bool(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewBool(""))

	v, err := p.Encode(true, col)
	asserts.NoError(err)
	asserts.Equal(true, v)

	v, err = p.Encode(1, col)
	asserts.NoError(err)
	asserts.Equal(true, v)

	v, err = p.Encode(0, col)
	asserts.NoError(err)
	asserts.Equal(false, v)

	_, err = p.Encode("yes", col)
	asserts.Error(err)

	for in, expected := range map[string]bool{"t": true, "true": true, "1": true, "f": false, "false": false, "0": false} {
		v, err = p.Decode(in, col)
		asserts.NoError(err)
		asserts.Equal(expected, v, in)
	}

	v, err = p.Decode(float64(1), col)
	asserts.NoError(err)
	asserts.Equal(true, v)

	_, err = p.Decode("x", col)
	asserts.Error(err)
}

// TestCodec_Integer checks the int64 coercion.
func TestCodec_Integer(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewInt(""))

	v, err := p.Encode(5, col)
	asserts.NoError(err)
	asserts.Equal(int64(5), v)

	v, err = p.Decode(uint16(7), col)
	asserts.NoError(err)
	asserts.Equal(int64(7), v)
}

// TestCodec_SimpleArray checks the comma joined representation.
func TestCodec_SimpleArray(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewSimpleArray(""))

	v, err := p.Encode([]string{"a", "b", "c"}, col)
	asserts.NoError(err)
	asserts.Equal("a,b,c", v)

	v, err = p.Encode([]int{1, 2, 3}, col)
	asserts.NoError(err)
	asserts.Equal("1,2,3", v)

	_, err = p.Encode(5, col)
	asserts.Error(err)

	v, err = p.Decode("a,b,c", col)
	asserts.NoError(err)
	asserts.Equal([]string{"a", "b", "c"}, v)

	// an empty string is an empty list, not a single empty element.
	v, err = p.Decode("", col)
	asserts.NoError(err)
	asserts.Equal([]string{}, v)
}

// TestCodec_SimpleJSON checks the json string representation.
func TestCodec_SimpleJSON(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewSimpleJSON(""))

	v, err := p.Encode(map[string]interface{}{"a": float64(1)}, col)
	asserts.NoError(err)
	asserts.Equal(`{"a":1}`, v)

	v, err = p.Decode(`{"a":1}`, col)
	asserts.NoError(err)
	asserts.Equal(map[string]interface{}{"a": float64(1)}, v)

	// nested containers round trip structurally.
	nested := map[string]interface{}{"a": []interface{}{float64(1), float64(2)}, "b": "x"}
	v, err = p.Encode(nested, col)
	asserts.NoError(err)
	asserts.Equal(`{"a":[1,2],"b":"x"}`, v)

	v, err = p.Decode(`{"a":[1,2],"b":"x"}`, col)
	asserts.NoError(err)
	asserts.Equal(nested, v)

	_, err = p.Decode(`{broken`, col)
	asserts.Error(err)
}

// TestCodec_Enum checks the plain and the numeric enum decoding.
func TestCodec_Enum(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()

	col := column(types.NewEnum("", []string{"draft", "published"}, false))
	v, err := p.Encode("draft", col)
	asserts.NoError(err)
	asserts.Equal("draft", v)

	v, err = p.Decode("published", col)
	asserts.NoError(err)
	asserts.Equal("published", v)

	numeric := column(types.NewEnum("", []string{"1", "2"}, true))
	v, err = p.Decode("2", numeric)
	asserts.NoError(err)
	asserts.Equal(int64(2), v)

	_, err = p.Decode("two", numeric)
	asserts.Error(err)
}

// TestCodec_EnumArray checks the postgres array literal of enum members.
func TestCodec_EnumArray(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewEnum("", []string{"sci fi", "horror"}, false))
	col.Array = true

	v, err := p.Encode([]string{"sci fi", "horror"}, col)
	asserts.NoError(err)
	asserts.Equal(`{"sci fi",horror}`, v)

	v, err = p.Decode(`{"sci fi",horror,NULL}`, col)
	asserts.NoError(err)
	asserts.Equal([]interface{}{"sci fi", "horror", nil}, v)

	// the quoted string NULL is a member, the bare token a logical nil.
	v, err = p.Decode(`{"NULL"}`, col)
	asserts.NoError(err)
	asserts.Equal([]interface{}{"NULL"}, v)

	_, err = p.Decode(`{unterminated,"`, col)
	asserts.Error(err)

	_, err = p.Decode(`no-braces`, col)
	asserts.Error(err)

	numeric := column(types.NewEnum("", []string{"1", "2"}, true))
	numeric.Array = true
	v, err = p.Decode(`{1,2}`, numeric)
	asserts.NoError(err)
	asserts.Equal([]interface{}{int64(1), int64(2)}, v)
}

// TestCodec_Hstore checks the pair representation round trip.
func TestCodec_Hstore(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewHStore(""))

	v, err := p.Encode(map[string]interface{}{"b": nil, "a": "1"}, col)
	asserts.NoError(err)
	asserts.Equal(`"a"=>"1","b"=>NULL`, v)

	v, err = p.Decode(`"a"=>"1","b"=>NULL`, col)
	asserts.NoError(err)
	asserts.Equal(map[string]interface{}{"a": "1", "b": nil}, v)

	// the quoted string NULL stays a string.
	v, err = p.Decode(`"k"=>"NULL"`, col)
	asserts.NoError(err)
	asserts.Equal(map[string]interface{}{"k": "NULL"}, v)

	// quotes and backslashes are escaped.
	v, err = p.Encode(map[string]string{`a"b`: `c\d`}, col)
	asserts.NoError(err)
	asserts.Equal(`"a\"b"=>"c\\d"`, v)

	v, err = p.Decode(`"a\"b"=>"c\\d"`, col)
	asserts.NoError(err)
	asserts.Equal(map[string]interface{}{`a"b`: `c\d`}, v)

	v, err = p.Decode("", col)
	asserts.NoError(err)
	asserts.Equal(map[string]interface{}{}, v)

	_, err = p.Decode(`no pairs`, col)
	asserts.Error(err)

	_, err = p.Decode(`"k"=>`, col)
	asserts.Error(err)

	_, err = p.Encode(5, col)
	asserts.Error(err)
}

// TestCodec_Ltree checks the label path normalization.
func TestCodec_Ltree(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewLTree(""))

	v, err := p.Encode("Top.Science Fiction.Novels", col)
	asserts.NoError(err)
	asserts.Equal("Top.Science_Fiction.Novels", v)

	v, err = p.Encode([]string{"a", "", "b c"}, col)
	asserts.NoError(err)
	asserts.Equal("a.b_c", v)

	v, err = p.Decode("a.b_c", col)
	asserts.NoError(err)
	asserts.Equal("a.b_c", v)
}

// TestCodec_Cube checks the numeric tuple representation.
func TestCodec_Cube(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewCube(""))

	v, err := p.Encode([]float64{1, 2.5}, col)
	asserts.NoError(err)
	asserts.Equal("(1, 2.5)", v)

	v, err = p.Encode([]int{3, 4}, col)
	asserts.NoError(err)
	asserts.Equal("(3, 4)", v)

	_, err = p.Encode("not-a-tuple-slice", col)
	asserts.NoError(err) // raw strings pass through

	v, err = p.Decode("(1, 2.5)", col)
	asserts.NoError(err)
	asserts.Equal([]float64{1, 2.5}, v)

	_, err = p.Decode("1, 2.5", col)
	asserts.Error(err)

	_, err = p.Decode("(1, x)", col)
	asserts.Error(err)
}

// TestCodec_CubeArray checks the sparse tuple sequence alignment.
func TestCodec_CubeArray(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewCube(""))
	col.Array = true

	v, err := p.Encode([][]float64{{1, 2}, nil, {3, 4}}, col)
	asserts.NoError(err)
	asserts.Equal(`{"(1, 2)",NULL,"(3, 4)"}`, v)

	v, err = p.Decode(`{"(1, 2)",NULL,"(3, 4)"}`, col)
	asserts.NoError(err)
	asserts.Equal([][]float64{{1, 2}, nil, {3, 4}}, v)
}

// TestCodec_DateTime checks the date/time family layouts.
func TestCodec_DateTime(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()

	ts := time.Date(2021, 3, 1, 10, 20, 30, 0, time.UTC)

	v, err := p.Encode(ts, column(types.NewDate("")))
	asserts.NoError(err)
	asserts.Equal("2021-03-01", v)

	v, err = p.Encode(ts, column(types.NewTime("")))
	asserts.NoError(err)
	asserts.Equal("10:20:30", v)

	v, err = p.Encode(ts, column(types.NewDateTime("")))
	asserts.NoError(err)
	asserts.Equal("2021-03-01 10:20:30", v)

	v, err = p.Decode("2021-03-01 10:20:30", column(types.NewDateTime("")))
	require.NoError(t, err)
	asserts.True(ts.Equal(v.(time.Time)))

	v, err = p.Decode("2021-03-01 10:20:30+00:00", column(types.NewDateTimeTz("")))
	require.NoError(t, err)
	asserts.True(ts.Equal(v.(time.Time)))

	v, err = p.Decode("2021-03-01", column(types.NewDate("")))
	require.NoError(t, err)
	asserts.Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), v)

	_, err = p.Decode("yesterday", column(types.NewDateTime("")))
	asserts.Error(err)

	_, err = p.Encode(5, column(types.NewDate("")))
	asserts.Error(err)
}

// TestCodec_UUID checks the canonical uuid normalization.
func TestCodec_UUID(t *testing.T) {
	asserts := assert.New(t)
	p := postgres.New()
	col := column(types.NewUuid(""))

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	v, err := p.Encode(id, col)
	asserts.NoError(err)
	asserts.Equal(id.String(), v)

	v, err = p.Encode(id.String(), col)
	asserts.NoError(err)
	asserts.Equal(id.String(), v)

	_, err = p.Encode("not-a-uuid", col)
	asserts.Error(err)

	v, err = p.Decode(id.String(), col)
	asserts.NoError(err)
	asserts.Equal(id, v)

	raw, _ := id.MarshalBinary()
	v, err = p.Decode(raw, col)
	asserts.NoError(err)
	asserts.Equal(id, v)

	_, err = p.Decode("broken", col)
	asserts.Error(err)
}
