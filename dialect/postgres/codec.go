// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/dialect/types"
)

// Error messages.
var (
	ErrEncode = "postgres: can not encode %v (%T) as %s"
	ErrDecode = "postgres: can not decode %v (%T) as %s"
	ErrHstore = "postgres: malformed hstore literal %q"
	ErrArray  = "postgres: malformed array literal %q"
	ErrCube   = "postgres: malformed cube literal %q"
)

// storage formats of the date/time family.
const (
	layoutDate       = "2006-01-02"
	layoutTime       = "15:04:05.999999"
	layoutDateTime   = "2006-01-02 15:04:05.999999"
	layoutDateTimeTz = "2006-01-02 15:04:05.999999-07:00"
)

// datetimeLayouts are accepted on decode, tried in order.
var datetimeLayouts = []string{
	layoutDateTimeTz,
	"2006-01-02 15:04:05.999999999-07",
	layoutDateTime,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	layoutDate,
}

// Encode transforms a domain value to its postgres storage representation.
// A nil value passes through unchanged.
func (p *postgres) Encode(value interface{}, col dialect.Column) (interface{}, error) {
	if value == nil || col.Type == nil {
		return value, nil
	}

	switch col.Type.Kind() {
	case types.BOOL:
		return encodeBool(value)
	case types.INTEGER:
		return dialect.SanitizeInterfaceValue(value)
	case types.SIMPLEARRAY:
		return encodeSimpleArray(value)
	case types.SIMPLEJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case types.JSON:
		return encodeJSON(value)
	case types.ENUM:
		if col.Array {
			return encodeEnumArray(value)
		}
		return fmt.Sprintf("%v", value), nil
	case types.HSTORE:
		return encodeHstore(value, col)
	case types.LTREE:
		return encodeLtree(value), nil
	case types.CUBE:
		if col.Array {
			return encodeCubeArray(value, col)
		}
		return encodeCube(value, col)
	case types.DATE:
		return encodeTime(value, layoutDate)
	case types.TIME:
		return encodeTime(value, layoutTime)
	case types.DATETIME:
		return encodeTime(value, layoutDateTime)
	case types.DATETIMETZ:
		return encodeTime(value, layoutDateTimeTz)
	case types.UUID:
		return encodeUUID(value)
	}

	return value, nil
}

// Decode transforms a postgres storage value back to its domain
// representation. A nil value passes through unchanged.
func (p *postgres) Decode(value interface{}, col dialect.Column) (interface{}, error) {
	if value == nil || col.Type == nil {
		return value, nil
	}

	switch col.Type.Kind() {
	case types.BOOL:
		return decodeBool(value)
	case types.INTEGER:
		return dialect.SanitizeInterfaceValue(value)
	case types.SIMPLEARRAY:
		return decodeSimpleArray(value)
	case types.SIMPLEJSON, types.JSON:
		return decodeJSON(value)
	case types.ENUM:
		return decodeEnum(value, col)
	case types.HSTORE:
		return decodeHstore(asString(value))
	case types.LTREE:
		return asString(value), nil
	case types.CUBE:
		if col.Array {
			return decodeCubeArray(asString(value))
		}
		return decodeCube(asString(value))
	case types.DATE, types.DATETIME, types.DATETIMETZ:
		return decodeDateTime(value, col)
	case types.TIME:
		return asString(value), nil
	case types.UUID:
		return decodeUUID(value)
	}

	return value, nil
}

// asString normalizes driver strings and byte slices.
func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return fmt.Sprintf("%v", value)
}

// encodeBool normalizes a logical boolean for the native boolean type.
// Integer 0/1 input is accepted.
func encodeBool(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	}
	if i, err := dialect.SanitizeInterfaceValue(value); err == nil {
		if n, ok := i.(int64); ok {
			return n != 0, nil
		}
	}
	return nil, fmt.Errorf(ErrEncode, value, value, types.BOOL)
}

// decodeBool accepts the native boolean, an integer or a driver text
// representation and normalizes to a logical boolean.
func decodeBool(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string, []byte:
		switch asString(value) {
		case "t", "true", "1":
			return true, nil
		case "f", "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf(ErrDecode, value, value, types.BOOL)
	default:
		if i, err := dialect.SanitizeInterfaceValue(v); err == nil {
			if n, ok := i.(int64); ok {
				return n != 0, nil
			}
		}
	}
	return nil, fmt.Errorf(ErrDecode, value, value, types.BOOL)
}

// encodeSimpleArray joins the elements with a comma.
// Elements containing the separator are a caller constraint, no escaping is
// applied.
func encodeSimpleArray(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ","), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf(ErrEncode, value, value, types.SIMPLEARRAY)
	}
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = fmt.Sprintf("%v", rv.Index(i).Interface())
	}
	return strings.Join(parts, ","), nil
}

// decodeSimpleArray splits the stored string on commas.
// An empty string decodes to an empty slice.
func decodeSimpleArray(value interface{}) (interface{}, error) {
	s := asString(value)
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, ","), nil
}

// encodeJSON keeps raw json strings and marshals everything else.
func encodeJSON(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// decodeJSON reproduces the structural value of the stored document.
func decodeJSON(value interface{}) (interface{}, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		// the driver already returned a structural value.
		return value, nil
	}
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf(ErrDecode, value, value, types.JSON)
	}
	return out, nil
}

// encodeEnumArray builds the postgres array literal.
// Values containing the delimiter or quote characters are quoted and escaped
// with a backslash convention.
func encodeEnumArray(value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf(ErrEncode, value, value, types.ENUM)
	}
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = quoteArrayElement(fmt.Sprintf("%v", rv.Index(i).Interface()))
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// decodeEnum reverses the enum encoding.
// If the enum was declared over integer values the members are coerced back.
func decodeEnum(value interface{}, col dialect.Column) (interface{}, error) {
	numeric := false
	if e, ok := col.Type.(*types.Enum); ok {
		numeric = e.Numeric
	}

	if !col.Array {
		s := asString(value)
		if numeric {
			return coerceNumber(s)
		}
		return s, nil
	}

	elems, nulls, err := parseArrayLiteral(asString(value))
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(elems))
	for i, e := range elems {
		if nulls[i] {
			continue
		}
		if numeric {
			n, err := coerceNumber(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
			continue
		}
		out[i] = e
	}
	return out, nil
}

// coerceNumber converts a stored enum member back to its integer value.
func coerceNumber(s string) (interface{}, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(ErrDecode, s, s, types.ENUM)
	}
	return n, nil
}

// quoteArrayElement quotes an array element if it contains the literal
// delimiter, braces, quote or escape characters or is empty.
func quoteArrayElement(s string) string {
	if s != "" && !strings.ContainsAny(s, `,{}"\ `) && s != "NULL" {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// parseArrayLiteral splits a `{...}` literal into its raw elements.
// The second return marks unquoted NULL tokens.
func parseArrayLiteral(s string) ([]string, []bool, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, nil, fmt.Errorf(ErrArray, s)
	}
	inner := trimmed[1 : len(trimmed)-1]
	if inner == "" {
		return nil, nil, nil
	}

	var elems []string
	var nulls []bool
	var buf strings.Builder
	quoted := false
	wasQuoted := false

	flush := func() {
		e := buf.String()
		if !wasQuoted {
			e = strings.TrimSpace(e)
		}
		elems = append(elems, e)
		nulls = append(nulls, !wasQuoted && e == "NULL")
		buf.Reset()
		wasQuoted = false
	}

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quoted && c == '\\':
			if i+1 >= len(inner) {
				return nil, nil, fmt.Errorf(ErrArray, s)
			}
			i++
			buf.WriteByte(inner[i])
		case c == '"':
			quoted = !quoted
			wasQuoted = true
		case c == ',' && !quoted:
			flush()
		default:
			buf.WriteByte(c)
		}
	}
	if quoted {
		return nil, nil, fmt.Errorf(ErrArray, s)
	}
	flush()

	return elems, nulls, nil
}

// encodeHstore writes the `"k"=>"v"` pair representation.
// Keys are sorted for a deterministic literal, a nil value encodes as the
// unquoted NULL token.
func encodeHstore(value interface{}, col dialect.Column) (interface{}, error) {
	var m map[string]interface{}
	switch v := value.(type) {
	case map[string]interface{}:
		m = v
	case map[string]string:
		m = make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf(ErrEncode, value, value, types.HSTORE)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(m))
	for _, k := range keys {
		v := m[k]
		if v == nil {
			parts = append(parts, `"`+hstoreEscape(k)+`"=>NULL`)
			continue
		}
		parts = append(parts, `"`+hstoreEscape(k)+`"=>"`+hstoreEscape(fmt.Sprintf("%v", v))+`"`)
	}
	return strings.Join(parts, ","), nil
}

// hstoreEscape prefixes embedded quotes and backslashes with a backslash.
func hstoreEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}

// decodeHstore parses the pair representation back into a map.
// The unquoted NULL token decodes to a logical nil, distinguishable from the
// quoted string "NULL". A malformed literal is a data integrity error.
func decodeHstore(s string) (interface{}, error) {
	out := map[string]interface{}{}
	i := 0
	n := len(s)

	skipSpace := func() {
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
	}

	// readQuoted reads a backslash escaped quoted token.
	readQuoted := func() (string, bool) {
		if i >= n || s[i] != '"' {
			return "", false
		}
		i++
		var buf strings.Builder
		for i < n {
			switch s[i] {
			case '\\':
				if i+1 >= n {
					return "", false
				}
				buf.WriteByte(s[i+1])
				i += 2
			case '"':
				i++
				return buf.String(), true
			default:
				buf.WriteByte(s[i])
				i++
			}
		}
		return "", false
	}

	skipSpace()
	for i < n {
		key, ok := readQuoted()
		if !ok {
			return nil, fmt.Errorf(ErrHstore, s)
		}
		skipSpace()
		if i+1 >= n || s[i] != '=' || s[i+1] != '>' {
			return nil, fmt.Errorf(ErrHstore, s)
		}
		i += 2
		skipSpace()

		if strings.HasPrefix(s[i:], "NULL") {
			out[key] = nil
			i += 4
		} else {
			val, ok := readQuoted()
			if !ok {
				return nil, fmt.Errorf(ErrHstore, s)
			}
			out[key] = val
		}

		skipSpace()
		if i < n {
			if s[i] != ',' {
				return nil, fmt.Errorf(ErrHstore, s)
			}
			i++
			skipSpace()
			if i >= n {
				return nil, fmt.Errorf(ErrHstore, s)
			}
		}
	}

	return out, nil
}

// encodeLtree joins the segments with dots.
// Embedded whitespace is normalized to underscores, empty segments dropped.
func encodeLtree(value interface{}) string {
	var segments []string
	switch v := value.(type) {
	case []string:
		segments = v
	default:
		segments = strings.Split(asString(value), ".")
	}

	var out []string
	for _, seg := range segments {
		seg = strings.Join(strings.Fields(seg), "_")
		if seg == "" {
			continue
		}
		out = append(out, seg)
	}
	return strings.Join(out, ".")
}

// cubeValues converts the supported tuple representations to float64.
func cubeValues(value interface{}) ([]float64, bool) {
	switch v := value.(type) {
	case []float64:
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev := reflect.ValueOf(rv.Index(i).Interface())
		switch ev.Kind() {
		case reflect.Float32, reflect.Float64:
			out[i] = ev.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out[i] = float64(ev.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out[i] = float64(ev.Uint())
		default:
			return nil, false
		}
	}
	return out, true
}

// encodeCube writes the parenthesized comma list of a numeric tuple.
func encodeCube(value interface{}, col dialect.Column) (interface{}, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	vals, ok := cubeValues(value)
	if !ok {
		return nil, fmt.Errorf(ErrEncode, value, value, types.CUBE)
	}
	parts := make([]string, len(vals))
	for i, f := range vals {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

// encodeCubeArray writes the curly brace list of quoted tuple literals.
// A nil tuple encodes as unquoted NULL so sparse sequences keep alignment.
func encodeCubeArray(value interface{}, col dialect.Column) (interface{}, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf(ErrEncode, value, value, types.CUBE)
	}
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if elem == nil || (rv.Index(i).Kind() == reflect.Slice && rv.Index(i).IsNil()) {
			parts[i] = "NULL"
			continue
		}
		tuple, err := encodeCube(elem, col)
		if err != nil {
			return nil, err
		}
		parts[i] = `"` + tuple.(string) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// decodeCube parses a parenthesized comma list into a float tuple.
func decodeCube(s string) ([]float64, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 || trimmed[0] != '(' || trimmed[len(trimmed)-1] != ')' {
		return nil, fmt.Errorf(ErrCube, s)
	}
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []float64{}, nil
	}
	parts := strings.Split(inner, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf(ErrCube, s)
		}
		out[i] = f
	}
	return out, nil
}

// decodeCubeArray parses the curly brace list, keeping nil entries aligned.
func decodeCubeArray(s string) (interface{}, error) {
	elems, nulls, err := parseArrayLiteral(s)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(elems))
	for i, e := range elems {
		if nulls[i] {
			continue
		}
		tuple, err := decodeCube(e)
		if err != nil {
			return nil, err
		}
		out[i] = tuple
	}
	return out, nil
}

// encodeTime formats the date/time family per column subtype.
func encodeTime(value interface{}, layout string) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(layout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(layout), nil
	case string:
		return v, nil
	}
	return nil, fmt.Errorf(ErrEncode, value, value, "time")
}

// decodeDateTime normalizes all timestamp subtypes to a time.Time.
func decodeDateTime(value interface{}, col dialect.Column) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	}

	s := asString(value)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf(ErrDecode, value, value, col.Type.Kind())
}

// encodeUUID normalizes uuid input to its canonical string form.
func encodeUUID(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf(ErrEncode, value, value, types.UUID)
		}
		return id.String(), nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf(ErrEncode, value, value, types.UUID)
			}
			return id.String(), nil
		}
		return encodeUUID(string(v))
	}
	return nil, fmt.Errorf(ErrEncode, value, value, types.UUID)
}

// decodeUUID normalizes the stored value to a uuid.UUID.
func decodeUUID(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf(ErrDecode, value, value, types.UUID)
			}
			return id, nil
		}
	}
	id, err := uuid.Parse(asString(value))
	if err != nil {
		return nil, fmt.Errorf(ErrDecode, value, value, types.UUID)
	}
	return id, nil
}
