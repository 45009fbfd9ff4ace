// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dialect

import (
	"fmt"
	"reflect"

	"gopkg.in/guregu/null.v4"
)

// Error messages.
var (
	ErrSanitize = "dialect: can not sanitize value %v of type %s"
)

// NullString wraps gopkg.in/guregu/null.String
type NullString null.String

// NullInt wraps gopkg.in/guregu/null.Int
type NullInt null.Int

// NewNullString creates a new NullString.
func NewNullString(s string, valid bool) NullString {
	return NullString(null.NewString(s, valid))
}

// NewNullInt creates a new NullInt.
func NewNullInt(i int64, valid bool) NullInt {
	return NullInt(null.NewInt(i, valid))
}

// SanitizeInterfaceValue will convert any int, uint or NullInt to int64 and
// NullString to string. Error will return if the type is different or not
// implemented.
func SanitizeInterfaceValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case string:
		return v, nil
	case NullInt:
		if v.Valid {
			return v.Int64, nil
		}
	case NullString:
		if v.Valid {
			return v.String, nil
		}
	}

	return nil, fmt.Errorf(ErrSanitize, value, reflect.TypeOf(value).String())
}
