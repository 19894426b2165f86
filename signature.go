// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Kind is a declared parameter or return type marker.
//
// Values decoded from a request body are JSON values: json.Number for
// numbers, string, bool, []any and map[string]any. Handlers invoked
// in-process may also supply native Go values, so the numeric kinds
// accept every Go integer and float width.
type Kind uint8

// list of type markers.
const (
	// KindAny matches every value, including null.
	KindAny Kind = iota

	// KindBool matches JSON booleans.
	KindBool

	// KindInt matches integers of any width or representation. A JSON
	// number written with a fraction or exponent is not an integer even
	// when its value is integral.
	KindInt

	// KindFloat matches floating point numbers. An integer literal is
	// not a float.
	KindFloat

	// KindString matches JSON strings.
	KindString

	// KindArray matches JSON arrays.
	KindArray

	// KindObject matches JSON objects.
	KindObject

	// KindVoid is the return marker for methods that must produce no
	// value. It is not usable as a parameter type.
	KindVoid
)

var kindNames = [...]string{
	KindAny:    "any",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
	KindVoid:   "void",
}

// String returns the name of k as reported by rpc.describe.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Matches reports whether v is an instance of k.
func (k Kind) Matches(v any) bool {
	switch k {
	case KindAny:
		return true
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindInt:
		return isInt(v)
	case KindFloat:
		return isFloat(v)
	case KindString:
		_, ok := v.(string)
		return ok
	case KindArray:
		if _, ok := v.([]any); ok {
			return true
		}
		rk := reflect.ValueOf(v).Kind()
		return rk == reflect.Slice || rk == reflect.Array
	case KindObject:
		if _, ok := v.(map[string]any); ok {
			return true
		}
		return reflect.ValueOf(v).Kind() == reflect.Map
	case KindVoid:
		return v == nil
	default:
		return false
	}
}

func isInt(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		return !strings.ContainsAny(n.String(), ".eE")
	default:
		return false
	}
}

func isFloat(v any) bool {
	switch n := v.(type) {
	case float32, float64:
		return true
	case json.Number:
		return strings.ContainsAny(n.String(), ".eE")
	default:
		return false
	}
}

// Param is one declared parameter of a method.
type Param struct {
	Name string
	Type Kind
}

// Signature is the declared callable shape of a registered method: its
// ordered parameters, their defaults, whether it tolerates extra
// positional or named values, and its return type.
//
// A Signature is immutable after registration.
type Signature struct {
	// Params are the declared parameters in call order.
	Params []Param

	// Defaults maps parameter names to the value used when a call
	// omits them.
	Defaults map[string]any

	// Variadic marks methods accepting positional values beyond the
	// declared parameters.
	Variadic bool

	// ExtraNamed marks methods accepting named values outside the
	// declared parameters.
	ExtraNamed bool

	// Returns is the declared return kind. KindVoid means the method
	// must not produce a value.
	Returns Kind

	// Doc is the description reported by rpc.describe.
	Doc string
}

// declares reports whether name is one of the declared parameters.
func (s *Signature) declares(name string) bool {
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Collect resolves the name to value mapping for a call: defaults first,
// then positional values matched to the declared names in order, then
// named values. Positional values beyond the declared parameters are
// variadic overflow and carry no name.
func (s *Signature) Collect(params Params) map[string]any {
	values := make(map[string]any, len(s.Params))
	for name, value := range s.Defaults {
		values[name] = value
	}

	if params.IsNamed() {
		for name, value := range params.Named() {
			values[name] = value
		}
		return values
	}

	for i, value := range params.Positional() {
		if i >= len(s.Params) {
			break
		}
		values[s.Params[i].Name] = value
	}
	return values
}

// Params is the params member of a request message: either an ordered
// list of positional values or a mapping of name to value.
//
// The zero value is an empty positional list, which is also what an
// absent params member resolves to.
type Params struct {
	positional []any
	named      map[string]any
	isNamed    bool
}

// PositionalParams returns positional Params holding values.
func PositionalParams(values ...any) Params {
	return Params{positional: values}
}

// NamedParams returns named Params holding values.
func NamedParams(values map[string]any) Params {
	return Params{named: values, isNamed: true}
}

// IsNamed reports whether the params were supplied as a mapping.
func (p Params) IsNamed() bool { return p.isNamed }

// Positional returns the ordered values of positional params.
func (p Params) Positional() []any { return p.positional }

// Named returns the name to value mapping of named params.
func (p Params) Named() map[string]any { return p.named }

// Len returns the number of supplied values.
func (p Params) Len() int {
	if p.isNamed {
		return len(p.named)
	}
	return len(p.positional)
}
