// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

// This file contains the pure validation operations run around every
// typed handler: parameter shape, parameter types, registration-time
// type declarations and return types.

package typedrpc

import (
	"fmt"

	"go.uber.org/multierr"
)

// ReturnsKey is the reserved key declaring a method's return type. It
// may never be used as a parameter name.
const ReturnsKey = "returns"

// ValidateParamsMatch checks that the supplied params structurally
// satisfy the signature: arity for positional params, required-name
// coverage for named params.
//
// A nil signature accepts anything.
func ValidateParamsMatch(sig *Signature, params Params) error {
	if sig == nil {
		return nil
	}

	if !params.IsNamed() {
		supplied := len(params.Positional())
		if supplied > len(sig.Params) && !sig.Variadic {
			return Errorf(InvalidParams, "too many parameters")
		}
		if remaining := len(sig.Params) - supplied; remaining > len(sig.Defaults) {
			return Errorf(InvalidParams, "not enough parameters")
		}
		return nil
	}

	named := params.Named()
	for _, p := range sig.Params {
		if _, ok := named[p.Name]; ok {
			continue
		}
		if _, ok := sig.Defaults[p.Name]; !ok {
			return Errorf(InvalidParams, "parameter %q has not been satisfied", p.Name)
		}
	}

	if !sig.ExtraNamed {
		for name := range named {
			if !sig.declares(name) {
				return Errorf(InvalidParams, "too many parameters")
			}
		}
	}
	return nil
}

// CheckTypes checks that every declared parameter is present in values
// and matches its declared kind.
func CheckTypes(values map[string]any, declared []Param) error {
	for _, p := range declared {
		value, ok := values[p.Name]
		if !ok {
			return Errorf(InvalidParams, "parameter %q is missing", p.Name)
		}
		if !p.Type.Matches(value) {
			return Errorf(InvalidParams, "value %v for parameter %q is not of expected type %s", value, p.Name, p.Type)
		}
	}
	return nil
}

// CheckTypeDeclaration checks, at registration time, that types holds
// exactly one entry per declared parameter name plus the reserved
// "returns" entry. All declaration problems are reported together.
func CheckTypeDeclaration(paramNames []string, types map[string]Kind) error {
	var errs error
	for _, name := range paramNames {
		if name == ReturnsKey {
			errs = multierr.Append(errs, fmt.Errorf("%q may not be used as a parameter name", ReturnsKey))
		}
	}
	if _, ok := types[ReturnsKey]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("missing return type declaration"))
	}
	if len(paramNames) != len(types)-1 {
		errs = multierr.Append(errs, fmt.Errorf("number of method parameters (%d) does not match number of declared types (%d)", len(paramNames), len(types)-1))
	}
	for _, name := range paramNames {
		if name == ReturnsKey {
			continue
		}
		if _, ok := types[name]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("parameter %q does not have a declared type", name))
		}
	}
	return errs
}

// CheckReturnType checks that value matches the declared return kind.
// KindVoid demands that no value was produced.
func CheckReturnType(value any, returns Kind) error {
	if returns == KindVoid {
		if value != nil {
			return Errorf(InvalidReturnType, "returned value is %v but no value was expected", value)
		}
		return nil
	}
	if !returns.Matches(value) {
		return Errorf(InvalidReturnType, "type of return value %v does not match expected type %s", value, returns)
	}
	return nil
}
