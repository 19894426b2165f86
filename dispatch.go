// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Dispatch parses body as a JSON-RPC request (single or batch), invokes
// the matched methods and returns the serialized response body.
//
// A nil body result means no response must be sent: the input was an
// empty batch or consisted only of notifications. A non-nil error is
// only returned when the assembled reply itself cannot be serialized;
// every protocol or handler failure is encoded into the reply instead.
func (r *Registry) Dispatch(ctx context.Context, body []byte) ([]byte, error) {
	var parsed any
	if err := codec.Unmarshal(body, &parsed); err != nil {
		r.logger.Debug("dispatch parse failure", zap.Error(err))
		resp := NewErrorResponse(nil, Errorf(ParseError, "could not parse request data %q", body))
		return codec.Marshal(resp)
	}

	// An array is a batch and always yields array shaped (or absent)
	// output; anything else is a single message.
	messages, batch := []any{parsed}, false
	if arr, ok := parsed.([]any); ok {
		messages, batch = arr, true
	}

	responses := make([]*Response, 0, len(messages))
	for _, msg := range messages {
		if resp := r.dispatchAndHandleErrors(ctx, msg); resp != nil {
			responses = append(responses, resp)
		}
	}

	// Notifications and empty batches produce no reply at all.
	if len(responses) == 0 {
		return nil, nil
	}

	if !batch {
		data, err := codec.Marshal(responses[0])
		if err != nil {
			return nil, fmt.Errorf("marshaling response: %w", err)
		}
		return data, nil
	}

	data, err := codec.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch response: %w", err)
	}
	return data, nil
}

// dispatchAndHandleErrors evaluates one message independently of its
// batch siblings. It returns nil for notifications, whether the call
// succeeded or failed.
func (r *Registry) dispatchAndHandleErrors(ctx context.Context, msg any) *Response {
	obj, isObject := msg.(map[string]any)

	// A message is a notification iff it has no id key at all. An
	// explicit null id is a malformed request instead, so the id has to
	// be inspected before any well-formedness check runs.
	var id any
	hasID := false
	if isObject {
		id, hasID = obj["id"]
	}
	notification := isObject && !hasID

	method, _ := methodName(obj)

	result, err := r.dispatchMessage(ctx, msg)
	if notification {
		if err != nil {
			r.logger.Debug("notification failed",
				zap.String("method", method),
				zap.Error(err),
			)
		}
		return nil
	}

	if err != nil {
		return NewErrorResponse(id, r.responseError(method, err))
	}
	return NewResponse(id, result)
}

// dispatchMessage runs the well-formedness checks, resolves the method
// and invokes it.
func (r *Registry) dispatchMessage(ctx context.Context, msg any) (any, error) {
	obj, ok := msg.(map[string]any)
	if !ok {
		return nil, Errorf(InvalidRequest, "request message must be an object, got %v", msg)
	}
	if err := r.checkRequest(obj); err != nil {
		return nil, err
	}

	name, _ := methodName(obj)
	entry, _ := r.lookup(name)

	params, err := messageParams(obj)
	if err != nil {
		return nil, err
	}
	if err := ValidateParamsMatch(entry.Signature, params); err != nil {
		return nil, err
	}

	r.logger.Debug("dispatching",
		zap.String("method", name),
		zap.Int("params", params.Len()),
	)
	return r.invoke(ctx, entry, params)
}

// checkRequest checks that the message is well-formed. Well-formedness
// failures always win over method resolution: the method name is only
// looked up once the envelope itself is valid.
func (r *Registry) checkRequest(obj map[string]any) error {
	tag, ok := obj["jsonrpc"]
	if !ok {
		return Errorf(InvalidRequest, `'"jsonrpc": "2.0"' must be included`)
	}
	if s, ok := tag.(string); !ok || s != Version {
		return Errorf(InvalidRequest, "jsonrpc must be exactly the string %q, but it was %v", Version, tag)
	}

	if _, ok := obj["method"]; !ok {
		return Errorf(InvalidRequest, "no method specified")
	}

	if id, ok := obj["id"]; ok {
		if id == nil {
			return Errorf(InvalidRequest, "id must not be null")
		}
		if _, isString := id.(string); !isString {
			// Exactness of the underlying type governs: 1 is an
			// integer id, 1.0 is not.
			if isFloat(id) {
				return Errorf(InvalidRequest, "float ids are not supported")
			}
			if !isInt(id) {
				return Errorf(InvalidRequest, "id must be a string or integer; %v is of type %T", id, id)
			}
		}
	}

	name, ok := methodName(obj)
	if !ok {
		return Errorf(MethodNotFound, "could not find method %v", obj["method"])
	}
	if _, ok := r.lookup(name); !ok {
		return Errorf(MethodNotFound, "could not find method %q", name)
	}
	return nil
}

// methodName extracts the method member of obj, reporting whether it is
// present and a string.
func methodName(obj map[string]any) (string, bool) {
	name, ok := obj["method"].(string)
	return name, ok
}

// messageParams resolves the params member into its positional or named
// form. An absent member is an empty positional list.
func messageParams(obj map[string]any) (Params, error) {
	raw, ok := obj["params"]
	if !ok {
		return PositionalParams(), nil
	}
	switch p := raw.(type) {
	case []any:
		return PositionalParams(p...), nil
	case map[string]any:
		return NamedParams(p), nil
	default:
		return Params{}, Errorf(InvalidRequest, "given params %v are neither a list nor a mapping", raw)
	}
}

// panicError carries the recovered value and stack of a handler panic.
type panicError struct {
	value any
	stack []byte
}

// Error implements error.
func (e *panicError) Error() string { return fmt.Sprintf("handler panic: %v", e.value) }

// invoke calls the handler, converting panics into errors so that a
// failing handler can never take the dispatcher down.
func (r *Registry) invoke(ctx context.Context, entry *MethodEntry, params Params) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()

	return entry.Handler(ctx, params)
}

// responseError shapes err into the error object of a reply. Known
// *Error values keep their code; anything else becomes an InternalError
// whose data carries the failure's type, message and stack trace. In
// debug mode both paths additionally record a traceback snapshot and
// reference it through a debug_url token.
func (r *Registry) responseError(method string, err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		if !r.debug {
			return rpcErr
		}
		token := r.storeTraceback(method, err)
		return NewError(rpcErr.Code, map[string]any{
			"message":   rpcErr.Data,
			"debug_url": token,
		})
	}

	stack := debug.Stack()
	var perr *panicError
	if errors.As(err, &perr) {
		stack = perr.stack
	}

	r.logger.Error("internal error",
		zap.String("method", method),
		zap.Error(err),
	)

	data := map[string]any{
		"type":      fmt.Sprintf("%T", err),
		"message":   err.Error(),
		"traceback": string(stack),
	}
	if r.debug {
		data["debug_url"] = r.storeTraceback(method, err)
	}
	return NewError(InternalError, data)
}
