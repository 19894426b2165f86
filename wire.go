// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// codec is the JSON configuration shared by the whole package.
//
// UseNumber keeps the textual form of numbers available, which the id
// rules and the Int/Float kinds depend on: "1" and "1.0" decode to
// distinct values instead of collapsing into float64.
var codec = jsoniter.Config{UseNumber: true}.Froze()

// Version represents a JSON-RPC version.
const Version = "2.0"

// version is a special 0 sized struct that encodes as the jsonrpc version tag.
//
// It will fail during decode if it is not the correct version tag in the stream.
type version struct{}

// compile time check whether the version implements a json.Marshaler and json.Unmarshaler interfaces.
var (
	_ json.Marshaler   = (*version)(nil)
	_ json.Unmarshaler = (*version)(nil)
)

// MarshalJSON implements json.Marshaler.
func (version) MarshalJSON() ([]byte, error) {
	return codec.Marshal(Version)
}

// UnmarshalJSON implements json.Unmarshaler.
func (version) UnmarshalJSON(data []byte) error {
	version := ""
	if err := codec.Unmarshal(data, &version); err != nil {
		return fmt.Errorf("failed to Unmarshal: %w", err)
	}
	if version != Version {
		return fmt.Errorf("invalid RPC version %v", version)
	}
	return nil
}

// Response is a reply to a single request message.
//
// It carries either a result or an error, never both, and always echoes
// the id of the request it answers (null for failures whose request id
// could not be determined).
type Response struct {
	id     any
	result any
	err    *Error
}

// compile time check whether the Response implements a json.Marshaler and json.Unmarshaler interfaces.
var (
	_ json.Marshaler   = (*Response)(nil)
	_ json.Unmarshaler = (*Response)(nil)
)

// NewResponse constructs a successful Response echoing id.
func NewResponse(id, result any) *Response {
	return &Response{id: id, result: result}
}

// NewErrorResponse constructs a failed Response echoing id.
func NewErrorResponse(id any, err *Error) *Response {
	return &Response{id: id, err: err}
}

func (r *Response) ID() any       { return r.id }
func (r *Response) Result() any   { return r.result }
func (r *Response) Err() *Error   { return r.err }
func (r *Response) IsError() bool { return r.err != nil }

// resultResponse is the wire form of a successful reply. The result
// member is present even when null.
type resultResponse struct {
	VersionTag version `json:"jsonrpc"`
	ID         any     `json:"id"`
	Result     any     `json:"result"`
}

// errorResponse is the wire form of a failed reply.
type errorResponse struct {
	VersionTag version `json:"jsonrpc"`
	ID         any     `json:"id"`
	Error      *Error  `json:"error"`
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		data, err := codec.Marshal(errorResponse{ID: r.id, Error: r.err})
		if err != nil {
			return nil, fmt.Errorf("marshaling error response: %w", err)
		}
		return data, nil
	}

	data, err := codec.Marshal(resultResponse{ID: r.id, Result: r.result})
	if err != nil {
		return nil, fmt.Errorf("marshaling result response: %w", err)
	}
	return data, nil
}

// combined has all the fields a reply can carry.
//
// We can decode this and then work out which it is.
type combined struct {
	VersionTag version `json:"jsonrpc"`
	ID         any     `json:"id"`
	Result     any     `json:"result"`
	Error      *Error  `json:"error"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Response) UnmarshalJSON(data []byte) error {
	var resp combined
	if err := codec.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	r.id = resp.ID
	r.result = resp.Result
	r.err = resp.Error
	return nil
}
