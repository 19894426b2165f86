// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import "net/http"

// Code is an int64 error code as defined in the JSON-RPC spec.
type Code int64

// list of JSON-RPC error codes.
const (
	// ParseError is the invalid JSON was received by the server.
	// An error occurred on the server while parsing the JSON text.
	ParseError Code = -32700

	// InvalidRequest is the JSON sent is not a valid Request object.
	InvalidRequest Code = -32600

	// MethodNotFound is the method does not exist / is not available.
	MethodNotFound Code = -32601

	// InvalidParams is the invalid method parameter(s).
	InvalidParams Code = -32602

	// InternalError is the internal JSON-RPC error.
	InternalError Code = -32603

	// ServerError should be used for all non coded errors.
	ServerError Code = -32000

	// InvalidReturnType is returned when a handler produced a value that
	// does not match its declared return type.
	InvalidReturnType Code = -32001

	codeServerErrorStart Code = -32099
	codeServerErrorEnd   Code = -32000
)

// messages is the canonical short description for each error code.
var messages = map[Code]string{
	ParseError:        "Parse error",
	InvalidRequest:    "Invalid request",
	MethodNotFound:    "Method not found",
	InvalidParams:     "Invalid params",
	InternalError:     "Internal error",
	ServerError:       "Server error",
	InvalidReturnType: "Invalid return type",
}

// String returns the canonical message for c, or "Server error" for codes
// without one.
func (c Code) String() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[ServerError]
}

// statusCodes maps each error code to the HTTP status a transport should
// reply with when the dispatch result is a single error envelope.
var statusCodes = map[Code]int{
	ParseError:        http.StatusBadRequest,
	InvalidRequest:    http.StatusBadRequest,
	MethodNotFound:    http.StatusNotFound,
	InvalidParams:     http.StatusInternalServerError,
	InternalError:     http.StatusInternalServerError,
	ServerError:       http.StatusInternalServerError,
	InvalidReturnType: http.StatusInternalServerError,
}

// HTTPStatus returns the suggested HTTP status code for c.
//
// Unknown codes map to 500.
func HTTPStatus(c Code) int {
	if status, ok := statusCodes[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
