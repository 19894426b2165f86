// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typedrpc/typedrpc"
)

func TestErrorCodeTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code       typedrpc.Code
		message    string
		httpStatus int
	}{
		{typedrpc.ParseError, "Parse error", http.StatusBadRequest},
		{typedrpc.InvalidRequest, "Invalid request", http.StatusBadRequest},
		{typedrpc.MethodNotFound, "Method not found", http.StatusNotFound},
		{typedrpc.InvalidParams, "Invalid params", http.StatusInternalServerError},
		{typedrpc.InternalError, "Internal error", http.StatusInternalServerError},
		{typedrpc.ServerError, "Server error", http.StatusInternalServerError},
		{typedrpc.InvalidReturnType, "Invalid return type", http.StatusInternalServerError},
	}

	for _, test := range tests {
		test := test
		t.Run(test.message, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.message, test.code.String())
			assert.Equal(t, test.httpStatus, typedrpc.HTTPStatus(test.code))
		})
	}
}

func TestErrorCodeValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, typedrpc.Code(-32700), typedrpc.ParseError)
	assert.Equal(t, typedrpc.Code(-32600), typedrpc.InvalidRequest)
	assert.Equal(t, typedrpc.Code(-32601), typedrpc.MethodNotFound)
	assert.Equal(t, typedrpc.Code(-32602), typedrpc.InvalidParams)
	assert.Equal(t, typedrpc.Code(-32603), typedrpc.InternalError)
	assert.Equal(t, typedrpc.Code(-32000), typedrpc.ServerError)
	assert.Equal(t, typedrpc.Code(-32001), typedrpc.InvalidReturnType)
}

func TestHTTPStatusUnknownCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, typedrpc.HTTPStatus(typedrpc.Code(-32050)))
}

func TestErrorMarshal(t *testing.T) {
	t.Parallel()

	t.Run("data present", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(typedrpc.Errorf(typedrpc.MethodNotFound, "could not find method %q", "x"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":-32601,"message":"Method not found","data":"could not find method \"x\""}`, string(data))
	})

	t.Run("data absent encodes as null", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(typedrpc.NewError(typedrpc.ParseError, nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":-32700,"message":"Parse error","data":null}`, string(data))
	})
}

func TestErrorError(t *testing.T) {
	t.Parallel()

	err := typedrpc.NewError(typedrpc.InvalidParams, "too many parameters")
	assert.Equal(t, "Invalid params", err.Error())
	assert.EqualError(t, err.Unwrap(), "Invalid params")

	var nilErr *typedrpc.Error
	assert.Equal(t, "", nilErr.Error())
}
