// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typedrpc/typedrpc"
)

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, string) {
	t.Helper()

	resp, err := srv.Client().Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestServerRPC(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	srv := httptest.NewServer(typedrpc.NewServer(registry).Handler())
	defer srv.Close()

	t.Run("successful call", func(t *testing.T) {
		resp, body := post(t, srv, "/api", `{"jsonrpc":"2.0","method":"test.add","params":[1,2],"id":1}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":3}`, body)
	})

	t.Run("method not found maps to 404", func(t *testing.T) {
		resp, body := post(t, srv, "/api", `{"jsonrpc":"2.0","method":"bogus","id":1}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, `"code":-32601`)
	})

	t.Run("invalid request maps to 400", func(t *testing.T) {
		resp, _ := post(t, srv, "/api", `{"method":"test.add","id":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("notification maps to 204", func(t *testing.T) {
		resp, body := post(t, srv, "/api", `{"jsonrpc":"2.0","method":"test.add","params":[1,2]}`)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("batch travels as 200 even with failures", func(t *testing.T) {
		resp, body := post(t, srv, "/api", `[
			{"jsonrpc":"2.0","method":"test.add","params":[1,2],"id":1},
			{"jsonrpc":"2.0","method":"bogus","id":2}
		]`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"result":3`)
		assert.Contains(t, body, `"code":-32601`)
	})

	t.Run("wrong content type", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/api", "text/plain", strings.NewReader("hi"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("get is not allowed", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/api")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServerCustomEndpoint(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	srv := httptest.NewServer(typedrpc.NewServer(registry, typedrpc.WithEndpoint("/rpc")).Handler())
	defer srv.Close()

	resp, body := post(t, srv, "/rpc", `{"jsonrpc":"2.0","method":"test.add","params":[1,2],"id":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":3}`, body)
}

func TestServerDebugEndpoint(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t, typedrpc.WithDebug())
	srv := httptest.NewServer(typedrpc.NewServer(registry).Handler())
	defer srv.Close()

	// trigger a failure so a traceback gets stored.
	out, err := registry.Dispatch(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"test.fail","id":1}`))
	require.NoError(t, err)
	require.Contains(t, string(out), "/debug/1")

	t.Run("stored traceback", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/debug/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, string(body), "traceback 1")
		assert.Contains(t, string(body), "test.fail")
		assert.Contains(t, string(body), "boom")
	})

	t.Run("unknown traceback", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/debug/999")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed traceback id", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/debug/xyz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
