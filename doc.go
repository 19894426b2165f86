// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package typedrpc implements a typed JSON-RPC 2.0 method registry and
// request dispatcher.
//
// https://www.jsonrpc.org/specification
//
// Methods are registered together with an explicit Signature declaring
// their parameter names, parameter types and return type. Every call is
// validated against that signature before the handler runs and the
// returned value is checked after it runs, so the wire surface of a
// registry is fully described by the signatures it holds. The built-in
// rpc.describe method reports that surface to clients.
//
// The dispatcher consumes raw request bodies and produces raw response
// bodies (or none, for notifications), leaving the transport to a thin
// adapter such as Server.
package typedrpc // import "github.com/typedrpc/typedrpc"
