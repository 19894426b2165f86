// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DescribeMethod is the name of the built-in description method every
// registry carries.
const DescribeMethod = "rpc.describe"

// Handler is the callable bound to a method name.
//
// The params are the caller supplied values in whichever shape the
// request carried them. Handlers report domain failures through the
// returned error; a *Error keeps its code on the wire, anything else is
// wrapped as an internal error by the dispatcher.
type Handler func(ctx context.Context, params Params) (any, error)

// MethodEntry binds a method name to its wrapped handler and declared
// signature. Entries are immutable after registration.
type MethodEntry struct {
	// Name is the fully qualified method name.
	Name string

	// Handler is the wrapped callable invoked for the method.
	Handler Handler

	// Signature is the declared signature, nil for opaque handlers
	// registered without one.
	Signature *Signature
}

// Registry stores methods by name and dispatches request bodies to them.
//
// Registration is a build time activity: the method table is expected to
// be read-only once requests start flowing. Dispatch itself is safe for
// concurrent use.
type Registry struct {
	logger *zap.Logger
	debug  bool

	// insertion ordered method table.
	names   []string
	methods map[string]*MethodEntry

	tracebacks tracebackStore
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger applies a custom logger to the Registry.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithDebug enables recording of failure tracebacks for the debugger
// collaborator.
func WithDebug() Option {
	return func(r *Registry) {
		r.debug = true
	}
}

// NewRegistry creates a Registry holding only the built-in rpc.describe
// method.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		methods: make(map[string]*MethodEntry),
	}

	for _, opt := range options {
		opt(r)
	}

	// the default logger does nothing
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	r.registerDescribe()

	return r
}

// Debug reports whether the registry records failure tracebacks.
func (r *Registry) Debug() bool { return r.debug }

// Register registers handler under name, overwriting any existing entry
// while keeping its enumeration position. A nil sig registers an opaque
// handler whose params are not validated before invocation.
func (r *Registry) Register(name string, handler Handler, sig *Signature) error {
	if handler == nil {
		return fmt.Errorf("handler for method %q must not be nil", name)
	}
	if _, ok := r.methods[name]; !ok {
		r.names = append(r.names, name)
	}
	r.methods[name] = &MethodEntry{
		Name:      name,
		Handler:   handler,
		Signature: sig,
	}
	return nil
}

// MethodOption configures the signature built by Method.
type MethodOption func(*Signature)

// WithDefaults declares default values for trailing parameters.
func WithDefaults(defaults map[string]any) MethodOption {
	return func(s *Signature) {
		s.Defaults = defaults
	}
}

// WithVariadic declares that the method accepts positional values
// beyond its declared parameters.
func WithVariadic() MethodOption {
	return func(s *Signature) {
		s.Variadic = true
	}
}

// WithExtraNamed declares that the method accepts named values outside
// its declared parameters.
func WithExtraNamed() MethodOption {
	return func(s *Signature) {
		s.ExtraNamed = true
	}
}

// WithDoc sets the description reported by rpc.describe.
func WithDoc(doc string) MethodOption {
	return func(s *Signature) {
		s.Doc = doc
	}
}

// Method registers handler under name with a declared signature.
//
// paramNames are the handler's parameters in call order; types must
// declare exactly one entry per name plus the reserved "returns" entry.
// The declaration is checked now, at registration time. The registered
// handler is wrapped so that every invocation type-checks the supplied
// values before handler runs and its returned value after, and is also
// returned so callers can invoke it directly.
func (r *Registry) Method(name string, handler Handler, paramNames []string, types map[string]Kind, options ...MethodOption) (Handler, error) {
	if err := CheckTypeDeclaration(paramNames, types); err != nil {
		return nil, fmt.Errorf("registering method %q: %w", name, err)
	}

	sig := &Signature{
		Params:  make([]Param, len(paramNames)),
		Returns: types[ReturnsKey],
	}
	for i, pname := range paramNames {
		sig.Params[i] = Param{Name: pname, Type: types[pname]}
	}
	for _, opt := range options {
		opt(sig)
	}

	wrapped := TypeChecked(handler, sig)
	if err := r.Register(name, wrapped, sig); err != nil {
		return nil, err
	}
	return wrapped, nil
}

// TypeChecked wraps handler so every invocation checks the supplied
// values against the declared parameter types and the result against
// the declared return type.
func TypeChecked(handler Handler, sig *Signature) Handler {
	return func(ctx context.Context, params Params) (any, error) {
		if err := CheckTypes(sig.Collect(params), sig.Params); err != nil {
			return nil, err
		}

		result, err := handler(ctx, params)
		if err != nil {
			return nil, err
		}

		if err := CheckReturnType(result, sig.Returns); err != nil {
			return nil, err
		}
		return result, nil
	}
}

// lookup returns the entry registered under name.
func (r *Registry) lookup(name string) (*MethodEntry, bool) {
	entry, ok := r.methods[name]
	return entry, ok
}

// ParamDescription describes one declared parameter of a method.
type ParamDescription struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MethodDescription describes one registered method.
type MethodDescription struct {
	Name        string             `json:"name"`
	Params      []ParamDescription `json:"params"`
	Returns     string             `json:"returns,omitempty"`
	Description string             `json:"description,omitempty"`
}

// Description is the result of rpc.describe.
type Description struct {
	Methods []MethodDescription `json:"methods"`
}

// Describe returns a description of every registered method in
// registration order, the built-in rpc.describe included.
func (r *Registry) Describe() Description {
	desc := Description{
		Methods: make([]MethodDescription, 0, len(r.names)),
	}
	for _, name := range r.names {
		desc.Methods = append(desc.Methods, describeMethod(r.methods[name]))
	}
	return desc
}

func describeMethod(entry *MethodEntry) MethodDescription {
	desc := MethodDescription{Name: entry.Name}
	if entry.Signature == nil {
		return desc
	}

	desc.Params = make([]ParamDescription, len(entry.Signature.Params))
	for i, p := range entry.Signature.Params {
		desc.Params[i] = ParamDescription{Name: p.Name, Type: p.Type.String()}
	}
	if entry.Signature.Returns != KindVoid {
		desc.Returns = entry.Signature.Returns.String()
	}
	desc.Description = entry.Signature.Doc
	return desc
}

const describeDoc = "Returns a description of all the methods in the registry."

func (r *Registry) registerDescribe() {
	sig := &Signature{
		Returns: KindObject,
		Doc:     describeDoc,
	}
	// Register never fails for a non-nil handler.
	_ = r.Register(DescribeMethod, func(context.Context, Params) (any, error) {
		return r.Describe(), nil
	}, sig)
}
