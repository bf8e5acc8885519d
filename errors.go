package microdi

import "fmt"

// InvalidBindingError represents a bind-time violation of the type
// constraints on an interface binding.
type InvalidBindingError struct {
	Interface      string
	Implementation string
	Reason         string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding %s -> %s: %s", e.Interface, e.Implementation, e.Reason)
}

// NilInstanceError represents an attempt to bind a nil instance.
type NilInstanceError struct {
	Type string
}

func (e *NilInstanceError) Error() string {
	return fmt.Sprintf("nil instance provided for type: %s", e.Type)
}

// NilProviderError represents an attempt to bind a nil provider.
type NilProviderError struct {
	Type string
}

func (e *NilProviderError) Error() string {
	return fmt.Sprintf("nil provider provided for type: %s", e.Type)
}

// MissingProviderError represents a request for a non-instantiable type
// with no registered provider.
type MissingProviderError struct {
	Type string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("missing provider for non-instantiable type: %s", e.Type)
}

// UnresolvedInterfaceError represents a request for an interface with
// neither an implementation mapping nor a provider.
type UnresolvedInterfaceError struct {
	Type string
}

func (e *UnresolvedInterfaceError) Error() string {
	return fmt.Sprintf("no implementation or provider bound for interface: %s", e.Type)
}

// ProviderError represents a provider invocation failure.
type ProviderError struct {
	Type string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failed for type %s: %v", e.Type, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ConstructionError represents a failure while constructing a new
// instance of a concrete type.
type ConstructionError struct {
	Type string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction failed for type %s: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// TypeMismatchError represents a resolved value that does not fit where
// it was requested.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// PostConstructError represents a post-construct hook failure.
type PostConstructError struct {
	Type string
	Err  error
}

func (e *PostConstructError) Error() string {
	return fmt.Sprintf("post-construct failed for type %s: %v", e.Type, e.Err)
}

func (e *PostConstructError) Unwrap() error {
	return e.Err
}

// CircularDependencyError represents a circular dependency detected
// among non-singleton types during resolution.
type CircularDependencyError struct {
	Type string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected for type: %s", e.Type)
}

// InvalidTargetError represents an injection target that is not a
// non-nil pointer to struct.
type InvalidTargetError struct {
	Type string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("injection target must be a non-nil pointer to struct, got: %s", e.Type)
}
