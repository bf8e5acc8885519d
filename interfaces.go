package microdi

// Scope defines the lifetime and sharing behavior of a constructed type.
type Scope string

// Available scopes
const (
	// ScopeTransient creates a new instance for each resolution
	ScopeTransient Scope = "transient"
	// ScopeSingleton shares a single instance for the container lifetime
	ScopeSingleton Scope = "singleton"
)

// Scoped lets a type declare its own scope. The container calls Scope on
// a zero value of the type, so the result must not depend on any state.
type Scoped interface {
	Scope() Scope
}

// PostConstructor is the lifecycle hook invoked exactly once after a type
// has been constructed and its fields injected. It is not invoked for
// instances returned from the singleton cache or produced by providers.
type PostConstructor interface {
	PostConstruct() error
}

// Provider is a zero-argument factory producing an instance of a bound
// type. Providers may wrap a pre-built value, construct lazily, or
// acquire external resources. A provider error or panic is surfaced to
// the caller as a ProviderError.
type Provider func() (any, error)
