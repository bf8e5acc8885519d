// Package microdi provides a minimal reflection-driven dependency
// injection container. Bindings declare how a requested type is
// satisfied (interface mapping, fixed instance, or provider); resolution
// constructs the full object graph on demand, injecting fields marked
// with the inject tag and caching singleton-scoped instances lazily.
package microdi

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/enorith/supports/reflection"
)

// injectTag marks struct fields to be populated during injection.
const injectTag = "inject"

// resolutionState tracks the chain of concrete types under construction
// on a single goroutine.
type resolutionState struct {
	chain map[reflect.Type]bool
	keys  []reflect.Type
}

// Container resolves requests for types into constructed, injected
// instances according to its registered bindings. The zero value is not
// usable; create containers with New.
//
// All methods are safe for concurrent use. Providers and post-construct
// hooks run outside the container locks, so a provider may call back
// into the container from the same goroutine.
type Container struct {
	mu         sync.RWMutex
	interfaces map[reflect.Type]reflect.Type
	providers  map[reflect.Type]Provider
	forced     map[reflect.Type]struct{}
	singletons map[reflect.Type]any

	resolutionState sync.Map
	statePool       sync.Pool
}

// New creates an empty container.
func New() *Container {
	return &Container{
		interfaces: make(map[reflect.Type]reflect.Type),
		providers:  make(map[reflect.Type]Provider, 16),
		forced:     make(map[reflect.Type]struct{}),
		singletons: make(map[reflect.Type]any, 16),
		statePool: sync.Pool{
			New: func() interface{} {
				return &resolutionState{
					chain: make(map[reflect.Type]bool, 8),
					keys:  make([]reflect.Type, 0, 8),
				}
			},
		},
	}
}

// TypeOf returns the reflect.Type for T, usable with the reflect-level
// container methods. For interface type parameters it returns the
// interface type itself rather than any dynamic type.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Get resolves abs into a fully constructed and injected instance.
// abs may be a reflect.Type or a sample value of the requested type.
// A request for a struct type yields the dereferenced value; a request
// for a pointer or interface type yields the shared pointer.
func (c *Container) Get(abs any) (any, error) {
	if abs == nil {
		return nil, &InvalidTargetError{Type: "<nil>"}
	}
	req := reflection.TypeOf(abs)
	if req == nil {
		return nil, &InvalidTargetError{Type: "<nil>"}
	}
	return c.resolveAs(req)
}

// Resolve resolves T from the container and returns it typed.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: TypeOf[T]().String(),
			Got:      fmt.Sprintf("%T", instance),
		}
	}
	return typed, nil
}

// Inject performs field injection on an externally constructed value.
// target must be a non-nil pointer to struct. Post-construct hooks are
// not invoked; they belong to container-constructed instances only.
func (c *Container) Inject(target any) error {
	if target == nil {
		return &InvalidTargetError{Type: "<nil>"}
	}
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return &InvalidTargetError{Type: reflection.TypeString(target)}
	}
	return c.injectFields(value.Elem())
}

// resolveAs resolves the requested type and shapes the result to it:
// struct requests get the dereferenced value, everything else gets the
// instance as resolved.
func (c *Container) resolveAs(req reflect.Type) (any, error) {
	instance, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	if req.Kind() == reflect.Struct {
		rv := reflect.ValueOf(instance)
		if rv.Kind() == reflect.Ptr && !rv.IsNil() {
			return rv.Elem().Interface(), nil
		}
	}
	return instance, nil
}

// resolve determines the concrete type for a request and returns an
// instance of it, consulting the singleton cache and providers before
// falling back to direct construction.
func (c *Container) resolve(req reflect.Type) (any, error) {
	base := req
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	var concrete reflect.Type

	switch base.Kind() {
	case reflect.Interface:
		c.mu.RLock()
		impl, mapped := c.interfaces[base]
		provider, provided := c.providers[base]
		c.mu.RUnlock()

		switch {
		case mapped:
			// Mappings take priority over providers on the interface.
			concrete = impl
		case provided:
			return c.fromProvider(base, provider)
		default:
			return nil, &UnresolvedInterfaceError{Type: typeString(base)}
		}
	case reflect.Struct:
		concrete = base
	default:
		// Func, chan, map and scalar kinds have no zero-argument
		// construction protocol and must come from a provider.
		c.mu.RLock()
		provider, provided := c.providers[base]
		c.mu.RUnlock()
		if !provided {
			return nil, &MissingProviderError{Type: typeString(base)}
		}
		return c.fromProvider(base, provider)
	}

	c.mu.RLock()
	cached, hit := c.singletons[concrete]
	provider, provided := c.providers[concrete]
	c.mu.RUnlock()

	if hit {
		return cached, nil
	}

	if provided {
		instance, err := c.fromProvider(concrete, provider)
		if err != nil {
			return nil, err
		}
		if c.isSingleton(concrete) {
			instance = c.registerSingleton(concrete, instance)
		}
		return instance, nil
	}

	return c.createNewInstance(concrete)
}

// fromProvider invokes a registered provider, converting errors and
// panics into ProviderError.
func (c *Container) fromProvider(t reflect.Type, provider Provider) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = &ProviderError{Type: typeString(t), Err: fmt.Errorf("provider panicked: %v", r)}
		}
	}()

	result, perr := provider()
	if perr != nil {
		return nil, &ProviderError{Type: typeString(t), Err: perr}
	}
	return result, nil
}

// createNewInstance constructs a concrete struct type, injects its
// fields and fires its post-construct hook. Singleton-scoped types are
// cached before injection so that dependency graphs looping back to the
// same type observe the instance under construction instead of
// recursing.
func (c *Container) createNewInstance(concrete reflect.Type) (instance any, err error) {
	if cerr := c.startResolving(concrete); cerr != nil {
		return nil, cerr
	}
	defer c.finishResolving(concrete)

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = &ConstructionError{Type: typeString(concrete), Err: fmt.Errorf("%v", r)}
		}
	}()

	value := reflect.New(concrete)
	instance = value.Interface()

	if c.isSingleton(concrete) {
		if existing := c.registerSingleton(concrete, instance); existing != instance {
			// Lost the registration race; the cached instance wins and
			// the local one is discarded before injection.
			return existing, nil
		}
	}

	if ierr := c.injectFields(value.Elem()); ierr != nil {
		return nil, ierr
	}
	if herr := c.callPostConstruct(instance, concrete); herr != nil {
		return nil, herr
	}
	return instance, nil
}

// injectFields resolves and assigns every field carrying the inject tag.
// Embedded structs are walked recursively so injectable fields declared
// on them are wired as well.
func (c *Container) injectFields(target reflect.Value) error {
	t := target.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := c.injectFields(target.Field(i)); err != nil {
				return err
			}
			continue
		}

		if _, marked := field.Tag.Lookup(injectTag); !marked {
			continue
		}

		dependency, err := c.resolveAs(field.Type)
		if err != nil {
			return err
		}

		resolved := reflect.ValueOf(dependency)
		if !resolved.Type().AssignableTo(field.Type) {
			return &TypeMismatchError{
				Expected: field.Type.String(),
				Got:      resolved.Type().String(),
			}
		}

		value := target.Field(i)
		if !value.CanSet() {
			// Unexported fields are injectable too; sidestep the CanSet
			// restriction the way setAccessible would.
			value = reflect.NewAt(field.Type, unsafe.Pointer(value.UnsafeAddr())).Elem()
		}
		value.Set(resolved)
	}
	return nil
}

// callPostConstruct fires the lifecycle hook once, converting errors and
// panics into PostConstructError.
func (c *Container) callPostConstruct(instance any, concrete reflect.Type) (err error) {
	hook, ok := instance.(PostConstructor)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PostConstructError{Type: typeString(concrete), Err: fmt.Errorf("post-construct panicked: %v", r)}
		}
	}()
	if herr := hook.PostConstruct(); herr != nil {
		return &PostConstructError{Type: typeString(concrete), Err: herr}
	}
	return nil
}

// isSingleton reports whether a concrete type is singleton-scoped,
// either by its own Scoped declaration or by an explicit mark.
func (c *Container) isSingleton(t reflect.Type) bool {
	c.mu.RLock()
	_, forced := c.forced[t]
	c.mu.RUnlock()
	if forced {
		return true
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if scoped, ok := reflect.New(t).Interface().(Scoped); ok {
		return scoped.Scope() == ScopeSingleton
	}
	return false
}

// registerSingleton caches an instance for a concrete type. The first
// registration wins; a cached instance is never replaced for the
// lifetime of the container.
func (c *Container) registerSingleton(t reflect.Type, instance any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.singletons[t]; ok {
		return existing
	}
	c.singletons[t] = instance
	return instance
}

// Resolution chain tracking, keyed by goroutine.

func (c *Container) getResolutionState() *resolutionState {
	id := goid()
	if state, ok := c.resolutionState.Load(id); ok {
		return state.(*resolutionState)
	}
	state := c.statePool.Get().(*resolutionState)
	c.resolutionState.Store(id, state)
	return state
}

func (c *Container) startResolving(t reflect.Type) error {
	state := c.getResolutionState()
	if state.chain[t] {
		return &CircularDependencyError{Type: typeString(t)}
	}
	state.chain[t] = true
	state.keys = append(state.keys, t)
	return nil
}

func (c *Container) finishResolving(t reflect.Type) {
	state := c.getResolutionState()
	delete(state.chain, t)
	if len(state.chain) == 0 {
		c.resolutionState.Delete(goid())
		for _, k := range state.keys {
			delete(state.chain, k)
		}
		state.keys = state.keys[:0]
		c.statePool.Put(state)
	}
}

// typeString names a type for error messages, tolerating nil.
func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return reflection.TypeString(t)
}
