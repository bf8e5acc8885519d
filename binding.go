package microdi

import (
	"reflect"

	"github.com/enorith/supports/reflection"
)

// typeKey normalizes an abstract (a reflect.Type or a sample value) into
// the binding key used by the registry maps: pointer types map to their
// element type, everything else keys as itself.
func typeKey(abs any) reflect.Type {
	if abs == nil {
		return nil
	}
	t := reflection.TypeOf(abs)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// BindInterface maps an interface type to the concrete struct type
// satisfying it. iface must be an interface kind; impl must be a
// concrete struct kind (a pointer type is keyed by its element type)
// implementing iface. A prior mapping for the same interface is
// overwritten.
func (c *Container) BindInterface(iface, impl reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return &InvalidBindingError{
			Interface:      typeString(iface),
			Implementation: typeString(impl),
			Reason:         "first type must be an interface",
		}
	}

	concrete := impl
	if concrete != nil && concrete.Kind() == reflect.Ptr {
		concrete = concrete.Elem()
	}
	if concrete == nil || concrete.Kind() == reflect.Interface {
		return &InvalidBindingError{
			Interface:      typeString(iface),
			Implementation: typeString(impl),
			Reason:         "implementation must be a concrete type, not an interface",
		}
	}
	if concrete.Kind() != reflect.Struct {
		return &InvalidBindingError{
			Interface:      typeString(iface),
			Implementation: typeString(impl),
			Reason:         "implementation must be an instantiable struct type",
		}
	}
	if !concrete.Implements(iface) && !reflect.PointerTo(concrete).Implements(iface) {
		return &InvalidBindingError{
			Interface:      typeString(iface),
			Implementation: typeString(impl),
			Reason:         "implementation does not implement the interface",
		}
	}

	c.mu.Lock()
	c.interfaces[iface] = concrete
	c.mu.Unlock()
	return nil
}

// BindInstance registers a provider that always returns the given
// pre-built instance. The instance is not inserted into the singleton
// cache; it is simply handed out as-is on every resolution, with no
// injection and no post-construct hook.
func (c *Container) BindInstance(abs any, instance any) error {
	t := typeKey(abs)
	if t == nil {
		return &InvalidBindingError{Interface: "<nil>", Implementation: "<nil>", Reason: "cannot bind a nil type"}
	}
	if instance == nil {
		return &NilInstanceError{Type: typeString(t)}
	}

	rv := reflect.ValueOf(instance)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		if rv.IsNil() {
			return &NilInstanceError{Type: typeString(t)}
		}
	}

	it := rv.Type()
	if !it.AssignableTo(t) && it != reflect.PointerTo(t) {
		return &InvalidBindingError{
			Interface:      typeString(t),
			Implementation: typeString(it),
			Reason:         "instance is not assignable to the bound type",
		}
	}

	c.mu.Lock()
	c.providers[t] = func() (any, error) { return instance, nil }
	c.mu.Unlock()
	return nil
}

// BindProvider registers a factory for a type, overwriting any existing
// provider for that type.
func (c *Container) BindProvider(abs any, provider Provider) error {
	t := typeKey(abs)
	if t == nil {
		return &InvalidBindingError{Interface: "<nil>", Implementation: "<nil>", Reason: "cannot bind a nil type"}
	}
	if provider == nil {
		return &NilProviderError{Type: typeString(t)}
	}

	c.mu.Lock()
	c.providers[t] = provider
	c.mu.Unlock()
	return nil
}

// MarkSingleton forces a concrete type into singleton scope even if it
// carries no Scoped declaration of its own.
func (c *Container) MarkSingleton(abs any) {
	t := typeKey(abs)
	if t == nil {
		return
	}
	c.mu.Lock()
	c.forced[t] = struct{}{}
	c.mu.Unlock()
}

// Bound reports whether a mapping or provider is registered for abs.
func (c *Container) Bound(abs any) bool {
	t := typeKey(abs)
	if t == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.interfaces[t]; ok {
		return true
	}
	_, ok := c.providers[t]
	return ok
}

// Generic registration helpers.

// BindInterface maps interface I to implementation T.
func BindInterface[I any, T any](c *Container) error {
	return c.BindInterface(TypeOf[I](), TypeOf[T]())
}

// BindInstance registers a pre-built instance for T.
func BindInstance[T any](c *Container, instance T) error {
	return c.BindInstance(TypeOf[T](), instance)
}

// BindProvider registers a typed factory for T.
func BindProvider[T any](c *Container, provider func() (T, error)) error {
	if provider == nil {
		return &NilProviderError{Type: TypeOf[T]().String()}
	}
	return c.BindProvider(TypeOf[T](), func() (any, error) { return provider() })
}

// MarkSingleton forces T into singleton scope.
func MarkSingleton[T any](c *Container) {
	c.MarkSingleton(TypeOf[T]())
}
