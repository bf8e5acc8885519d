package microdi_test

import (
	"testing"

	"github.com/microdi-go/microdi"
	"github.com/microdi-go/microdi/mock"
	"github.com/stretchr/testify/assert"
)

func TestSingletonScope(t *testing.T) {
	t.Run("DeclaredSingletonIdentity", func(t *testing.T) {
		c := microdi.New()
		mock.ResetHooks()

		first, err1 := microdi.Resolve[*mock.Config](c)
		second, err2 := microdi.Resolve[*mock.Config](c)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Same(t, first, second, "singleton should return same instance")
		assert.Equal(t, 1, first.HookCount(), "hook should fire once, not per resolution")
	})

	t.Run("InjectedFieldSharesSingleton", func(t *testing.T) {
		c := microdi.New()
		mock.ResetHooks()

		cfg, err := microdi.Resolve[*mock.Config](c)
		assert.NoError(t, err)

		repo, err := microdi.Resolve[*mock.Repository](c)
		assert.NoError(t, err)
		assert.Same(t, cfg, repo.Cfg, "injected field should share the singleton")
	})

	t.Run("MarkSingletonForcesCaching", func(t *testing.T) {
		c := microdi.New()
		microdi.MarkSingleton[mock.Widget](c)

		first, err1 := microdi.Resolve[*mock.Widget](c)
		second, err2 := microdi.Resolve[*mock.Widget](c)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Same(t, first, second)
	})

	t.Run("ExplicitTransientScope", func(t *testing.T) {
		c := microdi.New()

		first, err1 := microdi.Resolve[*mock.TransientTask](c)
		second, err2 := microdi.Resolve[*mock.TransientTask](c)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.NotSame(t, first, second)
	})

	t.Run("BoundInstanceReturnedUnchanged", func(t *testing.T) {
		c := microdi.New()
		mock.ResetHooks()

		repo := &mock.Repository{}
		err := microdi.BindInstance[*mock.Repository](c, repo)
		assert.NoError(t, err)

		resolved, err := microdi.Resolve[*mock.Repository](c)
		assert.NoError(t, err)
		assert.Same(t, repo, resolved)
		assert.Nil(t, resolved.Cfg, "bound instance must not be re-injected")
		assert.Equal(t, 0, resolved.HookCount(), "bound instance must not be re-hooked")
	})

	t.Run("ProviderProducedSingletonCachedOnce", func(t *testing.T) {
		c := microdi.New()
		mock.ResetHooks()

		calls := 0
		err := microdi.BindProvider[*mock.Config](c, func() (*mock.Config, error) {
			calls++
			return &mock.Config{DSN: "provided"}, nil
		})
		assert.NoError(t, err)

		first, err1 := microdi.Resolve[*mock.Config](c)
		second, err2 := microdi.Resolve[*mock.Config](c)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Same(t, first, second)
		assert.Equal(t, 1, calls, "provider should run once for a singleton type")
		assert.Equal(t, "provided", first.DSN)
	})

	t.Run("SelfReferentialSingleton", func(t *testing.T) {
		c := microdi.New()

		self, err := microdi.Resolve[*mock.SelfRef](c)
		assert.NoError(t, err)
		assert.Same(t, self, self.Self, "self-reference should observe the cached instance")
	})

	t.Run("MutuallyReferentialSingletons", func(t *testing.T) {
		c := microdi.New()

		alpha, err := microdi.Resolve[*mock.Alpha](c)
		assert.NoError(t, err)
		assert.NotNil(t, alpha.B)
		assert.Same(t, alpha, alpha.B.A, "cycle should close over the cached instances")

		beta, err := microdi.Resolve[*mock.Beta](c)
		assert.NoError(t, err)
		assert.Same(t, alpha.B, beta)
	})

	t.Run("ContainersAreIndependent", func(t *testing.T) {
		c1 := microdi.New()
		c2 := microdi.New()

		first, err1 := microdi.Resolve[*mock.Config](c1)
		second, err2 := microdi.Resolve[*mock.Config](c2)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.NotSame(t, first, second, "singleton caches are per container")
	})
}
