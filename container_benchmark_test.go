package microdi_test

import (
	"testing"

	"github.com/microdi-go/microdi"
	"github.com/microdi-go/microdi/mock"
)

func BenchmarkBinding(b *testing.B) {
	b.Run("InterfaceBinding", func(b *testing.B) {
		c := microdi.New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = microdi.BindInterface[mock.Logger, mock.ConsoleLogger](c)
		}
	})

	b.Run("ProviderBinding", func(b *testing.B) {
		c := microdi.New()
		provider := func() (*mock.Widget, error) { return &mock.Widget{}, nil }
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = microdi.BindProvider[*mock.Widget](c, provider)
		}
	})
}

func BenchmarkResolution(b *testing.B) {
	b.Run("TransientConstruction", func(b *testing.B) {
		c := microdi.New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = microdi.Resolve[*mock.Widget](c)
		}
	})

	b.Run("SingletonCacheHit", func(b *testing.B) {
		c := microdi.New()
		if _, err := microdi.Resolve[*mock.Config](c); err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = microdi.Resolve[*mock.Config](c)
		}
	})

	b.Run("InjectedGraph", func(b *testing.B) {
		c := microdi.New()
		_ = microdi.BindInterface[mock.Logger, mock.ConsoleLogger](c)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = microdi.Resolve[*mock.Service](c)
		}
	})

	b.Run("ProviderResolution", func(b *testing.B) {
		c := microdi.New()
		_ = microdi.BindProvider[*mock.Widget](c, func() (*mock.Widget, error) {
			return &mock.Widget{}, nil
		})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = microdi.Resolve[*mock.Widget](c)
		}
	})
}

func BenchmarkInject(b *testing.B) {
	c := microdi.New()
	_ = microdi.BindInterface[mock.Logger, mock.ConsoleLogger](c)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service := &mock.Service{}
		_ = c.Inject(service)
	}
}
