package mock

import (
	"errors"
	"fmt"

	"github.com/microdi-go/microdi"
)

// HookOrder records the sequence of post-construct hooks across a test.
// Call ResetHooks before each scenario that asserts on it.
var HookOrder []string

func ResetHooks() {
	HookOrder = nil
}

// Logger / ConsoleLogger cover the interface mapping scenario.
type Logger interface {
	Log(msg string)
}

type ConsoleLogger struct {
	Lines []string
}

func (l *ConsoleLogger) Log(msg string) {
	l.Lines = append(l.Lines, msg)
}

// NoopLogger is a second implementation, used for rebinding scenarios.
type NoopLogger struct{}

func (l *NoopLogger) Log(msg string) {}

// Config is singleton-scoped by declaration and carries a hook.
type Config struct {
	DSN       string
	hookCount int
}

func (c *Config) Scope() microdi.Scope {
	return microdi.ScopeSingleton
}

func (c *Config) PostConstruct() error {
	c.hookCount++
	if c.DSN == "" {
		c.DSN = "file::memory:"
	}
	HookOrder = append(HookOrder, "config")
	return nil
}

func (c *Config) HookCount() int {
	return c.hookCount
}

// Repository depends on Config; transient.
type Repository struct {
	Cfg       *Config `inject:""`
	hookCount int
}

func (r *Repository) PostConstruct() error {
	r.hookCount++
	HookOrder = append(HookOrder, "repository")
	return nil
}

func (r *Repository) HookCount() int {
	return r.hookCount
}

// Service depends on Repository and Logger; two levels of wiring.
type Service struct {
	Repo *Repository `inject:""`
	Log  Logger      `inject:""`
}

func (s *Service) PostConstruct() error {
	HookOrder = append(HookOrder, "service")
	return nil
}

// Widget is a plain transient struct with no bindings of its own.
type Widget struct {
	Label string
}

// TransientTask declares transient scope explicitly.
type TransientTask struct{}

func (t *TransientTask) Scope() microdi.Scope {
	return microdi.ScopeTransient
}

// Secretive keeps its dependency in an unexported field.
type Secretive struct {
	logger Logger `inject:""`
}

func (s *Secretive) Logger() Logger {
	return s.logger
}

// Base / Derived cover injectable fields declared on embedded types.
type Base struct {
	Cfg *Config `inject:""`
}

type Derived struct {
	Base
	Log Logger `inject:""`
}

// Ping / Pong form a transient cycle.
type Ping struct {
	Pong *Pong `inject:""`
}

type Pong struct {
	Ping *Ping `inject:""`
}

// SelfRef is a singleton depending on itself.
type SelfRef struct {
	Self *SelfRef `inject:""`
}

func (s *SelfRef) Scope() microdi.Scope {
	return microdi.ScopeSingleton
}

// Alpha / Beta are mutually dependent singletons.
type Alpha struct {
	B *Beta `inject:""`
}

func (a *Alpha) Scope() microdi.Scope {
	return microdi.ScopeSingleton
}

type Beta struct {
	A *Alpha `inject:""`
}

func (b *Beta) Scope() microdi.Scope {
	return microdi.ScopeSingleton
}

// FailingHook fails its post-construct hook.
type FailingHook struct{}

func (f *FailingHook) PostConstruct() error {
	return errors.New("simulated hook failure")
}

// PanickingHook panics in its post-construct hook.
type PanickingHook struct{}

func (p *PanickingHook) PostConstruct() error {
	panic("simulated hook panic")
}

// NeedsWidget injects a type that tests back with misbehaving providers.
type NeedsWidget struct {
	W *Widget `inject:""`
}

// ErrProvider is what failing test providers return.
var ErrProvider = fmt.Errorf("simulated provider failure")
