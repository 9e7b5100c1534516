package chanlog

import "sync"

// Registry holds named channels, creating them on first use, and carries the
// exit hooks registered against it.
type Registry struct {
	mu    sync.Mutex
	chans map[string]*Channel

	hookMu sync.Mutex
	hooks  []func()
}

func NewRegistry() *Registry {
	return &Registry{
		chans: make(map[string]*Channel),
	}
}

// Get returns the channel with the given name, creating it if it does not
// exist yet. The empty name addresses the root channel.
func (r *Registry) Get(name string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.chans[name]
	if !ok {
		ch = newChannel(name)
		r.chans[name] = ch
	}

	return ch
}

// OnExit registers fn to run when the host invokes RunExitHooks.
func (r *Registry) OnExit(fn func()) {
	r.hookMu.Lock()
	r.hooks = append(r.hooks, fn)
	r.hookMu.Unlock()
}

// RunExitHooks runs every pending hook exactly once, in registration order.
// Calling it again is a no-op unless new hooks were registered in between.
func (r *Registry) RunExitHooks() {
	r.hookMu.Lock()
	hooks := r.hooks
	r.hooks = nil
	r.hookMu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide channel registry.
func Default() *Registry {
	return defaultRegistry
}

// Get returns a channel from the default registry.
func Get(name string) *Channel {
	return defaultRegistry.Get(name)
}

// OnExit registers an exit hook on the default registry.
func OnExit(fn func()) {
	defaultRegistry.OnExit(fn)
}

// RunExitHooks runs the default registry's pending exit hooks.
func RunExitHooks() {
	defaultRegistry.RunExitHooks()
}
