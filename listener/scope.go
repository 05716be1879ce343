package listener

import "sync"

// Scope is a UI context that can become active and inactive, such as a
// settings window or a foreground application. Implementations are used
// as map keys and must be comparable; pointer types are.
type Scope interface {
	OnActivate(fn func()) (cancel func())
	OnDeactivate(fn func()) (cancel func())
}

// Context is a Scope driven by its owner through Activate and Deactivate.
type Context struct {
	mu     sync.Mutex
	active bool
	onAct  subscribers[struct{}]
	onDeac subscribers[struct{}]
}

func NewScope() *Context {
	return &Context{}
}

func (c *Context) OnActivate(fn func()) func() {
	return c.onAct.add(func(struct{}) { fn() })
}

func (c *Context) OnDeactivate(fn func()) func() {
	return c.onDeac.add(func(struct{}) { fn() })
}

// Activate marks the context active. Only a change of state notifies.
func (c *Context) Activate() {
	if c.set(true) {
		c.onAct.notify(struct{}{})
	}
}

// Deactivate marks the context inactive. Only a change of state notifies.
func (c *Context) Deactivate() {
	if c.set(false) {
		c.onDeac.notify(struct{}{})
	}
}

func (c *Context) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Context) set(active bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == active {
		return false
	}
	c.active = active
	return true
}
