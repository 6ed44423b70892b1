package task

import "sync/atomic"

// Subscribers is a capability to register one task. The first call to
// Subscribe, on any hook and whatever its outcome, uses it up.
type Subscribers struct {
	manager *Manager
	used    atomic.Bool
}

// Hooks returns the hooks a task can be registered under.
func (s *Subscribers) Hooks() []string {
	return s.manager.Hooks()
}

// Has reports whether hook can be subscribed to.
func (s *Subscribers) Has(hook string) bool {
	return s.manager.HasHook(hook)
}

// Spent reports whether the set was used.
func (s *Subscribers) Spent() bool {
	return s.used.Load()
}

// Subscribe registers t under hook.
func (s *Subscribers) Subscribe(hook string, t Task) SubscribeResult {
	if !s.used.CompareAndSwap(false, true) {
		return Spent
	}
	return s.manager.subscribe(hook, t)
}
