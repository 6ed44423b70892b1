// Package task keeps the hook to task registry and runs the tasks of a hook.
package task

import "context"

// Func is the body of a task.
type Func func(ctx context.Context) error

// Task is a named unit of work registered under a hook.
type Task struct {
	Name string
	Fn   Func
}

// Tasks maps a hook to its task names in registration order.
type Tasks map[string][]string

// Clone returns a deep copy of t.
func (t Tasks) Clone() Tasks {
	out := make(Tasks, len(t))
	for hook, names := range t {
		out[hook] = append([]string(nil), names...)
	}
	return out
}

// SubscribeResult is the outcome of Subscribers.Subscribe.
type SubscribeResult int

const (
	// Subscribed means the task was added to the hook.
	Subscribed SubscribeResult = iota
	// Duplicate means a task with that name is already under the hook.
	Duplicate
	// Spent means the subscriber set was already used. Nothing happened.
	Spent
	// UnknownHook means the hook is not one of the manager's hooks.
	UnknownHook
	// InvalidTask means the task has no name or no function.
	InvalidTask
)

// OK reports whether the task was added.
func (r SubscribeResult) OK() bool {
	return r == Subscribed
}

func (r SubscribeResult) String() string {
	switch r {
	case Subscribed:
		return "subscribed"
	case Duplicate:
		return "duplicate"
	case Spent:
		return "spent"
	case UnknownHook:
		return "unknown hook"
	case InvalidTask:
		return "invalid task"
	default:
		return "unknown"
	}
}
