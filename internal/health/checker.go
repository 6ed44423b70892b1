// Package health runs environment checks for a frontvue project: package
// managers and tools on PATH, the project configuration and the plugin
// manifests.
//
//	manager := health.NewManager(
//		health.NewPackageManagerChecker(runner, deps.DefaultManagers),
//		health.NewProjectChecker(path, namespace),
//	)
//	reports := manager.Check(ctx)
package health

import (
	"context"
	"time"
)

// Checker verifies one requirement of the environment.
type Checker interface {
	// Name is lowercase with hyphens (e.g. "package-manager").
	Name() string
	// Check must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy Status = "healthy"
	// StatusDegraded means frontvue works with reduced functionality.
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is what a checker found.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

// NewResult creates a result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
