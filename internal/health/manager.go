package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds every single check.
const DefaultTimeout = 5 * time.Second

// Report pairs a checker name with its result.
type Report struct {
	Name   string `json:"name" yaml:"name"`
	Result `yaml:",inline"`
}

// Manager runs checkers in parallel.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager running checkers with DefaultTimeout.
func NewManager(checkers ...Checker) *Manager {
	return &Manager{checkers: checkers, timeout: DefaultTimeout}
}

// WithTimeout sets the per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.timeout = timeout
	return m
}

// Names returns the checker names in registration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.checkers))
	for i, c := range m.checkers {
		names[i] = c.Name()
	}
	return names
}

// Check runs every checker concurrently and returns the reports in
// registration order. A checker returning nil is reported unhealthy.
func (m *Manager) Check(ctx context.Context) []Report {
	reports := make([]Report, len(m.checkers))

	var wg sync.WaitGroup
	for i, c := range m.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result == nil {
				result = Unhealthy("check returned no result")
			}
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}
			reports[i] = Report{Name: c.Name(), Result: *result}
		}()
	}
	wg.Wait()

	return reports
}

// OverallStatus is unhealthy if any report is unhealthy, degraded if any is
// degraded and healthy otherwise.
func OverallStatus(reports []Report) Status {
	status := StatusHealthy
	for _, r := range reports {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
