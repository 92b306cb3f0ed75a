// Package health runs the checks behind the /health, /ready and /live
// endpoints and serves their reports as JSON.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status of a single check or a whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	}
	return 0
}

// Kind selects which set of checks runs
type Kind int

const (
	// KindHealth answers 503 only when a check is unhealthy
	KindHealth Kind = iota
	// KindReady answers 200 only when every check is healthy
	KindReady
	// KindLive answers 200 only when every check is healthy
	KindLive
	kindCount
)

// Check is the outcome of one named check
type Check struct {
	Name    string         `json:"name"`
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Checked time.Time      `json:"checked"`
	Took    time.Duration  `json:"took_ns"`
}

// CheckFunc computes a check
type CheckFunc func() Check

// Report is the combined outcome of one kind. Checks keep registration order.
type Report struct {
	Status Status    `json:"status"`
	Time   time.Time `json:"timestamp"`
	Uptime float64   `json:"uptime_seconds"`
	Checks []Check   `json:"checks"`
}

type registered struct {
	name string
	fn   CheckFunc
}

// Checker holds the checks registered for each kind
type Checker struct {
	started time.Time
	mu      sync.RWMutex
	kinds   [kindCount][]registered
}

// NewChecker creates a checker with no checks; every kind starts healthy
func NewChecker() *Checker {
	return &Checker{started: time.Now()}
}

// Register adds a check to kind. Registering a name twice replaces it.
func (c *Checker) Register(kind Kind, name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.kinds[kind] {
		if r.name == name {
			c.kinds[kind][i].fn = fn
			return
		}
	}
	c.kinds[kind] = append(c.kinds[kind], registered{name: name, fn: fn})
}

// Run executes the checks of kind. The report takes the worst status.
func (c *Checker) Run(kind Kind) Report {
	c.mu.RLock()
	checks := append([]registered(nil), c.kinds[kind]...)
	c.mu.RUnlock()

	report := Report{
		Status: StatusHealthy,
		Time:   time.Now(),
		Uptime: time.Since(c.started).Seconds(),
		Checks: make([]Check, 0, len(checks)),
	}
	for _, r := range checks {
		start := time.Now()
		check := r.fn()
		check.Took = time.Since(start)
		check.Checked = start
		if check.Name == "" {
			check.Name = r.name
		}
		if check.Status == "" {
			check.Status = StatusHealthy
		}
		if check.Status.rank() > report.Status.rank() {
			report.Status = check.Status
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}

// Handler serves the report of kind
func (c *Checker) Handler(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(kind)
		code := http.StatusOK
		switch {
		case report.Status == StatusUnhealthy:
			code = http.StatusServiceUnavailable
		case kind != KindHealth && report.Status != StatusHealthy:
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}
