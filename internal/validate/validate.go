// Package validate implements the validation engine: read-only integrity
// checks over the canonical and dimensional layers. Each check is a pure
// function from a snapshot to a violation set; an empty set is a pass.
// Findings are informational and never block publication.
package validate

import (
	"sort"
	"sync"
)

// Severity classifies a check's findings. It affects reporting only; no
// severity is fatal.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Violation is one offending record, rendered for operators.
type Violation struct {
	// Record identifies the offending row (natural key or row rendering).
	Record string
	// Detail explains what is wrong with it.
	Detail string
}

// Report is the outcome of one check over one snapshot.
type Report struct {
	CheckID    string
	CheckName  string
	Severity   Severity
	Violations []Violation
}

// Passed reports whether the check found nothing.
func (r Report) Passed() bool { return len(r.Violations) == 0 }

// Check is a single integrity check.
type Check interface {
	// ID is the stable short identifier (e.g. "RI01").
	ID() string
	// Name is the human-readable summary.
	Name() string
	// Severity classifies the check's findings.
	Severity() Severity
	// Run evaluates the check against a snapshot.
	Run(s *Snapshot) []Violation
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Check)
)

// Register adds a check to the registry. Called from init() in this
// package; a duplicate ID panics since it is a programming error.
func Register(c Check) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[c.ID()]; exists {
		panic("validate: duplicate check id " + c.ID())
	}
	registry[c.ID()] = c
}

// Get retrieves a check by ID.
func Get(id string) (Check, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[id]
	return c, ok
}

// All returns every registered check, sorted by ID.
func All() []Check {
	registryMu.RLock()
	defer registryMu.RUnlock()
	checks := make([]Check, 0, len(registry))
	for _, c := range registry {
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID() < checks[j].ID() })
	return checks
}

// Options controls a validation pass.
type Options struct {
	// Disabled lists check IDs to skip.
	Disabled []string
}

// RunAll evaluates every registered check (minus disabled ones) against the
// snapshot and returns one report per check, ordered by check ID.
func RunAll(s *Snapshot, opts Options) []Report {
	disabled := make(map[string]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		disabled[id] = true
	}

	var reports []Report
	for _, c := range All() {
		if disabled[c.ID()] {
			continue
		}
		reports = append(reports, Report{
			CheckID:    c.ID(),
			CheckName:  c.Name(),
			Severity:   c.Severity(),
			Violations: c.Run(s),
		})
	}
	return reports
}

// check is the common implementation backing the package's built-in checks.
type check struct {
	id       string
	name     string
	severity Severity
	run      func(s *Snapshot) []Violation
}

func (c *check) ID() string               { return c.id }
func (c *check) Name() string             { return c.name }
func (c *check) Severity() Severity       { return c.severity }
func (c *check) Run(s *Snapshot) []Violation { return c.run(s) }
