// Package policy decides which schema objects and operations a caller may
// touch while the engine compiles a statement.
package policy

import (
	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
)

// Checker defines the interface for authorizing compile-time requests.
// Implementations must be deterministic for identical inputs and must not
// have side effects: the engine may call Authorize many times for a single
// statement, once per object reference it resolves.
type Checker interface {
	// Authorize returns the decision for one request under the given mode.
	Authorize(req permissions.Request, mode permissions.Mode) permissions.Decision
}

// CheckerFunc adapts an ordinary function to the Checker interface.
type CheckerFunc func(req permissions.Request, mode permissions.Mode) permissions.Decision

// Authorize calls f(req, mode).
func (f CheckerFunc) Authorize(req permissions.Request, mode permissions.Mode) permissions.Decision {
	return f(req, mode)
}
