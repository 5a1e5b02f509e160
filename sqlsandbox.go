// Package sqlsandbox provides a policy-mediated SQL execution layer over an
// embedded SQLite database.
package sqlsandbox

import (
	"github.com/wemcdonald/sqlsandbox/pkg/sandbox"
	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

// Open creates a new sandboxed database
func Open(cfg Config) (*Database, error) {
	return sandbox.Open(cfg)
}

// OpenMemory creates a sandboxed database with private in-memory storage
// and the default policy.
func OpenMemory() (*Database, error) {
	return sandbox.Open(sandbox.Config{})
}

// Re-export types for convenience
type (
	Config    = sandbox.Config
	Database  = sandbox.Database
	Statement = sandbox.Statement
	Result    = sandbox.Result
	DBError   = sandbox.DBError
	Bind      = values.Bind
	Value     = values.Value
	Record    = values.Record
)

// Re-export errors and helpers
var (
	ErrClosed         = sandbox.ErrClosed
	ErrorCode         = sandbox.ErrorCode
	IsPolicyViolation = sandbox.IsPolicyViolation
)
