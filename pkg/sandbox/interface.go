package sandbox

import (
	"context"

	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

// Executor defines the interface for policy-mediated statement execution
type Executor interface {
	// One-shot execution
	Exec(query string, admin bool, binds []values.Bind) (*Result, error)
	ExecContext(ctx context.Context, query string, admin bool, binds []values.Bind) (*Result, error)

	// Prepared statements
	Prepare(query string, admin bool) (*Statement, error)
	PrepareContext(ctx context.Context, query string, admin bool) (*Statement, error)

	Close() error
}

var _ Executor = (*Database)(nil)
