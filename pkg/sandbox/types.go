package sandbox

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
	"github.com/wemcdonald/sqlsandbox/pkg/policy"
)

// Error codes carried by DBError.
const (
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeEmptyStatement  = "EMPTY_STATEMENT"
	CodeCompile         = "COMPILE_ERROR"
	CodePolicyViolation = "POLICY_VIOLATION"
	CodeExecution       = "EXECUTION_ERROR"
	CodeResource        = "RESOURCE_ERROR"
)

// ErrClosed is wrapped by the error returned from any call on a closed
// Database or Statement.
var ErrClosed = errors.New("database is closed")

// Config holds the configuration for a sandboxed database
type Config struct {
	// Path of the database file. Empty keeps the database in memory, private
	// to the handle.
	Path string

	// Logger receives authorization and statement logs. Nil disables logging.
	Logger *zap.Logger

	// Checker replaces the default policy. It cannot be combined with
	// ReservedPrefix or AllowedPragmas.
	Checker policy.Checker

	// ReservedPrefix overrides policy.DefaultReservedPrefix.
	ReservedPrefix string

	// AllowedPragmas lists pragmas restricted callers may run.
	AllowedPragmas []string
}

func (c Config) checker() (policy.Checker, error) {
	if c.Checker != nil {
		if c.ReservedPrefix != "" || len(c.AllowedPragmas) > 0 {
			return nil, &DBError{
				Code:    CodeInvalidConfig,
				Message: "a custom checker cannot be combined with a reserved prefix or pragma allow-list",
			}
		}
		return c.Checker, nil
	}

	var opts []policy.Option
	if c.ReservedPrefix != "" {
		opts = append(opts, policy.WithReservedPrefix(c.ReservedPrefix))
	}
	if len(c.AllowedPragmas) > 0 {
		opts = append(opts, policy.WithAllowedPragmas(c.AllowedPragmas...))
	}
	return policy.New(opts...), nil
}

func (c Config) dataSourceName() string {
	if c.Path == "" {
		return ":memory:"
	}
	return c.Path
}

// DBError represents a database error
type DBError struct {
	Code    string
	Message string
	Err     error

	// Request is the first request the policy denied. Only set for
	// POLICY_VIOLATION errors raised through the authorizer.
	Request *permissions.Request
}

func (e *DBError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of a DBError in err's chain, or "" if there is
// none.
func ErrorCode(err error) string {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ""
}

// IsPolicyViolation reports whether err was caused by the authorization
// policy rather than by malformed SQL or an execution fault.
func IsPolicyViolation(err error) bool {
	return ErrorCode(err) == CodePolicyViolation
}

func closedError() error {
	return &DBError{
		Code:    CodeResource,
		Message: "handle is no longer usable",
		Err:     ErrClosed,
	}
}
