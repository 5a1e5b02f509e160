package sandbox

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
	"github.com/wemcdonald/sqlsandbox/pkg/sqlparser"
	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

// Statement is a compiled statement that can be run any number of times.
// It refers back to the Database that compiled it and cannot outlive it:
// closing the Database closes the statement.
type Statement struct {
	db     *Database
	stmt   *sql.Stmt
	text   string
	kind   sqlparser.StatementType
	mode   permissions.Mode
	digest string
	closed bool
}

// Run binds the values and executes the statement from the start. Runs are
// independent of each other. The statement is not authorized again; its
// privilege mode is the one it was prepared with.
func (s *Statement) Run(binds []values.Bind) (*Result, error) {
	return s.RunContext(context.Background(), binds)
}

// RunContext is Run with a context passed to the driver.
func (s *Statement) RunContext(ctx context.Context, binds []values.Bind) (*Result, error) {
	d := s.db
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.closed || d.closed {
		return nil, closedError()
	}

	// The engine recompiles transparently after a schema change; that
	// recompilation is authorized under the mode fixed at prepare time.
	sc := d.enterScope(s.mode)
	defer sc.release()

	res, err := d.materialize(ctx, &compiled{stmt: s.stmt, text: s.text, kind: s.kind}, binds)
	if err != nil {
		err = d.executionError(err, sc)
		d.logger.Debug("run failed", zap.String("sql_digest", s.digest), zap.Error(err))
		return nil, err
	}

	d.logger.Debug("run",
		zap.String("sql_digest", s.digest),
		zap.Int("binds", len(binds)),
		zap.Int("rows", res.Len()))
	return res, nil
}

// Kind returns the type of the prepared statement.
func (s *Statement) Kind() sqlparser.StatementType {
	return s.kind
}

// Close releases the compiled statement. Closing twice is a no-op.
func (s *Statement) Close() error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.closeLocked()
}

func (s *Statement) closeLocked() error {
	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.db.stmts, s)
	return s.stmt.Close()
}
