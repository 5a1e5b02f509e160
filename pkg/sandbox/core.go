package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/internal/audit"
	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
	"github.com/wemcdonald/sqlsandbox/pkg/policy"
	"github.com/wemcdonald/sqlsandbox/pkg/sqlparser"
	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

const driverName = "sqlite3"

// Database owns one engine connection, its storage and the privilege scope
// of the call currently using it.
type Database struct {
	id      string
	sqlDB   *sql.DB
	conn    *sql.Conn
	checker policy.Checker
	logger  *zap.Logger

	mu     sync.Mutex
	scope  *scope
	stmts  map[*Statement]struct{}
	closed bool
}

// compiled is a statement that passed authorization.
type compiled struct {
	stmt *sql.Stmt
	text string
	kind sqlparser.StatementType
}

// Open creates a new sandboxed database
func Open(cfg Config) (*Database, error) {
	return OpenContext(context.Background(), cfg)
}

// OpenContext creates a new sandboxed database. Each handle gets its own
// storage and a single engine connection with the authorizer installed.
func OpenContext(ctx context.Context, cfg Config) (*Database, error) {
	checker, err := cfg.checker()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open(driverName, cfg.dataSourceName())
	if err != nil {
		return nil, &DBError{
			Code:    CodeResource,
			Message: "failed to open database",
			Err:     err,
		}
	}
	// The authorizer and an in-memory database both live on one connection.
	sqlDB.SetMaxOpenConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, &DBError{
			Code:    CodeResource,
			Message: "failed to connect to database",
			Err:     err,
		}
	}

	d := &Database{
		id:      uuid.NewString(),
		sqlDB:   sqlDB,
		conn:    conn,
		checker: checker,
		stmts:   make(map[*Statement]struct{}),
	}
	d.logger = logger.With(zap.String("db", d.id))

	err = conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		c.RegisterAuthorizer(d.authorize)
		// No other database may be attached, so the handle's storage stays
		// private even to privileged callers.
		c.SetLimit(sqlite3.SQLITE_LIMIT_ATTACHED, 0)
		return nil
	})
	if err != nil {
		conn.Close()
		sqlDB.Close()
		return nil, &DBError{
			Code:    CodeResource,
			Message: "failed to install authorizer",
			Err:     err,
		}
	}

	d.logger.Debug("database opened", zap.Bool("memory", cfg.Path == ""))
	return d, nil
}

// ID returns the identifier used to correlate this handle's log lines.
func (d *Database) ID() string {
	return d.id
}

// Close closes every statement prepared from the database, then the
// connection. Closing twice is a no-op.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for s := range d.stmts {
		errs = append(errs, s.closeLocked())
	}
	errs = append(errs, d.conn.Close(), d.sqlDB.Close())

	d.logger.Debug("database closed")
	return errors.Join(errs...)
}

// Exec compiles, binds and runs one statement and returns all of its rows.
// With admin set the authorization policy is bypassed for this call only.
func (d *Database) Exec(query string, admin bool, binds []values.Bind) (*Result, error) {
	return d.ExecContext(context.Background(), query, admin, binds)
}

// ExecContext is Exec with a context passed to the driver.
func (d *Database) ExecContext(ctx context.Context, query string, admin bool, binds []values.Bind) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, closedError()
	}

	sc := d.enterScope(permissions.ModeFor(admin))
	defer sc.release()

	c, err := d.compile(ctx, query, sc)
	if err != nil {
		d.logger.Debug("exec rejected", append(audit.StatementFields(query, admin), zap.Error(err))...)
		return nil, err
	}
	defer c.stmt.Close()

	res, err := d.materialize(ctx, c, binds)
	if err != nil {
		err = d.executionError(err, sc)
		d.logger.Debug("exec failed", append(audit.StatementFields(query, admin), zap.Error(err))...)
		return nil, err
	}

	d.logger.Debug("exec", append(audit.StatementFields(query, admin),
		zap.Int("binds", len(binds)),
		zap.Int("rows", res.Len()))...)
	return res, nil
}

// Prepare compiles one statement for repeated use. The admin flag applies to
// compilation only and is fixed for the statement's lifetime.
func (d *Database) Prepare(query string, admin bool) (*Statement, error) {
	return d.PrepareContext(context.Background(), query, admin)
}

// PrepareContext is Prepare with a context passed to the driver.
func (d *Database) PrepareContext(ctx context.Context, query string, admin bool) (*Statement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, closedError()
	}

	mode := permissions.ModeFor(admin)
	sc := d.enterScope(mode)
	defer sc.release()

	c, err := d.compile(ctx, query, sc)
	if err != nil {
		d.logger.Debug("prepare rejected", append(audit.StatementFields(query, admin), zap.Error(err))...)
		return nil, err
	}

	s := &Statement{
		db:     d,
		stmt:   c.stmt,
		text:   c.text,
		kind:   c.kind,
		mode:   mode,
		digest: audit.Digest(query),
	}
	d.stmts[s] = struct{}{}

	d.logger.Debug("prepare", audit.StatementFields(query, admin)...)
	return s, nil
}

// compile hands the single statement in query to the engine. The
// authorizer runs during this call under sc.
func (d *Database) compile(ctx context.Context, query string, sc *scope) (*compiled, error) {
	normalized, err := sqlparser.Normalize(query)
	if err != nil {
		return nil, &DBError{
			Code:    CodeEmptyStatement,
			Message: "nothing to compile",
			Err:     err,
		}
	}

	text, rest := sqlparser.SplitFirst(normalized)
	if _, err := sqlparser.Normalize(rest); err == nil {
		return nil, &DBError{
			Code:    CodeCompile,
			Message: "query contains more than one statement",
		}
	}

	// The engine compiles the statement through its terminator.
	stmt, err := d.conn.PrepareContext(ctx, normalized[:len(normalized)-len(rest)])
	if err != nil {
		if violation := policyError(err, sc); violation != nil {
			return nil, violation
		}
		return nil, &DBError{
			Code:    CodeCompile,
			Message: "failed to compile statement",
			Err:     err,
		}
	}

	return &compiled{stmt: stmt, text: text, kind: sqlparser.Classify(text)}, nil
}

// executionError classifies a failure after compilation. The engine may
// recompile a statement while stepping it, so a denial is still possible.
func (d *Database) executionError(err error, sc *scope) error {
	if violation := policyError(err, sc); violation != nil {
		return violation
	}
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return err
	}
	return &DBError{
		Code:    CodeExecution,
		Message: "failed to execute statement",
		Err:     err,
	}
}

// policyError returns a POLICY_VIOLATION error if err was caused by a
// denial, or nil.
func policyError(err error, sc *scope) *DBError {
	if req := sc.denied; req != nil {
		return &DBError{
			Code:    CodePolicyViolation,
			Message: fmt.Sprintf("%s on %q is not authorized", req.Action, subjectOf(*req)),
			Err:     err,
			Request: req,
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrAuth {
		return &DBError{
			Code:    CodePolicyViolation,
			Message: "statement is not authorized",
			Err:     err,
		}
	}
	return nil
}

func subjectOf(req permissions.Request) string {
	if subject := req.PrimarySubject(); subject != "" {
		return subject
	}
	return req.Object
}
