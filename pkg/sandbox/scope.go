package sandbox

import (
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
)

// scope is the privilege state of one call. It is installed on the Database
// for as long as the engine may compile on the caller's behalf and is always
// removed by a deferred release.
type scope struct {
	db     *Database
	prev   *scope
	mode   permissions.Mode
	denied *permissions.Request
}

// enterScope must be called with d.mu held.
func (d *Database) enterScope(mode permissions.Mode) *scope {
	sc := &scope{db: d, prev: d.scope, mode: mode}
	d.scope = sc
	return sc
}

func (sc *scope) release() {
	sc.db.scope = sc.prev
}

// authorize is installed as the engine's authorizer on the handle's
// connection. It runs synchronously inside statement compilation.
func (d *Database) authorize(op int, arg1, arg2, dbName string) int {
	req := permissions.Request{
		Action:    actionFromCode(op),
		Object:    arg1,
		Qualifier: arg2,
		Schema:    dbName,
	}

	// Compilation outside any call is treated as restricted.
	mode := permissions.Restricted
	sc := d.scope
	if sc != nil {
		mode = sc.mode
	}

	decision := d.checker.Authorize(req, mode)
	d.logger.Debug("authorize",
		zap.Stringer("action", req.Action),
		zap.String("object", req.Object),
		zap.String("qualifier", req.Qualifier),
		zap.String("schema", req.Schema),
		zap.Stringer("mode", mode),
		zap.Stringer("decision", decision))

	switch decision {
	case permissions.Allow:
		return sqlite3.SQLITE_OK
	case permissions.Ignore:
		return sqlite3.SQLITE_IGNORE
	}

	if sc != nil && sc.denied == nil {
		denied := req
		sc.denied = &denied
	}
	d.logger.Warn("policy violation",
		zap.Stringer("action", req.Action),
		zap.String("subject", req.PrimarySubject()),
		zap.String("object", req.Object))
	return sqlite3.SQLITE_DENY
}

// sqliteRecursive is SQLITE_RECURSIVE, which the driver does not export.
const sqliteRecursive = 33

// actionFromCode maps an engine authorizer action code onto Action.
func actionFromCode(op int) permissions.Action {
	switch op {
	case sqlite3.SQLITE_CREATE_INDEX:
		return permissions.ActionCreateIndex
	case sqlite3.SQLITE_CREATE_TABLE:
		return permissions.ActionCreateTable
	case sqlite3.SQLITE_CREATE_TEMP_INDEX:
		return permissions.ActionCreateTempIndex
	case sqlite3.SQLITE_CREATE_TEMP_TABLE:
		return permissions.ActionCreateTempTable
	case sqlite3.SQLITE_CREATE_TEMP_TRIGGER:
		return permissions.ActionCreateTempTrigger
	case sqlite3.SQLITE_CREATE_TEMP_VIEW:
		return permissions.ActionCreateTempView
	case sqlite3.SQLITE_CREATE_TRIGGER:
		return permissions.ActionCreateTrigger
	case sqlite3.SQLITE_CREATE_VIEW:
		return permissions.ActionCreateView
	case sqlite3.SQLITE_DELETE:
		return permissions.ActionDelete
	case sqlite3.SQLITE_DROP_INDEX:
		return permissions.ActionDropIndex
	case sqlite3.SQLITE_DROP_TABLE:
		return permissions.ActionDropTable
	case sqlite3.SQLITE_DROP_TEMP_INDEX:
		return permissions.ActionDropTempIndex
	case sqlite3.SQLITE_DROP_TEMP_TABLE:
		return permissions.ActionDropTempTable
	case sqlite3.SQLITE_DROP_TEMP_TRIGGER:
		return permissions.ActionDropTempTrigger
	case sqlite3.SQLITE_DROP_TEMP_VIEW:
		return permissions.ActionDropTempView
	case sqlite3.SQLITE_DROP_TRIGGER:
		return permissions.ActionDropTrigger
	case sqlite3.SQLITE_DROP_VIEW:
		return permissions.ActionDropView
	case sqlite3.SQLITE_INSERT:
		return permissions.ActionInsert
	case sqlite3.SQLITE_PRAGMA:
		return permissions.ActionPragma
	case sqlite3.SQLITE_READ:
		return permissions.ActionRead
	case sqlite3.SQLITE_SELECT:
		return permissions.ActionSelect
	case sqlite3.SQLITE_TRANSACTION:
		return permissions.ActionTransaction
	case sqlite3.SQLITE_UPDATE:
		return permissions.ActionUpdate
	case sqlite3.SQLITE_ATTACH:
		return permissions.ActionAttach
	case sqlite3.SQLITE_DETACH:
		return permissions.ActionDetach
	case sqlite3.SQLITE_ALTER_TABLE:
		return permissions.ActionAlterTable
	case sqlite3.SQLITE_REINDEX:
		return permissions.ActionReindex
	case sqlite3.SQLITE_ANALYZE:
		return permissions.ActionAnalyze
	case sqlite3.SQLITE_CREATE_VTABLE:
		return permissions.ActionCreateVTable
	case sqlite3.SQLITE_DROP_VTABLE:
		return permissions.ActionDropVTable
	case sqlite3.SQLITE_FUNCTION:
		return permissions.ActionFunction
	case sqlite3.SQLITE_SAVEPOINT:
		return permissions.ActionSavepoint
	case sqliteRecursive:
		return permissions.ActionRecursive
	default:
		return permissions.ActionUnknown
	}
}
