package permissions

// Action identifies the kind of operation the engine is about to compile.
// There is one constant per authorizer action code the engine reports.
type Action int

const (
	ActionUnknown Action = iota
	ActionCreateIndex
	ActionCreateTable
	ActionCreateTempIndex
	ActionCreateTempTable
	ActionCreateTempTrigger
	ActionCreateTempView
	ActionCreateTrigger
	ActionCreateView
	ActionDelete
	ActionDropIndex
	ActionDropTable
	ActionDropTempIndex
	ActionDropTempTable
	ActionDropTempTrigger
	ActionDropTempView
	ActionDropTrigger
	ActionDropView
	ActionInsert
	ActionPragma
	ActionRead
	ActionSelect
	ActionTransaction
	ActionUpdate
	ActionAttach
	ActionDetach
	ActionAlterTable
	ActionReindex
	ActionAnalyze
	ActionCreateVTable
	ActionDropVTable
	ActionFunction
	ActionSavepoint
	ActionRecursive
)

var actionNames = map[Action]string{
	ActionUnknown:           "UNKNOWN",
	ActionCreateIndex:       "CREATE_INDEX",
	ActionCreateTable:       "CREATE_TABLE",
	ActionCreateTempIndex:   "CREATE_TEMP_INDEX",
	ActionCreateTempTable:   "CREATE_TEMP_TABLE",
	ActionCreateTempTrigger: "CREATE_TEMP_TRIGGER",
	ActionCreateTempView:    "CREATE_TEMP_VIEW",
	ActionCreateTrigger:     "CREATE_TRIGGER",
	ActionCreateView:        "CREATE_VIEW",
	ActionDelete:            "DELETE",
	ActionDropIndex:         "DROP_INDEX",
	ActionDropTable:         "DROP_TABLE",
	ActionDropTempIndex:     "DROP_TEMP_INDEX",
	ActionDropTempTable:     "DROP_TEMP_TABLE",
	ActionDropTempTrigger:   "DROP_TEMP_TRIGGER",
	ActionDropTempView:      "DROP_TEMP_VIEW",
	ActionDropTrigger:       "DROP_TRIGGER",
	ActionDropView:          "DROP_VIEW",
	ActionInsert:            "INSERT",
	ActionPragma:            "PRAGMA",
	ActionRead:              "READ",
	ActionSelect:            "SELECT",
	ActionTransaction:       "TRANSACTION",
	ActionUpdate:            "UPDATE",
	ActionAttach:            "ATTACH",
	ActionDetach:            "DETACH",
	ActionAlterTable:        "ALTER_TABLE",
	ActionReindex:           "REINDEX",
	ActionAnalyze:           "ANALYZE",
	ActionCreateVTable:      "CREATE_VTABLE",
	ActionDropVTable:        "DROP_VTABLE",
	ActionFunction:          "FUNCTION",
	ActionSavepoint:         "SAVEPOINT",
	ActionRecursive:         "RECURSIVE",
}

// String implements the Stringer interface for Action
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Decision is the answer the authorizer gives the engine for one request.
type Decision int

const (
	Allow Decision = iota
	Deny
	// Ignore makes the engine treat the reference as NULL instead of failing.
	Ignore
)

// String implements the Stringer interface for Decision
func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case Deny:
		return "DENY"
	case Ignore:
		return "IGNORE"
	default:
		return "UNKNOWN"
	}
}

// Mode is the privilege level a request is evaluated under.
type Mode int

const (
	Restricted Mode = iota
	Privileged
)

// ModeFor maps the caller's admin flag to a Mode.
func ModeFor(admin bool) Mode {
	if admin {
		return Privileged
	}
	return Restricted
}

// String implements the Stringer interface for Mode
func (m Mode) String() string {
	if m == Privileged {
		return "privileged"
	}
	return "restricted"
}

// Request is one authorizer invocation. Object and Qualifier carry the
// engine's two action-specific arguments, e.g. an index name and the table
// it is built on.
type Request struct {
	Action    Action
	Object    string
	Qualifier string
	Schema    string
	Trigger   string
}

// PrimarySubject returns the schema object the request actually touches. For
// indexes, triggers and ALTER TABLE this is the target table rather than the
// object's own name. Actions that do not name a table resolve to "".
func (r Request) PrimarySubject() string {
	switch r.Action {
	case ActionCreateIndex, ActionCreateTempIndex,
		ActionDropIndex, ActionDropTempIndex,
		ActionCreateTrigger, ActionCreateTempTrigger,
		ActionDropTrigger, ActionDropTempTrigger,
		ActionAlterTable:
		return r.Qualifier
	case ActionCreateTable, ActionCreateTempTable,
		ActionDropTable, ActionDropTempTable,
		ActionInsert, ActionUpdate, ActionDelete, ActionRead,
		ActionAnalyze, ActionCreateVTable, ActionDropVTable:
		return r.Object
	default:
		return ""
	}
}
