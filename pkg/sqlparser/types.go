package sqlparser

// StatementType represents the type of SQL statement
type StatementType int

const (
	StatementUnknown StatementType = iota
	StatementSelect
	StatementInsert
	StatementUpdate
	StatementDelete
	StatementCreate
	StatementAlter
	StatementDrop
	StatementBegin
	StatementCommit
	StatementRollback
	StatementPragma
	StatementOther
)

// String implements the Stringer interface for StatementType
func (s StatementType) String() string {
	switch s {
	case StatementSelect:
		return "SELECT"
	case StatementInsert:
		return "INSERT"
	case StatementUpdate:
		return "UPDATE"
	case StatementDelete:
		return "DELETE"
	case StatementCreate:
		return "CREATE"
	case StatementAlter:
		return "ALTER"
	case StatementDrop:
		return "DROP"
	case StatementBegin:
		return "BEGIN"
	case StatementCommit:
		return "COMMIT"
	case StatementRollback:
		return "ROLLBACK"
	case StatementPragma:
		return "PRAGMA"
	case StatementOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}
