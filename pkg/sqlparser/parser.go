// Package sqlparser prepares raw SQL text for compilation and gives a cheap
// keyword-level classification of it. It never decides access: the engine's
// compile-time authorizer does that.
package sqlparser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/xwb1989/sqlparser"
)

// ErrEmptyQuery is returned when the text contains no statement, only
// whitespace, comments or semicolons.
var ErrEmptyQuery = errors.New("SQL code did not contain a statement")

// Normalize strips leading whitespace, comments and empty statements so the
// engine's first compiled statement is the first real one.
func Normalize(query string) (string, error) {
	s := query
	for {
		before := s
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == ';'
		})
		s = sqlparser.StripLeadingComments(s)
		s = stripComment(s)
		if s == before {
			break
		}
	}
	if s == "" {
		return "", ErrEmptyQuery
	}
	return s, nil
}

// stripComment removes one leading comment the MySQL-flavoured stripper
// leaves alone: a line comment with no trailing newline, an unterminated or
// "/*!" block comment. SQLite treats all of them as plain comments.
func stripComment(s string) string {
	switch {
	case strings.HasPrefix(s, "--"):
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return s[i+1:]
		}
		return ""
	case strings.HasPrefix(s, "/*"):
		if i := strings.Index(s[2:], "*/"); i >= 0 {
			return s[i+4:]
		}
		return ""
	}
	return s
}

// Classify returns the statement type of the first statement in query.
func Classify(query string) StatementType {
	s, err := Normalize(query)
	if err != nil {
		return StatementUnknown
	}

	switch sqlparser.Preview(s) {
	case sqlparser.StmtSelect:
		return StatementSelect
	case sqlparser.StmtInsert, sqlparser.StmtReplace:
		return StatementInsert
	case sqlparser.StmtUpdate:
		return StatementUpdate
	case sqlparser.StmtDelete:
		return StatementDelete
	case sqlparser.StmtBegin:
		return StatementBegin
	case sqlparser.StmtCommit:
		return StatementCommit
	case sqlparser.StmtRollback:
		return StatementRollback
	case sqlparser.StmtDDL:
		return classifyDDL(firstWord(s))
	}

	// SQLite keywords the MySQL grammar does not know about.
	switch firstWord(s) {
	case "pragma":
		return StatementPragma
	case "with", "values":
		return StatementSelect
	case "end":
		return StatementCommit
	case "":
		return StatementUnknown
	default:
		return StatementOther
	}
}

func classifyDDL(word string) StatementType {
	switch word {
	case "create":
		return StatementCreate
	case "alter", "rename":
		return StatementAlter
	case "drop", "truncate":
		return StatementDrop
	default:
		return StatementOther
	}
}

func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end == -1 {
		end = len(s)
	}
	return strings.ToLower(s[:end])
}
