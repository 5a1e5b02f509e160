// Package audit builds the structured log fields attached to every
// statement the sandbox compiles or runs.
package audit

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/pkg/sqlparser"
)

// digestSize is the number of hash bytes kept for a statement digest.
const digestSize = 12

// Digest returns a short stable fingerprint of the SQL text. Logs carry the
// digest instead of the text, which may hold caller data in literals.
func Digest(query string) string {
	sum := blake3.Sum256([]byte(query))
	return hex.EncodeToString(sum[:digestSize])
}

// StatementFields describes a statement for a log line.
func StatementFields(query string, admin bool) []zap.Field {
	return []zap.Field{
		zap.String("statement", sqlparser.Classify(query).String()),
		zap.String("sql_digest", Digest(query)),
		zap.Bool("admin", admin),
	}
}
