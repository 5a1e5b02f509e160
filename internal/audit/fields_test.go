package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDigest(t *testing.T) {
	a := Digest("SELECT 1")
	assert.Len(t, a, digestSize*2)
	assert.Equal(t, a, Digest("SELECT 1"))
	assert.NotEqual(t, a, Digest("SELECT 2"))
}

func TestStatementFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	zap.New(core).Debug("exec", StatementFields("PRAGMA user_version", true)...)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "PRAGMA", fields["statement"])
		assert.Equal(t, Digest("PRAGMA user_version"), fields["sql_digest"])
		assert.Equal(t, true, fields["admin"])
		assert.NotContains(t, fields, "sql")
	}
}
