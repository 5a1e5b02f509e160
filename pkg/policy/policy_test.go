package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name string
		req  permissions.Request
		mode permissions.Mode
		opts []Option
		want permissions.Decision
	}{
		{
			name: "plain read allowed",
			req:  permissions.Request{Action: permissions.ActionRead, Object: "users", Qualifier: "id", Schema: "main"},
			mode: permissions.Restricted,
			want: permissions.Allow,
		},
		{
			name: "reserved table read denied",
			req:  permissions.Request{Action: permissions.ActionRead, Object: "_cf_meta", Qualifier: "id", Schema: "main"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "reserved prefix is case-insensitive",
			req:  permissions.Request{Action: permissions.ActionCreateTable, Object: "_CF_meta", Schema: "main"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "index on reserved table denied",
			req:  permissions.Request{Action: permissions.ActionCreateIndex, Object: "idx", Qualifier: "_cf_meta"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "index named with reserved prefix on user table allowed",
			req:  permissions.Request{Action: permissions.ActionCreateIndex, Object: "_cf_idx", Qualifier: "users"},
			mode: permissions.Restricted,
			want: permissions.Allow,
		},
		{
			name: "pragma denied",
			req:  permissions.Request{Action: permissions.ActionPragma, Object: "table_info", Qualifier: "users"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "allow-listed pragma allowed",
			req:  permissions.Request{Action: permissions.ActionPragma, Object: "TABLE_INFO", Qualifier: "users"},
			mode: permissions.Restricted,
			opts: []Option{WithAllowedPragmas("table_info")},
			want: permissions.Allow,
		},
		{
			name: "transaction denied",
			req:  permissions.Request{Action: permissions.ActionTransaction, Object: "BEGIN"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "attach denied",
			req:  permissions.Request{Action: permissions.ActionAttach, Object: "/tmp/shared.db"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "detach denied",
			req:  permissions.Request{Action: permissions.ActionDetach, Object: "x"},
			mode: permissions.Restricted,
			want: permissions.Deny,
		},
		{
			name: "savepoint allowed",
			req:  permissions.Request{Action: permissions.ActionSavepoint, Object: "BEGIN", Qualifier: "sp"},
			mode: permissions.Restricted,
			want: permissions.Allow,
		},
		{
			name: "privileged bypasses reserved prefix",
			req:  permissions.Request{Action: permissions.ActionRead, Object: "_cf_meta", Qualifier: "id"},
			mode: permissions.Privileged,
			want: permissions.Allow,
		},
		{
			name: "privileged bypasses pragma",
			req:  permissions.Request{Action: permissions.ActionPragma, Object: "journal_mode"},
			mode: permissions.Privileged,
			want: permissions.Allow,
		},
		{
			name: "privileged bypasses transaction",
			req:  permissions.Request{Action: permissions.ActionTransaction, Object: "COMMIT"},
			mode: permissions.Privileged,
			want: permissions.Allow,
		},
		{
			name: "custom prefix",
			req:  permissions.Request{Action: permissions.ActionInsert, Object: "sys_users"},
			mode: permissions.Restricted,
			opts: []Option{WithReservedPrefix("sys_")},
			want: permissions.Deny,
		},
		{
			name: "custom prefix releases default",
			req:  permissions.Request{Action: permissions.ActionInsert, Object: "_cf_users"},
			mode: permissions.Restricted,
			opts: []Option{WithReservedPrefix("sys_")},
			want: permissions.Allow,
		},
		{
			name: "function call allowed",
			req:  permissions.Request{Action: permissions.ActionFunction, Qualifier: "upper"},
			mode: permissions.Restricted,
			want: permissions.Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts...)
			assert.Equal(t, tt.want, p.Authorize(tt.req, tt.mode))
		})
	}
}

func TestAuthorizeIsDeterministic(t *testing.T) {
	p := New()
	req := permissions.Request{Action: permissions.ActionUpdate, Object: "_cf_state", Schema: "main"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, permissions.Deny, p.Authorize(req, permissions.Restricted))
		assert.Equal(t, permissions.Allow, p.Authorize(req, permissions.Privileged))
	}
}

func TestCheckerFunc(t *testing.T) {
	var seen permissions.Request
	var c Checker = CheckerFunc(func(req permissions.Request, mode permissions.Mode) permissions.Decision {
		seen = req
		return permissions.Ignore
	})

	req := permissions.Request{Action: permissions.ActionRead, Object: "t", Qualifier: "secret"}
	assert.Equal(t, permissions.Ignore, c.Authorize(req, permissions.Restricted))
	assert.Equal(t, req, seen)
}

func TestReservedPrefix(t *testing.T) {
	assert.Equal(t, DefaultReservedPrefix, New().ReservedPrefix())
	assert.Equal(t, "x_", New(WithReservedPrefix("x_")).ReservedPrefix())
}
