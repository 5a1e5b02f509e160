package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimarySubject(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "create table uses table name",
			req:  Request{Action: ActionCreateTable, Object: "users"},
			want: "users",
		},
		{
			name: "read uses table not column",
			req:  Request{Action: ActionRead, Object: "users", Qualifier: "email"},
			want: "users",
		},
		{
			name: "create index uses target table",
			req:  Request{Action: ActionCreateIndex, Object: "idx_users_email", Qualifier: "users"},
			want: "users",
		},
		{
			name: "drop temp trigger uses target table",
			req:  Request{Action: ActionDropTempTrigger, Object: "trg", Qualifier: "orders"},
			want: "orders",
		},
		{
			name: "alter table uses second argument",
			req:  Request{Action: ActionAlterTable, Object: "main", Qualifier: "orders"},
			want: "orders",
		},
		{
			name: "pragma has no subject",
			req:  Request{Action: ActionPragma, Object: "table_info", Qualifier: "users"},
			want: "",
		},
		{
			name: "unknown action has no subject",
			req:  Request{Action: ActionUnknown, Object: "users"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.PrimarySubject())
		})
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "CREATE_TEMP_TRIGGER", ActionCreateTempTrigger.String())
	assert.Equal(t, "RECURSIVE", ActionRecursive.String())
	assert.Equal(t, "UNKNOWN", Action(999).String())
	assert.Equal(t, "DENY", Deny.String())
	assert.Equal(t, "IGNORE", Ignore.String())
	assert.Equal(t, "privileged", ModeFor(true).String())
	assert.Equal(t, "restricted", ModeFor(false).String())
}
