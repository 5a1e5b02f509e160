package policy

import (
	"strings"

	"github.com/wemcdonald/sqlsandbox/pkg/permissions"
)

// DefaultReservedPrefix marks internal tables that restricted callers may
// never see.
const DefaultReservedPrefix = "_cf_"

// Policy is the default Checker.
//
// Under restricted mode it denies any reference to a table whose name starts
// with ReservedPrefix, every PRAGMA not in AllowedPragmas, every
// BEGIN/COMMIT/ROLLBACK and every ATTACH/DETACH. Privileged mode is allowed
// everything.
type Policy struct {
	reservedPrefix string
	allowedPragmas map[string]struct{}
}

// Option configures a Policy.
type Option func(*Policy)

// WithReservedPrefix overrides DefaultReservedPrefix.
func WithReservedPrefix(prefix string) Option {
	return func(p *Policy) {
		p.reservedPrefix = prefix
	}
}

// WithAllowedPragmas lets restricted callers run the named pragmas.
// Names are matched case-insensitively.
func WithAllowedPragmas(names ...string) Option {
	return func(p *Policy) {
		for _, name := range names {
			p.allowedPragmas[strings.ToLower(name)] = struct{}{}
		}
	}
}

// New creates a Policy. With no options it reserves DefaultReservedPrefix and
// allows no pragmas.
func New(opts ...Option) *Policy {
	p := &Policy{
		reservedPrefix: DefaultReservedPrefix,
		allowedPragmas: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReservedPrefix returns the prefix protected by this policy.
func (p *Policy) ReservedPrefix() string {
	return p.reservedPrefix
}

// Authorize implements Checker.
func (p *Policy) Authorize(req permissions.Request, mode permissions.Mode) permissions.Decision {
	if mode == permissions.Privileged {
		return permissions.Allow
	}

	if p.isReserved(req.PrimarySubject()) {
		return permissions.Deny
	}

	switch req.Action {
	case permissions.ActionPragma:
		// Object carries the pragma name.
		if _, ok := p.allowedPragmas[strings.ToLower(req.Object)]; ok {
			return permissions.Allow
		}
		return permissions.Deny
	case permissions.ActionTransaction, permissions.ActionAttach, permissions.ActionDetach:
		return permissions.Deny
	}

	return permissions.Allow
}

// SQLite identifiers are case-insensitive, so "_CF_x" and "_cf_x" name the
// same table.
func (p *Policy) isReserved(name string) bool {
	if p.reservedPrefix == "" || len(name) < len(p.reservedPrefix) {
		return false
	}
	return strings.EqualFold(name[:len(p.reservedPrefix)], p.reservedPrefix)
}
