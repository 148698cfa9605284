package domain

import (
	"sort"
	"strings"
)

// LookupMode determines how context-scoped lookups resolve when the exact
// context holds no entry.
type LookupMode string

const (
	// LookupExact restricts resolution to the named context only.
	LookupExact LookupMode = "EXACT"
	// LookupGlobalFallback retries unresolved lookups against the global context.
	LookupGlobalFallback LookupMode = "GLOBAL_FALLBACK"
)

// WorldKey is the context value key under which the world scope is stored.
const WorldKey = "world"

// Context is an operational scope: an open key/value bag (typically holding a
// world name) plus the lookup mode governing global fallback. Contexts are
// immutable after construction; Global is the canonical empty scope.
type Context struct {
	values map[string]string
	mode   LookupMode
}

// Global is the canonical empty context with fallback semantics.
var Global = Context{mode: LookupGlobalFallback}

// NewContext builds a context from the given value bag and lookup mode. The
// map is copied, so later mutation of the argument does not leak in.
func NewContext(values map[string]string, mode LookupMode) Context {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Context{values: copied, mode: mode}
}

// WorldContext builds a context scoped to the given world with global fallback.
func WorldContext(world string) Context {
	return NewContext(map[string]string{WorldKey: world}, LookupGlobalFallback)
}

// WorldContextExact builds a context scoped to the given world without fallback.
func WorldContextExact(world string) Context {
	return NewContext(map[string]string{WorldKey: world}, LookupExact)
}

// LookupMode returns the fallback policy for this context.
func (c Context) LookupMode() LookupMode {
	if c.mode == "" {
		return LookupGlobalFallback
	}
	return c.mode
}

// World returns the world scope, if any.
func (c Context) World() (string, bool) {
	v, ok := c.values[WorldKey]
	return v, ok
}

// Value returns the context value stored under key, if any.
func (c Context) Value(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// IsGlobal reports whether this context carries no scoping values.
func (c Context) IsGlobal() bool {
	return len(c.values) == 0
}

// Key returns a canonical string form of the context values, suitable as a
// map key. The global context yields the empty string.
func (c Context) Key() string {
	if len(c.values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.values[k])
	}
	return b.String()
}
