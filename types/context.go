package types

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Context is a caller-supplied partial assignment of attribute values
// describing one concrete transaction scenario. It holds at most one value
// per attribute domain and is not part of the persisted graph.
type Context struct {
	values map[Key]Value
}

// NewContext creates a context holding the given values. A later value for
// the same key replaces an earlier one.
func NewContext(values ...Value) *Context {
	c := &Context{values: make(map[Key]Value, len(values))}
	for _, v := range values {
		c.values[v.Key] = v
	}
	return c
}

// Set assigns a value, replacing any previous value for the same key.
func (c *Context) Set(v Value) *Context {
	c.values[v.Key] = v
	return c
}

// Get returns the value observed for the given key.
func (c *Context) Get(k Key) (Value, bool) {
	v, ok := c.values[k]
	return v, ok
}

// Len returns the number of assigned attribute domains.
func (c *Context) Len() int {
	return len(c.values)
}

// Values returns the assigned values sorted by key, so iteration order is
// deterministic regardless of insertion order.
func (c *Context) Values() []Value {
	out := make([]Value, 0, len(c.values))
	for _, v := range c.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Fingerprint returns a stable hex digest of the context contents. Two
// contexts holding the same assignments produce the same fingerprint
// regardless of how they were populated.
func (c *Context) Fingerprint() string {
	var sb strings.Builder
	for _, v := range c.Values() {
		sb.WriteString(v.String())
		sb.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// String returns a human-readable rendering, e.g. {country=US, currency=USD}.
func (c *Context) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range c.Values() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
