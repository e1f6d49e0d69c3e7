// Package patch models partial updates: a field may be absent (leave the
// column unchanged), explicitly null (clear it) or carry a value (set it).
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one column of a partial update. The zero value is absent.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns a field that sets the column to v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Null returns a field that clears the column.
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

func (f Field[T]) Present() bool { return f.present }
func (f Field[T]) IsNull() bool  { return f.present && f.null }

// Value returns the value to set; ok is false when the field is absent or null.
func (f Field[T]) Value() (v T, ok bool) {
	if !f.present || f.null {
		return v, false
	}
	return f.value, true
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.null = true
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(b, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// Changes accumulates column assignments for a single update call.
type Changes struct {
	cols map[string]any
	err  error
}

func NewChanges() *Changes {
	return &Changes{cols: make(map[string]any)}
}

// Optional records a nullable column: null becomes SQL NULL.
func Optional[T any](c *Changes, column string, f Field[T]) {
	if !f.present {
		return
	}
	if f.null {
		c.cols[column] = nil
		return
	}
	c.cols[column] = f.value
}

// Required records a NOT NULL column; an explicit null is an error.
func Required[T any](c *Changes, column string, f Field[T]) {
	if !f.present {
		return
	}
	if f.null {
		if c.err == nil {
			c.err = fmt.Errorf("%s cannot be cleared", column)
		}
		return
	}
	c.cols[column] = f.value
}

// Put records a column unconditionally.
func (c *Changes) Put(column string, v any) {
	c.cols[column] = v
}

func (c *Changes) Has(column string) bool {
	_, ok := c.cols[column]
	return ok
}

func (c *Changes) Len() int { return len(c.cols) }

// Map returns the assignments, or the first error recorded by Required.
func (c *Changes) Map() (map[string]any, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.cols, nil
}
