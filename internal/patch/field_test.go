package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unitPatch struct {
	Name      Field[string] `json:"name"`
	Bedrooms  Field[int]    `json:"bedrooms"`
	Bathrooms Field[int]    `json:"bathrooms"`
}

func TestFieldUnmarshalDistinguishesAbsentNullAndValue(t *testing.T) {
	var p unitPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A-101","bedrooms":null}`), &p))

	name, ok := p.Name.Value()
	assert.True(t, ok)
	assert.Equal(t, "A-101", name)

	assert.True(t, p.Bedrooms.Present())
	assert.True(t, p.Bedrooms.IsNull())
	_, ok = p.Bedrooms.Value()
	assert.False(t, ok)

	assert.False(t, p.Bathrooms.Present())
	assert.False(t, p.Bathrooms.IsNull())
}

func TestChangesMergeRule(t *testing.T) {
	c := NewChanges()
	Required(c, "name", Set("B-2"))
	Optional(c, "bedrooms", Null[int]())
	Optional(c, "bathrooms", Field[int]{})

	cols, err := c.Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "B-2", "bedrooms": nil}, cols)
	assert.False(t, c.Has("bathrooms"))
}

func TestRequiredRejectsNull(t *testing.T) {
	c := NewChanges()
	Required(c, "name", Null[string]())

	_, err := c.Map()
	assert.EqualError(t, err, "name cannot be cleared")
}

func TestFieldMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A Field[int] `json:"a"`
		B Field[int] `json:"b"`
	}{A: Set(3), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(b))
}
