package canonical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSortsKeysRecursively(t *testing.T) {
	in := map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"b": "x", "a": "<y>"},
	}
	out, err := JSON(in)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":"<y>","b":"x"},"zeta":1}`, string(out))
}

func TestJSONStructsAndMapsAgree(t *testing.T) {
	type item struct {
		Total string `json:"total"`
		ID    string `json:"id"`
	}
	fromStruct, err := JSON(item{Total: "10.00", ID: "A"})
	require.NoError(t, err)
	fromMap, err := JSON(map[string]any{"id": "A", "total": "10.00"})
	require.NoError(t, err)
	assert.Equal(t, fromMap, fromStruct)
}

func TestJSONPreservesRawMessages(t *testing.T) {
	out, err := JSON(map[string]any{"after": json.RawMessage(`{"b":2,"a":1}`)})
	require.NoError(t, err)
	assert.Equal(t, `{"after":{"a":1,"b":2}}`, string(out))
}

func TestHashIsDeterministic(t *testing.T) {
	a, err := Hash(map[string]any{"x": "1", "y": []any{"a", "b"}})
	require.NoError(t, err)
	b, err := Hash(map[string]any{"y": []any{"a", "b"}, "x": "1"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
