package redaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSensitive(t *testing.T) {
	for _, name := range []string{"api_token", "user_password", "SecretValue", "apiKey", "document_HASH"} {
		assert.True(t, IsSensitive(name), name)
	}
	for _, name := range []string{"label", "amount", "journal_code"} {
		assert.False(t, IsSensitive(name), name)
	}
}

func TestRedactMasksNestedFields(t *testing.T) {
	in, err := Normalize(map[string]any{
		"api_token":     "abc",
		"user_password": "hunter2",
		"label":         "ok",
		"nested": map[string]any{
			"client_secret": "s",
			"items":         []any{map[string]any{"private_key": "k", "qty": 2}},
		},
	})
	require.NoError(t, err)

	out := Redact(in, 0)
	assert.Equal(t, Mask, out["api_token"])
	assert.Equal(t, Mask, out["user_password"])
	assert.Equal(t, "ok", out["label"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, Mask, nested["client_secret"])
	item := nested["items"].([]any)[0].(map[string]any)
	assert.Equal(t, Mask, item["private_key"])
	assert.Equal(t, "2", item["qty"].(interface{ String() string }).String())

	// The input is not modified.
	assert.Equal(t, "abc", in["api_token"])
}

func TestRedactTruncatesLongStrings(t *testing.T) {
	long := strings.Repeat("é", 12)
	out := Redact(map[string]any{"note": long}, 10)
	assert.Equal(t, strings.Repeat("é", 10)+TruncationMarker, out["note"])

	short := Redact(map[string]any{"note": "abc"}, 10)
	assert.Equal(t, "abc", short["note"])
}

func TestChangedFields(t *testing.T) {
	before, err := Normalize(map[string]any{"a": 1, "b": "x", "gone": true, "same": []any{"1"}})
	require.NoError(t, err)
	after, err := Normalize(map[string]any{"a": 2, "b": "x", "new": "y", "same": []any{"1"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "gone", "new"}, ChangedFields(before, after))
	assert.Equal(t, []string{"a", "b"}, ChangedFields(nil, map[string]any{"b": 1, "a": 1}))
	assert.Empty(t, ChangedFields(before, before))
}

func TestNormalizeNil(t *testing.T) {
	out, err := Normalize(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
