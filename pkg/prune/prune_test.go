package prune

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RemovesNilAndEmptyMaps(t *testing.T) {
	in := map[string]any{
		"a": 1,
		"b": nil,
		"c": map[string]any{
			"d": nil,
			"e": map[string]any{"f": nil},
		},
		"g": map[string]any{"h": "x", "i": nil},
	}

	out := Map(in)

	expected := map[string]any{
		"a": 1,
		"g": map[string]any{"h": "x"},
	}
	assert.Equal(t, expected, out)
}

func TestMap_ReturnsSameMap(t *testing.T) {
	in := map[string]any{"a": nil}

	out := Map(in)
	out["z"] = true

	assert.Equal(t, true, in["z"], "Map should operate in place")
}

func TestMap_ExcludedKeysSurvive(t *testing.T) {
	in := map[string]any{
		"contactNumber": map[string]any{
			"areaCode":    nil,
			"countryCode": "65",
		},
		"empty": map[string]any{},
		"keep":  map[string]any{},
	}

	out := Map(in, "areaCode", "keep")

	expected := map[string]any{
		"contactNumber": map[string]any{
			"areaCode":    nil,
			"countryCode": "65",
		},
		"keep": map[string]any{},
	}
	assert.Equal(t, expected, out)
}

func TestMap_WalksSlices(t *testing.T) {
	in := map[string]any{
		"sessions": []map[string]any{
			{"startDate": "20240101", "venue": nil},
			{"startDate": nil},
		},
		"roles": []any{map[string]any{"id": 1, "description": nil}, "plain"},
	}

	out := Map(in)

	sessions := out["sessions"].([]map[string]any)
	require.Len(t, sessions, 2, "slice elements are never removed")
	assert.Equal(t, map[string]any{"startDate": "20240101"}, sessions[0])
	assert.Empty(t, sessions[1])

	roles := out["roles"].([]any)
	assert.Equal(t, map[string]any{"id": 1}, roles[0])
	assert.Equal(t, "plain", roles[1])
}

func TestMap_Idempotent(t *testing.T) {
	build := func() map[string]any {
		return map[string]any{
			"a": map[string]any{"b": map[string]any{"c": nil}},
			"d": []map[string]any{{"e": nil, "f": 2}},
			"g": "h",
		}
	}

	once := Map(build())
	onceJSON, err := json.Marshal(once)
	require.NoError(t, err)

	twice := Map(Map(build()))
	twiceJSON, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.JSONEq(t, string(onceJSON), string(twiceJSON))
}

func TestMap_PreservesNonNilLeaves(t *testing.T) {
	in := map[string]any{
		"zero":  0,
		"empty": "",
		"false": false,
		"list":  []string{},
	}

	out := Map(in)

	assert.Equal(t, 0, out["zero"])
	assert.Equal(t, "", out["empty"])
	assert.Equal(t, false, out["false"])
	assert.Equal(t, []string{}, out["list"])
}

func TestMap_Nil(t *testing.T) {
	assert.Nil(t, Map(nil))
}
