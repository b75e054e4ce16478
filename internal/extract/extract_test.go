package extract

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questline/internal/xerrors"
)

func TestPayloadFencedObject(t *testing.T) {
	atoms := `{"skill_atoms":[{"id":"a1"},{"id":"a2"},{"id":"a3"},{"id":"a4"},{"id":"a5"},{"id":"a6"},{"id":"a7"},{"id":"a8"},{"id":"a9"},{"id":"a10"}]}`
	raw := "Here is the result:\n```json\n" + atoms + "\n```\nHope that helps!"

	payload, err := Payload(raw)
	require.NoError(t, err)
	assert.JSONEq(t, atoms, string(payload))
}

func TestPayloadUnfenced(t *testing.T) {
	raw := `Sure thing. {"quests": [1, 2, 3]} Let me know if you need more.`
	payload, err := Payload(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quests":[1,2,3]}`, string(payload))
}

func TestPayloadBareArray(t *testing.T) {
	payload, err := Payload("result: [1, 2, 3]")
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(payload))
}

func TestPayloadNoMarker(t *testing.T) {
	_, err := Payload("I could not produce structured output, sorry.")
	require.Error(t, err)
	assert.True(t, xerrors.IsExtraction(err))
}

func TestPayloadUnclosedMarker(t *testing.T) {
	_, err := Payload("the payload { never closes")
	require.Error(t, err)
	assert.True(t, xerrors.IsExtraction(err))
}

func TestPayloadRepairsTrailingComma(t *testing.T) {
	payload, err := Payload(`{"quests": [{"minutes": 20,}],}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quests":[{"minutes":20}]}`, string(payload))
}

func TestPayloadFenceWithoutNewline(t *testing.T) {
	payload, err := Payload("```{\"a\": 1}```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(payload))
}

func TestPayloadProseFencePayloadOutside(t *testing.T) {
	raw := "```\nsome notes\n```\n{\"a\": 1}"
	payload, err := Payload(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(payload))
}

func TestPayloadIdempotent(t *testing.T) {
	raw := "noise before\n```json\n{\"quests\": [{\"minutes\": 25, \"title\": \"x\"}]}\n```\nnoise after"
	first, err := Payload(raw)
	require.NoError(t, err)

	var decoded any
	require.NoError(t, json.Unmarshal(first, &decoded))
	reserialized, err := json.Marshal(decoded)
	require.NoError(t, err)

	second, err := Payload(string(reserialized))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestPayloadTakesFirstMarkerKind(t *testing.T) {
	// First marker is '[', so the span runs to the last ']'.
	raw := fmt.Sprintf("pick [1, 2] not {%q: 3}", "x")
	payload, err := Payload(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(payload))
}
