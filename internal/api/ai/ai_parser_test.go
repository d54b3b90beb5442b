package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("PrefersFencedJSONBlock", func(t *testing.T) {
		text := "Here is your plan:\n```json\n{\"title\": \"Hue in two days\"}\n```\nEnjoy!"

		res := ExtractJSON(text)

		require.True(t, res.Parsed)
		var got map[string]string
		require.NoError(t, json.Unmarshal(res.Data, &got))
		assert.Equal(t, "Hue in two days", got["title"])
		assert.Equal(t, text, res.Raw)
	})

	t.Run("FallsBackToBareFence", func(t *testing.T) {
		text := "```\n{\"total\": 120}\n```"

		res := ExtractJSON(text)

		require.True(t, res.Parsed)
		assert.JSONEq(t, `{"total": 120}`, string(res.Data))
	})

	t.Run("WholeTextAsJSON", func(t *testing.T) {
		res := ExtractJSON(`  {"places": []}  `)

		require.True(t, res.Parsed)
		assert.JSONEq(t, `{"places": []}`, string(res.Data))
	})

	t.Run("FencedGarbageFallsThroughToWholeText", func(t *testing.T) {
		// A fenced block that is not JSON must not hide a valid
		// whole-text candidate.
		res := ExtractJSON("```json\nnot json at all\n```")

		assert.False(t, res.Parsed)
		assert.Equal(t, "```json\nnot json at all\n```", res.Raw)
	})

	t.Run("ProseIsNotParsed", func(t *testing.T) {
		res := ExtractJSON("I recommend visiting the Imperial City early in the morning.")

		assert.False(t, res.Parsed)
		assert.Nil(t, res.Data)
		assert.Equal(t, "I recommend visiting the Imperial City early in the morning.", res.Raw)
	})

	t.Run("UnterminatedFence", func(t *testing.T) {
		res := ExtractJSON("```json\n{\"title\": \"x\"}")

		assert.False(t, res.Parsed)
	})
}
