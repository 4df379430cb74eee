package squiggle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReconcile_NoMarker(t *testing.T) {
	next, ok := Reconcile(Customizations{"editorError.background": TransparentColor})
	require.False(t, ok)
	require.Nil(t, next)
}

// Scenario D
func TestReconcile_ClearsKeysWithoutOriginal(t *testing.T) {
	cur := Customizations{
		"editorError.background": TransparentColor,
		MarkerKey:                `{"originalColors":{},"transparentKeys":["editorError.background"]}`,
	}
	next, ok := Reconcile(cur)

	require.True(t, ok)
	require.Nil(t, next["editorError.background"])
	require.Nil(t, next[MarkerKey])
	require.Empty(t, next.Compact())
}

func TestReconcile_RestoresOriginals(t *testing.T) {
	hidden := Apply(Customizations{
		"editorError.background": "#ff0000",
		"editorWarning.border":   "#ffaa00",
		"editorHint.foreground":  "#00ff00",
		"custom.userSetting":     "#123456",
	}, AllToggles())

	next, ok := Reconcile(hidden.Next)

	require.True(t, ok)
	require.Equal(t, Customizations{
		"editorError.background": "#ff0000",
		"editorWarning.border":   "#ffaa00",
		"editorHint.foreground":  "#00ff00",
		"custom.userSetting":     "#123456",
	}, next.Compact())
}

func TestReconcile_NullMarkerIsPruned(t *testing.T) {
	cur := Customizations{"editorError.background": "#ff0000", MarkerKey: nil}
	next, ok := Reconcile(cur)

	require.True(t, ok)
	require.Contains(t, next, MarkerKey)
	require.Nil(t, next[MarkerKey])
	require.Equal(t, "#ff0000", next["editorError.background"])
}

func TestReconcile_NonStringMarkerKeepsColors(t *testing.T) {
	for _, raw := range []any{123.0, "", true, map[string]any{}} {
		cur := Customizations{"editorError.background": TransparentColor, MarkerKey: raw}
		next, ok := Reconcile(cur)

		require.True(t, ok)
		require.Nil(t, next[MarkerKey])
		require.Equal(t, TransparentColor, next["editorError.background"])
	}
}

func TestReconcile_InvalidJSONLogsAndClearsMarker(t *testing.T) {
	logs := observeLogs(t)
	cur := Customizations{"editorError.background": TransparentColor, MarkerKey: "invalid json{"}

	next, ok := Reconcile(cur)

	require.True(t, ok)
	require.Nil(t, next[MarkerKey])
	require.Equal(t, 1, logs.FilterField(contextField("during cleanup")).Len())
}

func TestReconcile_Idempotent(t *testing.T) {
	hidden := Apply(Customizations{"editorInfo.background": "#0000ff", "x": "y"}, Toggles{Info: true})

	once, ok := Reconcile(hidden.Next)
	require.True(t, ok)
	twice, ok := Reconcile(once.Compact())
	require.False(t, ok)
	require.Nil(t, twice)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	cur := Customizations{MarkerKey: nil, "a": "b"}
	Reconcile(cur)
	require.Equal(t, Customizations{MarkerKey: nil, "a": "b"}, cur)
}
