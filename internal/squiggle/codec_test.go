package squiggle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestDecode_Valid(t *testing.T) {
	raw := `{"originalColors":{"editorError.background":"#ff0000"},"transparentKeys":["editorError.background","editorError.border"]}`
	st := Decode(raw, "")
	require.Equal(t, map[string]string{"editorError.background": "#ff0000"}, st.OriginalColors)
	require.Equal(t, []string{"editorError.background", "editorError.border"}, st.TransparentKeys)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]any{
		"nil":              nil,
		"empty":            "",
		"not json":         "not json",
		"number":           "123",
		"bool":             "true",
		"json null":        "null",
		"json string":      `"hello"`,
		"array":            "[1,2]",
		"foreign object":   `{"foo":1}`,
		"only colors":      `{"originalColors":{}}`,
		"only keys":        `{"transparentKeys":[]}`,
		"null colors":      `{"originalColors":null,"transparentKeys":[]}`,
		"null keys":        `{"originalColors":{},"transparentKeys":null}`,
		"string colors":    `{"originalColors":"x","transparentKeys":[]}`,
		"number keys":      `{"originalColors":{},"transparentKeys":5}`,
		"array colors":     `{"originalColors":[],"transparentKeys":[]}`,
		"non-string value": 42,
		"legacy flat map":  `{"editorError.background":"#ff0000"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, EmptyState(), Decode(raw, ""))
		})
	}
}

func TestDecode_SkipsNonStringEntries(t *testing.T) {
	raw := `{"originalColors":{"a":"#111111","b":7},"transparentKeys":["a",null,3]}`
	st := Decode(raw, "")
	require.Equal(t, map[string]string{"a": "#111111"}, st.OriginalColors)
	require.Equal(t, []string{"a"}, st.TransparentKeys)
}

func TestDecode_LogsSyntaxErrorWithContext(t *testing.T) {
	logs := observeLogs(t)

	Decode("invalid json{", "during cleanup")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "error parsing saved colors JSON during cleanup", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "during cleanup", entries[0].ContextMap()["context"])
}

func TestDecode_NoContextNoSuffix(t *testing.T) {
	logs := observeLogs(t)

	Decode("invalid json{", "")

	require.Equal(t, 1, logs.FilterMessage("error parsing saved colors JSON").Len())
}

func TestDecode_ShapeMismatchIsNotLogged(t *testing.T) {
	logs := observeLogs(t)

	Decode(`{"foo":1}`, "x")
	Decode("123", "x")

	require.Zero(t, logs.Len())
}

func TestEncode_RoundTrip(t *testing.T) {
	states := []StoredState{
		EmptyState(),
		{OriginalColors: map[string]string{}, TransparentKeys: []string{"editorHint.border"}},
		{
			OriginalColors:  map[string]string{"editorError.background": "#ff0000", "editorWarning.border": "#FFAA00"},
			TransparentKeys: []string{"editorError.background", "editorError.border", "editorWarning.border"},
		},
	}
	for _, st := range states {
		require.Equal(t, st, Decode(Encode(st), ""))
	}
}

func TestEncode_NilFieldsAndDeterminism(t *testing.T) {
	require.Equal(t, `{"originalColors":{},"transparentKeys":[]}`, Encode(StoredState{}))

	st := StoredState{
		OriginalColors:  map[string]string{"b": "#2", "a": "#1"},
		TransparentKeys: []string{"a", "b"},
	}
	require.Equal(t, `{"originalColors":{"a":"#1","b":"#2"},"transparentKeys":["a","b"]}`, Encode(st))
	require.Equal(t, Encode(st), Encode(st))
}
