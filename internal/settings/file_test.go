package settings

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"squiggles/internal/squiggle"
)

func tempSettings(t *testing.T, content string) *File {
	t.Helper()
	p := filepath.Join(t.TempDir(), "User", "settings.json")
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return &File{Path: p}
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	f := tempSettings(t, "")
	ctx := context.Background()

	cust, err := f.Customizations(ctx)
	require.NoError(t, err)
	require.Empty(t, cust)

	o, err := f.Options(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultOptions(), o)
}

func TestFile_UpdateCustomizationsCreatesFile(t *testing.T) {
	f := tempSettings(t, "")
	ctx := context.Background()

	require.NoError(t, f.UpdateCustomizations(ctx, squiggle.Customizations{"editorError.border": "#ff0000"}))

	cust, err := f.Customizations(ctx)
	require.NoError(t, err)
	require.Equal(t, squiggle.Customizations{"editorError.border": "#ff0000"}, cust)
}

func TestFile_HideRestoreCycleOnDisk(t *testing.T) {
	f := tempSettings(t, sampleJSONC)
	ctx := context.Background()

	cur, err := f.Customizations(ctx)
	require.NoError(t, err)
	hidden := squiggle.Apply(cur, squiggle.Toggles{Errors: true})
	require.NoError(t, f.UpdateCustomizations(ctx, hidden.Next))

	cur, err = f.Customizations(ctx)
	require.NoError(t, err)
	require.Equal(t, squiggle.Hidden, squiggle.Visibility(cur, squiggle.Toggles{Errors: true}))

	restored := squiggle.Apply(cur, squiggle.Toggles{Errors: true})
	require.NoError(t, f.UpdateCustomizations(ctx, restored.Next))

	cur, err = f.Customizations(ctx)
	require.NoError(t, err)
	require.Equal(t, squiggle.Customizations{
		"editorError.background": "#ff0000",
		"[Default Dark+]":        map[string]any{"editor.background": "#000000"},
	}, cur)

	// other settings survive the rewrite
	o, err := f.Options(ctx)
	require.NoError(t, err)
	require.False(t, o.Toggles.Info)
}

func TestFile_SavePreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	f := tempSettings(t, `{}`)
	ctx := context.Background()

	require.NoError(t, f.SetOption(ctx, OptHideHint, false))

	info, err := os.Stat(f.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(f.Path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFile_SaveThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	real := filepath.Join(dir, "dotfiles", "settings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(real), 0o755))
	require.NoError(t, os.WriteFile(real, []byte(`{}`), 0o644))
	link := filepath.Join(dir, "settings.json")
	require.NoError(t, os.Symlink(real, link))

	f := &File{Path: link}
	require.NoError(t, f.SetOption(context.Background(), OptStartHidden, true))

	fi, err := os.Lstat(link)
	require.NoError(t, err)
	require.NotZero(t, fi.Mode()&os.ModeSymlink, "symlink must survive the write")

	b, err := os.ReadFile(real)
	require.NoError(t, err)
	require.Contains(t, string(b), `"invisibleSquiggles.startHidden": true`)
}

func TestFile_SetOption(t *testing.T) {
	f := tempSettings(t, `{"invisibleSquiggles.hideErrors": true}`)
	ctx := context.Background()

	require.NoError(t, f.SetOption(ctx, OptHideErrors, false))
	require.NoError(t, f.SetOption(ctx, OptStartHidden, true))
	require.Error(t, f.SetOption(ctx, "hideEverything", true))

	o, err := f.Options(ctx)
	require.NoError(t, err)
	require.False(t, o.Toggles.Errors)
	require.True(t, o.StartHidden)
}

func TestFile_ParseErrorCarriesPath(t *testing.T) {
	f := tempSettings(t, `{"broken":`)

	_, err := f.Customizations(context.Background())
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, f.Path, pe.Path)
}

func TestFile_CancelledContext(t *testing.T) {
	f := tempSettings(t, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Customizations(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := defaultPath("linux", "", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "Code", "User", "settings.json"), p)

	p, err = defaultPath("darwin", "vscodium", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "Library", "Application Support", "VSCodium", "User", "settings.json"), p)

	p, err = defaultPath("windows", "Code - Insiders", filepath.Join("C:", "AppData"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("C:", "AppData", "Code - Insiders", "User", "settings.json"), p)

	_, err = defaultPath("linux", "emacs", "")
	require.Error(t, err)

	_, err = defaultPath("plan9", "Code", "")
	require.Error(t, err)
}
