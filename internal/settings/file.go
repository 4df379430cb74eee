package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"squiggles/internal/squiggle"
)

// DefaultIndent matches what VS Code writes.
const DefaultIndent = "    "

// File is a settings.json on disk. Each operation reads the file fresh and
// writes it back atomically, so edits made by the editor between calls are
// picked up rather than clobbered with stale state.
type File struct {
	Path   string
	Indent string

	mu sync.Mutex
}

// NewFile returns a File for path. If path is empty the default VS Code
// location for flavor is used.
func NewFile(path, flavor, indent string) (*File, error) {
	if path == "" {
		p, err := DefaultPath(flavor)
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &File{Path: path, Indent: indent}, nil
}

// Load reads and parses the file. A missing file is an empty document.
func (f *File) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Document{raw: []byte("{}")}, nil
	}
	if err != nil {
		return nil, err
	}
	d, err := Parse(b)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = f.Path
		}
		return nil, err
	}
	return d, nil
}

// Save writes d through a temp file and rename in the same directory.
// Symlinked settings (dotfile managers) are written through to their target.
func (f *File) Save(ctx context.Context, d *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := f.Path
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(d.Bytes(f.Indent)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

// update runs fn against a fresh document and saves it if fn reports a change.
func (f *File) update(ctx context.Context, fn func(d *Document) (bool, error)) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, err := f.Load(ctx)
	if err != nil {
		return false, err
	}
	changed, err := fn(d)
	if err != nil || !changed {
		return false, err
	}
	if err := f.Save(ctx, d); err != nil {
		return false, fmt.Errorf("write %s: %w", f.Path, err)
	}
	return true, nil
}

// Customizations reads workbench.colorCustomizations.
func (f *File) Customizations(ctx context.Context) (squiggle.Customizations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}
	return d.Customizations()
}

// UpdateCustomizations replaces workbench.colorCustomizations with m.
// Nil values in m remove their keys.
func (f *File) UpdateCustomizations(ctx context.Context, m squiggle.Customizations) error {
	_, err := f.update(ctx, func(d *Document) (bool, error) {
		if _, err := d.Customizations(); err != nil {
			return false, err
		}
		return true, d.SetCustomizations(m)
	})
	return err
}
