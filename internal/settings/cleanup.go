package settings

import (
	"context"

	"squiggles/internal/squiggle"
)

// Cleanup removes every trace of this tool from the settings, as when the
// tool is uninstalled:
//
//   - a hidden state is restored from the marker when it can be read;
//   - squiggle keys still set to the transparent color are removed;
//   - an emptied workbench.colorCustomizations is removed;
//   - all invisibleSquiggles.* settings are removed.
//
// The file is only written when something changed.
func (d *Document) Cleanup() (bool, error) {
	changed := false

	cust, err := d.Customizations()
	if err != nil {
		return false, err
	}
	if next, ok := squiggle.Reconcile(cust); ok {
		cust, changed = next, true
	}
	for _, k := range squiggle.AllKeys() {
		if squiggle.IsTransparent(cust[k]) {
			cust.Clear(k)
			changed = true
		}
	}
	if changed {
		if err := d.SetCustomizations(cust); err != nil {
			return false, err
		}
	}

	for _, k := range d.KeysWithPrefix(Section + ".") {
		if err := d.Delete(k); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// Cleanup applies Document.Cleanup to the file.
func (f *File) Cleanup(ctx context.Context) (bool, error) {
	return f.update(ctx, func(d *Document) (bool, error) {
		return d.Cleanup()
	})
}
