package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"squiggles/internal/settings"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage squiggles until interrupted, restoring them on exit",
	Long: "Repairs leftover state, hides squiggles if startHidden is set and then follows the settings file " +
		"until Ctrl+C or SIGTERM, at which point the saved colors are restored.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runSession(ctx)
	},
}

func runSession(ctx context.Context) error {
	f, c, err := openController()
	if err != nil {
		return err
	}
	if err := c.Activate(ctx); err != nil {
		return err
	}
	fmt.Fprintf(Stdout, "Following %s. Press Ctrl+C to restore squiggles and exit.\n", f.Path)

	g, gctx := errgroup.WithContext(ctx)
	changes := settings.NewWatcher(f.Path, debounce(), Logger).Changes(gctx)

	// follow external edits until the watcher closes
	g.Go(func() error {
		for range changes {
			st, err := c.Refresh(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				// a half-written file from the editor; the next event retries
				Logger.Warn("refresh after change failed", zap.Error(err))
				continue
			}
			Logger.Info("settings changed on disk", zap.Stringer("state", st))
		}
		if gctx.Err() == nil {
			// ends the session so the restore below still runs
			return errors.New("settings watcher stopped")
		}
		return nil
	})

	// restore once the session ends; the restore itself must not be cancelled
	g.Go(func() error {
		<-gctx.Done()
		if err := c.Deactivate(context.WithoutCancel(gctx)); err != nil {
			return fmt.Errorf("restore on exit: %w", err)
		}
		Logger.Info("session ended")
		return nil
	})
	return g.Wait()
}
