package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Hide the enabled squiggle categories, or restore them if hidden",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := openController()
		if err != nil {
			return err
		}
		out, err := c.Toggle(commandContext(cmd))
		if err != nil {
			return err
		}
		if !out.Changed {
			fmt.Fprintln(Stdout, colorWarn.Sprint("No squiggle categories are enabled; nothing to hide."))
		}
		return nil
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Restore colors left hidden by an earlier run, then hide again if startHidden is set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := openController()
		if err != nil {
			return err
		}
		return c.Activate(commandContext(cmd))
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the saved squiggle colors if they are hidden",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := openController()
		if err != nil {
			return err
		}
		return c.Deactivate(commandContext(cmd))
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Restore colors and remove every invisibleSquiggles setting (run before uninstalling)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := OpenStore()
		if err != nil {
			return err
		}
		changed, err := f.Cleanup(commandContext(cmd))
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(Stdout, "Cleaned up %s\n", f.Path)
		} else {
			fmt.Fprintln(Stdout, "Nothing to clean up.")
		}
		return nil
	},
}
