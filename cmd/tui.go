package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"squiggles/internal/controller"
	"squiggles/internal/settings"
	ui "squiggles/internal/tui"
)

// tuiCmd runs the Bubble Tea dashboard. Like session, it restores the saved
// colors when it exits.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard (space: toggle, x: flip setting, q/Esc: quit)",
	Long:  "Launch the Bubble Tea dashboard. It follows settings.json for external edits. Keys: space=toggle, j/k=move, x/enter=flip, r=restore, q/Esc=quit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := OpenStore()
		if err != nil {
			return err
		}
		if theme := viper.GetStringMapString("tui.theme"); len(theme) > 0 {
			ui.SetTheme(theme)
		}

		line := ui.NewStatusLine()
		c := controller.New(f,
			controller.WithIndicator(line),
			controller.WithNotifier(line),
			controller.WithLogger(Logger),
		)
		svcs := ui.Services{
			Squiggles:    c,
			Options:      f,
			Watch:        settings.NewWatcher(f.Path, debounce(), Logger),
			Status:       line,
			SettingsPath: f.Path,
		}
		if err := ui.Run(commandContext(cmd), svcs, tea.WithAltScreen()); err != nil {
			Logger.Error("tui exited with error", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
