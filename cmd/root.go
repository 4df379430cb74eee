package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"squiggles/internal/controller"
	"squiggles/internal/logging"
	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

var (
	cfgFile      string
	settingsPath string
	verbose      bool
	noColor      bool
)

// Package-level seams so tests can capture output and point commands at a
// temporary settings file.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	Logger           = zap.NewNop()

	OpenStore = func() (*settings.File, error) {
		return settings.NewFile(viper.GetString("settings.path"), viper.GetString("settings.flavor"), viper.GetString("settings.indent"))
	}
)

var rootCmd = &cobra.Command{
	Use:   "squiggles",
	Short: "Hide and restore VS Code diagnostic squiggles",
	Long: "Makes error, warning, info and hint squiggles transparent by editing workbench.colorCustomizations " +
		"in the VS Code user settings, and restores the exact previous colors on the next toggle.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			DisableColors()
		}
		l, err := logging.New(logging.Config{
			Level:   viper.GetString("log.level"),
			File:    viper.GetString("log.file"),
			Verbose: verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		Logger = l.With(zap.String("command", cmd.Name()))
		squiggle.SetLogger(Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = Logger.Sync()
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.squiggles/config.yaml)")
	pf.StringVar(&settingsPath, "settings", "", "path to the VS Code user settings.json (default depends on OS and settings.flavor)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	_ = viper.BindPFlag("settings.path", pf.Lookup("settings"))

	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		dir := filepath.Join(home, ".squiggles")
		_ = os.MkdirAll(dir, 0o755)
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}
	setDefaults()
	viper.SetEnvPrefix("SQUIGGLES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Safe read; if missing, proceed with defaults
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("settings.flavor", settings.DefaultFlavor)
	viper.SetDefault("settings.indent", settings.DefaultIndent)
	viper.SetDefault("watch.debounce", settings.DefaultDebounce)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", logging.DefaultFile())
}

func debounce() time.Duration {
	d := viper.GetDuration("watch.debounce")
	if d <= 0 {
		return settings.DefaultDebounce
	}
	return d
}

// openController opens the settings file and wraps it in a controller that
// reports through the console.
func openController() (*settings.File, *controller.Controller, error) {
	f, err := OpenStore()
	if err != nil {
		return nil, nil, err
	}
	Logger.Debug("using settings file", zap.String("path", f.Path))
	c := controller.New(f,
		controller.WithIndicator(&console{}),
		controller.WithNotifier(&console{}),
		controller.WithLogger(Logger),
	)
	return f, c, nil
}

// console prints controller output. The indicator text is printed as the
// command's status line.
type console struct{}

func (console) SetText(s string) {
	fmt.Fprintln(Stdout, stateColor(s == squiggle.TextVisible).Sprint(s))
}

func (console) SetTooltip(string) {}

func (console) Info(msg string) {
	fmt.Fprintln(Stdout, colorNotes.Sprint(msg))
}

func (console) Error(msg string) {
	fmt.Fprintln(Stderr, colorError.Sprint(msg))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

