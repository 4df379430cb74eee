package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

var statusJSON bool

// statusReport is the --json shape of the status command.
type statusReport struct {
	Settings          string            `json:"settings"`
	State             string            `json:"state"`
	Visible           bool              `json:"visible"`
	Hide              map[string]bool   `json:"hide"`
	StartHidden       bool              `json:"startHidden"`
	ShowStatusMessage bool              `json:"showStatusBarMessage"`
	TransparentKeys   []string          `json:"transparentKeys"`
	OriginalColors    map[string]string `json:"originalColors"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether squiggles are hidden and which categories are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		f, err := OpenStore()
		if err != nil {
			return err
		}
		opts, err := f.Options(ctx)
		if err != nil {
			return err
		}
		cur, err := f.Customizations(ctx)
		if err != nil {
			return err
		}
		r := buildStatus(f.Path, opts, cur)

		if statusJSON {
			b, err := json.Marshal(r)
			if err != nil {
				return err
			}
			b = pretty.Pretty(b)
			if !color.NoColor {
				b = pretty.Color(b, nil)
			}
			_, err = Stdout.Write(b)
			return err
		}
		printStatus(r)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print machine-readable JSON")
}

func buildStatus(path string, opts settings.Options, cur squiggle.Customizations) statusReport {
	st := squiggle.Visibility(cur, opts.Toggles)
	r := statusReport{
		Settings:          path,
		State:             st.String(),
		Visible:           st == squiggle.Visible,
		Hide:              map[string]bool{},
		StartHidden:       opts.StartHidden,
		ShowStatusMessage: opts.ShowStatusMessage,
		TransparentKeys:   []string{},
		OriginalColors:    map[string]string{},
	}
	for _, c := range squiggle.Categories() {
		r.Hide[strings.ToLower(string(c))] = opts.Toggles.Enabled(c)
	}
	if st == squiggle.Hidden {
		saved := squiggle.Decode(cur[squiggle.MarkerKey], "in status")
		r.TransparentKeys = append(r.TransparentKeys, saved.TransparentKeys...)
		r.OriginalColors = saved.OriginalColors
	} else {
		for _, k := range squiggle.AllKeys() {
			if squiggle.IsTransparent(cur[k]) {
				r.TransparentKeys = append(r.TransparentKeys, k)
			}
		}
	}
	sort.Strings(r.TransparentKeys)
	return r
}

func printStatus(r statusReport) {
	fmt.Fprintln(Stdout)
	fmt.Fprintf(Stdout, "%s %s\n", colorLabel.Sprint("Settings:"), r.Settings)
	text := squiggle.TextVisible
	if !r.Visible {
		text = squiggle.TextHidden
	}
	fmt.Fprintf(Stdout, "%s (%s)\n", stateColor(r.Visible).Sprint(text), r.State)
	fmt.Fprintln(Stdout)

	fmt.Fprintln(Stdout, colorHeading.Sprint("Categories to hide:"))
	for _, c := range squiggle.Categories() {
		name := strings.ToLower(string(c))
		fmt.Fprintf(Stdout, "  %-8s %s\n", name, onOff(r.Hide[name]))
	}
	fmt.Fprintf(Stdout, "  %-8s %s\n", "start", onOff(r.StartHidden)+colorNotes.Sprint(" (start hidden)"))
	fmt.Fprintf(Stdout, "  %-8s %s\n", "messages", onOff(r.ShowStatusMessage))

	if len(r.TransparentKeys) > 0 {
		fmt.Fprintln(Stdout)
		fmt.Fprintln(Stdout, colorHeading.Sprint("Transparent keys:"))
		for _, k := range r.TransparentKeys {
			line := "  " + k
			if orig, ok := r.OriginalColors[k]; ok {
				line += colorNotes.Sprintf("  (was %s)", orig)
			}
			fmt.Fprintln(Stdout, line)
		}
	}
	if r.State == squiggle.Stuck.String() {
		fmt.Fprintln(Stdout)
		fmt.Fprintln(Stdout, colorWarn.Sprint("Squiggles are transparent but no saved state exists; toggling will clear them."))
	}
}

func onOff(b bool) string {
	if b {
		return colorVisible.Sprint("on")
	}
	return colorNotes.Sprint("off")
}
