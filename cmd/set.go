package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

var (
	setStartHidden bool
	setMessages    bool
)

// categoryNames are the names offered for completion, indexed like
// squiggle.Categories().
var categoryNames = []string{"errors", "warnings", "info", "hints"}

var setCmd = &cobra.Command{
	Use:   "set <category>=<on|off>...",
	Short: "Choose which squiggle categories are hidden",
	Long: "Writes the invisibleSquiggles.hide* settings. Categories may be abbreviated " +
		"(e.g. err=off, warn=on) and are matched fuzzily when unambiguous.",
	Example: "  squiggles set errors=on warnings=on info=off hints=off\n  squiggles set --start-hidden=true",
	RunE: func(cmd *cobra.Command, args []string) error {
		type change struct {
			option string
			value  bool
		}
		var changes []change
		for _, a := range args {
			c, v, err := parseAssignment(a)
			if err != nil {
				return err
			}
			changes = append(changes, change{settings.OptionFor(c), v})
		}
		if cmd.Flags().Changed("start-hidden") {
			changes = append(changes, change{settings.OptStartHidden, setStartHidden})
		}
		if cmd.Flags().Changed("messages") {
			changes = append(changes, change{settings.OptShowMessage, setMessages})
		}
		if len(changes) == 0 {
			return errors.New("nothing to set; pass <category>=<on|off> or a flag")
		}

		f, err := OpenStore()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		for _, ch := range changes {
			if err := f.SetOption(ctx, ch.option, ch.value); err != nil {
				return err
			}
			fmt.Fprintf(Stdout, "%s = %v\n", colorLabel.Sprint(settings.Qualified(ch.option)), ch.value)
		}
		return nil
	},
	ValidArgsFunction: categoryValidArgs,
}

func init() {
	setCmd.Flags().BoolVar(&setStartHidden, "start-hidden", false, "hide squiggles when a session starts")
	setCmd.Flags().BoolVar(&setMessages, "messages", true, "print a message after each toggle")
}

// parseAssignment parses "category=value".
func parseAssignment(s string) (squiggle.Category, bool, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return "", false, fmt.Errorf("expected <category>=<on|off>, got %q", s)
	}
	c, err := resolveCategory(name)
	if err != nil {
		return "", false, err
	}
	v, err := parseSwitch(val)
	if err != nil {
		return "", false, err
	}
	return c, v, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1", "hide", "hidden":
		return true, nil
	case "off", "false", "no", "0", "show", "visible":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (want on or off)", s)
}

// resolveCategory tries an exact name, then a unique prefix, then the best
// unambiguous fuzzy match.
func resolveCategory(s string) (squiggle.Category, error) {
	if c, err := squiggle.ParseCategory(s); err == nil {
		return c, nil
	}
	cats := squiggle.Categories()
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return "", fmt.Errorf("%w: empty name", squiggle.ErrUnknownCategory)
	}

	hit := -1
	for i, name := range categoryNames {
		if strings.HasPrefix(name, n) {
			if hit >= 0 {
				hit = -2
				break
			}
			hit = i
		}
	}
	if hit >= 0 {
		return cats[hit], nil
	}

	matches := fuzzy.Find(n, categoryNames)
	if len(matches) == 1 || (len(matches) > 1 && matches[0].Score > matches[1].Score) {
		return cats[matches[0].Index], nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", squiggle.ErrUnknownCategory, s, strings.Join(categoryNames, ", "))
}

// categoryValidArgs completes "<category>=" and then "on"/"off".
func categoryValidArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if name, _, ok := strings.Cut(toComplete, "="); ok {
		return []string{name + "=on", name + "=off"}, cobra.ShellCompDirectiveNoFileComp
	}

	used := map[string]bool{}
	for _, a := range args {
		if name, _, ok := strings.Cut(a, "="); ok {
			if c, err := resolveCategory(name); err == nil {
				used[strings.ToLower(string(c))] = true
			}
		}
	}
	var out []string
	for i, name := range categoryNames {
		if used[strings.ToLower(string(squiggle.Categories()[i]))] {
			continue
		}
		out = append(out, name+"=")
	}
	if toComplete != "" {
		matches := fuzzy.Find(strings.ToLower(toComplete), out)
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, m.Str)
		}
		out = filtered
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
