package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/iceplan/internal/budget"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set FIELD=VALUE...",
	Short: "Set one or more plan fields",
	Long: "Set plan fields by key, e.g. `iceplan set numPlayers=15 iceCost=320`.\n" +
		"Numbers below a field's minimum, or that do not parse, are clamped to the minimum.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

type assignment struct {
	field budget.Field
	value string
}

// parseAssignments checks every FIELD=VALUE argument before any is applied.
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected FIELD=VALUE, got %q", arg)
		}
		f, err := budget.ParseField(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{field: f, value: value})
	}
	return out, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	assignments, err := parseAssignments(args)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	for _, a := range assignments {
		if err := rt.session.Set(cmd.Context(), a.field, a.value); err != nil {
			return err
		}
	}

	printPlan(rt.session)
	return nil
}
