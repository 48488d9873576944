package cmd

import (
	"fmt"

	"github.com/theirongolddev/iceplan/internal/cli"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every field to its default and clear the saved plan",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !flagResetYes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset the plan?").
			Description("Every value returns to its default and the saved plan is cleared.").
			Affirmative("Reset").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirm reset: %w", err)
		}
		if !confirmed {
			fmt.Println(cli.RenderNote("Plan kept."))
			return nil
		}
	}

	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.session.Reset(cmd.Context()); err != nil {
		return err
	}

	printPlan(rt.session)
	return nil
}
