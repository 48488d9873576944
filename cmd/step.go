package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/iceplan/internal/budget"

	"github.com/spf13/cobra"
)

var flagStepTimes int

var incCmd = &cobra.Command{
	Use:   "inc FIELD",
	Short: "Step a numeric field up",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runStep(cmd, args[0], true) },
}

var decCmd = &cobra.Command{
	Use:   "dec FIELD",
	Short: "Step a numeric field down, stopping at its minimum",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runStep(cmd, args[0], false) },
}

func init() {
	for _, c := range []*cobra.Command{incCmd, decCmd} {
		c.Flags().IntVarP(&flagStepTimes, "times", "t", 1, "Number of steps")
		rootCmd.AddCommand(c)
	}
}

func runStep(cmd *cobra.Command, name string, up bool) error {
	f, err := budget.ParseField(name)
	if err != nil {
		return err
	}
	if !f.Numeric() {
		return fmt.Errorf("%w: %s is not numeric", budget.ErrInvalidField, f)
	}
	if flagStepTimes < 1 {
		return errors.New("--times must be at least 1")
	}

	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	for i := 0; i < flagStepTimes; i++ {
		if up {
			err = rt.session.Increment(cmd.Context(), f)
		} else {
			err = rt.session.Decrement(cmd.Context(), f)
		}
		if err != nil {
			return err
		}
	}

	printPlan(rt.session)
	return nil
}
