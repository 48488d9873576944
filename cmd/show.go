package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/cli"
	"github.com/theirongolddev/iceplan/internal/codec"
	"github.com/theirongolddev/iceplan/internal/planner"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the plan and its cost breakdown",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	printPlan(rt.session)

	if ts, ok := rt.kv.(savedAtReporter); ok && rt.session.Persisted() {
		if at, found, err := ts.UpdatedAt(cmd.Context(), codec.StoreKey); err == nil && found {
			fmt.Println(cli.RenderNote("Last saved " + at.Local().Format("Jan 2 2006 15:04")))
			fmt.Println()
		}
	}
	return nil
}

// savedAtReporter is implemented by stores that track write times.
type savedAtReporter interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// printPlan writes the inputs and breakdown tables to stdout.
func printPlan(s *planner.Session) {
	m := s.Model()

	title := "SEASON BUDGET"
	if m.TeamName() != "" {
		title = "SEASON BUDGET  " + m.TeamName()
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	inputs := make([][]string, 0, len(budget.Fields()))
	for _, f := range budget.Fields() {
		if !f.Numeric() {
			continue
		}
		inputs = append(inputs, []string{f.Label(), cli.FieldFormatter(f)(m.Value(f)), f.String()})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Inputs",
		Headers: []string{"Field", "Value", "Key"},
		Rows:    inputs,
	}))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Breakdown",
		Headers: []string{"Line", "Amount"},
		Rows: [][]string{
			{fmt.Sprintf("Ice (%s h x %s)", cli.FormatAmount(m.Value(budget.FieldIceHours)), cli.FormatMoney(m.Value(budget.FieldIceCost))), cli.FormatMoney(m.IceTotal())},
			{"Coaching", cli.FormatMoney(m.CoachTotal())},
			{fmt.Sprintf("Jerseys (%d x %s)", m.JerseyQuantity(), cli.FormatMoney(m.Value(budget.FieldJerseyCost))), cli.FormatMoney(m.JerseyTotal())},
			{"---"},
			{"Subtotal", cli.FormatMoney(m.Subtotal())},
			{fmt.Sprintf("Fees (%s + %s)", cli.FormatPercent(m.FeePercent()), cli.FormatMoney(m.Value(budget.FieldFixedFee))), cli.FormatMoney(m.Fees())},
			{"---"},
			{"Total", cli.FormatMoney(m.Total())},
			{fmt.Sprintf("Per player (%d)", m.NumPlayers()), cli.FormatMoney(m.PerPlayer())},
		},
		TotalRows: 2,
	}))
	fmt.Println()

	note := "Loaded from " + s.Source().String()
	if s.Source() == planner.SourceLink && !s.Persisted() {
		note += " (not saved until edited)"
	}
	fmt.Println(cli.RenderNote(note))
	fmt.Println()
}
