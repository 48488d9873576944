package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/iceplan/internal/cli"
	"github.com/theirongolddev/iceplan/internal/planner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagShareCopy bool
	flagShareOpen bool
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a link that carries the current plan",
	Args:  cobra.NoArgs,
	RunE:  runShare,
}

func init() {
	shareCmd.Flags().BoolVarP(&flagShareCopy, "copy", "c", false, "Copy the link to the clipboard")
	shareCmd.Flags().BoolVarP(&flagShareOpen, "open", "o", false, "Open the link in a browser")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	link, err := rt.session.ShareURL()
	if err != nil {
		return err
	}

	if flagShareCopy {
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		res := planner.CopyLink(ctx, planner.SystemClipboard{}, link)
		cancel()
		if res.Copied() {
			fmt.Println(cli.RenderNote("Link copied to clipboard."))
		} else {
			rt.logger.Warn("copying link", zap.Error(res.Err))
			fmt.Println(cli.RenderWarning("Could not copy the link; copy it from below."))
		}
	}

	if flagShareOpen {
		if err := (planner.SystemBrowser{}).OpenURL(link); err != nil {
			rt.logger.Warn("opening link", zap.Error(err))
			fmt.Println(cli.RenderWarning("Could not open a browser."))
		}
	}

	fmt.Println(link)
	return nil
}
