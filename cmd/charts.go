package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/naka-gawa/github-insights/internal/render"
	"github.com/naka-gawa/github-insights/internal/view"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Draws a GitHub user's yearly activity as bar charts in the terminal",
	Long: `Collects activity and code churn of one year for every repository of a
GitHub user and draws six bar charts: one per metric, all metrics stacked, and
additions against deletions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()

		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			width = terminalWidth()
		}
		renderer := render.NewTerminal(cmd.OutOrStdout(), width)

		user, year := userYear(cmd)
		o := view.New(a.resolver, a.aggregator, renderer, a.logger)
		if _, err := submit(cmd.Context(), o, user, year); err != nil {
			return fmt.Errorf("failed to draw charts: %w", err)
		}
		return nil
	},
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return render.DefaultTerminalWidth
	}
	return width
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	addUserYearFlags(chartsCmd)
	chartsCmd.Flags().Int("width", 0, "Chart width in columns (defaults to the terminal width)")
}
