package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-insights/internal/render"
	"github.com/naka-gawa/github-insights/internal/view"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes a GitHub user's yearly activity charts as SVG files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()

		dir, _ := cmd.Flags().GetString("dir")
		renderer := render.NewSVG(dir)

		user, year := userYear(cmd)
		o := view.New(a.resolver, a.aggregator, renderer, a.logger)
		loaded, err := submit(cmd.Context(), o, user, year)
		if err != nil {
			return fmt.Errorf("failed to export charts: %w", err)
		}
		return reportExported(cmd.OutOrStdout(), loaded.Profile.Username, renderer.Files())
	},
}

// reportExported prints the written paths, or a notice when the account had no
// repositories and therefore no chart was written.
func reportExported(w io.Writer, user string, files []string) error {
	if len(files) == 0 {
		_, err := fmt.Fprintf(w, "no repositories found for %s; no charts written\n", user)
		return err
	}
	for _, path := range files {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addUserYearFlags(exportCmd)
	exportCmd.Flags().StringP("dir", "d", "charts", "Directory the SVG files are written to")
}
