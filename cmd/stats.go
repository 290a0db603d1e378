package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/usecase"
)

type statsOutput struct {
	Username string              `json:"username"`
	Year     int                 `json:"year"`
	Stats    *domain.RepoMetrics `json:"stats"`
	Totals   domain.Totals       `json:"totals"`
	Summary  usecase.Summary     `json:"summary"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates a GitHub user's yearly activity per repository",
	Long: `Aggregates commits, created PRs, merged PRs and issues of one year for every
repository of a GitHub user, and prints them with totals as JSON or as a table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output != "json" && output != "table" {
			return fmt.Errorf("invalid --output %q: must be json or table", output)
		}

		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		user, year := userYear(cmd)
		if err := usecase.ValidateYear(year, timeNow()); err != nil {
			return err
		}
		profile, err := a.resolver.Resolve(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to resolve profile: %w", err)
		}
		metrics, err := a.aggregator.CollectMetrics(ctx, profile.Username, profile.Repos, year)
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		summary := usecase.Summarize(metrics)
		result := statsOutput{
			Username: profile.Username,
			Year:     year,
			Stats:    metrics,
			Totals:   summary.Totals,
			Summary:  summary,
		}
		if output == "table" {
			return writeStatsTable(cmd.OutOrStdout(), result)
		}
		return writeStatsJSON(cmd.OutOrStdout(), result)
	},
}

func writeStatsJSON(w io.Writer, result statsOutput) error {
	// Marshal the results into a pretty-printed JSON string.
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeStatsTable(w io.Writer, result statsOutput) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REPOSITORY", "COMMITS", "PRS", "MERGES", "ISSUES")
	for _, name := range result.Stats.Names() {
		rec, _ := result.Stats.Record(name)
		t.Row(name,
			strconv.Itoa(rec[domain.MetricCommits]),
			strconv.Itoa(rec[domain.MetricPRs]),
			strconv.Itoa(rec[domain.MetricMerges]),
			strconv.Itoa(rec[domain.MetricIssues]))
	}
	t.Row("TOTAL",
		strconv.Itoa(result.Totals.Commits),
		strconv.Itoa(result.Totals.PRs),
		strconv.Itoa(result.Totals.Merges),
		strconv.Itoa(result.Totals.Issues))

	_, err := fmt.Fprintf(w, "%s (%d)\n%s\n", result.Username, result.Year, t.Render())
	return err
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addUserYearFlags(statsCmd)
	statsCmd.Flags().StringP("output", "o", "json", "Output format: json or table")
}
