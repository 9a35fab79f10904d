package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	statsChart string
	statsJSON  bool
	statsTop   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show content statistics",
	Long: `Analyze your posts and display statistics.

Includes:
  - Post counts by status, word counts and reading time
  - Top tags and code languages
  - Posts per month

Use --chart report.html to write an interactive chart page as well.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsChart, "chart", "", "Write an HTML chart report to this file")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the report as JSON")
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "Number of tags and languages to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	report, err := statsService.Execute(getContext(), services.StatsRequest{TopN: statsTop})
	if err != nil {
		return err
	}

	if statsChart != "" {
		f, err := os.Create(statsChart)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", statsChart, err)
		}
		if err := statsService.RenderChart(f, *report); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(ui.FormatTitle("Content Analytics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d (%d published, %d drafts)\n", ui.StyleBold.Render("Posts:"), report.Posts, report.Published, report.Drafts)
	if report.Invalid > 0 {
		fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Invalid:"), ui.StyleError.Render(fmt.Sprintf("%d", report.Invalid)))
	}
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Words:"), report.Words)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Reading Time:"), formatMinutes(report.ReadingMinutes))
	fmt.Fprintf(w, "%s\t%d words/post\n", ui.StyleBold.Render("Average Length:"), report.AverageWords)
	w.Flush()
	fmt.Println()

	renderBars("Top Tags", report.Tags)
	renderBars("Code Languages", report.Languages)
	renderBars("Posts per Month", lastN(report.PerMonth, 12))

	if statsChart != "" {
		fmt.Println(ui.FormatSuccess("Chart written to " + statsChart))
	}
	return nil
}

func formatMinutes(minutes int) string {
	if minutes > 60 {
		return fmt.Sprintf("%.1f hrs", float64(minutes)/60.0)
	}
	return fmt.Sprintf("%d min", minutes)
}

func lastN(counts []domain.Count, n int) []domain.Count {
	if len(counts) > n {
		return counts[len(counts)-n:]
	}
	return counts
}

// renderBars displays a horizontal bar chart
func renderBars(title string, counts []domain.Count) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Value)
	}
	barWidth := 20

	for _, c := range counts {
		length := int(math.Ceil(float64(c.Value) / float64(maxCount) * float64(barWidth)))
		fmt.Printf("%s %-15s %s\n",
			ui.StyleAccent.Render(padBar(strings.Repeat("█", length), barWidth)),
			c.Label,
			ui.StyleMuted.Render(fmt.Sprintf("%d", c.Value)),
		)
	}
	fmt.Println()
}

func padBar(bar string, width int) string {
	if n := width - len([]rune(bar)); n > 0 {
		return bar + strings.Repeat(" ", n)
	}
	return bar
}
