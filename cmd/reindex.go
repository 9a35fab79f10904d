package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var reindexClean bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the post index",
	Long: `Rebuild the post index by scanning every post.

This command:
  1. Reads the front matter of every .md file
  2. Analyzes each body (words, reading time, headings, code languages)
  3. Saves the result to .postkit/index.json

Use --clean to clear the cache directory first.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexClean, "clean", false, "Clear the cache directory before indexing")
}

func runReindex(cmd *cobra.Command, args []string) error {
	if reindexClean {
		if err := appWorkspace.CleanCache(); err != nil {
			return err
		}
	}

	resp, err := indexerService.Execute(getContext(), services.ReindexRequest{})
	if err != nil {
		fmt.Println(ui.FormatError("Reindex failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Index rebuilt"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Posts", fmt.Sprintf("%d", resp.TotalPosts)))
	fmt.Println(ui.RenderKeyValue("Drafts", fmt.Sprintf("%d", resp.Drafts)))
	fmt.Println(ui.RenderKeyValue("Words", fmt.Sprintf("%d", resp.TotalWords)))
	if resp.Problems > 0 {
		fmt.Println(ui.RenderKeyValue("Invalid", ui.StyleError.Render(fmt.Sprintf("%d", resp.Problems))))
	}
	fmt.Println(ui.RenderKeyValue("Duration", resp.Duration.Round(time.Millisecond).String()))
	fmt.Println()
	fmt.Println(ui.FormatMuted("Index saved to: " + appWorkspace.RelPath(appWorkspace.IndexPath())))

	return nil
}
