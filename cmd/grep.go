package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	grepCaseSensitive bool
	grepRegex         bool
	grepBodyOnly      bool
	grepMax           int
)

var grepCmd = &cobra.Command{
	Use:     "grep [pattern]",
	Aliases: []string{"g"},
	Short:   "Search the text of all posts (alias: g)",
	Long: `Search every post line by line.

With a pattern, matching lines are printed as file:line: text.
Without one, a fuzzy finder over all lines opens and the selected line is
opened in your editor.

Examples:
  postkit grep borrow
  postkit grep -e '^##+ ' --body
  postkit grep`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().BoolVarP(&grepCaseSensitive, "case-sensitive", "s", false, "Match case")
	grepCmd.Flags().BoolVarP(&grepRegex, "regexp", "e", false, "Treat the pattern as a regular expression")
	grepCmd.Flags().BoolVar(&grepBodyOnly, "body", false, "Skip front matter")
	grepCmd.Flags().IntVarP(&grepMax, "max", "m", 0, "Maximum number of matches (default from config)")
}

func runGrep(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	req := services.GrepRequest{
		CaseSensitive: grepCaseSensitive || appConfig.GrepCaseSensitive,
		Regex:         grepRegex,
		BodyOnly:      grepBodyOnly,
	}

	if len(args) == 0 {
		return runGrepInteractive(req)
	}

	req.Query = args[0]
	req.MaxResults = appConfig.MaxSearchResults
	if grepMax > 0 {
		req.MaxResults = grepMax
	}

	resp, err := grepService.Execute(ctx, req)
	if err != nil {
		return err
	}

	for _, failure := range resp.Failed {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%s: %v", failure.Filename, failure.Err)))
	}

	if len(resp.Matches) == 0 {
		fmt.Println(ui.FormatWarning("No matches for: " + req.Query))
		return nil
	}

	for _, m := range resp.Matches {
		fmt.Printf("%s:%s: %s\n",
			ui.StyleAccent.Render(m.Filename),
			ui.StyleMuted.Render(fmt.Sprintf("%d", m.LineNum)),
			m.Content)
	}

	if resp.Truncated {
		fmt.Println()
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Showing first %d matches, use --max to see more", len(resp.Matches))))
	}
	return nil
}

func runGrepInteractive(req services.GrepRequest) error {
	// Empty query loads every line
	resp, err := grepService.Execute(getContext(), req)
	if err != nil {
		return err
	}
	matches := resp.Matches

	if len(matches) == 0 {
		fmt.Println(ui.FormatWarning("No posts found to search."))
		return nil
	}

	idx, err := fuzzyfinder.Find(
		matches,
		func(i int) string {
			m := matches[i]
			return fmt.Sprintf("%s:%d  %s", m.Slug, m.LineNum, m.Content)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			m := matches[i]
			return generatePreview(appWorkspace.GetPostPath(m.Filename), m.LineNum)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Println(ui.FormatInfo("Search cancelled."))
			return nil
		}
		return err
	}

	selected := matches[idx]
	fmt.Printf("Opening %s at line %d...\n", selected.Filename, selected.LineNum)
	return OpenEditorAtLine(appWorkspace.GetPostPath(selected.Filename), selected.LineNum)
}

// generatePreview reads the file on demand to show context around the match
func generatePreview(path string, targetLine int) string {
	file, err := os.Open(path)
	if err != nil {
		return "Failed to read file"
	}
	defer file.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(file)

	contextLines := 3
	startLine := targetLine - contextLines
	endLine := targetLine + contextLines

	currentLine := 0
	for scanner.Scan() {
		currentLine++
		if currentLine < startLine {
			continue
		}
		if currentLine > endLine {
			break
		}

		prefix := "  "
		if currentLine == targetLine {
			prefix = ">>"
		}
		sb.WriteString(fmt.Sprintf("%s %4d %s\n", prefix, currentLine, scanner.Text()))
	}

	return sb.String()
}
