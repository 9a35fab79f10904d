package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	listTagFilter string
	listSortBy    string
	listReverse   bool
	listDrafts    bool
	listAll       bool
	listJSON      bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List posts",
	Aliases: []string{"ls"},
	Long: `List posts in a table. Drafts are hidden unless --drafts or --all is given.

Examples:
  postkit list
  postkit list --tag rust
  postkit list --sort title
  postkit list --drafts
  postkit list --all --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listTagFilter, "tag", "", "Filter posts by tag")
	// Sort defaults to "date", config overrides when the flag isn't set
	listCmd.Flags().StringVar(&listSortBy, "sort", "date", "Sort by field (date, title)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Show only drafts")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show drafts and invalid files too")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print posts as JSON")
}

type listedPost struct {
	Title    string   `json:"title"`
	Date     string   `json:"date,omitempty"`
	Draft    bool     `json:"draft"`
	Tags     []string `json:"tags"`
	Slug     string   `json:"slug"`
	Filename string   `json:"filename"`
	Problem  string   `json:"problem,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	filter := draftFilter(listDrafts, listAll)
	if !listDrafts && !listAll && appConfig.ShowDrafts {
		filter = services.AllPosts
	}

	req := services.ListRequest{
		TagFilter: listTagFilter,
		SortBy:    listSortBy,
		Reverse:   listReverse,
		Drafts:    filter,
	}

	resp, err := listService.Execute(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list posts"))
		return err
	}

	if listJSON {
		out := make([]listedPost, 0, len(resp.Posts))
		for _, p := range resp.Posts {
			item := listedPost{Title: p.Title, Draft: p.Draft, Tags: p.Tags, Slug: p.Slug, Filename: p.Filename, Problem: p.Problem}
			if !p.Date.IsZero() && p.Problem == "" {
				item.Date = p.Date.Format("2006-01-02")
			}
			out = append(out, item)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	// Handle empty results
	if resp.Total == 0 {
		if listTagFilter != "" {
			fmt.Println(ui.FormatWarning("No posts found with tag: " + listTagFilter))
		} else {
			fmt.Println(ui.FormatWarning("No posts found"))
			if resp.Hidden > 0 {
				fmt.Println(ui.FormatInfo(fmt.Sprintf("%d drafts hidden, use --drafts to see them", resp.Hidden)))
			} else {
				fmt.Println(ui.FormatInfo("Create your first post with: postkit new \"My Post\""))
			}
		}
		return nil
	}

	if listTagFilter != "" {
		fmt.Println(ui.FormatTitle(fmt.Sprintf("Posts (tag: %s)", listTagFilter)))
	} else {
		fmt.Println(ui.FormatTitle("Posts"))
	}
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Title", MaxWidth: 40},
		{Header: "Date", Width: 12},
		{Header: "Status", Width: 9},
		{Header: "Tags", MaxWidth: 30},
		{Header: "Slug", MaxWidth: 30},
	})

	for _, post := range resp.Posts {
		table.AddRow(
			post.Title,
			post.GetDisplayDate(appConfig.DisplayDateFormat),
			post.Status(),
			post.GetTagsString(),
			post.Slug,
		)
	}

	fmt.Print(table.Render())
	fmt.Println()

	summary := "Total: " + strconv.Itoa(resp.Total) + " posts"
	if resp.Hidden > 0 {
		summary += fmt.Sprintf(" (%d hidden)", resp.Hidden)
	}
	fmt.Println(ui.FormatMuted(summary))

	return nil
}
