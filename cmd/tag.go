package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var tagCmd = &cobra.Command{
	Use:   "tag [command]",
	Short: "Manage tags on posts",
	Long:  `Add, remove or list tags without opening the editor.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <query> <tags>",
	Short: "Add tags to a post",
	Example: `  postkit tag add ownership "rust, python"
  postkit tag add ownership beginner`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTags(args[0], args[1:], true)
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:     "remove <query> <tags>",
	Aliases: []string{"rm"},
	Short:   "Remove tags from a post",
	Example: `  postkit tag remove ownership python`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTags(args[0], args[1:], false)
	},
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags with post counts",
	Args:    cobra.NoArgs,
	RunE:    runTagList,
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCmd.AddCommand(tagListCmd)
}

// splitTags accepts "a, b" as well as separate arguments
func splitTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	return tags
}

func updateTags(query string, tagArgs []string, isAdd bool) error {
	ctx := getContext()

	header, err := selectPost(ctx, []string{query}, services.AllPosts)
	if err != nil {
		return handleSelectErr(err)
	}

	tags := splitTags(tagArgs)
	if len(tags) == 0 {
		return fmt.Errorf("no tags given")
	}

	var result *services.MetaResult
	if isAdd {
		result, err = metaService.AddTags(ctx, header.Filename, tags...)
	} else {
		result, err = metaService.RemoveTags(ctx, header.Filename, tags...)
	}
	if err != nil {
		return err
	}

	if !result.Changed {
		fmt.Println(ui.FormatInfo("Tags unchanged"))
		return nil
	}

	current := "(none)"
	if len(result.Post.Header.Tags) > 0 {
		current = result.Post.Header.GetTagsString()
	}
	fmt.Println(ui.FormatSuccess("Updated tags for " + result.Post.Header.Title))
	fmt.Println(ui.RenderKeyValue(ui.IconTag+" Tags", current))
	return nil
}

func runTagList(cmd *cobra.Command, args []string) error {
	counts, err := metaService.ListTags(getContext())
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		fmt.Println(ui.FormatWarning("No tags found"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Tag", MaxWidth: 40},
		{Header: "Posts", Align: "right"},
	})
	for _, c := range counts {
		table.AddRow(c.Label, fmt.Sprintf("%d", c.Value))
	}
	fmt.Print(table.Render())
	return nil
}
