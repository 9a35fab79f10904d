package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/frontmatter"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	newTags       []string
	newDate       string
	newPublish    bool
	newDraft      bool
	newDatePrefix bool
	newNoEdit     bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new post",
	Long: `Create a new Markdown post with canonical front matter.

New posts are drafts unless --publish is given (or new_post_draft is false).

Examples:
  postkit new "Ownership for Pythonistas"
  postkit new "Traits" --tags rust,python --publish
  postkit new "Year in Review" --date 2025-12-31 --date-prefix`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringSliceVar(&newTags, "tags", []string{}, "Tags for the post (comma-separated)")
	newCmd.Flags().StringVar(&newDate, "date", "", "Post date (YYYY-MM-DD, default today)")
	newCmd.Flags().BoolVar(&newPublish, "publish", false, "Create the post as published")
	newCmd.Flags().BoolVar(&newDraft, "draft", false, "Create the post as a draft")
	newCmd.Flags().BoolVar(&newDatePrefix, "date-prefix", false, "Prefix the filename with the date")
	newCmd.Flags().BoolVar(&newNoEdit, "no-edit", false, "Don't open the editor")
	newCmd.MarkFlagsMutuallyExclusive("publish", "draft")
}

func runNew(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	draft := appConfig.NewPostDraft
	switch {
	case newPublish:
		draft = false
	case newDraft:
		draft = true
	}

	datePrefix := appConfig.DatePrefixFilenames
	if cmd.Flags().Changed("date-prefix") {
		datePrefix = newDatePrefix
	}

	var date time.Time
	if newDate != "" {
		d, err := time.Parse(frontmatter.DateLayout, newDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", newDate)
		}
		date = d
	}

	tags := append(append([]string{}, appConfig.DefaultTags...), newTags...)

	req := services.CreatePostRequest{
		Title:      title,
		Tags:       tags,
		Draft:      draft,
		Date:       date,
		DatePrefix: datePrefix,
	}

	resp, err := createPostService.Execute(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create post"))
		return err
	}

	header := resp.Post.Header
	fmt.Println(ui.FormatSuccess("Post created!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Title", header.Title))
	fmt.Println(ui.RenderKeyValue("Slug", header.Slug))
	fmt.Println(ui.RenderKeyValue("File", resp.Filename))
	fmt.Println(ui.RenderKeyValue("Status", ui.FormatStatus(header.Status())))
	if len(header.Tags) > 0 {
		fmt.Println(ui.RenderKeyValue("Tags", header.GetTagsString()))
	}
	fmt.Println()

	if newNoEdit {
		return nil
	}

	path := appWorkspace.GetPostPath(resp.Filename)
	fmt.Println(ui.FormatInfo("Opening in editor: " + GetPreferredEditor()))
	if err := OpenEditorAtLine(path, 0); err != nil {
		fmt.Println(ui.FormatWarning("Failed to open editor: " + err.Error()))
		fmt.Println(ui.FormatInfo("You can manually edit: " + path))
	}

	return nil
}
