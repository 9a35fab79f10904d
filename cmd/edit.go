package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var editLine int

var editCmd = &cobra.Command{
	Use:     "edit [query]",
	Aliases: []string{"e"},
	Short:   "Open a post in your editor",
	Long: `Open a post in your editor (editor in config, then $EDITOR).

After the editor exits the post is checked and any problems are reported.

Examples:
  postkit edit
  postkit edit ownership
  postkit edit ownership --line 12`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().IntVarP(&editLine, "line", "l", 0, "Line to open the file at")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectPost(ctx, args, services.AllPosts)
	if err != nil {
		return handleSelectErr(err)
	}

	path := appWorkspace.GetPostPath(header.Filename)
	if err := OpenEditorAtLine(path, editLine); err != nil {
		return err
	}

	// Re-check the file the user just saved
	content, err := os.ReadFile(path)
	if err != nil {
		// Deleted or renamed from inside the editor
		return nil
	}

	issues := checkService.CheckContent(header.Filename, content, checkRequestFromConfig())
	if len(issues) == 0 {
		fmt.Println(ui.FormatSuccess(header.Filename + " looks good"))
		return nil
	}
	printIssues(issues)
	return nil
}
