package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	pathCopy     bool
	pathRelative bool
)

var pathCmd = &cobra.Command{
	Use:   "path [query]",
	Short: "Print the file path of a post",
	Long: `Print the file path of a post, e.g. for use in scripts:

  $EDITOR "$(postkit path ownership)"

With --copy the path is also put on the clipboard.`,
	RunE: runPath,
}

func init() {
	pathCmd.Flags().BoolVarP(&pathCopy, "copy", "c", false, "Copy the path to the clipboard")
	pathCmd.Flags().BoolVarP(&pathRelative, "relative", "r", false, "Print the path relative to the workspace root")
}

func runPath(cmd *cobra.Command, args []string) error {
	header, err := selectPost(getContext(), args, services.AllPosts)
	if err != nil {
		return handleSelectErr(err)
	}

	path := appWorkspace.GetPostPath(header.Filename)
	if pathRelative {
		path = appWorkspace.RelPath(path)
	}
	fmt.Println(path)

	if pathCopy {
		if err := clipboard.WriteAll(path); err != nil {
			fmt.Println(ui.FormatWarning("Failed to copy to clipboard: " + err.Error()))
			return nil
		}
		fmt.Println(ui.FormatSuccess("Copied to clipboard"))
	}
	return nil
}
