package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete [query]",
	Aliases: []string{"rm"},
	Short:   "Delete a post",
	Long: `Delete a post file after confirmation.

Examples:
  postkit delete
  postkit delete ownership
  postkit delete ownership --force`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without asking")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	// 1. Select post
	header, err := selectPost(ctx, args, services.AllPosts)
	if err != nil {
		return handleSelectErr(err)
	}

	// 2. Confirmation
	if !deleteForce {
		fmt.Println(ui.FormatWarning("You are about to delete:"))
		fmt.Printf("  %s %s\n", ui.StyleBold.Render(header.Title), ui.StyleMuted.Render("("+header.Filename+")"))
		fmt.Println()
		if !confirm(os.Stdin, "Delete post?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// 3. Delete
	if err := postRepo.Delete(ctx, header.Filename); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Deleted " + header.Filename))

	// 4. Keep the index in step when one exists
	if indexerService.IndexExists() {
		if _, err := indexerService.Execute(ctx, services.ReindexRequest{}); err != nil {
			fmt.Println(ui.FormatWarning("Failed to update index: " + err.Error()))
		}
	}
	return nil
}
