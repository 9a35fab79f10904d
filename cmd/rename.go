package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var renameCmd = &cobra.Command{
	Use:     "rename <query> <new title>",
	Aliases: []string{"mv"},
	Short:   "Change a post's title and filename",
	Long: `Change a post's title. The file is renamed to match the new slug and
any date prefix in the filename is kept.

Examples:
  postkit rename ownership "Ownership and Borrowing for Pythonistas"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectPost(ctx, args[:1], services.AllPosts)
	if err != nil {
		return handleSelectErr(err)
	}

	newTitle := strings.Join(args[1:], " ")
	updated, err := metaService.Retitle(ctx, header.Filename, newTitle)
	if err != nil {
		if errors.Is(err, domain.ErrPostExists) {
			fmt.Println(ui.FormatError("Another post already uses that slug"))
		}
		return err
	}

	fmt.Println(ui.FormatSuccess("Post renamed"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Title", updated.Title))
	if updated.Filename != header.Filename {
		fmt.Println(ui.RenderKeyValue("File", header.Filename+" → "+updated.Filename))
	}
	return nil
}
