package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var publishStamp bool

var publishCmd = &cobra.Command{
	Use:   "publish [query]",
	Short: "Mark a draft as published",
	Long: `Mark a draft as published. With --stamp the date becomes today.

Examples:
  postkit publish
  postkit publish ownership --stamp`,
	RunE: runPublish,
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish [query]",
	Short: "Turn a published post back into a draft",
	RunE:  runUnpublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishStamp, "stamp", false, "Set the date to today")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectPost(ctx, args, services.DraftsOnly)
	if err != nil {
		return handleSelectErr(err)
	}

	result, err := metaService.Publish(ctx, header.Filename, publishStamp)
	if err != nil {
		return err
	}
	reportMeta(result, "Published "+result.Post.Header.Title, "Already published")
	return nil
}

func runUnpublish(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectPost(ctx, args, services.PublishedOnly)
	if err != nil {
		return handleSelectErr(err)
	}

	result, err := metaService.Unpublish(ctx, header.Filename)
	if err != nil {
		return err
	}
	reportMeta(result, "Unpublished "+result.Post.Header.Title, "Already a draft")
	return nil
}

func reportMeta(result *services.MetaResult, changed, unchanged string) {
	if !result.Changed {
		fmt.Println(ui.FormatInfo(unchanged))
		return
	}
	fmt.Println(ui.FormatSuccess(changed))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("  %s, %s",
		result.Post.Header.Filename,
		result.Post.Header.GetDisplayDate(appConfig.DisplayDateFormat))))
}
