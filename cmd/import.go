package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	importTitle      string
	importDraft      bool
	importPublish    bool
	importDatePrefix bool
)

var importCmd = &cobra.Command{
	Use:   "import <file...>",
	Short: "Import Markdown files from another generator",
	Long: `Import Markdown files whose front matter is YAML (---), TOML (+++) or
JSON ({ }). Each file is written to the content directory as a new post
with canonical TOML front matter; the body is copied unchanged.

title, date, draft and tags are mapped onto the post. Other keys are kept
as extra front matter when they can be written as TOML.

Examples:
  postkit import ~/old-blog/_posts/*.md
  postkit import hello.md --title "Hello Again" --draft`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "", "Override the title (single file only)")
	importCmd.Flags().BoolVar(&importDraft, "draft", false, "Import as draft")
	importCmd.Flags().BoolVar(&importPublish, "publish", false, "Import as published")
	importCmd.Flags().BoolVar(&importDatePrefix, "date-prefix", false, "Prefix filenames with the date")
	importCmd.MarkFlagsMutuallyExclusive("draft", "publish")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importTitle != "" && len(args) > 1 {
		return fmt.Errorf("--title can only be used with a single file")
	}

	var draft *bool
	switch {
	case importDraft:
		v := true
		draft = &v
	case importPublish:
		v := false
		draft = &v
	}

	datePrefix := appConfig.DatePrefixFilenames
	if cmd.Flags().Changed("date-prefix") {
		datePrefix = importDatePrefix
	}

	ctx := getContext()
	failed := 0
	for _, path := range args {
		resp, err := importService.Execute(ctx, services.ImportRequest{
			Path:       path,
			Title:      importTitle,
			Draft:      draft,
			DatePrefix: datePrefix,
		})
		if err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			failed++
			continue
		}

		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s → %s", path, resp.Filename)))
		if len(resp.Dropped) > 0 {
			fmt.Println(ui.FormatMuted("  dropped keys: " + strings.Join(resp.Dropped, ", ")))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(args))
	}
	return nil
}
