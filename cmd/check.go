package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	checkStaleDrafts bool
	checkStrict      bool
	checkQuiet       bool
)

var checkCmd = &cobra.Command{
	Use:     "check [slug...]",
	Aliases: []string{"lint"},
	Short:   "Validate post front matter and content",
	Long: `Validate posts and report problems as file:line: field: message.

Errors (the command exits non-zero):
  - malformed or unclosed front matter
  - missing or empty title, missing or invalid date
  - draft or tags of the wrong type
  - empty body
  - duplicate slugs

Warnings:
  - front matter not in canonical form (an error with --strict)
  - duplicate titles
  - fenced code blocks without a language (require_code_language)
  - drafts dated in the past (--stale-drafts)

Examples:
  postkit check
  postkit check ownership traits
  postkit lint --strict --stale-drafts`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStaleDrafts, "stale-drafts", false, "Warn on drafts dated in the past")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat non-canonical formatting as an error")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Only print errors")
}

// checkRequestFromConfig builds the rule set from config
func checkRequestFromConfig() services.CheckRequest {
	return services.CheckRequest{
		RequireCodeLanguage: appConfig.RequireCodeLanguage,
		RequireCanonical:    appConfig.RequireCanonical,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	req := checkRequestFromConfig()
	req.Slugs = args
	req.StaleDrafts = checkStaleDrafts
	if checkStrict {
		req.RequireCanonical = true
	}

	resp, err := checkService.Execute(getContext(), req)
	if err != nil {
		return err
	}

	issues := resp.Issues
	if checkQuiet {
		issues = nil
		for _, issue := range resp.Issues {
			if issue.Severity == services.SeverityError {
				issues = append(issues, issue)
			}
		}
	}
	printIssues(issues)

	summary := fmt.Sprintf("Checked %d posts: %d errors, %d warnings", resp.Checked, resp.Errors, resp.Warnings)
	if !resp.OK() {
		fmt.Println(ui.FormatError(summary))
		return fmt.Errorf("%d files with errors", len(resp.FilesWithErrors()))
	}
	if resp.Warnings > 0 {
		fmt.Println(ui.FormatWarning(summary))
	} else {
		fmt.Println(ui.FormatSuccess(summary))
	}
	return nil
}

func printIssues(issues []services.Issue) {
	for _, issue := range issues {
		label := ui.StyleWarning.Render("warning")
		if issue.Severity == services.SeverityError {
			label = ui.StyleError.Render("error")
		}
		fmt.Printf("%s %s\n", label, issue.String())
	}
	if len(issues) > 0 {
		fmt.Println()
	}
}
