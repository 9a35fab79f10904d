package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	fmtCheck bool
	fmtForce bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [slug...]",
	Short: "Rewrite front matter in canonical form",
	Long: `Rewrite posts so their front matter is in canonical form: keys in their
original order, one "key = value" per line, with normalized quoting, dates
and spacing. Bodies are never touched.

Formatting drops comments from the front matter, so files carrying them are
skipped with a warning unless --force is given.

With --check nothing is written and the command fails if any file would change.`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Only report files that are not canonical")
	fmtCmd.Flags().BoolVarP(&fmtForce, "force", "f", false, "Rewrite files even if front matter comments are lost")
}

func runFmt(cmd *cobra.Command, args []string) error {
	resp, err := formatService.Execute(getContext(), services.FormatRequest{
		Slugs:  args,
		DryRun: fmtCheck,
		Force:  fmtForce,
	})
	if err != nil {
		return err
	}

	for _, filename := range resp.Changed {
		if fmtCheck {
			fmt.Println(ui.FormatWarning(filename + " is not canonical"))
		} else {
			fmt.Println(ui.FormatSuccess("formatted " + filename))
		}
	}
	for _, filename := range resp.Commented {
		fmt.Println(ui.FormatWarning(filename + " has front matter comments that formatting would drop (use --force)"))
	}
	for _, failure := range resp.Failed {
		fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", failure.Filename, failure.Err)))
	}

	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d changed, %d unchanged, %d skipped, %d failed",
		len(resp.Changed), resp.Unchanged, len(resp.Commented), len(resp.Failed))))

	if len(resp.Failed) > 0 {
		return fmt.Errorf("%d files could not be parsed", len(resp.Failed))
	}
	if fmtCheck && len(resp.Changed) > 0 {
		return fmt.Errorf("%d files need formatting", len(resp.Changed))
	}
	return nil
}
