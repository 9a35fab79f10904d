package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postkit/postkit/pkg/frontmatter"
	"github.com/postkit/postkit/pkg/markdown"
	"github.com/postkit/postkit/pkg/ui"
)

var (
	showRaw  bool
	showMeta bool
)

var showCmd = &cobra.Command{
	Use:     "show [query]",
	Aliases: []string{"cat"},
	Short:   "Print a post with syntax highlighting",
	Long: `Print a post to the terminal.

The file is highlighted with chroma (highlight_style in config). Use --raw to
print the bytes as stored, or --meta for a summary of the post instead.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print without highlighting")
	showCmd.Flags().BoolVar(&showMeta, "meta", false, "Print front matter and body statistics only")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectPost(ctx, args, draftFilter(false, true))
	if err != nil {
		return handleSelectErr(err)
	}

	raw, err := postRepo.ReadRaw(ctx, header.Filename)
	if err != nil {
		return err
	}

	if showMeta {
		return printMeta(raw, header.Filename)
	}

	if showRaw {
		fmt.Print(string(raw))
		return nil
	}

	fmt.Print(markdown.Highlight(string(raw), "markdown", appConfig.HighlightStyle))
	if !strings.HasSuffix(string(raw), "\n") {
		fmt.Println()
	}
	return nil
}

func printMeta(raw []byte, filename string) error {
	doc, err := frontmatter.ParseLenient(raw)
	if err != nil {
		fmt.Println(ui.FormatError(filename + ": " + err.Error()))
		return err
	}

	fm := doc.FrontMatter
	fmt.Println(ui.FormatTitle(fm.Title))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("File", filename))
	if !fm.Date.IsZero() {
		fmt.Println(ui.RenderKeyValue("Date", fm.FormatDate()))
	}
	status := "published"
	if fm.Draft {
		status = "draft"
	}
	fmt.Println(ui.RenderKeyValue("Status", ui.FormatStatus(status)))
	if len(fm.Tags) > 0 {
		fmt.Println(ui.RenderKeyValue("Tags", strings.Join(fm.Tags, ", ")))
	}
	for _, key := range sortedParamKeys(fm.Params) {
		fmt.Println(ui.RenderKeyValue(key, fmt.Sprint(fm.Params[key])))
	}

	analysis := markdown.Analyze([]byte(doc.Body))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Words", fmt.Sprintf("%d (%d min read)", analysis.Words, analysis.ReadingMinutes())))
	fmt.Println(ui.RenderKeyValue("Headings", fmt.Sprintf("%d", len(analysis.Headings))))
	if langs := analysis.Languages(); len(langs) > 0 {
		fmt.Println(ui.RenderKeyValue("Code", strings.Join(langs, ", ")))
	}
	fmt.Println(ui.RenderKeyValue("Links", fmt.Sprintf("%d", len(analysis.Links))))

	if !frontmatter.IsCanonical(raw) {
		fmt.Println()
		fmt.Println(ui.FormatWarning("Front matter is not in canonical form, run 'postkit fmt'"))
	}
	return nil
}

func sortedParamKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
