package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/ui"
)

// errCancelled is returned when the user backs out of a prompt
var errCancelled = errors.New("cancelled")

// GetPreferredEditor returns the editor command from config, env, or default
func GetPreferredEditor() string {
	// 1. Check Config
	if appConfig != nil && appConfig.Editor != "" {
		return appConfig.Editor
	}
	// 2. Check Environment
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	// 3. Fallback
	return "vi"
}

// editorArgs builds the argument list that opens path at line for editor
func editorArgs(editor, path string, line int) []string {
	if line <= 0 {
		return []string{path}
	}

	lower := strings.ToLower(editor)
	switch {
	// VS Code family needs -g to parse file:line
	case strings.Contains(lower, "code"), strings.Contains(lower, "cursor"), strings.Contains(lower, "windsurf"):
		return []string{"-g", fmt.Sprintf("%s:%d", path, line)}
	case strings.Contains(lower, "subl"), strings.Contains(lower, "zed"), strings.Contains(lower, "idea"), strings.Contains(lower, "goland"):
		return []string{fmt.Sprintf("%s:%d", path, line)}
	default:
		// vim, nano, kakoune, emacs
		return []string{fmt.Sprintf("+%d", line), path}
	}
}

// editorCommand prepares the editor process. Editors configured with flags
// ("code --wait") are split on spaces.
func editorCommand(path string, line int) *exec.Cmd {
	fields := strings.Fields(GetPreferredEditor())
	args := append(fields[1:], editorArgs(fields[0], path, line)...)

	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// OpenEditorAtLine opens the user's preferred editor at a specific line number.
// A line of 0 opens the file at the top.
func OpenEditorAtLine(path string, line int) error {
	if err := editorCommand(path, line).Run(); err != nil {
		if line <= 0 {
			return fmt.Errorf("failed to run editor: %w", err)
		}
		// Fallback: If line number fails, just open the file
		return editorCommand(path, 0).Run()
	}
	return nil
}

// draftFilter maps the common --drafts/--all flags onto a list filter
func draftFilter(drafts, all bool) services.DraftFilter {
	switch {
	case all:
		return services.AllPosts
	case drafts:
		return services.DraftsOnly
	default:
		return services.PublishedOnly
	}
}

// selectPost resolves a post from an optional query. Without a query the
// fuzzy finder is shown; several matches for a query get a numbered prompt.
func selectPost(ctx context.Context, args []string, filter services.DraftFilter) (*domain.PostHeader, error) {
	var candidates []domain.PostHeader

	if len(args) == 0 {
		resp, err := listService.Execute(ctx, services.ListRequest{SortBy: "date", Reverse: true, Drafts: filter})
		if err != nil {
			return nil, err
		}
		candidates = resp.Posts
	} else {
		query := strings.Join(args, " ")

		// Exact slug or filename wins over fuzzy matches
		if post, err := postRepo.Get(ctx, query); err == nil {
			return &post.Header, nil
		}

		resp, err := listService.Search(ctx, services.SearchRequest{Query: query, Drafts: filter})
		if err != nil {
			return nil, err
		}
		candidates = resp.Posts
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, query)
		}
	}

	switch {
	case len(candidates) == 0:
		return nil, fmt.Errorf("no posts found")
	case len(candidates) == 1:
		return &candidates[0], nil
	case len(args) == 0:
		return pickPost(candidates)
	default:
		return promptPost(os.Stdin, candidates)
	}
}

// pickPost shows the fuzzy finder over candidates
func pickPost(candidates []domain.PostHeader) (*domain.PostHeader, error) {
	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i].Title
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return postPreview(candidates[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errCancelled
		}
		return nil, err
	}
	return &candidates[idx], nil
}

func postPreview(post domain.PostHeader) string {
	preview := fmt.Sprintf("Title: %s\nSlug: %s\nDate: %s\nStatus: %s",
		post.Title,
		post.Slug,
		post.GetDisplayDate(appConfig.DisplayDateFormat),
		post.Status())
	if len(post.Tags) > 0 {
		preview += "\nTags: " + post.GetTagsString()
	}
	if post.Problem != "" {
		preview += "\n\nProblem: " + post.Problem
	}
	return preview
}

// promptPost asks the user to pick one of several matches by number
func promptPost(in io.Reader, candidates []domain.PostHeader) (*domain.PostHeader, error) {
	fmt.Println(ui.FormatInfo(fmt.Sprintf("Found %d matches:", len(candidates))))
	fmt.Println()
	for i, post := range candidates {
		fmt.Printf("  %d. %s %s\n", i+1, ui.StyleBold.Render(post.Title), ui.StyleMuted.Render("("+post.Slug+")"))
	}
	fmt.Println()

	reader := bufio.NewReader(in)
	for {
		fmt.Print(ui.StyleInfo.Render(fmt.Sprintf("Select a post (1-%d): ", len(candidates))))

		input, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(input) == "" {
			return nil, errCancelled
		}

		selection, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr != nil || selection < 1 || selection > len(candidates) {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Please enter a number between 1 and %d.", len(candidates))))
			if err != nil {
				return nil, errCancelled
			}
			continue
		}
		return &candidates[selection-1], nil
	}
}

// confirm asks a yes/no question on stdin
func confirm(in io.Reader, prompt string) bool {
	fmt.Print(ui.StyleWarning.Render(prompt + " (y/n): "))
	response, _ := bufio.NewReader(in).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// handleSelectErr prints a friendly message for selection failures
func handleSelectErr(err error) error {
	switch {
	case errors.Is(err, errCancelled):
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	case errors.Is(err, domain.ErrPostNotFound):
		fmt.Println(ui.FormatWarning(err.Error()))
		return err
	default:
		return err
	}
}
