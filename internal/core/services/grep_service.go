package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/frontmatter"
)

// GrepService handles full-text search operations
type GrepService struct {
	contentPath string
	workers     int
	log         logging.Logger
}

// NewGrepService creates a new grep service
func NewGrepService(contentPath string, workers int) *GrepService {
	if workers <= 0 {
		workers = 4
	}
	return &GrepService{
		contentPath: contentPath,
		workers:     workers,
		log:         logging.Get("grep"),
	}
}

// GrepRequest describes a search
type GrepRequest struct {
	Query         string
	CaseSensitive bool
	Regex         bool
	BodyOnly      bool // skip the front matter block
	MaxResults    int  // 0 means unlimited
}

// GrepMatch represents a single line match
type GrepMatch struct {
	Slug     string
	Filename string
	LineNum  int
	Content  string
}

// GrepFailure is a file that could not be searched to the end
type GrepFailure struct {
	Filename string
	Err      error
}

// GrepResponse holds the matches in filename and line order
type GrepResponse struct {
	Matches   []GrepMatch
	Files     int
	Truncated bool
	Failed    []GrepFailure
}

type fileResult struct {
	matches []GrepMatch
	failure *GrepFailure
}

type lineMatcher func(line string) bool

// Execute scans all posts and returns matches.
// If the query is empty, every non-empty line matches (for fuzzy finding).
func (s *GrepService) Execute(ctx context.Context, req GrepRequest) (*GrepResponse, error) {
	// 1. Build matcher
	match, err := buildMatcher(req)
	if err != nil {
		return nil, err
	}

	// 2. Collect files
	var files []string
	entries, err := os.ReadDir(s.contentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && domain.IsPostFile(entry.Name()) {
			files = append(files, filepath.Join(s.contentPath, entry.Name()))
		}
	}

	// 3. Worker pool
	jobs := make(chan string, len(files))
	results := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				matches, err := scanFile(path, match, req.BodyOnly)
				if err != nil {
					s.log.Warn("search stopped early", "file", filepath.Base(path), "error", err)
					results <- fileResult{matches: matches, failure: &GrepFailure{Filename: filepath.Base(path), Err: err}}
					continue
				}
				if len(matches) > 0 {
					results <- fileResult{matches: matches}
				}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// 4. Collect results
	resp := &GrepResponse{}
	for result := range results {
		if result.failure != nil {
			resp.Failed = append(resp.Failed, *result.failure)
		}
		if len(result.matches) > 0 {
			resp.Files++
			resp.Matches = append(resp.Matches, result.matches...)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(resp.Failed, func(i, j int) bool {
		return resp.Failed[i].Filename < resp.Failed[j].Filename
	})
	sort.Slice(resp.Matches, func(i, j int) bool {
		a, b := resp.Matches[i], resp.Matches[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.LineNum < b.LineNum
	})

	if req.MaxResults > 0 && len(resp.Matches) > req.MaxResults {
		resp.Matches = resp.Matches[:req.MaxResults]
		resp.Truncated = true
	}

	return resp, nil
}

func buildMatcher(req GrepRequest) (lineMatcher, error) {
	if req.Query == "" {
		return func(string) bool { return true }, nil
	}

	if req.Regex {
		pattern := req.Query
		if !req.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return re.MatchString, nil
	}

	if req.CaseSensitive {
		return func(line string) bool { return strings.Contains(line, req.Query) }, nil
	}

	query := strings.ToLower(req.Query)
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), query)
	}, nil
}

// scanFile returns the matches found before any read error
func scanFile(path string, match lineMatcher, bodyOnly bool) ([]GrepMatch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var matches []GrepMatch
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	filename := filepath.Base(path)
	slug := domain.ParseFilename(filename)

	// 0 = before front matter, 1 = inside, 2 = body
	state := 0
	if !bodyOnly {
		state = 2
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()

		if state < 2 {
			trimmed := strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF"))
			switch {
			case state == 0 && trimmed == frontmatter.Delimiter:
				state = 1
				continue
			case state == 0 && trimmed == "":
				continue
			case state == 0:
				// No front matter at all
				state = 2
			case trimmed == frontmatter.Delimiter:
				state = 2
				continue
			default:
				continue
			}
		}

		// Skip empty lines
		if strings.TrimSpace(text) == "" {
			continue
		}

		if match(text) {
			matches = append(matches, GrepMatch{
				Slug:     slug,
				Filename: filename,
				LineNum:  lineNum,
				Content:  text,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return matches, fmt.Errorf("line %d: %w", lineNum+1, err)
	}
	return matches, nil
}
