package services

import (
	"context"
	"testing"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports/mocks"
	"github.com/postkit/postkit/pkg/frontmatter"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// createTestPost saves a canonical post built in code
func createTestPost(repo *mocks.MockRepository, title string, when time.Time, draft bool, tags []string) *domain.PostBody {
	header, _ := domain.NewPostHeader(title, tags, when, draft, false)
	post := &domain.PostBody{
		Header: *header,
		Document: &frontmatter.Document{
			FrontMatter: frontmatter.FrontMatter{
				Title: header.Title,
				Date:  when,
				Draft: draft,
				Tags:  header.Tags,
			},
			Body: "\nSome body text.\n",
		},
	}
	repo.Save(context.Background(), post)
	return post
}

// addRawPost stores a post from file content the way the file repository would
func addRawPost(t *testing.T, repo *mocks.MockRepository, filename, content string) {
	t.Helper()
	doc, err := frontmatter.ParseLenient([]byte(content))
	if err != nil {
		repo.AddBroken(domain.ParseFilename(filename), err.Error(), []byte(content))
		return
	}
	post := domain.NewPostBody(doc, filename)
	if err := repo.Save(context.Background(), post); err != nil {
		t.Fatalf("failed to save %s: %v", filename, err)
	}
	repo.SetRaw(post.Header.Slug, []byte(content))
}
