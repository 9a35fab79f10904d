package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports/mocks"
	"github.com/postkit/postkit/pkg/frontmatter"
)

const draftPost = "+++\ntitle = \"Ownership\"\ndate = 2026-01-10\ndraft = true\n+++\n\nBody\n"

func newMetaService(t *testing.T, files map[string]string) (*MetaService, *mocks.MockRepository) {
	t.Helper()
	repo := mocks.NewMockRepository()
	for filename, content := range files {
		addRawPost(t, repo, filename, content)
	}
	service := NewMetaService(repo)
	service.now = fixedClock(day(2026, 2, 2).Add(9 * time.Hour))
	return service, repo
}

func rawContent(t *testing.T, repo *mocks.MockRepository, slug string) string {
	t.Helper()
	raw, err := repo.ReadRaw(context.Background(), slug)
	if err != nil {
		t.Fatalf("ReadRaw(%q) failed: %v", slug, err)
	}
	return string(raw)
}

func TestMetaService_PublishUnpublish(t *testing.T) {
	ctx := context.Background()
	service, repo := newMetaService(t, map[string]string{"ownership.md": draftPost})

	res, err := service.Publish(ctx, "ownership", false)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !res.Changed || res.Post.Header.Draft {
		t.Errorf("post should be published: %+v", res.Post.Header)
	}
	want := "+++\ntitle = \"Ownership\"\ndate = 2026-01-10\ndraft = false\n+++\n\nBody\n"
	if got := rawContent(t, repo, "ownership"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	// Publishing twice changes nothing
	saves := repo.SaveCalls()
	res, err = service.Publish(ctx, "ownership", false)
	if err != nil || res.Changed {
		t.Errorf("second Publish should be a no-op: %v %+v", err, res)
	}
	if repo.SaveCalls() != saves {
		t.Error("no-op publish should not write")
	}

	res, err = service.Unpublish(ctx, "ownership")
	if err != nil || !res.Changed || !res.Post.Header.Draft {
		t.Fatalf("Unpublish failed: %v %+v", err, res)
	}
	if got := rawContent(t, repo, "ownership"); got != draftPost {
		t.Errorf("content = %q, want %q", got, draftPost)
	}
}

func TestMetaService_PublishStampsDate(t *testing.T) {
	service, repo := newMetaService(t, map[string]string{"ownership.md": draftPost})

	res, err := service.Publish(context.Background(), "ownership", true)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !res.Post.Header.Date.Equal(day(2026, 2, 2)) {
		t.Errorf("Date = %v", res.Post.Header.Date)
	}
	want := "+++\ntitle = \"Ownership\"\ndate = 2026-02-02\ndraft = false\n+++\n\nBody\n"
	if got := rawContent(t, repo, "ownership"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestMetaService_PublishMissing(t *testing.T) {
	service, _ := newMetaService(t, nil)
	if _, err := service.Publish(context.Background(), "nope", false); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestMetaService_Tags(t *testing.T) {
	ctx := context.Background()
	service, repo := newMetaService(t, map[string]string{"ownership.md": draftPost})

	res, err := service.AddTags(ctx, "ownership", "rust", "Python", "RUST")
	if err != nil || !res.Changed {
		t.Fatalf("AddTags failed: %v %+v", err, res)
	}
	want := "+++\ntitle = \"Ownership\"\ndate = 2026-01-10\ndraft = true\ntags = [\"rust\", \"Python\"]\n+++\n\nBody\n"
	if got := rawContent(t, repo, "ownership"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	res, _ = service.AddTags(ctx, "ownership", "rust")
	if res.Changed {
		t.Error("adding an existing tag should not change the post")
	}

	res, err = service.RemoveTags(ctx, "ownership", "python")
	if err != nil || !res.Changed {
		t.Fatalf("RemoveTags failed: %v %+v", err, res)
	}
	if !res.Post.Header.HasTag("rust") || res.Post.Header.HasTag("python") {
		t.Errorf("Tags = %v", res.Post.Header.Tags)
	}

	res, _ = service.RemoveTags(ctx, "ownership", "go")
	if res.Changed {
		t.Error("removing a missing tag should not change the post")
	}
}

func TestMetaService_SetDate(t *testing.T) {
	service, repo := newMetaService(t, map[string]string{"ownership.md": draftPost})

	res, err := service.SetDate(context.Background(), "ownership", time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC))
	if err != nil || !res.Changed {
		t.Fatalf("SetDate failed: %v %+v", err, res)
	}
	want := "+++\ntitle = \"Ownership\"\ndate = 2026-03-04\ndraft = true\n+++\n\nBody\n"
	if got := rawContent(t, repo, "ownership"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestMetaService_Retitle(t *testing.T) {
	service, repo := newMetaService(t, map[string]string{"2026-01-10-ownership.md": draftPost})

	header, err := service.Retitle(context.Background(), "ownership", "Ownership Explained")
	if err != nil {
		t.Fatalf("Retitle failed: %v", err)
	}
	if header.Filename != "2026-01-10-ownership-explained.md" {
		t.Errorf("Filename = %q", header.Filename)
	}
	if repo.Exists(context.Background(), "ownership") {
		t.Error("old slug should be gone")
	}
}

func TestMetaService_ListTags(t *testing.T) {
	service, repo := newMetaService(t, nil)
	createTestPost(repo, "A", day(2026, 1, 1), false, []string{"rust", "python"})
	createTestPost(repo, "B", day(2026, 1, 2), false, []string{"Rust"})
	createTestPost(repo, "C", day(2026, 1, 3), true, []string{"go"})

	counts, err := service.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}

	want := []domain.Count{{Label: "rust", Value: 2}, {Label: "go", Value: 1}, {Label: "python", Value: 1}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %v, want %v", i, counts[i], want[i])
		}
	}
}

func TestMetaService_AddTagsToCaseDuplicates(t *testing.T) {
	post := "+++\ntitle = \"Ownership\"\ntags = [\"rust\", \"Rust\"]\n+++\n\nBody\n"
	service, repo := newMetaService(t, map[string]string{"ownership.md": post})

	res, err := service.AddTags(context.Background(), "ownership", "python")
	if err != nil || !res.Changed {
		t.Fatalf("AddTags should report a change: %v %+v", err, res)
	}
	if !res.Post.Header.HasTag("python") {
		t.Errorf("Tags = %v", res.Post.Header.Tags)
	}
	want := "+++\ntitle = \"Ownership\"\ntags = [\"rust\", \"python\"]\n+++\n\nBody\n"
	if got := rawContent(t, repo, "ownership"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestMetaService_KeepsComments(t *testing.T) {
	ctx := context.Background()
	post := "+++\n# TODO: verify lifetimes section\ntitle = \"X\"\ndate = 2026-02-02\ndraft = true # until review\n+++\n\nBody\n"
	service, repo := newMetaService(t, map[string]string{"x.md": post})

	if _, err := service.Publish(ctx, "x", false); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	want := "+++\n# TODO: verify lifetimes section\ntitle = \"X\"\ndate = 2026-02-02\ndraft = false # until review\n+++\n\nBody\n"
	if got := rawContent(t, repo, "x"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	if _, err := service.AddTags(ctx, "x", "rust"); err != nil {
		t.Fatalf("AddTags failed: %v", err)
	}
	want = "+++\n# TODO: verify lifetimes section\ntitle = \"X\"\ndate = 2026-02-02\ndraft = false # until review\ntags = [\"rust\"]\n+++\n\nBody\n"
	if got := rawContent(t, repo, "x"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestMetaService_RefusesToDropComments(t *testing.T) {
	post := "+++\ntitle = \"X\"\ntags = [\n  \"rust\", # primary\n  \"go\",\n]\n+++\n\nBody\n"
	service, repo := newMetaService(t, map[string]string{"x.md": post})

	_, err := service.AddTags(context.Background(), "x", "python")
	if !errors.Is(err, frontmatter.ErrCommentsLost) {
		t.Fatalf("expected ErrCommentsLost, got %v", err)
	}
	if got := rawContent(t, repo, "x"); got != post {
		t.Errorf("file should be untouched, got %q", got)
	}
}
