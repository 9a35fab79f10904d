package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/postkit/postkit/pkg/frontmatter"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Ownership for Pythonistas", "ownership-for-pythonistas"},
		{"Traits  vs   Protocols   ", "traits-vs-protocols"},
		{"C++ Programming", "c-programming"},
		{"Result<T, E> explained", "result-t-e-explained"},
		{"Rust's Option!", "rust-s-option"},
	}

	for _, tt := range tests {
		got := GenerateSlug(tt.title)
		if got != tt.expected {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.expected)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	date := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		datePrefix bool
		date       time.Time
		expected   string
	}{
		{"plain", false, date, "ownership.md"},
		{"date prefixed", true, date, "2026-02-02-ownership.md"},
		{"prefix without date", true, time.Time{}, "ownership.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateFilename("ownership", tt.datePrefix, tt.date)
			if got != tt.expected {
				t.Errorf("GenerateFilename() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"20260202-ownership.md", "ownership"},
		{"2026-02-02-borrow-checker.md", "borrow-checker"},
		{"simple-post.md", "simple-post"},
		{"rust-2024-edition.md", "rust-2024-edition"},
		{"just-a-file", "just-a-file"},
	}

	for _, tt := range tests {
		got := ParseFilename(tt.filename)
		if got != tt.expected {
			t.Errorf("ParseFilename(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestRenameFile(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"2026-02-02-old.md", "2026-02-02-new.md"},
		{"20260202-old.md", "20260202-new.md"},
		{"old.md", "new.md"},
	}

	for _, tt := range tests {
		if got := RenameFile(tt.filename, "new"); got != tt.expected {
			t.Errorf("RenameFile(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestIsPostFile(t *testing.T) {
	if !IsPostFile("post.md") {
		t.Error("post.md should be a post file")
	}
	if IsPostFile("notes.txt") {
		t.Error("notes.txt should not be a post file")
	}
	if IsPostFile(".hidden.md") {
		t.Error("hidden files should be skipped")
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		title   string
		isValid bool
	}{
		{"Valid Title", true},
		{"", false},
		{"   ", false},
		{"!!!", false},
		{strings.Repeat("a", 200), true},
		{strings.Repeat("a", 201), false},
		{strings.Repeat("é", 200), true},
		{"  " + strings.Repeat("a", 200) + "  ", true},
	}

	for _, tt := range tests {
		err := ValidateTitle(tt.title)
		if (err == nil) != tt.isValid {
			t.Errorf("ValidateTitle(%q) valid = %v, want %v", tt.title, err == nil, tt.isValid)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" rust ", "Python", "", "RUST", "python"})
	want := []string{"rust", "Python"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("NormalizeTags() = %v, want %v", got, want)
	}

	if NormalizeTags(nil) == nil {
		t.Error("NormalizeTags(nil) should return an empty slice")
	}
}

func TestNewPostHeader(t *testing.T) {
	date := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	header, err := NewPostHeader("  Ownership 101 ", []string{"rust"}, date, true, true)
	if err != nil {
		t.Fatalf("NewPostHeader failed: %v", err)
	}

	if header.Title != "Ownership 101" {
		t.Errorf("Title = %q", header.Title)
	}
	if header.Slug != "ownership-101" {
		t.Errorf("Slug = %q", header.Slug)
	}
	if header.Filename != "2026-02-02-ownership-101.md" {
		t.Errorf("Filename = %q", header.Filename)
	}
	if !header.Draft {
		t.Error("Draft should be true")
	}

	if _, err := NewPostHeader("", nil, date, false, false); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestNewPostBody(t *testing.T) {
	doc, err := frontmatter.Parse([]byte("+++\ntitle = \"X\"\ndate = 2026-02-02\ndraft = true\n+++\n\nBody\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	post := NewPostBody(doc, "2026-02-02-x.md")
	if post.Header.Title != "X" || !post.Header.Draft || post.Header.Slug != "x" {
		t.Errorf("unexpected header: %+v", post.Header)
	}
	if len(post.Header.Tags) != 0 || post.Header.Tags == nil {
		t.Errorf("Tags should be empty, got %v", post.Header.Tags)
	}

	post.Document.FrontMatter.SetDraft(false)
	post.Sync()
	if post.Header.Draft {
		t.Error("Sync should copy draft=false into the header")
	}
	if post.Header.Slug != "x" {
		t.Errorf("Sync should keep slug, got %q", post.Header.Slug)
	}

	want := "+++\ntitle = \"X\"\ndate = 2026-02-02\ndraft = false\n+++\n\nBody\n"
	if got := string(post.Content()); got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestPostBody_RenderKeepsComments(t *testing.T) {
	src := "+++\n# TODO: verify lifetimes section\ntitle = \"X\"\ndate = 2026-02-02\ndraft = true\n+++\n\nBody\n"
	doc, err := frontmatter.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	post := NewPostBody(doc, "x.md")
	post.Document.FrontMatter.SetDraft(false)

	got, err := post.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "+++\n# TODO: verify lifetimes section\ntitle = \"X\"\ndate = 2026-02-02\ndraft = false\n+++\n\nBody\n"
	if string(got) != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestPostHeader_HasTag(t *testing.T) {
	header := &PostHeader{
		Tags: []string{"Rust", "Python"},
	}

	if !header.HasTag("rust") {
		t.Error("HasTag(rust) should be true (case insensitive)")
	}
	if !header.HasTag("Python") {
		t.Error("HasTag(Python) should be true")
	}
	if header.HasTag("go") {
		t.Error("HasTag(go) should be false")
	}
}

func TestPostHeader_Display(t *testing.T) {
	h := &PostHeader{Date: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)}

	if got := h.GetDisplayDate(""); got != "Feb 02, 2026" {
		t.Errorf("GetDisplayDate() = %q", got)
	}
	if got := h.GetDisplayDate("2006-01-02"); got != "2026-02-02" {
		t.Errorf("GetDisplayDate(layout) = %q", got)
	}
	if got := (&PostHeader{}).GetDisplayDate(""); got != "-" {
		t.Errorf("zero date should display as '-', got %q", got)
	}
	if got := h.GetTagsString(); got != "-" {
		t.Errorf("GetTagsString() with no tags = %q", got)
	}
	h.Tags = []string{"rust", "python"}
	if got := h.GetTagsString(); got != "rust, python" {
		t.Errorf("GetTagsString() = %q", got)
	}
}

func TestPostHeader_Status(t *testing.T) {
	tests := []struct {
		header PostHeader
		want   string
	}{
		{PostHeader{}, "published"},
		{PostHeader{Draft: true}, "draft"},
		{PostHeader{Draft: true, Problem: "bad"}, "invalid"},
	}

	for _, tt := range tests {
		if got := tt.header.Status(); got != tt.want {
			t.Errorf("Status() = %q, want %q", got, tt.want)
		}
	}
}
