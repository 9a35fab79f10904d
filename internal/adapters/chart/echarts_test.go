package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/postkit/postkit/internal/core/domain"
)

func TestEChartsRenderer_Render(t *testing.T) {
	report := domain.StatsReport{
		Posts:     3,
		Published: 2,
		Drafts:    1,
		Words:     600,
		Tags:      []domain.Count{{Label: "rust", Value: 2}},
		Languages: []domain.Count{{Label: "python", Value: 1}},
		PerMonth:  []domain.Count{{Label: "2026-01", Value: 2}, {Label: "2026-02", Value: 1}},
	}

	var buf bytes.Buffer
	if err := NewEChartsRenderer("").Render(&buf, report); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "postkit stats", "Posts per month", "2026-01", "rust", "python", "published"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}
