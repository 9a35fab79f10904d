package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
)

// StatsService summarizes the content directory
type StatsService struct {
	indexer *IndexerService
	chart   ports.ChartRenderer
}

// NewStatsService creates a new stats service
func NewStatsService(indexer *IndexerService, chart ports.ChartRenderer) *StatsService {
	return &StatsService{
		indexer: indexer,
		chart:   chart,
	}
}

// StatsRequest limits the ranked breakdowns
type StatsRequest struct {
	TopN int // 0 keeps every tag and language
}

// Execute computes a fresh report from the posts on disk
func (s *StatsService) Execute(ctx context.Context, req StatsRequest) (*domain.StatsReport, error) {
	index, err := s.indexer.Build(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildReport(index, req.TopN)
	return &report, nil
}

// RenderChart writes the report as an HTML chart page
func (s *StatsService) RenderChart(w io.Writer, report domain.StatsReport) error {
	if s.chart == nil {
		return fmt.Errorf("no chart renderer configured")
	}
	if err := s.chart.Render(w, report); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// BuildReport aggregates index entries. Invalid posts only count toward
// Posts and Invalid. Tags are counted case-insensitively, as tag list does.
func BuildReport(index *domain.Index, topN int) domain.StatsReport {
	report := domain.StatsReport{}
	tags := map[string]int{}
	languages := map[string]int{}
	months := map[string]int{}

	for _, entry := range index.Posts {
		report.Posts++
		if entry.Problem != "" {
			report.Invalid++
			continue
		}

		if entry.Draft {
			report.Drafts++
		} else {
			report.Published++
		}

		report.Words += entry.Words
		report.ReadingMinutes += entry.ReadingMinutes

		for _, tag := range entry.Tags {
			tags[strings.ToLower(tag)]++
		}
		for _, lang := range entry.Languages {
			languages[lang]++
		}
		if len(entry.Date) >= 7 {
			months[entry.Date[:7]]++
		}
	}

	if valid := report.Posts - report.Invalid; valid > 0 {
		report.AverageWords = report.Words / valid
	}

	report.Tags = rankCounts(tags, topN)
	report.Languages = rankCounts(languages, topN)

	report.PerMonth = make([]domain.Count, 0, len(months))
	for month, n := range months {
		report.PerMonth = append(report.PerMonth, domain.Count{Label: month, Value: n})
	}
	sort.Slice(report.PerMonth, func(i, j int) bool {
		return report.PerMonth[i].Label < report.PerMonth[j].Label
	})

	return report
}
