package domain

import (
	"sort"
	"time"
)

// IndexVersion is bumped whenever IndexEntry changes shape
const IndexVersion = "3.0"

// Index represents the persistent cache of post metadata and body statistics.
// Posts are keyed by filename, since two files may share a slug.
type Index struct {
	Version     string                `json:"version"`
	LastIndexed time.Time             `json:"last_indexed"`
	Posts       map[string]IndexEntry `json:"posts"`
}

// IndexEntry represents cached metadata for a single post
type IndexEntry struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Draft    bool     `json:"draft"`
	Tags     []string `json:"tags"`
	Slug     string   `json:"slug"`
	Filename string   `json:"filename"`

	// Body statistics
	Words          int      `json:"words"`
	ReadingMinutes int      `json:"reading_minutes"`
	Headings       []string `json:"headings"`
	Languages      []string `json:"languages"`
	Links          int      `json:"links"`

	Problem string `json:"problem,omitempty"`
}

// NewIndex creates a new empty index
func NewIndex() *Index {
	return &Index{
		Version:     IndexVersion,
		LastIndexed: time.Now(),
		Posts:       make(map[string]IndexEntry),
	}
}

// AddPost adds or updates a post in the index
func (idx *Index) AddPost(filename string, entry IndexEntry) {
	if idx.Posts == nil {
		idx.Posts = make(map[string]IndexEntry)
	}
	idx.Posts[filename] = entry
}

// GetPost retrieves a post from the index
func (idx *Index) GetPost(filename string) (IndexEntry, bool) {
	entry, exists := idx.Posts[filename]
	return entry, exists
}

// HasPost checks if a post exists in the index
func (idx *Index) HasPost(filename string) bool {
	_, exists := idx.Posts[filename]
	return exists
}

// Count returns the total number of posts in the index
func (idx *Index) Count() int {
	return len(idx.Posts)
}

// CountDrafts returns how many indexed posts are drafts
func (idx *Index) CountDrafts() int {
	count := 0
	for _, entry := range idx.Posts {
		if entry.Draft {
			count++
		}
	}
	return count
}

// TotalWords sums the word counts of all indexed posts
func (idx *Index) TotalWords() int {
	total := 0
	for _, entry := range idx.Posts {
		total += entry.Words
	}
	return total
}

// Filenames returns the indexed filenames sorted
func (idx *Index) Filenames() []string {
	filenames := make([]string, 0, len(idx.Posts))
	for filename := range idx.Posts {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)
	return filenames
}

// UpdateLastIndexed updates the last indexed timestamp
func (idx *Index) UpdateLastIndexed() {
	idx.LastIndexed = time.Now()
}

// Clear removes all posts from the index
func (idx *Index) Clear() {
	idx.Posts = make(map[string]IndexEntry)
}
