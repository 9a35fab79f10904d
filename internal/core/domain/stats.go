package domain

// Count is a label with a number, used for ranked breakdowns
type Count struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// StatsReport summarizes the content directory
type StatsReport struct {
	Posts          int     `json:"posts"`
	Published      int     `json:"published"`
	Drafts         int     `json:"drafts"`
	Invalid        int     `json:"invalid"`
	Words          int     `json:"words"`
	ReadingMinutes int     `json:"reading_minutes"`
	AverageWords   int     `json:"average_words"`
	Tags           []Count `json:"tags"`
	Languages      []Count `json:"languages"`
	PerMonth       []Count `json:"per_month"`
}
