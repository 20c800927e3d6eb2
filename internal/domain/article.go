package domain

import "time"

// Topic identifies one of the two independent script pipelines.
type Topic string

const (
	TopicRupiah Topic = "rupiah"
	TopicGold   Topic = "gold"
)

func (t Topic) String() string { return string(t) }

// RawArticle is the unprocessed result of a site fetch: title plus the
// visible body text of the first matching article page.
type RawArticle struct {
	Topic     Topic
	Title     string
	URL       string
	BodyText  string
	FetchedAt time.Time
}

// ArticleRecord is the normalized source article a script is built from.
type ArticleRecord struct {
	Topic       Topic
	Title       string
	URL         string
	BodyText    string
	PublishedAt time.Time
}

// Record normalizes a raw fetch into an ArticleRecord. The published
// time defaults to the fetch time; gold articles may override it later
// with the date parsed out of the body.
func (a RawArticle) Record() ArticleRecord {
	return ArticleRecord{
		Topic:       a.Topic,
		Title:       a.Title,
		URL:         a.URL,
		BodyText:    a.BodyText,
		PublishedAt: a.FetchedAt,
	}
}
