package models

// Content sources. Cards are limited to the first three; craft appears only in aggregated output.
const (
	SourceGitHub  = "github"
	SourceGitBook = "gitbook"
	SourceNotion  = "notion"
	SourceCraft   = "craft"
)

// ContentItem is the normalized view of one piece of content from any source.
// It is built per request and never stored.
type ContentItem struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Source      string   `json:"source" yaml:"source"`
	URL         string   `json:"url" yaml:"url"`
	Tags        []string `json:"tags" yaml:"tags"`
	LastUpdated string   `json:"lastUpdated,omitempty" yaml:"lastUpdated"`
	Featured    bool     `json:"featured" yaml:"featured"`
	Category    string   `json:"category,omitempty" yaml:"category"`
}

// ContentCard is the validated, user-editable form of a ContentItem.
type ContentCard struct {
	ID          string   `json:"id" yaml:"id" binding:"required"`
	Title       string   `json:"title" yaml:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" yaml:"description" binding:"required,min=1,max=1000"`
	Source      string   `json:"source" yaml:"source" binding:"required,oneof=github gitbook notion"`
	URL         string   `json:"url" yaml:"url" binding:"required,url"`
	Tags        []string `json:"tags" yaml:"tags" binding:"max=10,dive,max=50"`
	LastUpdated string   `json:"lastUpdated,omitempty" yaml:"lastUpdated"`
	Featured    bool     `json:"featured" yaml:"featured"`
}

// CreateContentCard is a ContentCard before an id is assigned.
type CreateContentCard struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"required,min=1,max=1000"`
	Source      string   `json:"source" binding:"required,oneof=github gitbook notion"`
	URL         string   `json:"url" binding:"required,url"`
	Tags        []string `json:"tags" binding:"max=10,dive,max=50"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Featured    bool     `json:"featured"`
}

func (c ContentCard) Item() ContentItem {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return ContentItem{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Source:      c.Source,
		URL:         c.URL,
		Tags:        tags,
		LastUpdated: c.LastUpdated,
		Featured:    c.Featured,
	}
}
