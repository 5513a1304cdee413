package content

import (
	"strconv"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/craft"
	"github.com/UnicornXOS/bl1nk-web-portal/services/github"
	"github.com/UnicornXOS/bl1nk-web-portal/services/notion"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

const (
	// Repos strictly above this star count are featured.
	FeaturedStarThreshold = 100

	NoDescription     = "No description available"
	NotionDescription = "Notion page"

	maxTags   = 10
	maxTagLen = 50
)

func FromGitHubRepo(r github.Repo) models.ContentItem {
	desc := NoDescription
	if r.Description != nil && *r.Description != "" {
		desc = *r.Description
	}

	tags := []string{}
	switch {
	case len(r.Topics) > 0:
		tags = append(tags, r.Topics...)
	case r.Language != nil && *r.Language != "":
		tags = append(tags, *r.Language)
	}

	return models.ContentItem{
		ID:          "github-" + strconv.FormatInt(r.ID, 10),
		Title:       r.Name,
		Description: desc,
		Source:      models.SourceGitHub,
		URL:         r.URL,
		Tags:        clampTags(tags),
		LastUpdated: utils.FormatDate(r.UpdatedAt),
		Featured:    r.Stars > FeaturedStarThreshold,
	}
}

func FromGitHubRepos(repos []github.Repo) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(repos))
	for _, r := range repos {
		out = append(out, FromGitHubRepo(r))
	}
	return out
}

// FromNotionPages maps database pages, dropping archived ones.
func FromNotionPages(pages []notion.Page) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(pages))
	for _, p := range pages {
		if p.Archived {
			continue
		}
		out = append(out, models.ContentItem{
			ID:          "notion-" + p.ID,
			Title:       p.Title,
			Description: NotionDescription,
			Source:      models.SourceNotion,
			URL:         p.URL,
			Tags:        []string{},
			LastUpdated: utils.FormatDate(p.LastEditedTime),
		})
	}
	return out
}

// FromCraftDocuments maps documents, dropping deleted ones. The url points at the
// document's blocks endpoint under baseURL.
func FromCraftDocuments(docs []craft.Document, baseURL string) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(docs))
	for _, d := range docs {
		if d.IsDeleted {
			continue
		}
		cat := DetectDocumentCategory(d.Title)
		info := CategoryInfo(cat)
		out = append(out, models.ContentItem{
			ID:          "craft-" + d.ID,
			Title:       d.Title,
			Description: info.Label,
			Source:      models.SourceCraft,
			URL:         baseURL + "/blocks?id=" + d.ID,
			Tags:        []string{info.Label},
			Category:    string(cat),
		})
	}
	return out
}

// clampTags keeps at most 10 tags of at most 50 characters each.
func clampTags(tags []string) []string {
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	for i, t := range tags {
		tags[i] = utils.Truncate(t, maxTagLen)
	}
	return tags
}
