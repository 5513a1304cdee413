package content

import "strings"

type Category string

const (
	CategoryDashboard    Category = "dashboard"
	CategoryWiki         Category = "wiki"
	CategoryArchitecture Category = "architecture"
	CategoryProject      Category = "project"
	CategoryMeeting      Category = "meeting"
	CategoryProposal     Category = "proposal"
	CategoryTemplate     Category = "template"
	CategoryGuide        Category = "guide"
	CategoryOther        Category = "other"
)

type CategoryDetails struct {
	ID       Category `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Keywords []string `json:"keywords"`
}

// categories is checked in order; the first keyword hit wins.
var categories = []CategoryDetails{
	{CategoryDashboard, "Dashboard", "📊", []string{"dashboard", "client dashboard", "status", "overview"}},
	{CategoryWiki, "Wiki", "📚", []string{"wiki", "knowledge", "company wiki", "documentation"}},
	{CategoryArchitecture, "Architecture", "🏗️", []string{"architecture", "system", "backend", "diagram"}},
	{CategoryProject, "Project", "📋", []string{"project", "plan", "roadmap", "timeline"}},
	{CategoryMeeting, "Meeting", "💬", []string{"meeting", "notes", "agenda", "discussion"}},
	{CategoryProposal, "Proposal", "💡", []string{"proposal", "suggestion", "idea", "request"}},
	{CategoryTemplate, "Template", "🎨", []string{"template", "showcase", "sample"}},
	{CategoryGuide, "Guide", "📖", []string{"guide", "how to", "tutorial", "instructions"}},
}

var otherCategory = CategoryDetails{CategoryOther, "Document", "📄", []string{}}

// DetectDocumentCategory classifies a title by case-insensitive keyword match.
func DetectDocumentCategory(title string) Category {
	lower := strings.ToLower(title)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.ID
			}
		}
	}
	return CategoryOther
}

func CategoryInfo(id Category) CategoryDetails {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return otherCategory
}

// AllCategories lists every category except "other", in match order.
func AllCategories() []CategoryDetails {
	out := make([]CategoryDetails, len(categories))
	copy(out, categories)
	return out
}
