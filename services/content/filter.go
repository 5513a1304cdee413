package content

import (
	"strings"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

// FilterFavorite is the pseudo-source selecting favorited items.
const FilterFavorite = "favorite"

// Filter keeps items matching search (case-insensitive, title or description) and
// passing the source filter. With no filters selected every source passes; otherwise an
// item passes when its source is selected, or "favorite" is selected and it is favorited.
func Filter(items []models.ContentItem, search string, filters []string, favorited map[string]bool) []models.ContentItem {
	query := strings.ToLower(strings.TrimSpace(search))
	selected := make(map[string]bool, len(filters))
	for _, f := range filters {
		selected[f] = true
	}

	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Title), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		if len(selected) > 0 && !selected[item.Source] && !(selected[FilterFavorite] && favorited[item.ID]) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Partition splits items into featured and regular, preserving order in both.
func Partition(items []models.ContentItem) (featured, regular []models.ContentItem) {
	featured = []models.ContentItem{}
	regular = []models.ContentItem{}
	for _, item := range items {
		if item.Featured {
			featured = append(featured, item)
		} else {
			regular = append(regular, item)
		}
	}
	return featured, regular
}

// FavoriteItems returns the favorited subset in original order.
func FavoriteItems(items []models.ContentItem, favorited map[string]bool) []models.ContentItem {
	out := []models.ContentItem{}
	for _, item := range items {
		if favorited[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// Move removes the item at from and reinserts it at to. Out-of-range indices leave
// the slice unchanged. The input slice is not modified.
func Move(items []models.ContentItem, from, to int) []models.ContentItem {
	out := make([]models.ContentItem, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]models.ContentItem{moved}, out[to:]...)...)
	return out
}

// OrderBy sorts items so ids listed in order come first, in that order; the rest keep
// their relative position.
func OrderBy(items []models.ContentItem, order []string) []models.ContentItem {
	if len(order) == 0 {
		return items
	}
	byID := make(map[string]models.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make([]models.ContentItem, 0, len(items))
	placed := map[string]bool{}
	for _, id := range order {
		if item, ok := byID[id]; ok && !placed[id] {
			out = append(out, item)
			placed[id] = true
		}
	}
	for _, item := range items {
		if !placed[item.ID] {
			out = append(out, item)
		}
	}
	return out
}
