package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrCardNotFound = errors.New("content card not found")

// Catalog holds hand-maintained content cards (GitBook pages, pinned Notion docs).
// Cards keep their insertion order. When a path is set, edits are written back to it.
type Catalog struct {
	mu    sync.RWMutex
	path  string
	cards []models.ContentCard
}

// Load reads cards from path, or the bundled catalog when path is empty or missing.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			raw = b
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	var cards []models.ContentCard
	if err := yaml.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := map[string]bool{}
	for i := range cards {
		if cards[i].Tags == nil {
			cards[i].Tags = []string{}
		}
		if err := models.Validate(cards[i]); err != nil {
			return nil, fmt.Errorf("catalog card %q: %w", cards[i].ID, err)
		}
		if seen[cards[i].ID] {
			return nil, fmt.Errorf("catalog card %q: duplicate id", cards[i].ID)
		}
		seen[cards[i].ID] = true
	}
	return &Catalog{path: path, cards: cards}, nil
}

// Items returns the cards as content items, in catalog order.
func (c *Catalog) Items() []models.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ContentItem, 0, len(c.cards))
	for _, card := range c.cards {
		out = append(out, card.Item())
	}
	return out
}

func (c *Catalog) Get(id string) (models.ContentCard, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, card := range c.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return models.ContentCard{}, ErrCardNotFound
}

// Upsert validates card and replaces the card with the same id, or appends it.
func (c *Catalog) Upsert(card models.ContentCard) error {
	if card.Tags == nil {
		card.Tags = []string{}
	}
	if err := models.Validate(card); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]models.ContentCard, 0, len(c.cards)+1)
	replaced := false
	for _, existing := range c.cards {
		if existing.ID == card.ID {
			existing = card
			replaced = true
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, card)
	}
	return c.commitLocked(next)
}

func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]models.ContentCard, 0, len(c.cards))
	for _, existing := range c.cards {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(c.cards) {
		return ErrCardNotFound
	}
	return c.commitLocked(next)
}

// commitLocked writes cards to disk and only then makes them current.
func (c *Catalog) commitLocked(cards []models.ContentCard) error {
	if c.path != "" {
		raw, err := yaml.Marshal(cards)
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		if err := os.WriteFile(c.path, raw, 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
	}
	c.cards = cards
	return nil
}
