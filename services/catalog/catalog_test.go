package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

func TestLoadBundledCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 4)
	ids := []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	assert.Equal(t, []string{"gitbook-1", "gitbook-2", "notion-1", "notion-2"}, ids)
	assert.True(t, items[0].Featured)
	assert.False(t, items[1].Featured)
	assert.Equal(t, "https://notion.so/bl1nk-roadmap", items[2].URL)
	assert.Equal(t, []string{"Knowledge", "Team", "Best Practices"}, items[3].Tags)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Items(), 4)
}

func TestLoadRejectsInvalidCards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- {id: x, title: X, description: d, source: gitbook, url: not-a-url}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`
- {id: x, title: X, description: d, source: gitbook, url: "https://a.dev"}
- {id: x, title: Y, description: d, source: gitbook, url: "https://b.dev"}
`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "duplicate")
}

func TestUpsertDeletePersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	c, err := Load(path)
	require.NoError(t, err)

	card := models.ContentCard{ID: "gitbook-3", Title: "Deploying", Description: "How to deploy", Source: "gitbook", URL: "https://docs.bl1nk.dev/deploy"}
	require.NoError(t, c.Upsert(card))
	assert.Len(t, c.Items(), 5)

	card.Title = "Deploying bl1nk"
	require.NoError(t, c.Upsert(card))
	got, err := c.Get("gitbook-3")
	require.NoError(t, err)
	assert.Equal(t, "Deploying bl1nk", got.Title)
	assert.Len(t, c.Items(), 5)

	require.NoError(t, c.Delete("gitbook-1"))
	assert.ErrorIs(t, c.Delete("gitbook-1"), ErrCardNotFound)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items(), 4)
	_, err = reloaded.Get("gitbook-1")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestUpsertValidates(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	err = c.Upsert(models.ContentCard{ID: "bad", Title: "", Description: "d", Source: "gitbook", URL: "https://x.dev"})
	assert.Error(t, err)
	assert.Len(t, c.Items(), 4)
}

func TestFailedWriteLeavesCardsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "catalog.yaml")
	c, err := Load(path)
	require.NoError(t, err)

	card := models.ContentCard{ID: "gitbook-9", Title: "T", Description: "d", Source: "gitbook", URL: "https://x.dev"}
	assert.ErrorContains(t, c.Upsert(card), "write catalog")
	_, err = c.Get("gitbook-9")
	assert.ErrorIs(t, err, ErrCardNotFound)

	edited := models.ContentCard{ID: "gitbook-1", Title: "Renamed", Description: "d", Source: "gitbook", URL: "https://x.dev"}
	assert.Error(t, c.Upsert(edited))
	got, err := c.Get("gitbook-1")
	require.NoError(t, err)
	assert.NotEqual(t, "Renamed", got.Title)

	assert.Error(t, c.Delete("gitbook-1"))
	assert.Len(t, c.Items(), 4)
}
