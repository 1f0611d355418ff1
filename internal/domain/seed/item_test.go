package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Summer Sale":         "summer-sale",
		"Gift  Cards":         "gift-cards",
		"  Leading and Tail ": "leading-and-tail",
		"Tabs\tand\nLines":    "tabs-and-lines",
		"ALREADY-SLUG":        "already-slug",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestItem_Filename(t *testing.T) {
	assert.Equal(t, "banner-write-together.webp", Item{Title: "Write Together"}.Filename())
}

func TestDefaultItems(t *testing.T) {
	items := DefaultItems()
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.ImageURL)
		assert.NotEmpty(t, item.CTAURL)
	}
}

func TestLoadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banners.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
banners:
  - title: Summer Sale
    image_url: https://img.test/summer.webp
    image_alt: Beach
    cta_label: Shop
    cta_url: /sale
  - title: Text Only
    cta_label: Read
    cta_url: /blog
`), 0o644))

	items, err := LoadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Item{
		Title:    "Summer Sale",
		ImageURL: "https://img.test/summer.webp",
		ImageAlt: "Beach",
		CTALabel: "Shop",
		CTAURL:   "/sale",
	}, items[0])
	assert.Empty(t, items[1].ImageURL)
}

func TestLoadItems_MissingTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banners.yaml")
	require.NoError(t, os.WriteFile(path, []byte("banners:\n  - cta_url: /x\n"), 0o644))

	_, err := LoadItems(path)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestLoadItems_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banners.yaml")
	require.NoError(t, os.WriteFile(path, []byte("banners: [unterminated"), 0o644))

	_, err := LoadItems(path)
	assert.Error(t, err)
}

func TestLoadItems_MissingFile(t *testing.T) {
	_, err := LoadItems(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
