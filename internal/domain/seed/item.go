package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item describes one banner to seed.
type Item struct {
	Title    string `yaml:"title"`
	ImageURL string `yaml:"image_url"`
	ImageAlt string `yaml:"image_alt"`
	CTALabel string `yaml:"cta_label"`
	CTAURL   string `yaml:"cta_url"`
}

// Filename returns the staged filename used for the item's image.
func (i Item) Filename() string {
	return "banner-" + Slug(i.Title) + ".webp"
}

// Slug lowercases s and replaces each run of whitespace with a hyphen.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// DefaultItems returns the built-in homepage banners.
func DefaultItems() []Item {
	return []Item{
		{
			Title:    "Write Together",
			ImageURL: "https://images.unsplash.com/photo-1455390582262-044cdead277a?fm=webp&w=1600",
			ImageAlt: "Notebook and pen on a wooden desk",
			CTALabel: "Start writing",
			CTAURL:   "/editor/new",
		},
		{
			Title:    "AI Assistant",
			ImageURL: "https://images.unsplash.com/photo-1677442136019-21780ecad995?fm=webp&w=1600",
			ImageAlt: "Abstract render of a neural network",
			CTALabel: "Try the assistant",
			CTAURL:   "/ai",
		},
		{
			Title:    "Publish Anywhere",
			ImageURL: "https://images.unsplash.com/photo-1499750310107-5fef28a66643?fm=webp&w=1600",
			ImageAlt: "Laptop showing a published article",
			CTALabel: "See integrations",
			CTAURL:   "/integrations",
		},
	}
}

type itemsFile struct {
	Banners []Item `yaml:"banners"`
}

// LoadItems reads seed items from a YAML file with a top-level banners list.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed items: %w", err)
	}

	var f itemsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed items %s: %w", path, err)
	}

	for i, item := range f.Banners {
		if strings.TrimSpace(item.Title) == "" {
			return nil, fmt.Errorf("%w: banner %d has no title", ErrInvalidItem, i)
		}
	}
	return f.Banners, nil
}
