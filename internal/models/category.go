package models

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Category is a product category. Its ID is derived from the name when it is
// created and never changes afterwards.
type Category struct {
	ID       string `json:"id" mapstructure:"-"`
	Name     string `json:"name" mapstructure:"name" validate:"required,excludes=/"`
	PhotoURL string `json:"photoUrl" mapstructure:"photoUrl" validate:"required"`
}

// Normalize trims the category's text fields.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.PhotoURL = strings.TrimSpace(c.PhotoURL)
}

// Fields returns the stored representation of the category.
func (c Category) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":     c.Name,
		"photoUrl": c.PhotoURL,
	}
}

// CategoryID derives a category ID from its name: lowercased, with every run of
// whitespace replaced by a single hyphen.
func CategoryID(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}
