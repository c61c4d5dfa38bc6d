// Package catalog loads the list of resources shown by the CLI and the
// browser from a YAML file grouped by category.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"excesoluz/pkg/counts"
	"excesoluz/pkg/errors"
	"excesoluz/pkg/progress"
)

// Resource is one trackable content item
type Resource struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"titulo"`
	Description string `yaml:"descripcion,omitempty"`
	URL         string `yaml:"url,omitempty"`
	Image       string `yaml:"imagen,omitempty"`
	Category    string `yaml:"-"`
}

// Catalog maps category keys to their resources in file order
type Catalog struct {
	categories map[string][]Resource
	index      map[string]Resource
}

// Load reads and parses the catalogue at path
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "catalog", path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "catalog", path)
	}
	return Parse(data)
}

// Parse builds a catalogue from YAML. Resource ids must be non-empty and
// unique across all categories.
func Parse(data []byte) (*Catalog, error) {
	raw := map[string][]Resource{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParsing, "catalog", "")
	}

	c := &Catalog{
		categories: make(map[string][]Resource, len(raw)),
		index:      make(map[string]Resource),
	}
	for category, resources := range raw {
		list := make([]Resource, 0, len(resources))
		for i, r := range resources {
			if r.ID == "" {
				return nil, errors.New(errors.ErrorTypeInvalidInput, "catalog",
					fmt.Sprintf("%s[%d]: id is required", category, i))
			}
			if prev, dup := c.index[r.ID]; dup {
				return nil, errors.New(errors.ErrorTypeInvalidInput, "catalog",
					fmt.Sprintf("duplicate id %q in %s and %s", r.ID, prev.Category, category))
			}
			r.Category = category
			c.index[r.ID] = r
			list = append(list, r)
		}
		c.categories[category] = list
	}
	return c, nil
}

// Categories returns the catalogue's categories, fixed ones first in
// display order, then any others sorted by name.
func (c *Catalog) Categories() []string {
	var out []string
	for _, category := range progress.Categories {
		if _, ok := c.categories[category]; ok {
			out = append(out, category)
		}
	}

	var extra []string
	for category := range c.categories {
		if !progress.IsKnownCategory(category) {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Resources returns the resources of one category
func (c *Catalog) Resources(category string) []Resource {
	return append([]Resource(nil), c.categories[category]...)
}

// All returns every resource, grouped in Categories order
func (c *Catalog) All() []Resource {
	var out []Resource
	for _, category := range c.Categories() {
		out = append(out, c.categories[category]...)
	}
	return out
}

// Find looks a resource up by id
func (c *Catalog) Find(id string) (Resource, bool) {
	r, ok := c.index[id]
	return r, ok
}

// Totals returns the number of resources per category
func (c *Catalog) Totals() map[string]int {
	totals := make(map[string]int, len(c.categories))
	for category, resources := range c.categories {
		totals[category] = len(resources)
	}
	return totals
}

// Sync writes the catalogue sizes as the category totals
func (c *Catalog) Sync(store *counts.Counts) error {
	return store.SetAll(c.Totals())
}
