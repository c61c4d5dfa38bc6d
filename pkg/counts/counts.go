// Package counts persists the per-category resource totals used as the
// denominator of "X de Y completados" displays.
//
// The totals are a cache set by whoever knows the catalogue size; nothing
// checks them against the actual number of resources.
package counts

import (
	"encoding/json"

	"excesoluz/pkg/errors"
	"excesoluz/pkg/storage"
)

// StorageKey is the key the totals map is persisted under
const StorageKey = "exceso_luz_conteos"

// Counts reads and writes category totals through a Storage
type Counts struct {
	storage storage.Storage
}

// New creates a Counts over s
func New(s storage.Storage) *Counts {
	return &Counts{storage: s}
}

// All returns every stored total. A missing key yields an empty map.
func (c *Counts) All() (map[string]int, error) {
	data, err := c.storage.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "counts", StorageKey)
	}

	totals := map[string]int{}
	if err := json.Unmarshal(data, &totals); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParsing, "counts", StorageKey)
	}
	if totals == nil {
		totals = map[string]int{}
	}
	return totals, nil
}

// Get returns the total for category, or 0 when none is stored
func (c *Counts) Get(category string) (int, error) {
	totals, err := c.All()
	if err != nil {
		return 0, err
	}
	return totals[category], nil
}

// Set stores n as the total for category, keeping the other categories
func (c *Counts) Set(category string, n int) error {
	return c.SetAll(map[string]int{category: n})
}

// SetAll merges totals into the stored map in a single write
func (c *Counts) SetAll(totals map[string]int) error {
	for category, n := range totals {
		if category == "" {
			return errors.New(errors.ErrorTypeInvalidInput, "counts", "category is required")
		}
		if n < 0 {
			return errors.New(errors.ErrorTypeInvalidInput, "counts", "total must not be negative")
		}
	}

	current, err := c.All()
	if err != nil {
		return err
	}
	for category, n := range totals {
		current[category] = n
	}

	data, err := json.Marshal(current)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeUnknown, "counts", StorageKey)
	}
	if err := c.storage.Set(StorageKey, data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, "counts", StorageKey)
	}
	return nil
}
