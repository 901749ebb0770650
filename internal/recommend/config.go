// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package recommend

import "fmt"

// Config holds recommendation engine configuration.
type Config struct {
	// ListSize caps each of the three candidate lists.
	ListSize int

	// SeasonCategories maps a season name to the entity categories (or
	// tags) considered a good fit for it. The table is deployment
	// configuration; the engine does not infer undocumented values.
	SeasonCategories map[string][]string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		ListSize: 10,
		SeasonCategories: map[string][]string{
			SeasonSpring.String(): {"park", "garden", "trail"},
			SeasonSummer.String(): {"beach", "valley", "campground"},
			SeasonAutumn.String(): {"mountain", "forest", "trail"},
			SeasonWinter.String(): {"hot-spring", "museum", "cafe"},
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.ListSize <= 0 {
		return fmt.Errorf("list size must be positive, got %d", c.ListSize)
	}

	for season := range c.SeasonCategories {
		switch season {
		case SeasonSpring.String(), SeasonSummer.String(),
			SeasonAutumn.String(), SeasonWinter.String():
		default:
			return fmt.Errorf("unknown season %q in season categories", season)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	categories := make(map[string][]string, len(c.SeasonCategories))
	for season, list := range c.SeasonCategories {
		cp := make([]string, len(list))
		copy(cp, list)
		categories[season] = cp
	}

	return &Config{
		ListSize:         c.ListSize,
		SeasonCategories: categories,
	}
}

// categoriesForSeason returns the affinity set for a season as a lookup map.
func (c *Config) categoriesForSeason(s Season) map[string]struct{} {
	list := c.SeasonCategories[s.String()]
	set := make(map[string]struct{}, len(list))
	for _, category := range list {
		set[category] = struct{}{}
	}
	return set
}
