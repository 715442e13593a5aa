// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package conf

import (
	"fmt"
	"strings"
)

type Config struct {
	// FallbackKeys maps a table name (lower-cased) to the key columns
	// to merge on when the table declares no primary key. Tables with
	// neither a declared primary key nor an entry here are skipped.
	FallbackKeys map[string][]string `yaml:"fallbackKeys,omitempty" json:"fallbackKeys,omitempty"`
}

// Default returns the built-in configuration. The match results table
// exported by scouting dumps carries no primary key declaration, so it
// merges on its event/team key pair.
func Default() *Config {
	return &Config{
		FallbackKeys: map[string][]string{
			"matches": {"key", "team_key"},
		},
	}
}

// KeysFor returns the configured fallback key columns for a table, or
// nil. Lookup is case-insensitive.
func (c *Config) KeysFor(table string) []string {
	return c.FallbackKeys[strings.ToLower(table)]
}

// SetFallbackKeys registers key columns for a table, replacing any
// previous entry.
func (c *Config) SetFallbackKeys(table string, keys []string) {
	if c.FallbackKeys == nil {
		c.FallbackKeys = map[string][]string{}
	}
	c.FallbackKeys[strings.ToLower(table)] = keys
}

// ParseFallbackKey parses a "table=col1,col2" flag value.
func ParseFallbackKey(s string) (table string, keys []string, err error) {
	i := strings.Index(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", nil, fmt.Errorf("invalid fallback key %q, expecting TABLE=COL1[,COL2...]", s)
	}
	table = s[:i]
	for _, k := range strings.Split(s[i+1:], ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			return "", nil, fmt.Errorf("invalid fallback key %q, empty column name", s)
		}
		keys = append(keys, k)
	}
	return table, keys, nil
}
