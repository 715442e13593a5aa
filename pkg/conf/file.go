// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package conf

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadFile loads configuration from a YAML file on top of the built-in
// defaults.
func ReadFile(fp string) (*Config, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err = yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	res := Default()
	for table, keys := range c.FallbackKeys {
		res.FallbackKeys[strings.ToLower(table)] = keys
	}
	return res, nil
}
