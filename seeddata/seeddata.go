// Package seeddata embeds the static demo catalog loaded by database.SeedData.
package seeddata

import _ "embed"

//go:embed rules.yaml
var IncentiveRulesYAML []byte
