// Package schemas embeds the JSON Schemas used to validate seed files.
package schemas

import _ "embed"

// SeedCases is the schema for seed case declarations consumed by
// `cubecards seed`.
//
//go:embed seed_cases.schema.json
var SeedCases string
