package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intschemas "github.com/Simonerrror/rubik-motion-lab/internal/schemas"
)

func TestSeedCasesSchema_ValidJSON(t *testing.T) {
	var schemaObj map[string]interface{}
	err := json.Unmarshal([]byte(SeedCases), &schemaObj)
	require.NoError(t, err, "schema file should be valid JSON")

	_, hasType := schemaObj["type"]
	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasType || hasSchema || hasProps,
		"schema should have at least type, $schema, or properties")
}

func TestSeedCasesSchema_AcceptsWellFormedSeed(t *testing.T) {
	seed := `{
		"categories": [
			{"code": "OLL", "prefix": "OLL_", "count": 57},
			{"code": "PLL", "prefix": "PLL_", "count": 21}
		]
	}`
	assert.NoError(t, intschemas.ValidateJSONString(SeedCases, seed))
}

func TestSeedCasesSchema_RejectsMalformedSeed(t *testing.T) {
	tests := []struct {
		name string
		seed string
	}{
		{"missing categories", `{}`},
		{"empty categories", `{"categories": []}`},
		{"lowercase code", `{"categories": [{"code": "oll", "prefix": "OLL_", "count": 57}]}`},
		{"zero count", `{"categories": [{"code": "OLL", "prefix": "OLL_", "count": 0}]}`},
		{"missing prefix", `{"categories": [{"code": "OLL", "count": 57}]}`},
		{"unknown field", `{"categories": [{"code": "OLL", "prefix": "OLL_", "count": 57, "color": "red"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := intschemas.ValidateJSONString(SeedCases, tt.seed)
			require.Error(t, err)

			var ve *intschemas.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}
