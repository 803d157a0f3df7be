package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateEmbedded_UnknownSchema(t *testing.T) {
	err := ValidateEmbedded("nonexistent.schema.json", `{}`)
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "error should be SchemaLoadError type")
}

func TestValidateExtraction(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{
			name: "complete extraction",
			json: `{
				"interests": ["distributed systems", "ml infra"],
				"strengths": ["Go", "mentoring"],
				"weaknesses": ["public speaking"],
				"career_goals": {
					"short_term": "ship a platform product",
					"long_term": "staff engineer",
					"preferred_industries": ["fintech"],
					"preferred_roles": ["backend engineer"],
					"preferred_locations": ["remote"]
				}
			}`,
			wantError: false,
		},
		{
			name: "empty arrays and goals allowed",
			json: `{
				"interests": [],
				"strengths": [],
				"weaknesses": [],
				"career_goals": {}
			}`,
			wantError: false,
		},
		{
			name:      "missing career_goals",
			json:      `{"interests": [], "strengths": [], "weaknesses": []}`,
			wantError: true,
		},
		{
			name: "interests wrong type",
			json: `{
				"interests": "not an array",
				"strengths": [],
				"weaknesses": [],
				"career_goals": {}
			}`,
			wantError: true,
		},
		{
			name: "unknown top-level field rejected",
			json: `{
				"interests": [],
				"strengths": [],
				"weaknesses": [],
				"career_goals": {},
				"extra": true
			}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtraction(tt.json)
			if tt.wantError {
				require.Error(t, err)
				validationErr, ok := err.(*ValidationError)
				require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
				assert.Greater(t, len(validationErr.Errors), 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKeyPeople(t *testing.T) {
	valid := `{"people": [{"name": "Ada Example", "title": "VP Engineering", "profile_url": "https://example.com/ada"}]}`
	assert.NoError(t, ValidateKeyPeople(valid))

	missingName := `{"people": [{"title": "VP Engineering"}]}`
	err := ValidateKeyPeople(missingName)
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestValidateResumeInfo(t *testing.T) {
	valid := `{
		"name": "Ada Example",
		"email": "ada@example.com",
		"skills": ["Go", "Postgres"],
		"experiences": [{"title": "Engineer", "company": "Acme", "duration": "2020-2023", "description": "Built services"}],
		"education": [{"degree": "BSc", "institution": "State U", "year": "2020"}],
		"interests": ["databases"]
	}`
	assert.NoError(t, ValidateResumeInfo(valid))

	wrongType := `{"skills": "Go"}`
	err := ValidateResumeInfo(wrongType)
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}
