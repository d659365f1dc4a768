package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRecognition_Valid(t *testing.T) {
	doc := `{"documents":[
		{"id":"0","entities":[{"text":"Python","category":"Skill","subcategory":null,"confidence_score":0.97}]},
		{"id":"1","error":"document too long"}
	]}`
	assert.NoError(t, ValidateJSONString(EntityRecognition, doc))
}

func TestEntityRecognition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing documents", doc: `{}`},
		{name: "missing id", doc: `{"documents":[{"entities":[]}]}`},
		{name: "confidence out of range", doc: `{"documents":[{"id":"0","entities":[{"text":"Go","category":"Skill","confidence_score":1.5}]}]}`},
		{name: "confidence wrong type", doc: `{"documents":[{"id":"0","entities":[{"text":"Go","category":"Skill","confidence_score":"high"}]}]}`},
		{name: "empty category", doc: `{"documents":[{"id":"0","entities":[{"text":"Go","category":"","confidence_score":0.5}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(EntityRecognition, tt.doc)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.NotEmpty(t, ve.Errors)
			assert.Contains(t, ve.Error(), "validation failed")
		})
	}
}

func TestValidateJSONString_NotJSON(t *testing.T) {
	err := ValidateJSONString(EntityRecognition, "not json")
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}
