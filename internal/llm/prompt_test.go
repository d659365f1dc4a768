package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", input: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "plain", input: "  {\"a\": 1} ", want: `{"a": 1}`},
		{name: "fence with inline json", input: "```{\"a\": 1}```", want: `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestBuildBatchPrompt(t *testing.T) {
	prompt := BuildBatchPrompt(EntityRecognitionSchema(), []string{"Python and SQL", "Kubernetes"})

	assert.Contains(t, prompt, "named entity recognizer")
	assert.Contains(t, prompt, `"documents"`)
	assert.Contains(t, prompt, "(required)")
	assert.Contains(t, prompt, "Document id 0:\n\"\"\"\nPython and SQL\n\"\"\"")
	assert.Contains(t, prompt, "Document id 1:\n\"\"\"\nKubernetes\n\"\"\"")
}

func TestEntityRecognitionSchema_ListsCategories(t *testing.T) {
	schema := EntityRecognitionSchema()

	assert.NotContains(t, schema.Description, "{{.")
	for _, c := range EntityCategories {
		assert.Contains(t, schema.Description, c)
	}
	assert.Contains(t, BuildBatchPrompt(schema, nil), "do not invent entities")
}
