package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name: "list order not text order",
			text: "Senior Data Scientist Docker, SQL and Python required",
			want: []string{"python", "sql", "docker"},
		},
		{
			name: "case insensitive phrases",
			text: "Experience with Machine Learning and POWER BI",
			want: []string{"machine learning", "power bi"},
		},
		{
			name: "whole words only",
			text: "javascript developer, pythonic style, mysql",
			want: []string{"javascript"},
		},
		{
			name: "symbols in phrases",
			text: "C++ and C# on Node.js with CI/CD",
			want: []string{"node.js", "c++", "c#", "ci/cd"},
		},
		{
			name: "punctuation is a boundary",
			text: "(aws)/azure;gcp",
			want: []string{"aws", "azure", "gcp"},
		},
		{
			name: "digits break a match",
			text: "python3 and sql2019",
			want: []string{},
		},
		{
			name: "later occurrence matches after a rejected one",
			text: "pythonista then python",
			want: []string{"python"},
		},
		{
			name:  "truncated to limit",
			text:  "python sql excel tableau spark",
			limit: 2,
			want:  []string{"python", "sql"},
		},
		{
			name: "no match",
			text: "Barista",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchKeywords(tt.text, tt.limit))
		})
	}
}

func TestMatchKeywords_DefaultLimit(t *testing.T) {
	text := "python sql machine learning deep learning data analysis statistics excel tableau power bi spark hadoop aws"
	got := MatchKeywords(text, 0)
	assert.Len(t, got, DefaultLimit)
	assert.Equal(t, "spark", got[DefaultLimit-1])
}

func TestMatchFrom_CustomList(t *testing.T) {
	got := MatchFrom([]string{"dbt", "", "looker"}, "dbt + Looker", 5)
	assert.Equal(t, []string{"dbt", "looker"}, got)
}
