package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedRecord_ModelText(t *testing.T) {
	r := NormalizedRecord{Title: "Data Scientist", Description: "Python SQL"}
	assert.Equal(t, "Data Scientist Python SQL", r.ModelText())
	assert.False(t, r.HasSalary())

	salary := 110000.0
	r.SalaryAvg = &salary
	assert.True(t, r.HasSalary())
}

func TestSkillEntity_JSONShape(t *testing.T) {
	sub := "Programming"
	e := SkillEntity{Text: "Python", Category: "Skill", Subcategory: &sub, ConfidenceScore: 0.98765}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Python","category":"Skill","subcategory":"Programming","confidence_score":0.98765}`, string(data))

	e.Subcategory = nil
	data, err = json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"subcategory":null`)
}
