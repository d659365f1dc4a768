package salary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-pulse/internal/types"
)

func f(v float64) *float64 { return &v }

func trainingRecords() []types.NormalizedRecord {
	return []types.NormalizedRecord{
		{Title: "Senior Python Developer", SalaryAvg: f(130000), Description: "Python Django AWS"},
		{Title: "Python Engineer", SalaryAvg: f(120000), Description: "Python Flask Docker"},
		{Title: "Junior Java Developer", SalaryAvg: f(60000), Description: "Java Spring"},
		{Title: "Java Support Analyst", SalaryAvg: f(55000), Description: "Java SQL support"},
		{Title: "Intern", Description: "no salary given"},
	}
}

func TestTrain_WritesArtifactAndReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "salary.json")
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	report, err := Train(trainingRecords(), TrainOptions{ModelPath: path, Now: func() time.Time { return stamp }})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Samples)
	assert.Greater(t, report.VocabularySize, 0)
	assert.LessOrEqual(t, report.R2, 1.0)
	assert.GreaterOrEqual(t, report.MAE, 0.0)
	assert.Equal(t, round(report.MAE, 2), report.MAE)

	model, err := LoadModel(path)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(model.CreatedAt))
	assert.Equal(t, DefaultAlpha, model.Regressor.Alpha)
	assert.Equal(t, report.VocabularySize, len(model.Vectorizer.Vocabulary))
}

func TestTrain_PredictionsFollowData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salary.json")
	_, err := Train(trainingRecords(), TrainOptions{ModelPath: path})
	require.NoError(t, err)

	p := NewPredictor(path)
	python, err := p.Predict("Python Developer", "Python Django")
	require.NoError(t, err)
	java, err := p.Predict("Java Developer", "Java Spring")
	require.NoError(t, err)
	assert.Greater(t, python, java)

	again, err := p.Predict("Python Developer", "Python Django")
	require.NoError(t, err)
	assert.Equal(t, python, again)
	assert.Equal(t, round(python, 2), python)
}

func TestTrain_NoSalaries(t *testing.T) {
	_, err := Train([]types.NormalizedRecord{{Title: "Dev"}}, TrainOptions{ModelPath: filepath.Join(t.TempDir(), "m.json")})
	var insufficient *InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestTrain_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		records []types.NormalizedRecord
	}{
		{"single sample", []types.NormalizedRecord{{Title: "Dev", SalaryAvg: f(50000)}}},
		{"duplicate samples", []types.NormalizedRecord{
			{Title: "Dev", SalaryAvg: f(50000)},
			{Title: "Dev", SalaryAvg: f(50000)},
		}},
		{"no tokens", []types.NormalizedRecord{
			{Title: "a", SalaryAvg: f(50000)},
			{Title: "b", SalaryAvg: f(60000)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "m.json")
			_, err := Train(tt.records, TrainOptions{ModelPath: path})
			var trainErr *TrainingError
			require.True(t, errors.As(err, &trainErr), "got %v", err)
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestTrain_ConstantTargetsPerfectFit(t *testing.T) {
	records := []types.NormalizedRecord{
		{Title: "Go Developer", SalaryAvg: f(70000)},
		{Title: "Rust Developer", SalaryAvg: f(70000)},
	}
	report, err := Train(records, TrainOptions{ModelPath: filepath.Join(t.TempDir(), "m.json")})
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.R2)
	assert.Equal(t, 0.0, report.MAE)
}

func TestTrain_FailedRetrainKeepsPriorArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	_, err := Train(trainingRecords(), TrainOptions{ModelPath: path})
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Train([]types.NormalizedRecord{{Title: "x"}}, TrainOptions{ModelPath: path})
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTrain_RequiresPath(t *testing.T) {
	_, err := Train(trainingRecords(), TrainOptions{})
	assert.Error(t, err)
}
