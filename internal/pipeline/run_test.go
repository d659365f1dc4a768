package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-pulse/internal/extraction"
	"github.com/jonathan/hr-pulse/internal/ingestion"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/types"
)

const sampleCSV = `Job Title,Salary Estimate,Job Description
"Data Scientist
3.5","$137K-$171K (Glassdoor est.)",Python and SQL
Data Engineer,$90K-$110K,Spark pipelines
,$50K-$60K,orphan row
ML Engineer,Unknown,PyTorch
`

type fakeExtractor struct {
	calls [][]string
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, descriptions []string) ([][]types.SkillEntity, error) {
	f.calls = append(f.calls, descriptions)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]types.SkillEntity, len(descriptions))
	for i, d := range descriptions {
		out[i] = []types.SkillEntity{{Text: d, Category: "Skill", ConfidenceScore: 0.9}}
	}
	return out, nil
}

type memStore struct {
	jobs   []types.Job
	failAt int // 1-based insert that fails, 0 never
}

func (m *memStore) InsertJob(_ context.Context, title string, skills []types.SkillEntity) (*types.Job, error) {
	if m.failAt > 0 && len(m.jobs)+1 == m.failAt {
		return nil, fmt.Errorf("disk full")
	}
	job := types.Job{ID: int64(len(m.jobs) + 1), JobTitle: title, SkillsExtracted: skills}
	m.jobs = append(m.jobs, job)
	return &job, nil
}

func TestIngestReader(t *testing.T) {
	ex := &fakeExtractor{}
	store := &memStore{}
	var events []ProgressEvent

	res, err := NewIngester(ex, store, nil).IngestReader(context.Background(), strings.NewReader(sampleCSV),
		IngestOptions{OnProgress: func(e ProgressEvent) { events = append(events, e) }})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Normalized)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 3, res.Skills)

	require.Len(t, ex.calls, 1)
	assert.Equal(t, []string{"Python and SQL", "Spark pipelines", "PyTorch"}, ex.calls[0])

	require.Len(t, store.jobs, 3)
	assert.Equal(t, "Data Scientist", store.jobs[0].JobTitle)
	assert.Equal(t, "Python and SQL", store.jobs[0].SkillsExtracted[0].Text)
	assert.Equal(t, "ML Engineer", store.jobs[2].JobTitle)

	steps := make([]string, 0, len(events))
	for _, e := range events {
		steps = append(steps, e.Step)
	}
	assert.Equal(t, []string{StepNormalize, StepExtract, StepInsert}, steps)
}

func TestIngest_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	store := &memStore{}
	res, err := NewIngester(&fakeExtractor{}, store, nil).Ingest(context.Background(), path, IngestOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Normalized)
	assert.Equal(t, 2, res.Processed)
	assert.Len(t, store.jobs, 2)
}

func TestIngest_SchemaErrorStoresNothing(t *testing.T) {
	ex := &fakeExtractor{}
	store := &memStore{}

	_, err := NewIngester(ex, store, nil).IngestReader(context.Background(),
		strings.NewReader("salary,description\n$1K-$2K,x\n"), IngestOptions{})

	var schemaErr *ingestion.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Empty(t, ex.calls)
	assert.Empty(t, store.jobs)
}

func TestIngest_ExtractionErrorStoresNothing(t *testing.T) {
	ex := &fakeExtractor{err: &extraction.ExtractionError{Batch: 0, Message: "recognizer call failed"}}
	store := &memStore{}

	res, err := NewIngester(ex, store, nil).IngestReader(context.Background(), strings.NewReader(sampleCSV), IngestOptions{})
	assert.Nil(t, res)

	var extErr *extraction.ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Empty(t, store.jobs)
}

func TestIngest_InsertFailureReturnsPartialResult(t *testing.T) {
	store := &memStore{failAt: 2}

	res, err := NewIngester(&fakeExtractor{}, store, nil).IngestReader(context.Background(), strings.NewReader(sampleCSV), IngestOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Inserted)
}

func TestIngest_MissingFile(t *testing.T) {
	_, err := NewIngester(&fakeExtractor{}, &memStore{}, nil).Ingest(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), IngestOptions{})
	assert.Error(t, err)
}

func TestTrainFromCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	model := filepath.Join(dir, "model.json")

	report, err := TrainFromCSV(path, salary.TrainOptions{ModelPath: model})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Samples, "only records with a parsed salary")

	_, err = salary.NewPredictor(model).Predict("Data Scientist", "Python")
	assert.NoError(t, err)
}
