package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeRecognizer records batch sizes and answers from a per-document function.
type fakeRecognizer struct {
	calls  [][]string
	answer func(doc string) DocumentResult
	failOn int // 1-based call number that fails, 0 never
}

func (f *fakeRecognizer) RecognizeEntities(_ context.Context, documents []string) ([]DocumentResult, error) {
	f.calls = append(f.calls, append([]string(nil), documents...))
	if f.failOn > 0 && len(f.calls) == f.failOn {
		return nil, fmt.Errorf("connection refused")
	}
	out := make([]DocumentResult, len(documents))
	for i, d := range documents {
		out[i] = f.answer(d)
	}
	return out, nil
}

func skillAnswer(doc string) DocumentResult {
	return DocumentResult{Entities: []Entity{
		{Text: doc, Category: "Skill", ConfidenceScore: 0.91234567},
		{Text: "Paris", Category: "Location", ConfidenceScore: 0.99},
		{Text: "engineer", Category: "PersonType", Subcategory: "Job", ConfidenceScore: 0.5},
	}}
}

func TestExtract_BatchesOfFive(t *testing.T) {
	fake := &fakeRecognizer{answer: skillAnswer}
	ex := NewExtractor(fake, Options{})

	docs := []string{"d0", "d1", "d2", "d3", "d4", "d5"}
	got, err := ex.Extract(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.Len(t, fake.calls[0], 5)
	assert.Len(t, fake.calls[1], 1)
	assert.Equal(t, []string{"d5"}, fake.calls[1])

	require.Len(t, got, len(docs))
	for i, skills := range got {
		require.Len(t, skills, 2)
		assert.Equal(t, docs[i], skills[0].Text)
	}
}

func TestExtract_FiltersCategoriesAndKeepsOrder(t *testing.T) {
	fake := &fakeRecognizer{answer: skillAnswer}
	ex := NewExtractor(fake, Options{})

	got, err := ex.Extract(context.Background(), []string{"Python"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0], 2)

	assert.Equal(t, "Python", got[0][0].Text)
	assert.Equal(t, "Skill", got[0][0].Category)
	assert.Nil(t, got[0][0].Subcategory)
	assert.Equal(t, 0.91234567, got[0][0].ConfidenceScore)

	assert.Equal(t, "engineer", got[0][1].Text)
	require.NotNil(t, got[0][1].Subcategory)
	assert.Equal(t, "Job", *got[0][1].Subcategory)
}

func TestExtract_CustomCategories(t *testing.T) {
	fake := &fakeRecognizer{answer: skillAnswer}
	ex := NewExtractor(fake, Options{Categories: []string{"Location"}})

	got, err := ex.Extract(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, got[0], 1)
	assert.Equal(t, "Paris", got[0][0].Text)
}

func TestExtract_PerDocumentErrorYieldsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fake := &fakeRecognizer{answer: func(doc string) DocumentResult {
		if doc == "bad" {
			return DocumentResult{Err: &DocumentError{ID: "1", Code: "InvalidDocument", Message: "empty"}}
		}
		return skillAnswer(doc)
	}}
	ex := NewExtractor(fake, Options{BatchSize: 2, Logger: zap.New(core)})

	got, err := ex.Extract(context.Background(), []string{"a", "bad", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Len(t, got[0], 2)
	assert.NotNil(t, got[1])
	assert.Empty(t, got[1])
	assert.Len(t, got[2], 2)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, int64(1), entry.ContextMap()["index"])
}

func TestExtract_TransportFailureAbortsWithoutPartialResults(t *testing.T) {
	fake := &fakeRecognizer{answer: skillAnswer, failOn: 2}
	ex := NewExtractor(fake, Options{BatchSize: 2})

	got, err := ex.Extract(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Len(t, fake.calls, 2, "no retry and no further batches")

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, 1, extErr.Batch)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExtract_ResultCountMismatch(t *testing.T) {
	short := RecognizerFunc(func(_ context.Context, docs []string) ([]DocumentResult, error) {
		return make([]DocumentResult, len(docs)-1), nil
	})
	_, err := NewExtractor(short, Options{}).Extract(context.Background(), []string{"a", "b"})

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, 0, extErr.Batch)
}

func TestExtract_EmptyInput(t *testing.T) {
	fake := &fakeRecognizer{answer: skillAnswer}
	got, err := NewExtractor(fake, Options{}).Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, fake.calls)
}

func TestLazy_CreatesClientOnce(t *testing.T) {
	created := 0
	fake := &fakeRecognizer{answer: skillAnswer}
	lazy := Lazy(func(context.Context) (Recognizer, error) {
		created++
		return fake, nil
	})
	assert.Equal(t, 0, created)

	ex := NewExtractor(lazy, Options{})
	_, err := ex.Extract(context.Background(), []string{"a"})
	require.NoError(t, err)
	_, err = ex.Extract(context.Background(), []string{"b", "c"})
	require.NoError(t, err)

	assert.Equal(t, 1, created)
	assert.Len(t, fake.calls, 2)
}

func TestLazy_FactoryFailure(t *testing.T) {
	attempts := 0
	lazy := Lazy(func(context.Context) (Recognizer, error) {
		attempts++
		return nil, fmt.Errorf("missing credentials")
	})
	ex := NewExtractor(lazy, Options{})

	_, err := ex.Extract(context.Background(), []string{"a"})
	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, 0, extErr.Batch)
	assert.Contains(t, err.Error(), "missing credentials")

	_, err = ex.Extract(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRoundConfidence(t *testing.T) {
	assert.Equal(t, 0.912, RoundConfidence(0.91234567, 3))
	assert.Equal(t, 1.0, RoundConfidence(0.9999, 3))
}
