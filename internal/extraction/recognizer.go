package extraction

import (
	"context"
	"sync"
)

// Entity is a named span as reported by the recognizer, before filtering.
type Entity struct {
	Text            string
	Category        string
	Subcategory     string
	ConfidenceScore float64
}

// DocumentResult is the outcome for one document of a batch.
// Err is set when the service flagged that document; Entities is then ignored.
type DocumentResult struct {
	Entities []Entity
	Err      error
}

// Recognizer is the external entity-recognition service. It must return one
// result per input document, in input order. A returned error means the whole
// batch failed (unreachable, unauthorized, garbage response).
type Recognizer interface {
	RecognizeEntities(ctx context.Context, documents []string) ([]DocumentResult, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, documents []string) ([]DocumentResult, error)

// RecognizeEntities calls f.
func (f RecognizerFunc) RecognizeEntities(ctx context.Context, documents []string) ([]DocumentResult, error) {
	return f(ctx, documents)
}

// lazyRecognizer builds the underlying client on first use and reuses it.
type lazyRecognizer struct {
	mu      sync.Mutex
	factory func(ctx context.Context) (Recognizer, error)
	client  Recognizer
}

// Lazy returns a Recognizer whose client is created by factory on the first
// call. A failed factory call is retried on the next call.
func Lazy(factory func(ctx context.Context) (Recognizer, error)) Recognizer {
	return &lazyRecognizer{factory: factory}
}

func (l *lazyRecognizer) get(ctx context.Context) (Recognizer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}
	client, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

func (l *lazyRecognizer) RecognizeEntities(ctx context.Context, documents []string) ([]DocumentResult, error) {
	client, err := l.get(ctx)
	if err != nil {
		return nil, &ExtractionError{Batch: -1, Message: "failed to create recognizer client", Cause: err}
	}
	return client.RecognizeEntities(ctx, documents)
}
