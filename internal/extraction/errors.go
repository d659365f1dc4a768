package extraction

import "fmt"

// ExtractionError is a batch-level failure talking to the recognizer. It aborts
// the whole Extract call; no partial results are returned with it.
type ExtractionError struct {
	Batch   int // zero-based batch index, -1 when no batch was attempted
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	prefix := "entity extraction failed"
	if e.Batch >= 0 {
		prefix = fmt.Sprintf("entity extraction failed on batch %d", e.Batch)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DocumentError marks a single document the recognizer could not analyze.
type DocumentError struct {
	ID      string
	Code    string
	Message string
}

func (e *DocumentError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("document %s: %s: %s", e.ID, e.Code, e.Message)
	}
	return fmt.Sprintf("document %s: %s", e.ID, e.Message)
}
