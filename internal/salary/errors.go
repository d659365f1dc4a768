package salary

import "fmt"

// InsufficientDataError is returned when no record carries a salary.
type InsufficientDataError struct {
	Message string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %s", e.Message)
}

// TrainingError indicates the data could not produce a usable model.
type TrainingError struct {
	Message string
	Cause   error
}

func (e *TrainingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("training failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("training failed: %s", e.Message)
}

func (e *TrainingError) Unwrap() error {
	return e.Cause
}

// ModelNotFoundError is returned by Predict when no artifact exists yet.
type ModelNotFoundError struct {
	Path string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("salary model not found at %s: train the model first", e.Path)
}

// ArtifactError covers model files that cannot be read, decoded, verified or written.
type ArtifactError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ArtifactError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model artifact %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("model artifact %s: %s", e.Path, e.Message)
}

func (e *ArtifactError) Unwrap() error {
	return e.Cause
}
