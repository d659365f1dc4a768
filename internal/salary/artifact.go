package salary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FormatVersion is the artifact layout written by this package.
const FormatVersion = 1

// Model is a trained vectorizer and regressor pair.
type Model struct {
	Vectorizer *Vectorizer
	Regressor  *Ridge
	CreatedAt  time.Time
}

// Predict returns the raw estimate for text.
func (m *Model) Predict(text string) float64 {
	return m.Regressor.Predict(m.Vectorizer.Transform(text))
}

type artifactFile struct {
	FormatVersion int         `json:"format_version"`
	CreatedAt     time.Time   `json:"created_at"`
	Vectorizer    *Vectorizer `json:"vectorizer"`
	Regressor     *Ridge      `json:"regressor"`
	Checksum      string      `json:"checksum"`
}

type checksumBody struct {
	Vectorizer *Vectorizer `json:"vectorizer"`
	Regressor  *Ridge      `json:"regressor"`
}

func checksum(v *Vectorizer, r *Ridge) (string, error) {
	data, err := json.Marshal(checksumBody{Vectorizer: v, Regressor: r})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SaveModel writes m to path atomically: the artifact is written to a temporary
// file in the same directory, synced and renamed over path. On failure any
// existing artifact at path is left untouched.
func SaveModel(path string, m *Model) error {
	sum, err := checksum(m.Vectorizer, m.Regressor)
	if err != nil {
		return &ArtifactError{Path: path, Message: "failed to encode model", Cause: err}
	}
	data, err := json.Marshal(artifactFile{
		FormatVersion: FormatVersion,
		CreatedAt:     m.CreatedAt.UTC(),
		Vectorizer:    m.Vectorizer,
		Regressor:     m.Regressor,
		Checksum:      sum,
	})
	if err != nil {
		return &ArtifactError{Path: path, Message: "failed to encode model", Cause: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ArtifactError{Path: path, Message: "failed to create model directory", Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &ArtifactError{Path: path, Message: "failed to create temporary file", Cause: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &ArtifactError{Path: path, Message: "failed to write model", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &ArtifactError{Path: path, Message: "failed to sync model", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &ArtifactError{Path: path, Message: "failed to close model", Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &ArtifactError{Path: path, Message: "failed to replace model", Cause: err}
	}
	committed = true
	return nil
}

// LoadModel reads and verifies the artifact at path.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ModelNotFoundError{Path: path}
		}
		return nil, &ArtifactError{Path: path, Message: "failed to read model", Cause: err}
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &ArtifactError{Path: path, Message: "failed to decode model", Cause: err}
	}
	if file.FormatVersion != FormatVersion {
		return nil, &ArtifactError{Path: path, Message: fmt.Sprintf("unsupported format version %d", file.FormatVersion)}
	}
	if file.Vectorizer == nil || file.Regressor == nil {
		return nil, &ArtifactError{Path: path, Message: "missing vectorizer or regressor"}
	}

	sum, err := checksum(file.Vectorizer, file.Regressor)
	if err != nil {
		return nil, &ArtifactError{Path: path, Message: "failed to verify model", Cause: err}
	}
	if sum != file.Checksum {
		return nil, &ArtifactError{Path: path, Message: "checksum mismatch"}
	}
	if err := checkShape(file.Vectorizer, file.Regressor); err != nil {
		return nil, &ArtifactError{Path: path, Message: "inconsistent model", Cause: err}
	}

	return &Model{
		Vectorizer: file.Vectorizer,
		Regressor:  file.Regressor,
		CreatedAt:  file.CreatedAt,
	}, nil
}

func checkShape(v *Vectorizer, r *Ridge) error {
	p := len(v.IDF)
	if len(r.Weights) != p {
		return fmt.Errorf("%d weights for %d features", len(r.Weights), p)
	}
	if len(v.Vocabulary) != p {
		return fmt.Errorf("%d vocabulary terms for %d features", len(v.Vocabulary), p)
	}
	owner := make(map[int]string, p)
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= p {
			return fmt.Errorf("term %q has column %d outside [0,%d)", term, idx, p)
		}
		if prev, taken := owner[idx]; taken {
			return fmt.Errorf("terms %q and %q share column %d", min(prev, term), max(prev, term), idx)
		}
		owner[idx] = term
	}
	return nil
}
