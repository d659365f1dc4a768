package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const azureAPIVersion = "2023-04-01"

// AzureConfig configures the Azure AI Language recognizer.
type AzureConfig struct {
	Endpoint   string
	Key        string
	Language   string
	HTTPClient *http.Client
}

// AzureRecognizer calls the Azure AI Language analyze-text API with
// kind EntityRecognition.
type AzureRecognizer struct {
	endpoint string
	key      string
	language string
	client   *http.Client
}

// NewAzureRecognizer validates cfg and returns a recognizer.
func NewAzureRecognizer(cfg AzureConfig) (*AzureRecognizer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure language endpoint is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("azure language key is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	return &AzureRecognizer{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		key:      cfg.Key,
		language: lang,
		client:   client,
	}, nil
}

type azureRequest struct {
	Kind          string             `json:"kind"`
	Parameters    azureParameters    `json:"parameters"`
	AnalysisInput azureAnalysisInput `json:"analysisInput"`
}

type azureParameters struct {
	ModelVersion string `json:"modelVersion"`
}

type azureAnalysisInput struct {
	Documents []azureDocument `json:"documents"`
}

type azureDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type azureResponse struct {
	Kind    string `json:"kind"`
	Results struct {
		Documents []struct {
			ID       string `json:"id"`
			Entities []struct {
				Text            string  `json:"text"`
				Category        string  `json:"category"`
				Subcategory     string  `json:"subcategory"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"entities"`
		} `json:"documents"`
		Errors []struct {
			ID    string     `json:"id"`
			Error azureError `json:"error"`
		} `json:"errors"`
	} `json:"results"`
}

type azureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type azureErrorEnvelope struct {
	Error azureError `json:"error"`
}

// RecognizeEntities sends one batch. Document ids are the batch positions.
func (a *AzureRecognizer) RecognizeEntities(ctx context.Context, documents []string) ([]DocumentResult, error) {
	reqBody := azureRequest{
		Kind:       "EntityRecognition",
		Parameters: azureParameters{ModelVersion: "latest"},
	}
	for i, doc := range documents {
		reqBody.AnalysisInput.Documents = append(reqBody.AnalysisInput.Documents, azureDocument{
			ID:       strconv.Itoa(i),
			Language: a.language,
			Text:     doc,
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/language/:analyze-text?api-version=%s", a.endpoint, azureAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to azure language failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope azureErrorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
			return nil, fmt.Errorf("azure language returned %d: %s: %s", resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
		}
		return nil, fmt.Errorf("azure language returned %d", resp.StatusCode)
	}

	var parsed azureResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse azure language response: %w", err)
	}

	byID := make(map[string]DocumentResult, len(documents))
	for _, doc := range parsed.Results.Documents {
		entities := make([]Entity, 0, len(doc.Entities))
		for _, e := range doc.Entities {
			entities = append(entities, Entity{
				Text:            e.Text,
				Category:        e.Category,
				Subcategory:     e.Subcategory,
				ConfidenceScore: e.ConfidenceScore,
			})
		}
		byID[doc.ID] = DocumentResult{Entities: entities}
	}
	for _, docErr := range parsed.Results.Errors {
		byID[docErr.ID] = DocumentResult{Err: &DocumentError{
			ID:      docErr.ID,
			Code:    docErr.Error.Code,
			Message: docErr.Error.Message,
		}}
	}

	results := make([]DocumentResult, len(documents))
	for i := range documents {
		id := strconv.Itoa(i)
		res, ok := byID[id]
		if !ok {
			res = DocumentResult{Err: &DocumentError{ID: id, Message: "missing from response"}}
		}
		results[i] = res
	}
	return results, nil
}
