package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonathan/hr-pulse/internal/llm"
	"github.com/jonathan/hr-pulse/internal/schemas"
)

// GeminiRecognizer asks a Gemini model for entities. Output that does not match
// the entity recognition schema fails the whole batch.
type GeminiRecognizer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewGeminiRecognizer wraps an llm client.
func NewGeminiRecognizer(client llm.Client) *GeminiRecognizer {
	return &GeminiRecognizer{client: client, tier: llm.TierLite}
}

type geminiResponse struct {
	Documents []struct {
		ID       string  `json:"id"`
		Error    *string `json:"error"`
		Entities []struct {
			Text            string  `json:"text"`
			Category        string  `json:"category"`
			Subcategory     *string `json:"subcategory"`
			ConfidenceScore float64 `json:"confidence_score"`
		} `json:"entities"`
	} `json:"documents"`
}

// RecognizeEntities sends one batch as a single prompt.
func (g *GeminiRecognizer) RecognizeEntities(ctx context.Context, documents []string) ([]DocumentResult, error) {
	prompt := llm.BuildBatchPrompt(llm.EntityRecognitionSchema(), documents)

	raw, err := g.client.GenerateJSON(ctx, prompt, g.tier)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if err := schemas.ValidateJSONString(schemas.EntityRecognition, raw); err != nil {
		return nil, fmt.Errorf("gemini response does not match schema: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	byID := make(map[string]DocumentResult, len(parsed.Documents))
	for _, doc := range parsed.Documents {
		if doc.Error != nil && *doc.Error != "" {
			byID[doc.ID] = DocumentResult{Err: &DocumentError{ID: doc.ID, Message: *doc.Error}}
			continue
		}
		entities := make([]Entity, 0, len(doc.Entities))
		for _, e := range doc.Entities {
			ent := Entity{
				Text:            e.Text,
				Category:        e.Category,
				ConfidenceScore: e.ConfidenceScore,
			}
			if e.Subcategory != nil {
				ent.Subcategory = *e.Subcategory
			}
			entities = append(entities, ent)
		}
		byID[doc.ID] = DocumentResult{Entities: entities}
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
