package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/config"
	"github.com/jonathan/hr-pulse/internal/extraction"
	"github.com/jonathan/hr-pulse/internal/llm"
)

// recognizerSet builds the configured recognizer on first use and closes
// any client it opened.
type recognizerSet struct {
	mu     sync.Mutex
	closer func() error
}

// newExtractor returns an extractor backed by the NER_PROVIDER recognizer.
// Credentials are only checked when the first batch is sent.
func newExtractor(settings *config.Settings, logger *zap.Logger) (*extraction.Extractor, *recognizerSet) {
	set := &recognizerSet{}
	recognizer := extraction.Lazy(func(ctx context.Context) (extraction.Recognizer, error) {
		return set.build(ctx, settings)
	})
	return extraction.NewExtractor(recognizer, extraction.Options{
		BatchSize: settings.NERBatchSize,
		Logger:    logger,
	}), set
}

func (s *recognizerSet) build(ctx context.Context, settings *config.Settings) (extraction.Recognizer, error) {
	switch settings.NERProvider {
	case config.ProviderAzure:
		return extraction.NewAzureRecognizer(extraction.AzureConfig{
			Endpoint: settings.AzureLanguageEndpoint,
			Key:      settings.AzureLanguageKey,
		})
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), settings.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.closer = client.Close
		s.mu.Unlock()
		return extraction.NewGeminiRecognizer(client), nil
	default:
		return nil, fmt.Errorf("unknown NER provider %q", settings.NERProvider)
	}
}

// Close releases the recognizer client, if one was created.
func (s *recognizerSet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer()
	s.closer = nil
	return err
}
