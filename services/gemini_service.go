package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiGenerator is a TextGenerator backed by the Gemini API. Models are
// tried in the configured order until one answers.
type GeminiGenerator struct {
	client *genai.Client
	models []string
	log    *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey string, models []string, log *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if len(models) == 0 {
		return nil, errors.New("at least one Gemini model is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, models: models, log: log.Named("gemini")}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	providers := make([]Provider[string], 0, len(g.models))
	for _, model := range g.models {
		providers = append(providers, Provider[string]{
			Name: model,
			Call: func(ctx context.Context) (string, error) {
				resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
				if err != nil {
					return "", err
				}
				text := strings.TrimSpace(resp.Text())
				if text == "" {
					return "", errors.New("empty response")
				}
				return text, nil
			},
		})
	}

	text, model, err := FirstSuccess(ctx, providers)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	g.log.Debug("gemini reply", zap.String("model", model), zap.Int("chars", len(text)))
	return text, nil
}
