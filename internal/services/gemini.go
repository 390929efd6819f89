package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/astrelya/cv-to-dc/internal/logger"
)

type GeminiService interface {
	// GenerateJSON sends the system prompt and parts and returns the raw text
	// of the first candidate.
	GenerateJSON(ctx context.Context, systemPrompt string, parts []*genai.Part) (string, error)
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewGeminiService(apiKey, modelName string, temperature float32) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

// GenerateJSON implements GeminiService.
func (g *geminiService) GenerateJSON(ctx context.Context, systemPrompt string, parts []*genai.Part) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   8192,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", err
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		logger.Warn().Int("candidates", len(resp.Candidates)).Msg("gemini returned no text content")
		return "", fmt.Errorf("no response from extraction service")
	}

	logger.Debug().Int("length", len(text)).Msg("gemini response received")
	return text, nil
}
