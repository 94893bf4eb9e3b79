package gservice

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/tone"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini calls the Gemini API for tone analysis and email generation.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini client for apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient failed: %w", err)
	}

	return newGemini(client.Models, model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{models: models, model: model}
}

// AnalyzeTone asks the model for a JSON tone analysis of text.
func (g *Gemini) AnalyzeTone(ctx context.Context, text string) (tone.RemoteReply, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(tone.Prompt(text)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toneSchema,
	})
	if err != nil {
		return tone.RemoteReply{}, fmt.Errorf("models.GenerateContent failed: %w", err)
	}

	in, out := usage(resp)

	return tone.RemoteReply{Text: resp.Text(), InputTokens: in, OutputTokens: out}, nil
}

// GenerateEmail asks the model for a plain text email.
func (g *Gemini) GenerateEmail(ctx context.Context, prompt string) (compose.Reply, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](1),
		TopP:             genai.Ptr[float32](0.95),
		TopK:             genai.Ptr[float32](40),
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
	})
	if err != nil {
		return compose.Reply{}, fmt.Errorf("models.GenerateContent failed: %w", err)
	}

	in, out := usage(resp)

	return compose.Reply{Text: resp.Text(), InputTokens: in, OutputTokens: out}, nil
}

func usage(resp *genai.GenerateContentResponse) (int, int) {
	if resp.UsageMetadata == nil {
		return 0, 0
	}
	return int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount)
}

var toneSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tone":        {Type: genai.TypeString},
		"formality":   {Type: genai.TypeString, Enum: []string{"formal", "neutral", "casual"}},
		"sentiment":   {Type: genai.TypeString, Enum: []string{"positive", "neutral", "negative"}},
		"clarity":     {Type: genai.TypeString, Enum: []string{"clear", "somewhat clear", "unclear"}},
		"confidence":  {Type: genai.TypeNumber},
		"suggestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"tone", "formality", "sentiment", "clarity", "confidence", "suggestions"},
}
