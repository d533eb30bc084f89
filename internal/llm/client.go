// Package llm talks to the generation provider and parses its answers into
// the two domain results: a job posting extracted from a URL and a tailored
// resume. Provider response shapes are normalized at the client boundary so
// parsing code never sees SDK types.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Request describes one generation call.
type Request struct {
	// System is the system instruction; empty means none.
	System string
	// Prompt is the user-turn text.
	Prompt string
	// EnableRetrieval asks the provider to ground the answer with search
	// retrieval, used when the prompt references a URL the model must read.
	EnableRetrieval bool
	// JSONOnly constrains the response MIME type to JSON where the provider
	// supports it. Responses may still arrive fence-wrapped.
	JSONOnly bool
}

// Candidate is one alternative answer from the provider, reduced to its text
// fragments in order.
type Candidate struct {
	TextFragments []string
}

// Response is the provider-neutral result of a generation call.
//
// PrimaryText may be empty without the call being an error: some providers
// return an empty primary part while a sibling candidate carries the text.
// Callers that can use the fallback walk Candidates themselves.
type Response struct {
	PrimaryText string
	Candidates  []Candidate
}

// Generator is the provider abstraction the parsing layer builds on.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Close() error
}

// GeminiClient implements Generator on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient dials the Gemini API. model may be empty, in which case
// DefaultModel is used.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate runs one generation call and normalizes the provider response.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}
	if req.EnableRetrieval {
		model.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, &ConnectivityError{Op: "generate", Err: err}
	}
	return normalizeResponse(resp), nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// normalizeResponse flattens the SDK response into text fragments. The first
// candidate's joined fragments become PrimaryText; every candidate is kept so
// callers can fall back when the primary text is empty.
func normalizeResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	for _, cand := range resp.Candidates {
		var fragments []string
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					fragments = append(fragments, string(text))
				}
			}
		}
		out.Candidates = append(out.Candidates, Candidate{TextFragments: fragments})
	}
	if len(out.Candidates) > 0 {
		out.PrimaryText = strings.Join(out.Candidates[0].TextFragments, "")
	}
	return out
}
