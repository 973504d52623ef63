package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// GeminiStreamer implements domain.ChatStreamer over the Gemini API.
type GeminiStreamer struct {
	client    *genai.Client
	modelName string
}

// NewGeminiStreamer creates the hosted chat client. The persona system
// instruction is fixed at construction time, one per process.
func NewGeminiStreamer(ctx context.Context, apiKey, modelName string) (*GeminiStreamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key not set: %w", domain.ErrChatConfig)
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w: %v", domain.ErrChatConfig, err)
	}

	return &GeminiStreamer{
		client:    client,
		modelName: modelName,
	}, nil
}

// buildContents lays out the history (user / assistant) as conversation
// turns, then the current prompt.
func buildContents(prompt string, history []*domain.Message) []*genai.Content {
	var contents []*genai.Content
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Sender == domain.SenderAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}

// StreamReply starts one assistant turn and feeds the model's chunks to
// the returned channel as they arrive. The channel closes on a clean end
// of stream; a failure is delivered as a final Fragment with Err set.
func (g *GeminiStreamer) StreamReply(ctx context.Context, prompt string, history []*domain.Message) (<-chan domain.Fragment, error) {
	contents := buildContents(prompt, history)

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(1024)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	out := make(chan domain.Fragment)
	go func() {
		defer close(out)

		stream := g.client.Models.GenerateContentStream(ctx, g.modelName, contents, cfg)
		for chunk, err := range stream {
			if err != nil {
				select {
				case out <- domain.Fragment{Err: fmt.Errorf("gemini: stream: %w: %v", domain.ErrChatTransport, err)}:
				case <-ctx.Done():
				}
				return
			}

			text := ""
			if len(chunk.Candidates) > 0 && chunk.Candidates[0].Content != nil {
				for _, p := range chunk.Candidates[0].Content.Parts {
					text += p.Text
				}
			}
			if text == "" {
				continue
			}

			select {
			case out <- domain.Fragment{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
