package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenAICompleter completes conversations with Google's Gemini API.
type GenAICompleter struct {
	client *genai.Client
}

// NewGenAICompleter creates a Gemini-backed Completer.
func NewGenAICompleter(ctx context.Context, apiKey string) (*GenAICompleter, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAICompleter{client: client}, nil
}

// Contents converts a request into Gemini contents plus the system
// instruction. System-role messages are folded into the instruction.
func Contents(req Request) ([]*genai.Content, *genai.Content) {
	system := []string{}
	if s := strings.TrimSpace(req.System); s != "" {
		system = append(system, s)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	if len(system) == 0 {
		return contents, nil
	}
	return contents, genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
}

// Complete implements Completer.
func (g *GenAICompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	contents, system := Contents(req)

	var cfg *genai.GenerateContentConfig
	if system != nil {
		cfg = &genai.GenerateContentConfig{SystemInstruction: system}
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("GenAI generate failed: %w", err)}
	}

	resp := &Response{
		Model:   req.Model,
		Message: Message{Role: RoleAssistant, Content: result.Text()},
	}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}
