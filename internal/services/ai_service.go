package services

import (
	"context"
	"fmt"
	"strings"

	"account-research-report/internal/config"
	"account-research-report/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// SectionGenerator produces the markdown body for one report section
type SectionGenerator interface {
	GenerateSection(ctx context.Context, req models.GenerateRequest, section models.Section) (string, error)
}

// AIService generates report sections via the OpenAI chat completions API
type AIService struct {
	client *openai.Client
	cfg    config.OpenAIConfig
}

// NewAIService creates a new AI service
func NewAIService(cfg config.OpenAIConfig) *AIService {
	var client *openai.Client
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	return &AIService{
		client: client,
		cfg:    cfg,
	}
}

// GenerateSection generates the content for a single report section
func (s *AIService) GenerateSection(ctx context.Context, req models.GenerateRequest, section models.Section) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OPENAI_API_KEY not configured")
	}

	prompt := buildSectionPrompt(req, section)

	chatReq := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: float32(s.cfg.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a corporate research analyst. Write thorough, factual " +
					"account research in well-structured markdown. Cite sources at the end " +
					"of the section under a 'Sources' heading.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if s.cfg.MaxTokens > 0 {
		chatReq.MaxTokens = s.cfg.MaxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion for section %s: %w", section.ID, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion for section %s returned no choices", section.ID)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat completion for section %s returned empty content", section.ID)
	}
	return content, nil
}

// buildSectionPrompt assembles the per-section research prompt. The requester
// company is included so the analysis is framed from their sales perspective.
func buildSectionPrompt(req models.GenerateRequest, section models.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research the company %q and write the %q section of an account research report.\n\n",
		req.TargetCompany, section.Title)
	fmt.Fprintf(&b, "The report is prepared for %q, which is evaluating %q as a prospective account.\n",
		req.UserCompany, req.TargetCompany)
	fmt.Fprintf(&b, "Write the entire section in %s.\n", req.Language)
	b.WriteString("Use markdown headings, tables where they help, and keep the section self-contained.\n")
	return b.String()
}
