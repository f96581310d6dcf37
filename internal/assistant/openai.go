package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "You are the Cats University admissions assistant. " +
	"Answer questions from prospective students about admissions, programs, " +
	"deadlines, tuition, and campus life. Be friendly and concise. If a " +
	"question is outside admissions topics, suggest chatting with an " +
	"admissions staff member instead."

// OpenAIClient implements Completer using the OpenAI chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAI creates a completer backed by the OpenAI API.
func NewOpenAI(apiKey, model string, maxTokens int, temperature float64) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

// Complete sends the student content to the completion API and returns the
// generated reply text.
func (c *OpenAIClient) Complete(ctx context.Context, content string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: SystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: content,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
