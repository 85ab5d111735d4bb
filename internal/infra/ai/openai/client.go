package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/shoplens/internal/infra/ai/prompt"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

const defaultModel = "gpt-4o-mini"

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) model() string {
	if c.Model == "" {
		return defaultModel
	}
	return c.Model
}

// Classify kirim satu review, minta JSON {sentiment, topics}
func (c *Client) Classify(ctx context.Context, text string) (domain.Sentiment, []string, error) {
	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetClassifySystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("chat completion returned no choices")
	}

	var parsed struct {
		Sentiment string   `json:"sentiment"`
		Topics    []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return "", nil, fmt.Errorf("failed to parse classification: %w", err)
	}

	sentiment := domain.Sentiment(parsed.Sentiment)
	switch sentiment {
	case domain.SentimentPositive, domain.SentimentNegative:
	default:
		sentiment = domain.SentimentNeutral
	}

	topics := parsed.Topics
	if len(topics) > 3 {
		topics = topics[:3]
	}
	if topics == nil {
		topics = []string{}
	}

	return sentiment, topics, nil
}

// Summarize minta satu kalimat narrative dari product + sample review
func (c *Client) Summarize(ctx context.Context, product *domain.Product, reviews []domain.Review) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSummarySystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetSummaryUserPrompt(product, reviews)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
