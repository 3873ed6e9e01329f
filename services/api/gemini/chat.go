package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Chat is a multi-turn conversation whose history lives in the genai chat.
type Chat struct {
	chat *genai.Chat
}

// StartChat opens a conversation primed with systemInstruction.
func (c *Client) StartChat(ctx context.Context, systemInstruction string) (*Chat, error) {
	if c.genai == nil {
		return nil, ErrMissingAPIKey
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
	chat, err := c.genai.Chats.Create(ctx, c.model, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &Chat{chat: chat}, nil
}

// Send appends message to the conversation and returns the reply text.
func (c *Chat) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return responseText(resp)
}
