package advice

import "context"

const defaultMaxTokens = 2048

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a chat-completion backend able to turn a prompt into prose.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
