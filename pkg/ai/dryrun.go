package ai

import (
	"context"
	"fmt"
	"strings"
)

// DryRunProvider answers locally without any network call. It echoes the last
// user message, which is enough to exercise the UI offline.
type DryRunProvider struct {
	model string
}

// NewDryRunProvider creates a provider that never leaves the process.
func NewDryRunProvider(model string) *DryRunProvider {
	return &DryRunProvider{model: model}
}

// CreateChatCompletion echoes the most recent user message.
func (p *DryRunProvider) CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return ChatResponse{}, &TransportError{Err: err}
	}
	if len(req.Messages) == 0 {
		return ChatResponse{}, fmt.Errorf("messages are required")
	}

	last := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			last = req.Messages[i].Content
			break
		}
	}

	return ChatResponse{
		Content: fmt.Sprintf("[dry run] %d message(s) received. You said: %s", len(req.Messages), strings.TrimSpace(last)),
		Model:   p.model,
	}, nil
}

var _ Provider = (*DryRunProvider)(nil)
