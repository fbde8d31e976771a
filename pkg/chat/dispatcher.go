package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gptchat/pkg/ai"
	"gptchat/pkg/logging"
)

// DefaultTimeout bounds an exchange when no timeout is configured.
const DefaultTimeout = 120 * time.Second

// ExchangeEvent is the single result of running an exchange.
type ExchangeEvent struct {
	ExchangeID string
	Content    string
	Model      string
	Err        error
	Elapsed    time.Duration
}

// Dispatcher runs exchanges against a provider off the interactive loop.
type Dispatcher struct {
	provider ai.Provider
	model    string
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher. A non-positive timeout selects DefaultTimeout.
func NewDispatcher(provider ai.Provider, model string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		provider: provider,
		model:    model,
		timeout:  timeout,
	}
}

// Model returns the model requested for each exchange.
func (d *Dispatcher) Model() string {
	return d.model
}

// Run issues the exchange on its own goroutine. The returned channel yields
// exactly one event and is then closed.
func (d *Dispatcher) Run(ctx context.Context, ex Exchange) <-chan ExchangeEvent {
	ch := make(chan ExchangeEvent, 1)

	logger := slog.Default().With("exchange_id", ex.ID)
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "exchange_prompt",
			"model", d.model,
			"messages_full", dumpMessages(ex.Messages),
		)
	}
	logger.Info("exchange_start",
		"model", d.model,
		"message_count", len(ex.Messages),
	)

	go func() {
		defer close(ch)

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		start := time.Now()
		resp, err := d.provider.CreateChatCompletion(callCtx, ai.ChatRequest{
			Model:    d.model,
			Messages: ex.Messages,
		})
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("exchange_error", "error", err, "elapsed", elapsed)
			ch <- ExchangeEvent{ExchangeID: ex.ID, Err: err, Elapsed: elapsed}
			return
		}

		logger.Info("exchange_done",
			"model", resp.Model,
			"response_len", len(resp.Content),
			"elapsed", elapsed,
		)
		ch <- ExchangeEvent{
			ExchangeID: ex.ID,
			Content:    resp.Content,
			Model:      resp.Model,
			Elapsed:    elapsed,
		}
	}()

	return ch
}

func dumpMessages(messages []ai.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		fmt.Fprintf(&b, "[%d] %s: %s\n", i, msg.Role, msg.Content)
	}
	return b.String()
}
