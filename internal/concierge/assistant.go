package concierge

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/pkg/anthropic"
)

const systemPromptFormat = `You are Scout, the lead intelligence concierge for a B2B sales dashboard.
Answer questions about website visitor leads, lead scores, and HOT/WARM/COOL categories concisely.

When the user asks you to perform one of the actions below, finish your reply with a single line:
ACTION: {"type":"<action type>", ...fields}

Available actions:
%s`

// ClaudeAssistant streams replies from the Anthropic Messages API.
type ClaudeAssistant struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	system    string
}

// NewClaudeAssistant creates the production assistant. The registry's
// action list is rendered into the system prompt so the model only emits
// recognized action types.
func NewClaudeAssistant(client anthropic.Client, model string, maxTokens int64, registry *ActionRegistry) *ClaudeAssistant {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &ClaudeAssistant{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		system:    fmt.Sprintf(systemPromptFormat, registry.PromptBlock()),
	}
}

// StreamReply implements Assistant.
func (a *ClaudeAssistant) StreamReply(ctx context.Context, prompt string, emit func(text string) error) error {
	resp, err := a.client.StreamMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    []anthropic.SystemBlock{{Text: a.system}},
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	}, emit)
	if err != nil {
		return eris.Wrap(err, "concierge: assistant stream")
	}

	resp.Usage.LogCost(a.model, "concierge")
	return nil
}
