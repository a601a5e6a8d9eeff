package engine

import (
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/obsidian-exchange/clerk-go/internal/llm"
	"github.com/obsidian-exchange/clerk-go/internal/tools"
)

const defaultSystemPrompt = "You are the concierge of the exchange, a storefront assistant. " +
	"Use the provided tools to operate the store on the user's behalf: queue and sell products, " +
	"navigate screens, check orders and recommend items. Answer in the user's configured language. " +
	"When a tool reports an error, explain it conversationally and ask the user to clarify."

// modelRequest assembles one model request: system prompt with the rendered
// snapshot, the full Context history, and the fixed tool schema.
func (e *Engine) modelRequest() openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:    e.cfg.Model,
		Messages: llm.Encode(e.systemPrompt(), e.context.Snapshot()),
		Tools:    tools.LLMTools(),
	}
}

// systemPrompt renders the base instructions plus the current application
// state so the model sees fresh cart/order/price data every round.
func (e *Engine) systemPrompt() string {
	var b strings.Builder
	base := e.cfg.SystemPrompt
	if base == "" {
		base = defaultSystemPrompt
	}
	b.WriteString(base)

	if state, err := json.Marshal(e.snapshot()); err == nil {
		b.WriteString("\n\nCurrent application state:\n")
		b.Write(state)
	}
	return b.String()
}
