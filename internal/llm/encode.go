package llm

import (
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/obsidian-exchange/clerk-go/internal/convo"
)

// Encode flattens the Context into the OpenAI chat shape. The system prompt
// (instructions plus the rendered snapshot) leads; each Turn maps to one or
// more messages, with tool responses correlated by call id.
func Encode(system string, turns []convo.Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, t := range turns {
		switch t.Role {
		case convo.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: t.Text(),
			})
		case convo.RoleModel:
			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: t.Text(),
			}
			for _, call := range t.FunctionCalls() {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(call.Args),
					},
				})
			}
			msgs = append(msgs, msg)
		case convo.RoleFunction:
			for _, p := range t.Parts {
				if r, ok := p.(convo.FunctionResponsePart); ok {
					msgs = append(msgs, openai.ChatCompletionMessage{
						Role:       openai.ChatMessageRoleTool,
						Content:    r.Result,
						Name:       r.Name,
						ToolCallID: r.ID,
					})
				}
			}
		}
	}
	return msgs
}

// DecodeTurn lifts an assistant message into a model Turn: text part first
// when present, then the tool calls in their returned order.
func DecodeTurn(msg openai.ChatCompletionMessage) convo.Turn {
	turn := convo.Turn{Role: convo.RoleModel}
	if strings.TrimSpace(msg.Content) != "" {
		turn.Parts = append(turn.Parts, convo.TextPart{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		turn.Parts = append(turn.Parts, convo.FunctionCallPart{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: json.RawMessage(tc.Function.Arguments),
		})
	}
	return turn
}
