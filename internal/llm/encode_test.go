package llm

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/obsidian-exchange/clerk-go/internal/convo"
)

func TestEncode_FullChain(t *testing.T) {
	call := convo.FunctionCallPart{ID: "call_1", Name: "viewQueue", Args: json.RawMessage(`{}`)}
	turns := []convo.Turn{
		convo.UserTurn("show my queue"),
		{Role: convo.RoleModel, Parts: []convo.Part{convo.TextPart{Text: "Checking."}, call}},
		convo.ResponseTurn(call, "Queue is currently empty."),
		{Role: convo.RoleModel, Parts: []convo.Part{convo.TextPart{Text: "Your queue is empty."}}},
	}

	msgs := Encode("system prompt", turns)
	require.Len(t, msgs, 5)

	require.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	require.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)

	require.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	require.Equal(t, "Checking.", msgs[2].Content)
	require.Len(t, msgs[2].ToolCalls, 1)
	require.Equal(t, "call_1", msgs[2].ToolCalls[0].ID)
	require.Equal(t, "viewQueue", msgs[2].ToolCalls[0].Function.Name)

	require.Equal(t, openai.ChatMessageRoleTool, msgs[3].Role)
	require.Equal(t, "call_1", msgs[3].ToolCallID)
	require.Equal(t, "Queue is currently empty.", msgs[3].Content)

	require.Equal(t, openai.ChatMessageRoleAssistant, msgs[4].Role)
	require.Empty(t, msgs[4].ToolCalls)
}

func TestEncode_OmitsEmptySystemPrompt(t *testing.T) {
	msgs := Encode("", []convo.Turn{convo.UserTurn("hi")})
	require.Len(t, msgs, 1)
	require.Equal(t, openai.ChatMessageRoleUser, msgs[0].Role)
}

func TestDecodeTurn_TextPrecedesCalls(t *testing.T) {
	turn := DecodeTurn(openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: "Adding it now.",
		ToolCalls: []openai.ToolCall{
			{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "addToQueue", Arguments: `{"productName":"onyx"}`}},
			{ID: "c2", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "checkout", Arguments: `{}`}},
		},
	})

	require.Equal(t, convo.RoleModel, turn.Role)
	require.Len(t, turn.Parts, 3)
	_, ok := turn.Parts[0].(convo.TextPart)
	require.True(t, ok)
	calls := turn.FunctionCalls()
	require.Equal(t, "addToQueue", calls[0].Name)
	require.Equal(t, "checkout", calls[1].Name)
}

func TestDecodeTurn_EmptyMessage(t *testing.T) {
	turn := DecodeTurn(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant})
	require.Empty(t, turn.Parts)
}
