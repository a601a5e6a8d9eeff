package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/obsidian-exchange/clerk-go/internal/config"
	"github.com/obsidian-exchange/clerk-go/internal/convo"
	"github.com/obsidian-exchange/clerk-go/internal/market"
	"github.com/obsidian-exchange/clerk-go/internal/tools"
)

func TestProcess_ModelCallFailureAbortsChain(t *testing.T) {
	mock := &mockLLM{err: context.DeadlineExceeded}
	eng, _ := newStoreEngine(t, mock)

	_, err := eng.Process(context.Background(), "hi")
	require.Error(t, err)

	entries := eng.Transcript().Snapshot()
	require.Equal(t, failureText, entries[len(entries)-1].Text)
	require.False(t, eng.Busy())
}

func TestProcess_NoCandidateIsAFailure(t *testing.T) {
	mock := &mockLLM{queue: []openai.ChatCompletionResponse{{}}}
	eng, _ := newStoreEngine(t, mock)

	_, err := eng.Process(context.Background(), "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no usable candidate")
}

func TestProcess_HandlerFaultLeavesNoDanglingCall(t *testing.T) {
	mock := &mockLLM{queue: []openai.ChatCompletionResponse{
		toolCallResponse("", toolCall("c1", "checkout", `{}`)),
	}}
	store := market.NewStore()
	fault := &fakeDispatcher{err: errors.New("cart storage corrupted")}
	eng := New(mock, fault, store.Snapshot, config.LLMConfig{Model: "gpt"})

	_, err := eng.Process(context.Background(), "check out")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cart storage corrupted")

	// The faulting call is still answered in the Context.
	turns := eng.Context().Snapshot()
	last := turns[len(turns)-1]
	require.Equal(t, convo.RoleFunction, last.Role)
	resp := last.Parts[0].(convo.FunctionResponsePart)
	require.Equal(t, "c1", resp.ID)
	require.Equal(t, internalFaultText, resp.Result)

	// Committed history is not rolled back; the user sees the fallback line.
	entries := eng.Transcript().Snapshot()
	require.Equal(t, failureText, entries[len(entries)-1].Text)
	require.False(t, eng.Busy())
}

func TestProcess_FaultStopsRemainingCallsInTurn(t *testing.T) {
	mock := &mockLLM{queue: []openai.ChatCompletionResponse{
		toolCallResponse("",
			toolCall("c1", "checkout", `{}`),
			toolCall("c2", "viewQueue", `{}`),
		),
	}}
	store := market.NewStore()
	fault := &fakeDispatcher{err: errors.New("boom"), result: tools.Result{}}
	eng := New(mock, fault, store.Snapshot, config.LLMConfig{Model: "gpt"})

	_, err := eng.Process(context.Background(), "check out")
	require.Error(t, err)
	require.Equal(t, []string{"checkout"}, fault.names)
}
