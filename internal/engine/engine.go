// Package engine implements the conversational turn executor: for each user
// message it drives the model/tool loop, appending to the Context and the
// Transcript as ordered parts arrive, until the model returns a turn with no
// function calls or the round cap is hit.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/obsidian-exchange/clerk-go/internal/config"
	"github.com/obsidian-exchange/clerk-go/internal/convo"
	"github.com/obsidian-exchange/clerk-go/internal/llm"
	"github.com/obsidian-exchange/clerk-go/internal/logger"
	"github.com/obsidian-exchange/clerk-go/internal/market"
	"github.com/obsidian-exchange/clerk-go/internal/tools"
)

// FSM States
type FSMState stateless.State

var (
	StateAwaitingModel    FSMState = "AwaitingModel"
	StateDispatchingTools FSMState = "DispatchingTools"
	StateDone             FSMState = "Done"   // Terminal: chain came to rest
	StateFailed           FSMState = "Failed" // Terminal: chain aborted
)

// FSM Triggers
type FSMTrigger stateless.Trigger

var (
	TriggerStart           FSMTrigger = "Start"
	TriggerToolsRequested  FSMTrigger = "ToolsRequested"
	TriggerToolsCompleted  FSMTrigger = "ToolsCompleted"
	TriggerModelResponded  FSMTrigger = "ModelResponded"
	TriggerRoundLimit      FSMTrigger = "RoundLimit"
	TriggerFailureOccurred FSMTrigger = "FailureOccurred"
)

// Fixed user-facing transcript lines.
const (
	failureText       = "Connection to the exchange grid was lost. Please try again."
	roundLimitText    = "Unable to complete request."
	acknowledgeText   = "Acknowledged."
	internalFaultText = "Error: internal tool failure."
)

const defaultMaxRounds = 8

// Dispatcher runs one named tool call against the current snapshot.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args json.RawMessage, snap *market.Snapshot) (tools.Result, error)
}

// Engine executes conversation chains for a single session. It is not safe
// for concurrent Process calls; the caller gates input while Busy reports
// true.
type Engine struct {
	client     llm.Client
	dispatcher Dispatcher
	snapshot   func() *market.Snapshot
	cfg        config.LLMConfig

	context    *convo.Log
	transcript *convo.Transcript

	mu   sync.Mutex
	busy bool
}

// New creates an engine for one conversation session. snapshot is re-read
// before every model call and every dispatch, so mid-chain state mutations
// are visible to later rounds.
func New(client llm.Client, dispatcher Dispatcher, snapshot func() *market.Snapshot, cfg config.LLMConfig) *Engine {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	return &Engine{
		client:     client,
		dispatcher: dispatcher,
		snapshot:   snapshot,
		cfg:        cfg,
		context:    convo.NewLog(),
		transcript: convo.NewTranscript(),
	}
}

// Context returns the model-visible history log.
func (e *Engine) Context() *convo.Log { return e.context }

// Transcript returns the user-visible log.
func (e *Engine) Transcript() *convo.Transcript { return e.transcript }

// Busy reports whether a chain is currently in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

func (e *Engine) setBusy(b bool) {
	e.mu.Lock()
	e.busy = b
	e.mu.Unlock()
}

// Process runs one full chain for a user message: model call, strictly
// sequential tool dispatch, repeat until the model returns a turn with zero
// function calls. It returns the text of the terminating model turn.
func (e *Engine) Process(ctx context.Context, userText string) (string, error) {
	e.setBusy(true)
	defer e.setBusy(false)

	e.context.Append(convo.UserTurn(userText))
	e.transcript.AppendText(convo.RoleUser, userText)

	// Chain-scoped state threaded through the FSM callbacks.
	type chainContext struct {
		pending   convo.Turn // last model turn, consumed exactly once
		final     string
		lastError error
		round     int
	}
	cc := &chainContext{}

	fsm := stateless.NewStateMachine(StateAwaitingModel)

	fsm.Configure(StateAwaitingModel).
		PermitReentry(TriggerStart).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if cc.round >= e.cfg.MaxRounds {
				logger.L.Warn("round limit reached; terminating chain", "maxRounds", e.cfg.MaxRounds)
				e.transcript.AppendText(convo.RoleModel, roundLimitText)
				cc.final = roundLimitText
				return fsm.FireCtx(ctx, TriggerRoundLimit)
			}
			cc.round++

			turn, err := e.callModel(ctx)
			if err != nil {
				cc.lastError = err
				return fsm.FireCtx(ctx, TriggerFailureOccurred)
			}
			e.context.Append(turn)
			cc.pending = turn

			if len(turn.FunctionCalls()) > 0 {
				return fsm.FireCtx(ctx, TriggerToolsRequested)
			}
			return fsm.FireCtx(ctx, TriggerModelResponded)
		}).
		Permit(TriggerToolsRequested, StateDispatchingTools).
		Permit(TriggerModelResponded, StateDone).
		Permit(TriggerRoundLimit, StateDone).
		Permit(TriggerFailureOccurred, StateFailed)

	fsm.Configure(StateDispatchingTools).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if err := e.dispatchTurn(ctx, cc.pending); err != nil {
				cc.lastError = err
				return fsm.FireCtx(ctx, TriggerFailureOccurred)
			}
			return fsm.FireCtx(ctx, TriggerToolsCompleted)
		}).
		Permit(TriggerToolsCompleted, StateAwaitingModel).
		Permit(TriggerFailureOccurred, StateFailed)

	fsm.Configure(StateDone).
		OnEntry(func(context.Context, ...any) error {
			if cc.final != "" {
				return nil // round-limit line already recorded
			}
			if entry, ok := convo.ProjectTurn(cc.pending); ok {
				e.transcript.Append(entry)
				cc.final = entry.Text
				return nil
			}
			// Degenerate empty model turn: neither text nor calls.
			e.transcript.AppendText(convo.RoleModel, acknowledgeText)
			cc.final = acknowledgeText
			return nil
		})

	fsm.Configure(StateFailed).
		OnEntry(func(context.Context, ...any) error {
			if cc.lastError == nil {
				cc.lastError = errors.New("chain failed without a recorded error")
			}
			e.transcript.AppendText(convo.RoleModel, failureText)
			logger.L.Error("chain aborted", "error", cc.lastError)
			return nil
		})

	if err := fsm.FireCtx(ctx, TriggerStart); err != nil {
		if cc.lastError != nil {
			return "", cc.lastError
		}
		return "", fmt.Errorf("engine: state machine error: %w", err)
	}

	state, err := fsm.State(ctx)
	if err != nil {
		return "", fmt.Errorf("engine: state machine error: %w", err)
	}
	switch state {
	case StateDone:
		return cc.final, nil
	case StateFailed:
		return "", cc.lastError
	}
	return "", fmt.Errorf("engine: chain ended in unexpected state %v", state)
}

// callModel sends the full Context, the fixed tool schema and the current
// snapshot to the model and lifts the first candidate into a Turn.
func (e *Engine) callModel(ctx context.Context) (convo.Turn, error) {
	resp, err := e.client.CreateChatCompletion(ctx, e.modelRequest())
	if err != nil {
		return convo.Turn{}, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return convo.Turn{}, errors.New("model returned no usable candidate")
	}
	return llm.DecodeTurn(resp.Choices[0].Message), nil
}

// dispatchTurn walks a model turn's parts in their given order: text goes
// straight to the transcript, function calls run sequentially with each
// response appended to the Context before the next call dispatches.
func (e *Engine) dispatchTurn(ctx context.Context, turn convo.Turn) error {
	modelText := turn.Text() != ""
	for _, part := range turn.Parts {
		switch p := part.(type) {
		case convo.TextPart:
			e.transcript.AppendText(convo.RoleModel, p.Text)
		case convo.FunctionCallPart:
			result, err := e.dispatcher.Dispatch(ctx, p.Name, p.Args, e.snapshot())
			if err != nil {
				// Answer the call anyway so the Context never holds a
				// dangling functionCall, then abort the chain.
				e.context.Append(convo.ResponseTurn(p, internalFaultText))
				return fmt.Errorf("tool %s failed: %w", p.Name, err)
			}
			if result.Text == "" && !modelText {
				e.transcript.AppendText(convo.RoleModel, "Executed: "+p.Name)
			}
			if len(result.Items) > 0 {
				e.transcript.AppendItems(result.Items)
			}
			e.context.Append(convo.ResponseTurn(p, result.Text))
			logger.L.Debug("tool dispatched", "tool", p.Name, "result", result.Text)
		}
	}
	return nil
}
