// Package convo defines the conversation data model: Turns made of ordered
// Parts, the model-visible Context log, and the user-visible Transcript.
// Both logs are append-only; once a Turn or Entry is in, it is never edited
// or removed.
package convo

import (
	"encoding/json"
	"strings"
)

// Role identifies the participant that contributed a Turn.
type Role string

const (
	RoleUser     Role = "user"
	RoleModel    Role = "model"
	RoleFunction Role = "function"
)

// Part is one content unit within a Turn. The set of implementations is
// closed: TextPart, FunctionCallPart and FunctionResponsePart.
type Part interface{ isPart() }

// TextPart is plain conversational text.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// FunctionCallPart is a tool invocation requested by the model. ID is the
// wire-level call id the transport uses to correlate call and response.
type FunctionCallPart struct {
	ID   string
	Name string
	Args json.RawMessage
}

func (FunctionCallPart) isPart() {}

// FunctionResponsePart carries a tool handler's textual result back to the
// model. ID matches the originating call.
type FunctionResponsePart struct {
	ID     string
	Name   string
	Result string
}

func (FunctionResponsePart) isPart() {}

// Turn is one participant contribution, an ordered list of Parts.
type Turn struct {
	Role  Role
	Parts []Part
}

// UserTurn builds a single-text user Turn.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// ResponseTurn builds a function Turn answering the given call.
func ResponseTurn(call FunctionCallPart, result string) Turn {
	return Turn{
		Role:  RoleFunction,
		Parts: []Part{FunctionResponsePart{ID: call.ID, Name: call.Name, Result: result}},
	}
}

// FunctionCalls returns the Turn's functionCall parts in order.
func (t Turn) FunctionCalls() []FunctionCallPart {
	var calls []FunctionCallPart
	for _, p := range t.Parts {
		if c, ok := p.(FunctionCallPart); ok {
			calls = append(calls, c)
		}
	}
	return calls
}

// Text concatenates the Turn's text parts in order.
func (t Turn) Text() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if txt, ok := p.(TextPart); ok {
			b.WriteString(txt.Text)
		}
	}
	return b.String()
}
