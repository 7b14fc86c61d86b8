package websocket

import (
	"github.com/talentflow/talentflow-backend/internal/evaluator"
	"github.com/talentflow/talentflow-backend/internal/response"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	// ActionAnswer sets or replaces a single answer in the preview
	// session's response map.
	ActionAnswer Action = "answer"
	// ActionClear removes a single answer from the response map.
	ActionClear Action = "clear"
	// ActionReset replaces the whole response map.
	ActionReset Action = "reset"
	ActionPing  Action = "ping"
)

// RequestPayload is a client message on the preview stream. Value is used
// by "answer"; Responses by "reset".
type RequestPayload struct {
	Action     Action         `json:"action"`
	QuestionID string         `json:"question_id,omitempty"`
	Value      any            `json:"value,omitempty"`
	Responses  map[string]any `json:"responses,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventEvaluation Event = "evaluation"
	EventPong       Event = "pong"
)

// EvaluationResponse carries the freshly derived visibility and error maps
// after each response change.
type EvaluationResponse struct {
	Event       Event            `json:"event"`
	Result      evaluator.Result `json:"result"`
	Submittable bool             `json:"submittable"`
}

// ErrorResponse carries the same typed error codes as the HTTP envelope.
type ErrorResponse struct {
	Event Event            `json:"event"`
	Code  response.ErrCode `json:"code"`
	Error string           `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
