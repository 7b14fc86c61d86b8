package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/talentflow/talentflow-backend/internal/evaluator"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/response"
	"github.com/talentflow/talentflow-backend/internal/service"
	ws "github.com/talentflow/talentflow-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live preview evaluation over a WebSocket: the client
// pushes answer changes, the server re-derives visibility and validation
// errors on every change and pushes the result back.
type WSHandler struct {
	assessmentService *service.AssessmentService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(assessmentService *service.AssessmentService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		assessmentService: assessmentService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// PreviewStream godoc
// WS /ws/v1/assessments/:id/preview
// The response map lives only for the duration of the connection; nothing
// here is persisted.
func (h *WSHandler) PreviewStream(c *gin.Context) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}

	a, err := h.assessmentService.Get(c.Request.Context(), id)
	if err != nil {
		failAssessment(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("assessment_id", id.String()).Logger()
	wsLog.Info().Msg("Preview session connected")

	responses := evaluator.ResponseMap{}

	// Send the initial evaluation so the client starts from a known state.
	h.pushEvaluation(conn, *a, responses)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Preview session closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAnswer:
			if msg.QuestionID == "" {
				ws.WriteError(conn, response.ErrInvalidPayload, "question_id is required")
				continue
			}
			if a.FindQuestion(msg.QuestionID) == nil {
				ws.WriteError(conn, response.ErrUnknownQuestion, "unknown question: "+msg.QuestionID)
				continue
			}
			responses[msg.QuestionID] = msg.Value
			h.pushEvaluation(conn, *a, responses)

		case ws.ActionClear:
			if msg.QuestionID == "" {
				ws.WriteError(conn, response.ErrInvalidPayload, "question_id is required")
				continue
			}
			delete(responses, msg.QuestionID)
			h.pushEvaluation(conn, *a, responses)

		case ws.ActionReset:
			responses = evaluator.ResponseMap{}
			for k, v := range msg.Responses {
				responses[k] = v
			}
			h.pushEvaluation(conn, *a, responses)

		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, response.ErrInvalidPayload, "unknown action: "+string(msg.Action))
		}
	}
}

func (h *WSHandler) pushEvaluation(conn *websocket.Conn, a model.Assessment, responses evaluator.ResponseMap) {
	result := evaluator.Evaluate(a, responses)
	ws.WriteTyped(conn, ws.EvaluationResponse{
		Event:       ws.EventEvaluation,
		Result:      result,
		Submittable: result.Submittable(),
	})
}
