package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	"github.com/louisbranch/arc-engine/internal/engine/stream"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
	"github.com/louisbranch/arc-engine/internal/scenario"
	"github.com/louisbranch/arc-engine/internal/services/engine/storage"
)

type characterPayload struct {
	Name      string   `json:"name"`
	Archetype string   `json:"archetype"`
	Traits    []string `json:"traits,omitempty"`
}

type createSessionRequest struct {
	ScenarioID  string            `json:"scenario_id"`
	BudgetTotal int               `json:"budget_total,omitempty"`
	Character   *characterPayload `json:"character,omitempty"`
}

type turnRequest struct {
	Input  string `json:"input,omitempty"`
	Choice int    `json:"choice,omitempty"`
}

type objectivePatchRequest struct {
	GoalIndex int `json:"goal_index"`
}

type startResponse struct {
	SessionID string          `json:"session_id"`
	Snapshot  domain.Snapshot `json:"snapshot"`
	Narration string          `json:"narration,omitempty"`
	Choices   []string        `json:"choices,omitempty"`
}

type sessionResponse struct {
	Snapshot domain.Snapshot   `json:"snapshot"`
	History  []domain.Exchange `json:"history"`
	Choices  []string          `json:"choices,omitempty"`
}

type scenarioView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tone  string `json:"tone,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/scenarios", s.handleListScenarios)
	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /v1/sessions/{id}/character", s.handleCompleteCharacter)
	mux.HandleFunc("POST /v1/sessions/{id}/turns", s.handleRunTurn)
	mux.HandleFunc("PATCH /v1/sessions/{id}/objective", s.handlePatchObjective)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleEndSession)
	mux.HandleFunc("GET /v1/archive", s.handleListArchive)
	mux.HandleFunc("GET /v1/archive/{id}", s.handleGetArchive)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := scenario.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]scenarioView, 0, len(scenarios))
	for _, def := range scenarios {
		views = append(views, scenarioView{ID: def.ID, Title: def.Title, Tone: def.Tone})
	}
	writeJSON(w, http.StatusOK, map[string][]scenarioView{"scenarios": views})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var character *domain.CharacterInput
	if req.Character != nil {
		character = &domain.CharacterInput{
			Name:      req.Character.Name,
			Archetype: req.Character.Archetype,
			Traits:    req.Character.Traits,
		}
	}

	result, err := s.svc.createSession(r.Context(), req.ScenarioID, req.BudgetTotal, character, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, startResponseFrom(result))
}

func (s *Server) handleCompleteCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.svc.completeCharacter(r.Context(), r.PathValue("id"), domain.CharacterInput{
		Name:      req.Name,
		Archetype: req.Archetype,
		Traits:    req.Traits,
	}, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponseFrom(result))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.getSession(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Snapshot: sess.Snapshot(),
		History:  sess.History,
		Choices:  sess.Choices,
	})
}

// handleRunTurn streams one turn as Server-Sent Events. The session is
// claimed before the stream opens, so claim failures surface as plain
// HTTP errors; anything after the first frame is reported in-stream.
func (s *Server) handleRunTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	writer, ok := stream.NewSSEWriter(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	streamOpen := false
	emitter := stream.NewEmitter(stream.WriterFunc(func(event stream.Event) error {
		streamOpen = true
		return writer.WriteEvent(event)
	}), locale(r))

	snapshot, choices, err := s.svc.runTurn(r.Context(), r.PathValue("id"), req.Input, req.Choice, emitter)
	if err != nil {
		// Failures before the first frame still have the status line
		// available, so claim rejections stay ordinary HTTP errors.
		if !streamOpen {
			writeError(w, r, err)
			return
		}
		emitter.TurnFailed(err)
		return
	}
	emitter.TurnComplete(snapshot, choices)
	if err := emitter.Err(); err != nil {
		log.Printf("turn stream for session %s interrupted: %v", r.PathValue("id"), err)
	}
}

func (s *Server) handlePatchObjective(w http.ResponseWriter, r *http.Request) {
	var req objectivePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	snapshot, err := s.svc.completeObjectiveGoal(r.PathValue("id"), req.GoalIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Snapshot{"snapshot": snapshot})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.endSession(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Snapshot{"snapshot": sess.Snapshot()})
}

func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, apperrors.New(apperrors.CodeNotFound, "archive is not configured"))
		return
	}
	records, err := s.archive.ListArchivedSessions(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []storage.ArchivedSession{}
	}
	writeJSON(w, http.StatusOK, map[string][]storage.ArchivedSession{"sessions": records})
}

func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, apperrors.New(apperrors.CodeNotFound, "archive is not configured"))
		return
	}
	record, err := s.archive.GetArchivedSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func startResponseFrom(result startResult) startResponse {
	return startResponse{
		SessionID: result.Session.ID,
		Snapshot:  result.Session.Snapshot(),
		Narration: result.Narration,
		Choices:   result.Session.Choices,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "decode request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	code := apperrors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err, locale(r)),
	}})
}

func locale(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Accept-Language"))
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
