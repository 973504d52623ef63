package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amarastelive/amaraste-agent/internal/app/assets"
	"github.com/amarastelive/amaraste-agent/internal/app/session"
	"github.com/amarastelive/amaraste-agent/internal/domain"
)

const maxUploadSize = 64 << 20

type Server struct {
	sessions *session.Service
	assets   *assets.Service
	auth     *AdminAuth
}

func NewServer(sessionSvc *session.Service, assetSvc *assets.Service, auth *AdminAuth) http.Handler {
	s := &Server{
		sessions: sessionSvc,
		assets:   assetSvc,
		auth:     auth,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions            → POST: open session
	// /sessions/{id}       → GET: transcript, DELETE: close
	// /sessions/{id}/...   → turn operations
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// /assets/{key}        → GET: cached document, fallback-populated
	mux.HandleFunc("/assets/", s.handleAsset)

	// Admin surface, JWT-gated
	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.Handle("/admin/assets/", s.auth.Require(http.HandlerFunc(s.handleAdminAsset)))
	mux.Handle("/admin/conversations/", s.auth.Require(http.HandlerFunc(s.handleAdminConversation)))

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse struct {
	ID               string    `json:"id"`
	Sender           string    `json:"sender"`
	Text             string    `json:"text"`
	YouTubeID        string    `json:"youtube_id,omitempty"`
	ShowSignUpButton bool      `json:"show_signup_button,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type conversationResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []messageResponse `json:"messages"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type screenRequest struct {
	Screen string `json:"screen"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}[/messages|/stop|/activity|/topic/music]
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.handleGetConversation(w, r, id)
		case http.MethodDelete:
			s.handleCloseSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
	case len(parts) == 2 && parts[1] == "messages" && r.Method == http.MethodPost:
		s.handleSendMessage(w, r, id)
	case len(parts) == 2 && parts[1] == "stop" && r.Method == http.MethodPost:
		s.handleStop(w, r, id)
	case len(parts) == 2 && parts[1] == "activity" && r.Method == http.MethodPost:
		s.handleActivity(w, r, id)
	case len(parts) == 2 && parts[1] == "screen" && r.Method == http.MethodPost:
		s.handleScreen(w, r, id)
	case len(parts) == 3 && parts[1] == "topic" && parts[2] == "music" && r.Method == http.MethodPost:
		s.handleTopicMusic(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Session handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	conv, err := s.sessions.StartSession(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	conv, err := s.sessions.Snapshot(id)
	if err != nil {
		sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.sessions.Close(id); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSendMessage streams the assistant's reply as server-sent events:
// one "data" event per revealed step carrying the appended delta, then a
// terminal "done" event with the finalized message, or an "error" event.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		internalError(w, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	prev := ""
	msg, err := s.sessions.SendMessage(r.Context(), id, req.Text, func(visible string) {
		delta := strings.TrimPrefix(visible, prev)
		prev = visible
		if delta == "" {
			return
		}
		payload, _ := json.Marshal(map[string]string{"delta": delta})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": userFacingError(err)})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}

	final := toMessageResponse(msg)
	payload, _ := json.Marshal(final)
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", payload)
	flusher.Flush()
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.sessions.StopGeneration(id); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.sessions.NoteActivity(id); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	screen := domain.ParseScreen(req.Screen)
	if screen == domain.ScreenNone {
		badRequest(w, "unknown screen")
		return
	}
	if err := s.sessions.NoteScreen(id, screen); err != nil {
		sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTopicMusic(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.sessions.ResetTopicMusic(id); err != nil {
		sessionError(w, r, err)
		return
	}
	conv, err := s.sessions.Snapshot(id)
	if err != nil {
		sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// ─────────────────────────────────────────────
// Asset handlers
// ─────────────────────────────────────────────

// /assets/{key}
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	key := domain.AssetKey(strings.TrimPrefix(r.URL.Path, "/assets/"))
	if key == "" || strings.Contains(string(key), "/") {
		http.NotFound(w, r)
		return
	}

	data, err := s.assets.Load(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrContentUnavailable) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "Não foi possível carregar o conteúdo. Por favor, tente novamente.",
			})
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// /admin/assets/{key}
func (s *Server) handleAdminAsset(w http.ResponseWriter, r *http.Request) {
	key := domain.AssetKey(strings.TrimPrefix(r.URL.Path, "/admin/assets/"))
	if key == "" || strings.Contains(string(key), "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
		if err != nil || len(data) == 0 {
			badRequest(w, "request body must contain the document bytes")
			return
		}
		filename := r.URL.Query().Get("filename")
		if filename == "" {
			filename = string(key) + ".pdf"
		}
		if err := s.assets.Upload(r.Context(), key, filename, data); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := s.assets.Remove(r.Context(), key); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// /admin/conversations/{id}
func (s *Server) handleAdminConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := domain.SessionID(strings.TrimPrefix(r.URL.Path, "/admin/conversations/"))
	if id == "" {
		http.NotFound(w, r)
		return
	}

	msgs, err := s.sessions.ArchivedMessages(r.Context(), id, 0)
	if err != nil {
		sessionError(w, r, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// /admin/login
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:               string(m.ID),
		Sender:           string(m.Sender),
		Text:             m.Text,
		YouTubeID:        m.YouTubeID,
		ShowSignUpButton: m.ShowSignUpButton,
		CreatedAt:        m.CreatedAt,
	}
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	out := conversationResponse{
		SessionID: string(c.SessionID),
		Loading:   c.Loading,
		Error:     c.LastError,
		Messages:  make([]messageResponse, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	return out
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, domain.ErrChatConfig):
		return "Não foi possível iniciar o chat. Verifique a chave da API."
	case errors.Is(err, session.ErrBusy):
		return "Aguarde a resposta atual terminar."
	default:
		return "O assistente não está disponível no momento. Tente novamente mais tarde."
	}
}

func sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.NotFound(w, r)
		return
	}
	internalError(w, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
