package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amarastelive/amaraste-agent/internal/adapters/llm"
	"github.com/amarastelive/amaraste-agent/internal/app/chat"
	"github.com/amarastelive/amaraste-agent/internal/domain"
	"github.com/amarastelive/amaraste-agent/internal/observability"
)

// DefaultIdleTimeout is how long the conversation must stay quiet before
// a re-engagement turn fires.
const DefaultIdleTimeout = 10 * time.Second

// ErrBusy means a turn is already streaming for this session.
var ErrBusy = errors.New("generation already in progress")

// Service is the session orchestrator: it owns per-session conversation
// state and wires user input through the chat transport and the stream
// presenter into the transcript.
//
// One turn streams at a time per session. Finalized turns are copied to
// the archive store, best-effort.
type Service struct {
	streamer  domain.ChatStreamer
	archive   domain.ArchiveStore
	presenter *chat.Presenter

	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[domain.SessionID]*state
}

type state struct {
	conv      *domain.Conversation
	turn      *chat.Turn
	cancel    context.CancelFunc
	idleTimer *time.Timer
}

// NewService builds the orchestrator. A nil streamer means the chat
// transport could not be configured: sessions still open, but every send
// fails persistently until the process is reconfigured.
func NewService(streamer domain.ChatStreamer, archive domain.ArchiveStore, presenter *chat.Presenter) *Service {
	if presenter == nil {
		presenter = chat.NewPresenter()
	}
	return &Service{
		streamer:    streamer,
		archive:     archive,
		presenter:   presenter,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		sessions:    make(map[domain.SessionID]*state),
	}
}

// SetIdleTimeout overrides the re-engagement quiet period. Zero or
// negative disables re-engagement entirely.
func (s *Service) SetIdleTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleTimeout = d
}

// ─────────────────────────────────────────────
// Session lifecycle
// ─────────────────────────────────────────────

// StartSession opens a conversation seeded with the greeting message.
func (s *Service) StartSession(ctx context.Context) (*domain.Conversation, error) {
	id := domain.SessionID(uuid.NewString())
	now := s.now()

	conv := &domain.Conversation{
		SessionID: id,
		Messages: []*domain.Message{{
			ID:        domain.MessageID(uuid.NewString()),
			SessionID: id,
			Sender:    domain.SenderAssistant,
			Text:      greetingText(now),
			CreatedAt: now,
		}},
	}
	if s.streamer == nil {
		conv.LastError = chatInitFailedText
	}

	st := &state{conv: conv}

	s.mu.Lock()
	s.sessions[id] = st
	s.armIdleLocked(st)
	snap := s.snapshotLocked(conv)
	s.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("session started", "session_id", id)
	return snap, nil
}

// Snapshot returns a copy of the transcript state.
func (s *Service) Snapshot(sessionID domain.SessionID) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.snapshotLocked(st.conv), nil
}

// Close dismisses the chat surface. If the conversation made no progress
// (the seeded message alone), it resets to a fresh greeting.
func (s *Service) Close(sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if len(st.conv.Messages) <= 1 {
		s.resetLocked(st, greetingText(s.now()))
	}
	return nil
}

// ResetTopicMusic switches the conversation to the music context: the
// transcript is replaced wholesale by the single predefined line.
func (s *Service) ResetTopicMusic(sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.resetLocked(st, musicContextText)
	return nil
}

// NoteActivity restarts the idle clock. The front-end calls this while
// the user is composing, so re-engagement needs a full quiet period of
// no typing at all.
func (s *Service) NoteActivity(sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.armIdleLocked(st)
	return nil
}

// NoteScreen records a navigation to one of the site's surfaces.
// Entering the music page swaps the conversation to the music context;
// every other screen just counts as activity.
func (s *Service) NoteScreen(sessionID domain.SessionID, screen domain.Screen) error {
	if screen == domain.ScreenNone {
		return fmt.Errorf("session: unknown screen")
	}
	if screen == domain.ScreenRevolucao {
		return s.ResetTopicMusic(sessionID)
	}
	return s.NoteActivity(sessionID)
}

// StopGeneration raises the cooperative cancel for the active turn. It
// takes effect at the next word or fragment boundary.
func (s *Service) StopGeneration(sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if st.turn != nil {
		st.turn.Stop()
		if st.cancel != nil {
			st.cancel()
		}
	}
	return nil
}

// ─────────────────────────────────────────────
// Turns
// ─────────────────────────────────────────────

// SendMessage appends the user message and streams one assistant turn.
// onReveal, when non-nil, observes every paced reveal step with the
// visible text so far. The finalized assistant message is returned.
func (s *Service) SendMessage(ctx context.Context, sessionID domain.SessionID, text string, onReveal func(visible string)) (*domain.Message, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	if st.conv.Loading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.streamer == nil {
		st.conv.LastError = chatInitFailedText
		s.mu.Unlock()
		return nil, domain.ErrChatConfig
	}

	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: sessionID,
		Sender:    domain.SenderUser,
		Text:      text,
		CreatedAt: now,
	}
	// History for the model is everything before this turn.
	history := append([]*domain.Message(nil), st.conv.Messages...)

	st.conv.Messages = append(st.conv.Messages, userMsg)
	st.conv.ReEngaged = false
	// Claim the turn in the same critical section as the busy check, so
	// a racing sender can never slip in between.
	st.conv.Loading = true
	s.mu.Unlock()

	log.Info("user message received")
	assistantMsg, err := s.runTurn(ctx, st, text, history, onReveal, false)
	if err != nil {
		return nil, err
	}

	s.archiveTurn(ctx, userMsg, assistantMsg)
	return assistantMsg, nil
}

// runTurn drives one assistant reply through the presenter. synthetic
// turns (re-engagement) swallow their errors user-visibly.
func (s *Service) runTurn(ctx context.Context, st *state, prompt string, history []*domain.Message, onReveal func(string), synthetic bool) (*domain.Message, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", st.conv.SessionID)

	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	turn := chat.NewTurn()
	now := s.now()
	assistantMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: st.conv.SessionID,
		Sender:    domain.SenderAssistant,
		CreatedAt: now,
	}

	// The caller claimed Loading under its own busy check; here the turn
	// only takes over the in-flight state.
	s.mu.Lock()
	st.conv.LastError = ""
	st.conv.Messages = append(st.conv.Messages, assistantMsg)
	st.turn = turn
	st.cancel = cancel
	if st.idleTimer != nil {
		st.idleTimer.Stop()
	}
	s.mu.Unlock()

	finish := func() {
		s.mu.Lock()
		st.conv.Loading = false
		st.turn = nil
		st.cancel = nil
		s.armIdleLocked(st)
		s.mu.Unlock()
	}

	frags, err := s.streamer.StreamReply(turnCtx, prompt, history)
	if err != nil {
		s.mu.Lock()
		s.dropIfEmpty(st, assistantMsg)
		if !synthetic {
			st.conv.LastError = assistantUnavailableText
		}
		s.mu.Unlock()
		finish()
		log.Error("chat stream failed to start", "error", err)
		if synthetic {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrChatTransport, err)
	}

	res := s.presenter.Run(turnCtx, frags, turn, func(visible string) {
		s.mu.Lock()
		assistantMsg.Text = visible
		s.mu.Unlock()
		if onReveal != nil {
			onReveal(visible)
		}
	})

	switch res.Outcome {
	case chat.TurnAborted:
		s.mu.Lock()
		s.dropIfEmpty(st, assistantMsg)
		if !synthetic {
			st.conv.LastError = assistantUnavailableText
		}
		s.mu.Unlock()
		finish()
		log.Error("chat stream aborted", "error", res.Err)
		if synthetic {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrChatTransport, res.Err)

	case chat.TurnCanceled:
		finish()
		log.Info("turn canceled", "revealed_chars", len(res.Text))
		s.mu.Lock()
		msg := *assistantMsg
		s.mu.Unlock()
		return &msg, nil

	default: // chat.TurnDone
		s.mu.Lock()
		assistantMsg.Text = res.Text
		assistantMsg.YouTubeID = res.YouTubeID
		assistantMsg.ShowSignUpButton = res.ShowSignUpButton
		msg := *assistantMsg
		s.mu.Unlock()
		finish()
		log.Info("turn finalized",
			"chars", len(res.Text),
			"youtube", res.YouTubeID != "",
			"signup", res.ShowSignUpButton)
		return &msg, nil
	}
}

// ─────────────────────────────────────────────
// Idle re-engagement
// ─────────────────────────────────────────────

// armIdleLocked (re)starts the idle clock when the conversation is
// quiescent: not loading, newest message from the assistant, and the
// re-engagement not yet spent since the last user message.
func (s *Service) armIdleLocked(st *state) {
	if st.idleTimer != nil {
		st.idleTimer.Stop()
		st.idleTimer = nil
	}
	if s.idleTimeout <= 0 {
		return
	}
	last := st.conv.LastMessage()
	canReEngage := !st.conv.Loading &&
		!st.conv.ReEngaged &&
		last != nil &&
		last.Sender == domain.SenderAssistant &&
		s.streamer != nil

	if !canReEngage {
		return
	}

	id := st.conv.SessionID
	st.idleTimer = time.AfterFunc(s.idleTimeout, func() {
		s.reEngage(id)
	})
}

// reEngage runs the synthetic turn. All failures are swallowed; the
// empty-bubble cleanup still applies.
func (s *Service) reEngage(sessionID domain.SessionID) {
	ctx := context.Background()
	log := observability.Logger().With("session_id", sessionID)

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	last := st.conv.LastMessage()
	if st.conv.Loading || st.conv.ReEngaged || last == nil || last.Sender != domain.SenderAssistant || s.streamer == nil {
		s.mu.Unlock()
		return
	}
	st.conv.ReEngaged = true
	st.conv.Loading = true
	history := append([]*domain.Message(nil), st.conv.Messages...)
	s.mu.Unlock()

	log.Info("idle re-engagement fired")
	msg, err := s.runTurn(ctx, st, llm.ReEngagementPrompt, history, nil, true)
	if err != nil || msg == nil {
		return
	}
	s.archiveTurn(ctx, nil, msg)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// dropIfEmpty removes the in-flight entry when nothing was revealed, so
// no empty bubble is left behind. Callers hold s.mu.
func (s *Service) dropIfEmpty(st *state, msg *domain.Message) {
	if msg.Text != "" {
		return
	}
	msgs := st.conv.Messages
	if len(msgs) > 0 && msgs[len(msgs)-1] == msg {
		st.conv.Messages = msgs[:len(msgs)-1]
	}
}

func (s *Service) resetLocked(st *state, seedText string) {
	now := s.now()
	st.conv.Messages = []*domain.Message{{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: st.conv.SessionID,
		Sender:    domain.SenderAssistant,
		Text:      seedText,
		CreatedAt: now,
	}}
	st.conv.Loading = false
	st.conv.LastError = ""
	st.conv.ReEngaged = false
	s.armIdleLocked(st)
}

func (s *Service) snapshotLocked(conv *domain.Conversation) *domain.Conversation {
	cp := &domain.Conversation{
		SessionID: conv.SessionID,
		Loading:   conv.Loading,
		LastError: conv.LastError,
		ReEngaged: conv.ReEngaged,
		Messages:  make([]*domain.Message, len(conv.Messages)),
	}
	for i, m := range conv.Messages {
		mc := *m
		cp.Messages[i] = &mc
	}
	return cp
}

func (s *Service) archiveTurn(ctx context.Context, userMsg, assistantMsg *domain.Message) {
	if s.archive == nil {
		return
	}
	log := observability.LoggerFromContext(ctx)
	for _, m := range []*domain.Message{userMsg, assistantMsg} {
		if m == nil {
			continue
		}
		if err := s.archive.AppendMessage(ctx, m); err != nil {
			log.Warn("failed to archive message", "session_id", m.SessionID, "error", err)
		}
	}
}

// ArchivedMessages reads back a session's archived transcript for the
// admin surface.
func (s *Service) ArchivedMessages(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.GetMessagesBySession(ctx, sessionID, limit)
}
