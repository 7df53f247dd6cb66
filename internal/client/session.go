package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/fredke/backend/internal/service/chat"
)

// State is the client-side request state.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateError   State = "error"
)

var (
	// ErrBusy is returned when a send is attempted while another is in flight.
	ErrBusy = errors.New("a generation is already in progress")
	// ErrEmptyPrompt is returned for blank input without contacting the server.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrUnknownQuickAction is returned for a quick action name that does not exist.
	ErrUnknownQuickAction = errors.New("unknown quick action")
)

// API is the server surface a Session needs.
type API interface {
	Generate(ctx context.Context, sessionID, prompt string) (chatservice.GenerateResult, error)
	Messages(ctx context.Context, sessionID string) ([]chat.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// Session owns one session id and the local copy of its log. At most one
// generation is outstanding per Session.
type Session struct {
	api API
	id  string

	mu      sync.Mutex
	state   State
	lastErr error
	log     []chat.Message
}

// NewSession starts a session with a freshly generated id.
func NewSession(api API) *Session {
	return ResumeSession(api, "session_"+uuid.NewString())
}

// ResumeSession reuses an existing session id.
func ResumeSession(api API, sessionID string) *Session {
	return &Session{api: api, id: sessionID, state: StateIdle}
}

// ID returns the session id sent with every call.
func (s *Session) ID() string { return s.id }

// State reports the current request state and the last failure, if any.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

// Messages returns a copy of the local log.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.log...)
}

// LatestWebsite returns the most recent generated bundle in the local log.
func (s *Session) LatestWebsite() (chat.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].GeneratedCode != nil {
			return s.log[i], true
		}
	}
	return chat.Message{}, false
}

// Send submits a free-text prompt.
func (s *Session) Send(ctx context.Context, prompt string) (chatservice.GenerateResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return chatservice.GenerateResult{}, ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return chatservice.GenerateResult{}, ErrBusy
	}
	s.state = StateSending
	s.lastErr = nil
	s.mu.Unlock()

	result, err := s.api.Generate(ctx, s.id, prompt)
	if err != nil {
		s.finish(err)
		return chatservice.GenerateResult{}, err
	}

	messages, refreshErr := s.api.Messages(ctx, s.id)

	s.mu.Lock()
	if refreshErr == nil {
		s.log = messages
	} else {
		s.log = append(s.log, result.UserMessage, result.AIMessage)
		chat.SortMessages(s.log)
	}
	s.state = StateIdle
	s.mu.Unlock()

	return result, nil
}

// SendQuickAction submits the canned prompt of a named quick action.
func (s *Session) SendQuickAction(ctx context.Context, name string) (chatservice.GenerateResult, error) {
	prompt, ok := QuickPrompt(name)
	if !ok {
		return chatservice.GenerateResult{}, ErrUnknownQuickAction
	}
	return s.Send(ctx, prompt)
}

// Refresh replaces the local log with the server copy.
func (s *Session) Refresh(ctx context.Context) error {
	messages, err := s.api.Messages(ctx, s.id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.log = messages
	s.mu.Unlock()
	return nil
}

// Clear deletes the server log and, once that succeeds, empties the local view.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.api.Clear(ctx, s.id); err != nil {
		return err
	}
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
	return nil
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.lastErr = err
}
