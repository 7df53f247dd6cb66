package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

// Generator produces a website bundle for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (chat.GeneratedWebsite, error)
}

// GenerateRequest is one user turn.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId"`
}

// GenerateResult carries both persisted messages of a completed turn.
type GenerateResult struct {
	UserMessage   chat.Message          `json:"userMessage"`
	AIMessage     chat.Message          `json:"aiMessage"`
	GeneratedCode chat.GeneratedWebsite `json:"generatedCode"`
}

// Service runs user turns against the generator and the message store.
type Service struct {
	store     chat.Store
	generator Generator
	events    *Hub
}

// NewService wires the turn pipeline. events may be nil.
func NewService(store chat.Store, generator Generator, events *Hub) *Service {
	return &Service{
		store:     store,
		generator: generator,
		events:    events,
	}
}

// Validate checks a request and reports every failing field at once.
func (r GenerateRequest) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(r.Prompt) == "" {
		fields = append(fields, FieldError{Field: "prompt", Message: "Prompt is required"})
	}
	if strings.TrimSpace(r.SessionID) == "" {
		fields = append(fields, FieldError{Field: "sessionId", Message: "Session ID is required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Generate validates the request, calls the generator and, only when that
// succeeds, persists the user prompt followed by the assistant reply.
// A failed turn leaves the session log unchanged.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return GenerateResult{}, failAt(StageValidating, err)
	}

	site, err := s.generator.Generate(ctx, req.Prompt)
	if err != nil {
		return GenerateResult{}, failAt(StageGenerating, err)
	}

	userMsg, err := s.store.Create(ctx, chat.NewMessage{
		Content:   req.Prompt,
		Role:      chat.RoleUser,
		SessionID: req.SessionID,
	})
	if err != nil {
		return GenerateResult{}, failAt(StagePersisting, chat.NewStoreError("create user message", err))
	}

	aiMsg, err := s.store.Create(ctx, chat.NewMessage{
		Content:       AssistantReply(site),
		Role:          chat.RoleAssistant,
		SessionID:     req.SessionID,
		GeneratedCode: &site,
	})
	if err != nil {
		// Roll back so the log never holds a prompt without its reply.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), userMsg.ID); delErr != nil {
			log.Printf("[generate] failed to roll back user message id=%d session=%s: %v", userMsg.ID, req.SessionID, delErr)
		}
		return GenerateResult{}, failAt(StagePersisting, chat.NewStoreError("create assistant message", err))
	}

	s.publish(EventMessageCreated, req.SessionID, &userMsg)
	s.publish(EventMessageCreated, req.SessionID, &aiMsg)

	return GenerateResult{
		UserMessage:   userMsg,
		AIMessage:     aiMsg,
		GeneratedCode: site,
	}, nil
}

// History returns the session log oldest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]chat.Message, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, chat.NewStoreError("list messages", err)
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return messages, nil
}

// Message looks up one message of a session by id.
func (s *Service) Message(ctx context.Context, sessionID string, id int64) (chat.Message, bool, error) {
	messages, err := s.History(ctx, sessionID)
	if err != nil {
		return chat.Message{}, false, err
	}
	for _, msg := range messages {
		if msg.ID == id {
			return msg, true, nil
		}
	}
	return chat.Message{}, false, nil
}

// Clear deletes the whole session log.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	if err := s.store.ClearSession(ctx, sessionID); err != nil {
		return chat.NewStoreError("clear session", err)
	}

	s.publish(EventSessionCleared, sessionID, nil)
	return nil
}

func (s *Service) publish(kind EventType, sessionID string, msg *chat.Message) {
	if s.events == nil {
		return
	}
	s.events.Publish(Event{Type: kind, SessionID: sessionID, Message: msg})
}

// AssistantReply is the acknowledgement stored alongside a generated bundle.
func AssistantReply(site chat.GeneratedWebsite) string {
	return fmt.Sprintf("I've generated a %s for you. Here's the complete code:", site.Title)
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "sessionId", Message: "Session ID is required"}}}
	}
	return nil
}
