package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	chatService "github.com/zhouzirui/fredke/backend/internal/service/chat"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string) (chat.GeneratedWebsite, error) {
	return chat.GeneratedWebsite{HTML: "<h1>Blog</h1>", CSS: "h1{color:red}", JavaScript: "", Title: "My Blog", Description: "A blog"}, nil
}

func TestRouterServesAPI(t *testing.T) {
	hub := chatService.NewHub()
	svc := chatService.NewService(chat.NewMemoryStore(), stubGenerator{}, hub)
	router := NewRouter(svc, hub, []string{"*"})

	payload, _ := json.Marshal(map[string]string{"prompt": "Make a blog", "sessionId": "s1"})
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/messages/s1", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var messages []chat.Message
	if err := json.Unmarshal(resp.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(chatService.NewService(chat.NewMemoryStore(), stubGenerator{}, nil), chatService.NewHub(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
