package main

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

func init() {
	color.NoColor = true
}

func TestRenderHistory(t *testing.T) {
	if got := renderHistory(nil); got != "No messages yet\n" {
		t.Fatalf("unexpected empty render: %q", got)
	}

	now := time.Now()
	out := renderHistory([]chat.Message{
		{ID: 1, Role: chat.RoleUser, Content: "a blog", CreatedAt: now},
		{ID: 2, Role: chat.RoleAssistant, Content: "done", CreatedAt: now, GeneratedCode: &chat.GeneratedWebsite{Title: "My Blog"}},
	})
	for _, want := range []string{"you a blog", "fred done", "website #2 My Blog"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestHeadTruncates(t *testing.T) {
	got := head("1\n2\n3\n4\n", 2)
	if got != "1\n2\n  ... 2 more lines\n" {
		t.Fatalf("unexpected head: %q", got)
	}
	if got := head("one", 5); got != "one\n" {
		t.Fatalf("unexpected head: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("got %q", got)
	}
}
