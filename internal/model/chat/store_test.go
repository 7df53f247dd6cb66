package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	"github.com/zhouzirui/fredke/backend/internal/storage/storetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) chat.Store {
		return chat.NewMemoryStore()
	})
}

func TestMemoryStoreBreaksTimestampTiesByID(t *testing.T) {
	fixed := time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC)
	store := chat.NewMemoryStore().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, chat.NewMessage{Content: content, Role: chat.RoleUser, SessionID: "s"}); err != nil {
			t.Fatalf("Create err: %v", err)
		}
	}

	got, err := store.ListBySession(ctx, "s")
	if err != nil {
		t.Fatalf("ListBySession err: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Fatalf("expected ascending ids, got %d after %d", got[i].ID, got[i-1].ID)
		}
	}
	if got[0].Content != "first" || got[2].Content != "third" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := chat.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, chat.NewMessage{
		Role:          chat.RoleAssistant,
		SessionID:     "s",
		GeneratedCode: &chat.GeneratedWebsite{HTML: "<p>a</p>", CSS: "p{}", JavaScript: "1"},
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	created.GeneratedCode.HTML = "mutated"

	got, _ := store.ListBySession(ctx, "s")
	if got[0].GeneratedCode.HTML != "<p>a</p>" {
		t.Fatalf("store record was mutated through returned copy: %q", got[0].GeneratedCode.HTML)
	}
}

func TestStoreErrorMatchesSentinel(t *testing.T) {
	cause := context.DeadlineExceeded
	err := chat.NewStoreError("create", cause)

	if !errorsIs(err, chat.ErrStore) {
		t.Fatal("expected StoreError to match ErrStore")
	}
	if !errorsIs(err, cause) {
		t.Fatal("expected StoreError to match its cause")
	}
	if chat.NewStoreError("create", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}
}
