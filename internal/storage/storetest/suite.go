// Package storetest holds the behavioural contract every chat.Store backend must satisfy.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) chat.Store

// Run exercises the store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAssignsIDAndTimestamp", func(t *testing.T) {
		testCreateAssignsIDAndTimestamp(t, newStore(t))
	})
	t.Run("ListReturnsSessionOnlyInOrder", func(t *testing.T) {
		testListReturnsSessionOnlyInOrder(t, newStore(t))
	})
	t.Run("ListEmptySession", func(t *testing.T) {
		testListEmptySession(t, newStore(t))
	})
	t.Run("ClearSession", func(t *testing.T) {
		testClearSession(t, newStore(t))
	})
	t.Run("ClearUnknownSession", func(t *testing.T) {
		testClearUnknownSession(t, newStore(t))
	})
	t.Run("GeneratedCodeRoundTrip", func(t *testing.T) {
		testGeneratedCodeRoundTrip(t, newStore(t))
	})
	t.Run("Delete", func(t *testing.T) {
		testDelete(t, newStore(t))
	})
	t.Run("CreateRejectsInvalidMessage", func(t *testing.T) {
		testCreateRejectsInvalidMessage(t, newStore(t))
	})
}

func testCreateAssignsIDAndTimestamp(t *testing.T, store chat.Store) {
	ctx := context.Background()

	first, err := store.Create(ctx, chat.NewMessage{Content: "hi", Role: chat.RoleUser, SessionID: "s1"})
	require.NoError(t, err)
	second, err := store.Create(ctx, chat.NewMessage{Content: "again", Role: chat.RoleUser, SessionID: "s2"})
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, "hi", first.Content)
	assert.Equal(t, chat.RoleUser, first.Role)
	assert.Equal(t, "s1", first.SessionID)
	assert.Nil(t, first.GeneratedCode)
}

func testListReturnsSessionOnlyInOrder(t *testing.T, store chat.Store) {
	ctx := context.Background()

	for i, content := range []string{"one", "two", "three"} {
		_, err := store.Create(ctx, chat.NewMessage{Content: content, Role: chat.RoleUser, SessionID: "s1"})
		require.NoError(t, err)
		if i == 0 {
			_, err = store.Create(ctx, chat.NewMessage{Content: "other", Role: chat.RoleUser, SessionID: "s2"})
			require.NoError(t, err)
		}
	}

	got, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, msg := range got {
		assert.Equal(t, "s1", msg.SessionID)
		if i > 0 {
			prev := got[i-1]
			assert.False(t, msg.CreatedAt.Before(prev.CreatedAt), "createdAt must not decrease")
			assert.True(t, prev.Before(msg), "messages must be ordered")
		}
	}
	assert.Equal(t, []string{"one", "two", "three"}, contents(got))
}

func testListEmptySession(t *testing.T, store chat.Store) {
	got, err := store.ListBySession(context.Background(), "never-used")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testClearSession(t *testing.T, store chat.Store) {
	ctx := context.Background()

	_, err := store.Create(ctx, chat.NewMessage{Content: "a", Role: chat.RoleUser, SessionID: "s1"})
	require.NoError(t, err)
	_, err = store.Create(ctx, chat.NewMessage{Content: "b", Role: chat.RoleUser, SessionID: "s2"})
	require.NoError(t, err)

	require.NoError(t, store.ClearSession(ctx, "s1"))
	require.NoError(t, store.ClearSession(ctx, "s1"))

	got, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)

	kept, err := store.ListBySession(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func testClearUnknownSession(t *testing.T, store chat.Store) {
	ctx := context.Background()
	require.NoError(t, store.ClearSession(ctx, "missing"))

	got, err := store.ListBySession(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testGeneratedCodeRoundTrip(t *testing.T, store chat.Store) {
	ctx := context.Background()
	site := &chat.GeneratedWebsite{
		HTML:        "<h1 class=\"x\">Blog &amp; more</h1>\n<script>alert('<b>')</script>",
		CSS:         "h1{color:red}\n/* \"quoted\" */",
		JavaScript:  "const s = `${1 < 2}`;\nconsole.log(\"\\u00e9\");",
		Title:       "My Blog",
		Description: "A blog",
	}

	_, err := store.Create(ctx, chat.NewMessage{
		Content:       "I've generated a My Blog for you.",
		Role:          chat.RoleAssistant,
		SessionID:     "s1",
		GeneratedCode: site,
	})
	require.NoError(t, err)

	got, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].GeneratedCode)
	assert.Equal(t, *site, *got[0].GeneratedCode)
	assert.Equal(t, chat.RoleAssistant, got[0].Role)
}

func testDelete(t *testing.T, store chat.Store) {
	ctx := context.Background()

	first, err := store.Create(ctx, chat.NewMessage{Content: "a", Role: chat.RoleUser, SessionID: "s1"})
	require.NoError(t, err)
	_, err = store.Create(ctx, chat.NewMessage{Content: "b", Role: chat.RoleUser, SessionID: "s1"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, first.ID))
	require.NoError(t, store.Delete(ctx, first.ID))

	got, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, contents(got))
}

func testCreateRejectsInvalidMessage(t *testing.T, store chat.Store) {
	ctx := context.Background()

	_, err := store.Create(ctx, chat.NewMessage{Content: "x", Role: "system", SessionID: "s1"})
	assert.ErrorIs(t, err, chat.ErrStore)

	_, err = store.Create(ctx, chat.NewMessage{Content: "x", Role: chat.RoleUser})
	assert.ErrorIs(t, err, chat.ErrStore)

	got, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func contents(messages []chat.Message) []string {
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		out = append(out, msg.Content)
	}
	return out
}
