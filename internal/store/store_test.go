package store

import (
	"context"
	"fmt"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.NewConversation(ctx)
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	if err := s.AppendMessage(ctx, id, "user", "hello"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if err := s.AppendMessage(ctx, id, "assistant", "hi there"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	history, err := s.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "hello" {
		t.Errorf("first message = %+v, want user/hello", history[0])
	}
	if history[1].Role != "assistant" {
		t.Errorf("second message role = %q, want assistant", history[1].Role)
	}
}

func TestHistoryTrimsToLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.NewConversation(ctx)
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	for i := 0; i < HistoryLimit+5; i++ {
		if err := s.AppendMessage(ctx, id, "user", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("AppendMessage %d: %v", i, err)
		}
	}

	history, err := s.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != HistoryLimit {
		t.Fatalf("got %d messages, want %d", len(history), HistoryLimit)
	}
	// Oldest entries are the ones trimmed.
	if history[0].Content != "message 5" {
		t.Errorf("oldest kept message = %q, want %q", history[0].Content, "message 5")
	}
}

func TestClearHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, _ := s.NewConversation(ctx)
	_ = s.AppendMessage(ctx, id, "user", "something")

	if err := s.ClearHistory(ctx, id); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	history, err := s.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d messages after clear, want 0", len(history))
	}
}

func TestHistoryIsolatedPerConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, _ := s.NewConversation(ctx)
	b, _ := s.NewConversation(ctx)
	_ = s.AppendMessage(ctx, a, "user", "for a")

	history, err := s.History(ctx, b)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("conversation b sees %d messages, want 0", len(history))
	}
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if v, err := s.GetSetting(ctx, "active_conversation"); err != nil || v != "" {
		t.Fatalf("GetSetting on empty store = (%q, %v), want empty", v, err)
	}

	if err := s.SetSetting(ctx, "active_conversation", "abc"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting(ctx, "active_conversation", "def"); err != nil {
		t.Fatalf("SetSetting upsert: %v", err)
	}

	v, err := s.GetSetting(ctx, "active_conversation")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "def" {
		t.Errorf("GetSetting = %q, want %q", v, "def")
	}
}
