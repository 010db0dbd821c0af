package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sant0-9/forge/internal/agent"
	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/llm"
	"github.com/sant0-9/forge/internal/store"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := NewApp(config.DefaultConfig(), st, log)
	id, err := st.NewConversation(context.Background())
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	app.state.conversationID = id
	return app, id
}

func TestDeliveredTurnPersistsUserAndAssistantTogether(t *testing.T) {
	app, id := newTestApp(t)
	ctx := context.Background()

	app.persistDeliver(ctx, agent.Deliver{
		Request: "make me a prompt",
		Body:    "the prompt",
		Raw:     "Here.\n[PROMPT]\nthe prompt\n[/PROMPT]",
	})

	history, err := app.store.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != llm.RoleUser || history[0].Content != "make me a prompt" {
		t.Errorf("first message = %+v, want the user request", history[0])
	}
	if history[1].Role != llm.RoleAssistant || history[1].Content != "Here.\n[PROMPT]\nthe prompt\n[/PROMPT]" {
		t.Errorf("second message = %+v, want the raw assistant reply", history[1])
	}
}

func TestQuestionAndFailedTurnsPersistNothing(t *testing.T) {
	app, id := newTestApp(t)
	ctx := context.Background()

	app.persistDeliver(ctx, agent.AskQuestions{Intro: "need more"})
	app.persistDeliver(ctx, agent.Fail{Err: errors.New("connection reset")})

	history, err := app.store.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d messages, want none for undelivered turns", len(history))
	}
}
