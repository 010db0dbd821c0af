package agent

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/dialog"
	"github.com/sant0-9/forge/internal/llm"
)

// fakeProvider replays scripted replies and records the requests it saw.
type fakeProvider struct {
	replies  []string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Ping(ctx context.Context) error { return nil }

func (f *fakeProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	content := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return &llm.CompletionResponse{Content: content}, nil
}

func newTestAgent(p llm.Provider) *Agent {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{Provider: "fake", Model: "test-model", Temperature: 0.4}
	return New(p, cfg, log)
}

func TestBaselinePrompt(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "write me a prompt"},
		{Role: llm.RoleAssistant, Content: "Here.\n[PROMPT]\nfirst version\n[/PROMPT]"},
		{Role: llm.RoleUser, Content: "make it shorter"},
		{Role: llm.RoleAssistant, Content: "Done.\n[PROMPT]\nsecond version\n[/PROMPT]"},
		{Role: llm.RoleAssistant, Content: "just chatting, no prompt here"},
	}

	if got := BaselinePrompt(history); got != "second version" {
		t.Errorf("BaselinePrompt = %q, want %q", got, "second version")
	}
	if got := BaselinePrompt(nil); got != "" {
		t.Errorf("BaselinePrompt(nil) = %q, want empty", got)
	}
	if got := BaselinePrompt([]llm.Message{{Role: llm.RoleAssistant, Content: "[PROMPT][/PROMPT]"}}); got != "" {
		t.Errorf("empty prompt block should not be a baseline, got %q", got)
	}
}

func TestHandleTurnDeliversPrompt(t *testing.T) {
	p := &fakeProvider{replies: []string{"Here you go.\n[PROMPT]\nYou are an expert. Write a haiku about rain.\n[/PROMPT]\nTweak as needed."}}
	a := newTestAgent(p)
	session := dialog.New()

	action := a.HandleTurn(context.Background(), "haiku about rain", nil, session)
	d, ok := action.(Deliver)
	if !ok {
		t.Fatalf("got %T, want Deliver", action)
	}
	if d.Body != "You are an expert. Write a haiku about rain." {
		t.Errorf("Body = %q", d.Body)
	}
	if d.Intro != "Here you go." || d.Outro != "Tweak as needed." {
		t.Errorf("Intro/Outro = %q / %q", d.Intro, d.Outro)
	}
	if len(d.Annotations) == 0 {
		t.Error("expected quality annotations")
	}
	if d.Request != "haiku about rain" {
		t.Errorf("Request = %q, want the user text", d.Request)
	}
	if session.Active() {
		t.Error("session should stay inactive on a delivered prompt")
	}
}

func TestHandleTurnOpensQuestions(t *testing.T) {
	p := &fakeProvider{replies: []string{
		"Need details.\n[QUESTIONS]\n1. Target audience?\n- beginners\n- experts\n2. Tone?\n[/QUESTIONS]",
	}}
	a := newTestAgent(p)
	session := dialog.New()

	action := a.HandleTurn(context.Background(), "blog post prompt", nil, session)
	q, ok := action.(AskQuestions)
	if !ok {
		t.Fatalf("got %T, want AskQuestions", action)
	}
	if q.Intro != "Need details." {
		t.Errorf("Intro = %q", q.Intro)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(q.Questions))
	}
	if !session.Active() {
		t.Error("session should be awaiting answers")
	}
	if session.OriginalRequest != "blog post prompt" {
		t.Errorf("OriginalRequest = %q", session.OriginalRequest)
	}
}

func TestQuestionsWinOverPrompt(t *testing.T) {
	p := &fakeProvider{replies: []string{
		"[PROMPT]\ndraft\n[/PROMPT]\n[QUESTIONS]\n1. Which model?\n[/QUESTIONS]",
	}}
	a := newTestAgent(p)
	session := dialog.New()

	if _, ok := a.HandleTurn(context.Background(), "x", nil, session).(AskQuestions); !ok {
		t.Fatal("a reply carrying both blocks must open the dialog")
	}
}

func TestHandleTurnPlainText(t *testing.T) {
	p := &fakeProvider{replies: []string{"Could you tell me more about what you need?"}}
	a := newTestAgent(p)

	action := a.HandleTurn(context.Background(), "hm", nil, dialog.New())
	d, ok := action.(Deliver)
	if !ok {
		t.Fatalf("got %T, want Deliver", action)
	}
	if d.Body != "" {
		t.Errorf("plain text reply must have empty Body, got %q", d.Body)
	}
	if d.Intro != "Could you tell me more about what you need?" {
		t.Errorf("Intro = %q", d.Intro)
	}
	if d.Annotations != nil {
		t.Error("plain text reply should carry no annotations")
	}
}

func TestHandleTurnProviderFailure(t *testing.T) {
	regionErr := &llm.ProviderError{Provider: "fake", Status: 403, Message: "forbidden"}
	p := &fakeProvider{err: regionErr}
	a := newTestAgent(p)
	session := dialog.New()

	action := a.HandleTurn(context.Background(), "x", nil, session)
	f, ok := action.(Fail)
	if !ok {
		t.Fatalf("got %T, want Fail", action)
	}
	if !f.RegionOrAvailability {
		t.Error("403 should classify as region/availability")
	}
	if !errors.Is(f.Err, regionErr) {
		t.Error("Fail must carry the provider error")
	}
	if session.Active() {
		t.Error("failure must not start a session")
	}

	p.err = errors.New("connection reset")
	if f := a.HandleTurn(context.Background(), "x", nil, session).(Fail); f.RegionOrAvailability {
		t.Error("plain transport error should not classify as region/availability")
	}
}

func TestHandleTurnEditFraming(t *testing.T) {
	p := &fakeProvider{replies: []string{"[PROMPT]\nrevised\n[/PROMPT]"}}
	a := newTestAgent(p)
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "write a prompt"},
		{Role: llm.RoleAssistant, Content: "[PROMPT]\nbaseline version\n[/PROMPT]"},
	}

	a.HandleTurn(context.Background(), "make it shorter", history, dialog.New())

	if len(p.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(p.requests))
	}
	last := p.requests[0].Messages[len(p.requests[0].Messages)-1]
	if !strings.Contains(last.Content, "baseline version") {
		t.Error("edit framing must include the baseline prompt")
	}
	if !strings.Contains(last.Content, "make it shorter") {
		t.Error("edit framing must include the user feedback")
	}
}

func TestHandleTurnFocusDigest(t *testing.T) {
	p := &fakeProvider{replies: []string{"[PROMPT]\nok\n[/PROMPT]"}}
	a := newTestAgent(p)
	long := strings.Repeat("a", 300)
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "first idea"},
		{Role: llm.RoleAssistant, Content: "no prompt yet, tell me more"},
		{Role: llm.RoleUser, Content: long},
		{Role: llm.RoleAssistant, Content: "still thinking"},
	}

	a.HandleTurn(context.Background(), "now do it", history, dialog.New())

	last := p.requests[0].Messages[len(p.requests[0].Messages)-1]
	if !strings.Contains(last.Content, "first idea") {
		t.Error("digest should include earlier user turn")
	}
	if strings.Contains(last.Content, long) {
		t.Error("digest entries must be truncated")
	}
	if !strings.Contains(last.Content, long[:digestLimit]) {
		t.Error("digest should keep the truncated turn")
	}
}

func TestFocusDigestTruncatesOnRuneBoundary(t *testing.T) {
	p := &fakeProvider{replies: []string{"[PROMPT]\nok\n[/PROMPT]"}}
	a := newTestAgent(p)
	long := strings.Repeat("é", digestLimit+50)
	history := []llm.Message{
		{Role: llm.RoleUser, Content: long},
		{Role: llm.RoleAssistant, Content: "tell me more"},
	}

	a.HandleTurn(context.Background(), "now do it", history, dialog.New())

	content := p.requests[0].Messages[len(p.requests[0].Messages)-1].Content
	if !utf8.ValidString(content) {
		t.Fatal("digest produced invalid UTF-8")
	}
	runes := []rune(long)
	if !strings.Contains(content, string(runes[:digestLimit])) {
		t.Error("digest should keep the first digestLimit runes")
	}
	if strings.Contains(content, string(runes[:digestLimit+1])) {
		t.Error("digest kept more than digestLimit runes")
	}
}

func TestResolveAnswers(t *testing.T) {
	p := &fakeProvider{replies: []string{"[PROMPT]\nfinal prompt\n[/PROMPT]"}}
	a := newTestAgent(p)
	session := dialog.New()
	a2 := &fakeProvider{replies: []string{
		"[QUESTIONS]\n1. Audience?\n- beginners\n- experts\n[/QUESTIONS]",
	}}
	// Open the dialog first through a questions reply.
	newTestAgent(a2).HandleTurn(context.Background(), "course outline prompt", nil, session)
	session.ToggleOption(0, 1)

	action := a.ResolveAnswers(context.Background(), session)
	d, ok := action.(Deliver)
	if !ok {
		t.Fatalf("got %T, want Deliver", action)
	}
	if d.Body != "final prompt" {
		t.Errorf("Body = %q", d.Body)
	}
	if session.Active() {
		t.Error("session should be inactive after resolve")
	}

	content := p.requests[0].Messages[len(p.requests[0].Messages)-1].Content
	if !strings.Contains(content, "course outline prompt") {
		t.Error("follow-up must include the original request")
	}
	if !strings.Contains(content, "1. Audience?: experts") {
		t.Errorf("follow-up must include rendered answers, got:\n%s", content)
	}
	if d.Request != content {
		t.Error("Request must carry the original-plus-answers content for persistence")
	}
	// Single-turn: system + user only.
	if got := len(p.requests[0].Messages); got != 2 {
		t.Errorf("follow-up request has %d messages, want 2", got)
	}
}

func TestResolveAnswersUsesCapturedPreferences(t *testing.T) {
	p := &fakeProvider{replies: []string{
		"[QUESTIONS]\n1. Audience?\n- beginners\n- experts\n[/QUESTIONS]",
		"[PROMPT]\nfinal prompt\n[/PROMPT]",
	}}
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		Provider:    "fake",
		Model:       "test-model",
		Temperature: 0.4,
		Preferences: config.Preferences{Style: "precise"},
	}
	a := New(p, cfg, log)
	session := dialog.New()

	a.HandleTurn(context.Background(), "course outline prompt", nil, session)

	// Preferences change while the dialog is open.
	cfg.Preferences.Style = "creative"

	if _, ok := a.ResolveAnswers(context.Background(), session).(Deliver); !ok {
		t.Fatal("want Deliver")
	}

	system := p.requests[1].Messages[0].Content
	if !strings.Contains(system, "precise, to the point") {
		t.Errorf("follow-up system prompt must use the preferences the dialog opened with, got:\n%s", system)
	}
	if strings.Contains(system, "expansive with examples") {
		t.Error("follow-up system prompt must not pick up preferences changed mid-dialog")
	}
}

func TestSkipQuestions(t *testing.T) {
	opener := &fakeProvider{replies: []string{"[QUESTIONS]\n1. Tone?\n[/QUESTIONS]"}}
	session := dialog.New()
	newTestAgent(opener).HandleTurn(context.Background(), "slogan prompt", nil, session)

	p := &fakeProvider{replies: []string{"[PROMPT]\nminimal prompt\n[/PROMPT]"}}
	a := newTestAgent(p)

	d, ok := a.SkipQuestions(context.Background(), session).(Deliver)
	if !ok {
		t.Fatal("want Deliver")
	}
	if d.Body != "minimal prompt" {
		t.Errorf("Body = %q", d.Body)
	}
	content := p.requests[0].Messages[len(p.requests[0].Messages)-1].Content
	if !strings.Contains(content, "skipped") {
		t.Error("skip framing must mention the skipped questions")
	}
	if !strings.Contains(content, "slogan prompt") {
		t.Error("skip framing must include the original request")
	}
	if !strings.Contains(content, "Do not add details") {
		t.Errorf("skip framing must forbid unrequested detail, got:\n%s", content)
	}
}

func TestRefine(t *testing.T) {
	p := &fakeProvider{replies: []string{"  You are a critic. Review the film objectively.  "}}
	a := newTestAgent(p)

	d, ok := a.Refine(context.Background(), "review this film").(Deliver)
	if !ok {
		t.Fatal("want Deliver")
	}
	if d.Body != "You are a critic. Review the film objectively." {
		t.Errorf("Body = %q", d.Body)
	}
	if len(d.Annotations) == 0 {
		t.Error("refine should annotate length metrics")
	}
	// No history in simple mode.
	if got := len(p.requests[0].Messages); got != 2 {
		t.Errorf("refine request has %d messages, want 2", got)
	}
}
