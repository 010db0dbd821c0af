// Package agent orchestrates one refinement turn: it frames the completion
// request, calls the provider, and converts the free-text reply into a
// structured action for the UI to render. The agent itself holds no UI
// concerns and no persistence; history comes in, an Action goes out.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/dialog"
	"github.com/sant0-9/forge/internal/llm"
	"github.com/sant0-9/forge/internal/prompts"
	"github.com/sant0-9/forge/internal/quality"
	"github.com/sant0-9/forge/internal/reply"
)

// digestLimit caps each recent user turn included in the focus digest.
const digestLimit = 200

// Agent drives the refinement conversation against one provider.
type Agent struct {
	provider llm.Provider
	cfg      *config.Config
	log      *logrus.Logger
}

func New(provider llm.Provider, cfg *config.Config, log *logrus.Logger) *Agent {
	if log == nil {
		log = logrus.New()
	}
	return &Agent{provider: provider, cfg: cfg, log: log}
}

// BaselinePrompt scans history backwards for the most recent assistant
// message that carried a non-empty finished prompt. It returns "" when the
// conversation has not produced one yet.
func BaselinePrompt(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != llm.RoleAssistant {
			continue
		}
		d := reply.Parse(history[i].Content)
		if d.Kind == reply.KindFinishedPrompt && d.Body != "" {
			return d.Body
		}
	}
	return ""
}

// HandleTurn runs one agent-mode turn: frame the request around the latest
// baseline prompt (edit) or the raw user text (fresh), call the provider,
// and parse the reply. A questions block wins over a finished prompt, so a
// reply carrying both opens the clarification dialog. The session is only
// started on a successful parse; transport failures return Fail and leave
// it untouched.
func (a *Agent) HandleTurn(ctx context.Context, userText string, history []llm.Message, session *dialog.Session) Action {
	baseline := BaselinePrompt(history)
	content := a.frameRequest(userText, baseline, history)

	req := llm.NewRequest(a.cfg.Model, prompts.BuildAssistantSystem(a.cfg.Preferences), history, content, a.cfg.Temperature)
	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		a.log.WithError(err).WithField("provider", a.provider.Name()).Warn("completion failed")
		return Fail{Err: err, RegionOrAvailability: llm.IsRegionOrAvailability(err)}
	}

	d := reply.Parse(resp.Content)
	if d.Kind == reply.KindClarification {
		session.Start(userText, d.Questions, a.cfg.Provider, prompts.PreferencesPreamble(a.cfg.Preferences))
		a.log.WithField("questions", len(d.Questions)).Debug("clarification dialog opened")
		return AskQuestions{Intro: d.Intro, Questions: d.Questions}
	}

	return a.deliver(d, resp.Content, baseline, userText, userText)
}

// ResolveAnswers folds the user's selections into a single follow-up
// completion request. History is deliberately not resent; the rendered
// answers carry everything the model needs.
func (a *Agent) ResolveAnswers(ctx context.Context, session *dialog.Session) Action {
	original := session.OriginalRequest
	answers := session.Finish()

	content := fmt.Sprintf(
		"Original request:\n%s\n\nClarification answers:\n%s\n\nUsing these answers, write the final improved prompt now.",
		original, answers)
	return a.completeFollowUp(ctx, session, content, original)
}

// SkipQuestions finalizes the dialog without answers: the model is asked to
// produce the prompt from the original request alone, without inventing
// detail the request never mentioned.
func (a *Agent) SkipQuestions(ctx context.Context, session *dialog.Session) Action {
	original := session.OriginalRequest
	session.SkipAll()

	content := fmt.Sprintf(
		"Original request:\n%s\n\nThe user skipped the clarification questions. Write the final improved prompt from the original request alone. Do not add details, requirements, or assumptions the request does not mention.",
		original)
	return a.completeFollowUp(ctx, session, content, original)
}

// completeFollowUp finishes a clarification dialog. The system prompt is
// built from the preferences captured when the dialog opened, not the
// current config, so a settings change mid-dialog cannot reframe it.
func (a *Agent) completeFollowUp(ctx context.Context, session *dialog.Session, content, original string) Action {
	if session.Provider != "" && session.Provider != a.cfg.Provider {
		a.log.WithField("opened_with", session.Provider).
			WithField("current", a.cfg.Provider).
			Warn("provider changed since dialog opened")
	}

	system := prompts.AssistantSystemWithPreamble(session.Preferences)
	req := llm.NewRequest(a.cfg.Model, system, nil, content, a.cfg.Temperature)

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		a.log.WithError(err).WithField("provider", a.provider.Name()).Warn("follow-up completion failed")
		return Fail{Err: err, RegionOrAvailability: llm.IsRegionOrAvailability(err)}
	}

	// The reply goes through the same parse chain; if the model asks more
	// questions the dialog reopens with its captured configuration.
	d := reply.Parse(resp.Content)
	if d.Kind == reply.KindClarification {
		session.Start(original, d.Questions, session.Provider, session.Preferences)
		return AskQuestions{Intro: d.Intro, Questions: d.Questions}
	}

	return a.deliver(d, resp.Content, "", original, content)
}

// Refine runs the one-shot simple-mode rewrite: no history, the whole reply
// is the refined prompt.
func (a *Agent) Refine(ctx context.Context, userText string) Action {
	system := prompts.BuildRefineSystem(a.cfg.Preferences)
	req := llm.NewRequest(a.cfg.Model, system, nil, prompts.BuildRefineUser(userText), a.cfg.Temperature)

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		a.log.WithError(err).WithField("provider", a.provider.Name()).Warn("refine failed")
		return Fail{Err: err, RegionOrAvailability: llm.IsRegionOrAvailability(err)}
	}

	body := strings.TrimSpace(resp.Content)
	return Deliver{Body: body, Annotations: annotate(userText, body), Raw: body, Request: userText}
}

// deliver turns a parsed directive into a Deliver action. Plain text and
// empty prompt blocks land in Intro with no body, so the UI shows them
// as-is. request is the user-side content this reply answers, carried for
// persistence.
func (a *Agent) deliver(d reply.Directive, raw, baseline, userText, request string) Action {
	if d.Kind != reply.KindFinishedPrompt || d.Body == "" {
		return Deliver{Intro: d.Intro, Raw: raw, Request: request}
	}

	reference := baseline
	if reference == "" {
		reference = userText
	}
	return Deliver{
		Intro:       d.Intro,
		Body:        d.Body,
		Outro:       d.Outro,
		Annotations: annotate(reference, d.Body),
		Raw:         raw,
		Request:     request,
	}
}

// annotate builds the quality lines shown under a delivered prompt.
func annotate(reference, body string) []string {
	var lines []string
	if m, ok := quality.Metrics(reference, body); ok {
		lines = append(lines, m.String())
	}

	var unigram *float64
	if score, ok := quality.Similarity(reference, body); ok {
		unigram = &score.Unigram
		lines = append(lines, quality.SimilarityLine("Similarity", reference, body))
	}
	if why := quality.Explain(reference, body, unigram); why != "" {
		lines = append(lines, why)
	}
	return lines
}

// frameRequest builds the user-turn content. With a baseline the model is
// told to edit it; without one, a short digest of recent user turns keeps
// the model focused on what the conversation is actually about.
func (a *Agent) frameRequest(userText, baseline string, history []llm.Message) string {
	if baseline != "" {
		return fmt.Sprintf(
			"Current prompt version:\n%s\n\nUser feedback:\n%s\n\nApply the feedback as an edit. Keep everything from the current version that the feedback does not touch.",
			baseline, userText)
	}
	if digest := focusDigest(history); digest != "" {
		return fmt.Sprintf("Recent context:\n%s\n\nRequest:\n%s", digest, userText)
	}
	return userText
}

// focusDigest summarizes the last two user turns, each truncated.
func focusDigest(history []llm.Message) string {
	var turns []string
	for i := len(history) - 1; i >= 0 && len(turns) < 2; i-- {
		if history[i].Role != llm.RoleUser {
			continue
		}
		text := strings.TrimSpace(history[i].Content)
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > digestLimit {
			text = string(runes[:digestLimit])
		}
		turns = append(turns, "- "+text)
	}
	if len(turns) == 0 {
		return ""
	}
	// Restore chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return strings.Join(turns, "\n")
}
