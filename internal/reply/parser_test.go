package reply

import (
	"strings"
	"testing"
)

func TestParsePromptMarkers(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  Kind
		wantIntro string
		wantBody  string
		wantOutro string
	}{
		{
			name:      "matched markers",
			raw:       "Great! [PROMPT]\nWrite a haiku about rain.\n[/PROMPT]\nLet me know if you want changes.",
			wantKind:  KindFinishedPrompt,
			wantIntro: "Great!",
			wantBody:  "Write a haiku about rain.",
			wantOutro: "Let me know if you want changes.",
		},
		{
			name:      "open marker without close",
			raw:       "Here you go:\n[PROMPT]\nSummarize the report.",
			wantKind:  KindFinishedPrompt,
			wantIntro: "Here you go:",
			wantBody:  "Summarize the report.",
			wantOutro: "",
		},
		{
			name:      "empty block between markers",
			raw:       "[PROMPT][/PROMPT]",
			wantKind:  KindFinishedPrompt,
			wantIntro: "",
			wantBody:  "",
			wantOutro: "",
		},
		{
			name:      "code fence fallback",
			raw:       "Intro text\n```\nDo the thing.\n```\nOutro text",
			wantKind:  KindFinishedPrompt,
			wantIntro: "Intro text",
			wantBody:  "Do the thing.",
			wantOutro: "Outro text",
		},
		{
			name:      "code fence with prompt tag",
			raw:       "```prompt\nDo the thing.\n```",
			wantKind:  KindFinishedPrompt,
			wantIntro: "",
			wantBody:  "Do the thing.",
			wantOutro: "",
		},
		{
			name:      "single fence is not a block",
			raw:       "Unbalanced ``` fence here",
			wantKind:  KindPlainText,
			wantIntro: "Unbalanced ``` fence here",
		},
		{
			name:      "markers win over fences",
			raw:       "[PROMPT]\nreal body\n[/PROMPT]\n```\nignored\n```",
			wantKind:  KindFinishedPrompt,
			wantIntro: "",
			wantBody:  "real body",
			wantOutro: "```\nignored\n```",
		},
		{
			name:      "no structure at all",
			raw:       "  just a chatty answer  ",
			wantKind:  KindPlainText,
			wantIntro: "just a chatty answer",
		},
		{
			name:     "empty input",
			raw:      "",
			wantKind: KindPlainText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Intro != tt.wantIntro {
				t.Errorf("Intro = %q, want %q", got.Intro, tt.wantIntro)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Outro != tt.wantOutro {
				t.Errorf("Outro = %q, want %q", got.Outro, tt.wantOutro)
			}
		})
	}
}

func TestParseClarification(t *testing.T) {
	raw := "Need details.\n[QUESTIONS]\n1. Audience?\n- beginners\n- experts\n[/QUESTIONS]"
	d := Parse(raw)
	if d.Kind != KindClarification {
		t.Fatalf("Kind = %v, want KindClarification", d.Kind)
	}
	if d.Intro != "Need details." {
		t.Errorf("Intro = %q", d.Intro)
	}
	if len(d.Questions) != 1 || d.Questions[0].Text != "Audience?" {
		t.Errorf("Questions = %+v", d.Questions)
	}

	both := "[PROMPT]\ndraft\n[/PROMPT]\n[QUESTIONS]\n1. Which model?\n[/QUESTIONS]"
	if got := Parse(both); got.Kind != KindClarification {
		t.Errorf("reply with both blocks parsed as %v, want KindClarification", got.Kind)
	}

	// A questions block that yields no questions falls through to the
	// prompt chain.
	broken := "[QUESTIONS]\nrandom text\n[/QUESTIONS]\n[PROMPT]\nbody\n[/PROMPT]"
	if got := Parse(broken); got.Kind != KindFinishedPrompt || got.Body != "body" {
		t.Errorf("unparsable questions block: got kind %v body %q", got.Kind, got.Body)
	}
}

func TestParseSegmentationRoundTrip(t *testing.T) {
	raw := "Before.\n[PROMPT]\nThe body.\n[/PROMPT]\nAfter."
	d := Parse(raw)

	rebuilt := d.Intro + "\n" + PromptOpen + "\n" + d.Body + "\n" + PromptClose + "\n" + d.Outro
	if rebuilt != strings.TrimSpace(raw) {
		t.Errorf("segmentation did not round-trip:\ngot  %q\nwant %q", rebuilt, raw)
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Question
	}{
		{
			name: "two questions with options",
			raw:  "[QUESTIONS]\n1. Target audience?\n- beginners\n- experts\n2. Desired tone?\n[/QUESTIONS]",
			want: []Question{
				{Text: "Target audience?", Options: []string{"beginners", "experts"}},
				{Text: "Desired tone?", Options: []string{SkipOption}},
			},
		},
		{
			name: "asterisk options and noise lines",
			raw:  "[QUESTIONS]\nsome preamble the model added\n1. Output length?\n* short\n* long\n[/QUESTIONS]",
			want: []Question{
				{Text: "Output length?", Options: []string{"short", "long"}},
			},
		},
		{
			name: "blank option discarded",
			raw:  "[QUESTIONS]\n1. Format?\n- bullets\n- \n[/QUESTIONS]",
			want: []Question{
				{Text: "Format?", Options: []string{"bullets"}},
			},
		},
		{
			name: "missing close marker",
			raw:  "[QUESTIONS]\n1. Audience?\n- anyone",
			want: nil,
		},
		{
			name: "missing open marker",
			raw:  "1. Audience?\n[/QUESTIONS]",
			want: nil,
		},
		{
			name: "blank block",
			raw:  "[QUESTIONS]\n\n[/QUESTIONS]",
			want: nil,
		},
		{
			name: "block with no question lines",
			raw:  "[QUESTIONS]\n- stray option\nrandom text\n[/QUESTIONS]",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuestions(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d questions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Text != tt.want[i].Text {
					t.Errorf("question %d text = %q, want %q", i, got[i].Text, tt.want[i].Text)
				}
				if strings.Join(got[i].Options, "|") != strings.Join(tt.want[i].Options, "|") {
					t.Errorf("question %d options = %v, want %v", i, got[i].Options, tt.want[i].Options)
				}
			}
		})
	}
}

func TestQuestionsIntro(t *testing.T) {
	raw := "Need a bit more detail first.\n[QUESTIONS]\n1. Who reads it?\n- me\n[/QUESTIONS]"
	if got := QuestionsIntro(raw); got != "Need a bit more detail first." {
		t.Errorf("QuestionsIntro = %q", got)
	}
	if got := QuestionsIntro("no markers"); got != "" {
		t.Errorf("QuestionsIntro without marker = %q, want empty", got)
	}
}
