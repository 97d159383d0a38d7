package quiz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"studyrag/internal/config"
	"studyrag/internal/llm"
)

type fakeChat struct {
	responses map[string]string // question ID substring -> response
	failOn    string
	prompts   []string
}

func (f *fakeChat) Generate(_ context.Context, _, prompt string, _ llm.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	for marker, resp := range f.responses {
		if strings.Contains(prompt, marker) {
			return resp, nil
		}
	}
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("model exploded")
	}
	return "no idea", nil
}

func (f *fakeChat) Stream(ctx context.Context, model, prompt string, opts llm.Options, _ func(string)) (string, error) {
	return f.Generate(ctx, model, prompt, opts)
}

type fakeProvider struct {
	context string
	err     error
	calls   int
}

func (f *fakeProvider) Context(_ context.Context, _ string, _ int) (string, error) {
	f.calls++
	return f.context, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{DefaultMode: "qwen-7b", NResults: 4}
}

func TestRunner_GradesEveryQuestion(t *testing.T) {
	chat := &fakeChat{responses: map[string]string{
		"effects run": "False. They run after paint.",
		"memo hook":   "(b) useMemo caches values.",
	}}
	provider := &fakeProvider{context: "docs about hooks"}
	runner := NewRunner(chat, provider, testConfig(), testLogger())

	questions := []Question{
		{ID: "TF-1", Type: TypeTF, Text: "effects run before paint"},
		{ID: "MC-1", Type: TypeMC, Text: "pick the memo hook", Choices: []string{"(a) useEffect", "(b) useMemo"}},
	}
	key := AnswerKey{
		"TF-1": {ID: "TF-1", Answer: "F"},
		"MC-1": {ID: "MC-1", Answer: "b"},
	}

	graded, err := runner.Run(context.Background(), questions, key, RunConfig{
		Mode: "qwen-7b", UseRetrieval: true, Grounded: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(graded) != 2 {
		t.Fatalf("expected 2 graded questions, got %d", len(graded))
	}
	for _, g := range graded {
		if g.Verdict != VerdictCorrect {
			t.Errorf("%s: expected correct, got %v (extracted %q)", g.Question.ID, g.Verdict, g.Extracted)
		}
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 retrieval calls, got %d", provider.calls)
	}
	for _, p := range chat.prompts {
		if !strings.Contains(p, "Documentation context:\ndocs about hooks") {
			t.Errorf("prompt missing retrieval context: %q", p)
		}
	}
}

func TestRunner_GenerationFailureBecomesSentinel(t *testing.T) {
	chat := &fakeChat{failOn: "doomed"}
	runner := NewRunner(chat, nil, testConfig(), testLogger())

	questions := []Question{{ID: "TF-1", Type: TypeTF, Text: "doomed question"}}
	key := AnswerKey{"TF-1": {ID: "TF-1", Answer: "T"}}

	graded, err := runner.Run(context.Background(), questions, key, RunConfig{Mode: "qwen-7b"})
	if err != nil {
		t.Fatalf("per-question failure should not abort the run: %v", err)
	}
	if !strings.HasPrefix(graded[0].Answer, "[error:") {
		t.Errorf("expected error sentinel answer, got %q", graded[0].Answer)
	}
	if graded[0].Verdict != VerdictIncorrect {
		t.Errorf("sentinel answers grade as incorrect, got %v", graded[0].Verdict)
	}
}

func TestRunner_RetrievalFailureDropsContext(t *testing.T) {
	chat := &fakeChat{responses: map[string]string{"anything": "True."}}
	provider := &fakeProvider{err: errors.New("store offline")}
	runner := NewRunner(chat, provider, testConfig(), testLogger())

	questions := []Question{{ID: "TF-1", Type: TypeTF, Text: "anything"}}
	key := AnswerKey{"TF-1": {ID: "TF-1", Answer: "T"}}

	graded, err := runner.Run(context.Background(), questions, key, RunConfig{
		Mode: "qwen-7b", UseRetrieval: true,
	})
	if err != nil {
		t.Fatalf("retrieval failure should not abort the run: %v", err)
	}
	if graded[0].Verdict != VerdictCorrect {
		t.Errorf("question should still be answered without context, got %v", graded[0].Verdict)
	}
	if strings.Contains(chat.prompts[0], "Documentation context:") {
		t.Errorf("prompt should not carry a context block after retrieval failure: %q", chat.prompts[0])
	}
}

func TestRunner_NoRetrievalSkipsProvider(t *testing.T) {
	chat := &fakeChat{}
	provider := &fakeProvider{context: "unused"}
	runner := NewRunner(chat, provider, testConfig(), testLogger())

	questions := []Question{{ID: "SA-1", Type: TypeSA, Text: "explain"}}

	_, err := runner.Run(context.Background(), questions, AnswerKey{}, RunConfig{
		Mode: "qwen-7b", UseRetrieval: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be queried when retrieval is off, got %d calls", provider.calls)
	}
}

func TestRunner_UnknownModeFailsEarly(t *testing.T) {
	runner := NewRunner(&fakeChat{}, nil, testConfig(), testLogger())
	_, err := runner.Run(context.Background(), nil, AnswerKey{}, RunConfig{Mode: "nope"})
	if err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}
