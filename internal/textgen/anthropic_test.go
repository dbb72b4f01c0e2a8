package textgen

import (
	"context"
	"strings"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakeMessager struct {
	calls   int
	errs    []error
	message *anthropic.Message
}

func (f *fakeMessager) New(_ context.Context, _ anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.message, nil
}

func textMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
	}
}

func TestGenerateSuccess(t *testing.T) {
	fake := &fakeMessager{message: textMessage("Low risk buyer.")}
	g := &Generator{messages: fake, model: anthropic.ModelClaudeSonnet4_20250514}

	got, err := g.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Low risk buyer." {
		t.Fatalf("unexpected narrative: %q", got)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 call, got %d", fake.calls)
	}
}

func TestGenerateRetriesServerError(t *testing.T) {
	fake := &fakeMessager{
		errs:    []error{assertErr("status code: 500 internal"), nil},
		message: textMessage("Recovered."),
	}
	g := &Generator{messages: fake, model: anthropic.ModelClaudeSonnet4_20250514}

	got, err := g.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Recovered." {
		t.Fatalf("unexpected narrative: %q", got)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestGenerateClientErrorDoesNotRetry(t *testing.T) {
	fake := &fakeMessager{errs: []error{assertErr("status code: 400 bad request")}}
	g := &Generator{messages: fake, model: anthropic.ModelClaudeSonnet4_20250514}

	_, err := g.Generate(context.Background(), "summarize")
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 call, got %d", fake.calls)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	fake := &fakeMessager{message: textMessage("   ")}
	g := &Generator{messages: fake, model: anthropic.ModelClaudeSonnet4_20250514}

	_, err := g.Generate(context.Background(), "summarize")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestClassifyTransportErrorAvoidsBroadNumericMatch(t *testing.T) {
	if got := classifyTransportError(assertErr("failed after 5 retries while waiting 4 seconds")); got != failureServer {
		t.Fatalf("expected default server classification, got %v", got)
	}
	if got := classifyTransportError(assertErr("status code: 429 too many requests")); got != failureRateLimit {
		t.Fatalf("expected rate limit classification, got %v", got)
	}
	if got := classifyTransportError(assertErr("status code: 400 bad request")); got != failureClient {
		t.Fatalf("expected client failure classification, got %v", got)
	}
}

func TestBackoffDelay(t *testing.T) {
	if backoffDelay(1).Seconds() != 1 {
		t.Fatal("attempt 1 should be 1s")
	}
	if backoffDelay(2).Seconds() != 2 {
		t.Fatal("attempt 2 should be 2s")
	}
}

func TestNewGeneratorFromEnvMissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewGeneratorFromEnv(); err == nil {
		t.Fatal("expected error when ANTHROPIC_API_KEY is unset")
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
