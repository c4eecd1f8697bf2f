package generator

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// AnyLLM is the concrete Generator adapter backed by any-llm-go. It is one
// pluggable implementation behind the Generator interface — any-llm-go's
// own multi-provider support
// is how a deployment points the same core at OpenAI, Anthropic, Gemini, or
// a local Ollama model without touching the orchestrator.
type AnyLLM struct {
	backend anyllmlib.Provider
	model   string
}

// NewAnyLLM builds a Generator for the given provider name ("openai",
// "anthropic", "gemini", "ollama") and model. Without an explicit API key
// option the backend falls back to the provider's standard environment
// variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).
func NewAnyLLM(providerName, model string, opts ...anyllmlib.Option) (*AnyLLM, error) {
	if providerName == "" {
		return nil, fmt.Errorf("generator: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("generator: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: create %q backend: %w", providerName, err)
	}
	return &AnyLLM{backend: backend, model: model}, nil
}

func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama", providerName)
	}
}

func (a *AnyLLM) buildParams(req Request) anyllmlib.CompletionParams {
	messages := make([]anyllmlib.Message, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		messages = append(messages, anyllmlib.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleUser, Content: req.UserQuery})

	params := anyllmlib.CompletionParams{Model: a.model, Messages: messages}
	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}
	return params
}

// Generate implements Generator.
func (a *AnyLLM) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := a.backend.Completion(ctx, a.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices in response", ErrGeneratorUnavailable)
	}

	out := &Response{Text: resp.Choices[0].Message.ContentString()}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}
	}
	return out, nil
}

// Stream implements Generator. Each any-llm-go chunk's delta content is
// forwarded as an EventChunk; the terminal any-llm-go error (if any) or a
// finish reason closes the channel with EventDone/EventError.
func (a *AnyLLM) Stream(ctx context.Context, req Request) (<-chan Event, error) {
	backendChunks, backendErrs := a.backend.CompletionStream(ctx, a.buildParams(req))

	out := make(chan Event, 32)
	go func() {
		defer close(out)
		var usage *Usage
		for chunk := range backendChunks {
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta
			if delta.Content != "" {
				select {
				case out <- Event{Type: EventChunk, Text: delta.Content}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := <-backendErrs; err != nil {
			select {
			case out <- Event{Type: EventError, Err: fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- Event{Type: EventDone, Usage: usage}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}
