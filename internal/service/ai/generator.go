package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

// Options tunes the outbound request policy. A nil Temperature means
// DefaultTemperature; zero is a valid setting.
type Options struct {
	Temperature *float32
	MaxTokens   int
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Temperature == nil {
		t := float32(DefaultTemperature)
		o.Temperature = &t
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	return o
}

// Generator turns a website description into a validated GeneratedWebsite
// with exactly one model call per invocation.
type Generator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
	opts  Options
}

// NewGenerator compiles the prompt chain around chatModel.
func NewGenerator(ctx context.Context, chatModel model.ChatModel, opts Options) (*Generator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Generator{chain: runnable, opts: opts.withDefaults()}, nil
}

// Generate runs one generation. Every failure is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, userPrompt string) (chat.GeneratedWebsite, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	input := map[string]any{
		"system": systemPrompt,
		"prompt": userPrompt,
	}

	started := time.Now()
	msg, err := g.chain.Invoke(ctx, input, compose.WithChatModelOption(
		model.WithTemperature(*g.opts.Temperature),
		model.WithMaxTokens(g.opts.MaxTokens),
	))
	if err != nil {
		log.Printf("[ai] model call failed after %s: %v", time.Since(started).Round(time.Millisecond), err)
		return chat.GeneratedWebsite{}, transportError(err)
	}
	if msg == nil {
		return chat.GeneratedWebsite{}, malformedError(errors.New("empty model message"))
	}

	site, err := ParseWebsite(msg.Content)
	if err != nil {
		log.Printf("[ai] rejected model output (%d bytes): %v", len(msg.Content), err)
		return chat.GeneratedWebsite{}, err
	}

	log.Printf("[ai] generated %q in %s, html=%d css=%d js=%d", site.Title, time.Since(started).Round(time.Millisecond), len(site.HTML), len(site.CSS), len(site.JavaScript))
	return site, nil
}

// websitePayload is the schema the model is asked to produce. Pointer
// fields distinguish an absent key from an empty string.
type websitePayload struct {
	HTML        *string `json:"html"`
	CSS         *string `json:"css"`
	JavaScript  *string `json:"javascript"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ParseWebsite validates raw model output against the five-field schema.
func ParseWebsite(content string) (chat.GeneratedWebsite, error) {
	raw, err := extractObject(content)
	if err != nil {
		return chat.GeneratedWebsite{}, malformedError(err)
	}

	var payload websitePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return chat.GeneratedWebsite{}, malformedError(err)
	}

	var missing []string
	if isBlank(payload.HTML) {
		missing = append(missing, "html")
	}
	if isBlank(payload.CSS) {
		missing = append(missing, "css")
	}
	if isBlank(payload.JavaScript) {
		missing = append(missing, "javascript")
	}
	if len(missing) > 0 {
		return chat.GeneratedWebsite{}, incompleteError(missing)
	}

	return chat.GeneratedWebsite{
		HTML:        *payload.HTML,
		CSS:         *payload.CSS,
		JavaScript:  *payload.JavaScript,
		Title:       valueOr(payload.Title, chat.DefaultTitle),
		Description: valueOr(payload.Description, chat.DefaultDescription),
	}, nil
}

// extractObject trims any prose or code fence around the outermost JSON object.
func extractObject(content string) ([]byte, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, errors.New("empty response")
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errors.New("missing json object")
	}

	raw := []byte(trimmed[start : end+1])
	if !json.Valid(raw) {
		return nil, errors.New("invalid json object")
	}
	return bytes.TrimSpace(raw), nil
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// Disabled is a stand-in generator used when no model is configured.
type Disabled struct{}

// Generate always fails with a transport error wrapping ErrNotConfigured.
func (Disabled) Generate(context.Context, string) (chat.GeneratedWebsite, error) {
	return chat.GeneratedWebsite{}, transportError(ErrNotConfigured)
}
