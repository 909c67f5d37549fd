// Package summarize rewrites raw article descriptions into short
// publish captions, via an OpenAI model when a key is configured and
// a deterministic local fallback otherwise.
package summarize

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is the chat model used for summaries.
	DefaultModel = "gpt-4o-mini"
	// DefaultMaxLength is the target caption length in characters for
	// the fallback path and the word budget hinted to the model.
	DefaultMaxLength = 150
)

// ctas are appended to fallback captions for engagement variety.
var ctas = []string{
	"Komen pendapatmu di bawah, ya!",
	"Tag temen yang harus tahu!",
	"Share ke grupmu, bro!",
	"Apa sih menurutmu? Tulis di kolom komen!",
}

// Summarizer produces caption text from a description and keyword
// string. Summarize never fails: any API problem falls back to a local
// truncation with a pseudo-random call-to-action suffix.
type Summarizer struct {
	// Model is the chat model name. Empty uses DefaultModel.
	Model string
	// MaxLength is the target caption length. Zero uses DefaultMaxLength.
	MaxLength int

	client  openai.Client
	enabled bool
	rng     *rand.Rand
}

// New creates a summarizer. An empty apiKey disables the API path
// entirely; the deterministic fallback applies.
func New(apiKey string) *Summarizer {
	s := &Summarizer{
		Model:     DefaultModel,
		MaxLength: DefaultMaxLength,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if apiKey != "" {
		s.client = openai.NewClient(option.WithAPIKey(apiKey))
		s.enabled = true
	}
	return s
}

// Summarize returns caption text for the given description and
// keywords. The error path is internal: on any API failure the local
// fallback caption is returned instead.
func (s *Summarizer) Summarize(ctx context.Context, description, keywords string) string {
	if !s.enabled {
		return s.fallback(description)
	}

	caption, err := s.complete(ctx, description, keywords)
	if err != nil {
		log.Printf("reelsync: summarization failed, using fallback: %v", err)
		return s.fallback(description)
	}
	return caption
}

func (s *Summarizer) complete(ctx context.Context, description, keywords string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following news text in at most %d words, in a casual tone, "+
			"as if telling a friend. Work the keywords %q in naturally for SEO, use one or "+
			"two fitting emoticons, and end with one short call to action. Keep it to at "+
			"most one paragraph of two or three sentences.\n\nText: %s",
		s.maxLength(), keywords, description,
	)

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write casual, SEO-friendly news summaries for social video captions."),
			openai.UserMessage(prompt),
		},
		Model:       s.model(),
		MaxTokens:   openai.Int(200),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		return "", fmt.Errorf("model returned empty caption")
	}
	return caption, nil
}

// fallback truncates the description and appends a pseudo-randomly
// chosen call to action.
func (s *Summarizer) fallback(description string) string {
	runes := []rune(description)
	if max := s.maxLength(); len(runes) > max {
		runes = runes[:max]
	}
	summary := strings.TrimSpace(string(runes)) + "..."
	return summary + "\n\n" + ctas[s.rng.Intn(len(ctas))]
}

func (s *Summarizer) model() string {
	if s.Model != "" {
		return s.Model
	}
	return DefaultModel
}

func (s *Summarizer) maxLength() int {
	if s.MaxLength > 0 {
		return s.MaxLength
	}
	return DefaultMaxLength
}
