// Package generation serves canned studio responses, whole or as a simulated
// token stream. The stream sits behind TokenSource so a genuine incremental
// backend can replace the word splitter without touching the HTTP layer.
package generation

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultChunkDelay is the fixed pause between streamed words.
const DefaultChunkDelay = 50 * time.Millisecond

// Result is one whole generated response with synthetic accounting figures.
// TokensUsed and ProcessingTime are pseudo-random, not measured; the fields
// are reserved for a real metering mechanism once a genuine backend exists.
type Result struct {
	Content        string `json:"content"`
	TokensUsed     int    `json:"tokensUsed"`
	ProcessingTime int    `json:"processingTime"`
}

// TokenSource yields successive chunks of one generated response.
// Next blocks for the inter-chunk delay and honors ctx cancellation.
type TokenSource interface {
	Next(ctx context.Context) (chunk string, done bool, err error)
}

// Service is stateless between calls; every request is computed
// independently from the fixed response tables.
type Service struct {
	chunkDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Service)

// WithChunkDelay overrides the streaming delay (tests use a tiny value).
func WithChunkDelay(d time.Duration) Option {
	return func(s *Service) { s.chunkDelay = d }
}

// WithSeed makes response selection deterministic.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.rng = rand.New(rand.NewSource(seed)) }
}

func New(opts ...Option) *Service {
	s := &Service{
		chunkDelay: DefaultChunkDelay,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate picks one canned response for the studio and attaches synthetic
// token and timing figures in the ranges the dashboard expects.
func (s *Service) Generate(studioType string) Result {
	responses := ResponsesFor(studioType)

	s.mu.Lock()
	content := responses[s.rng.Intn(len(responses))]
	tokens := s.rng.Intn(500) + 100
	processing := s.rng.Intn(200) + 50
	s.mu.Unlock()

	return Result{
		Content:        content,
		TokensUsed:     tokens,
		ProcessingTime: processing,
	}
}

// Stream picks one canned response and returns a TokenSource that emits it
// word by word with the configured delay between words.
func (s *Service) Stream(studioType string) TokenSource {
	responses := ResponsesFor(studioType)

	s.mu.Lock()
	content := responses[s.rng.Intn(len(responses))]
	s.mu.Unlock()

	return newWordSource(content, s.chunkDelay)
}

// wordSource streams a fixed string one word at a time. Words keep their
// trailing space except the last, so concatenating chunks reproduces the
// original response exactly.
type wordSource struct {
	words []string
	pos   int
	delay time.Duration
}

func newWordSource(content string, delay time.Duration) *wordSource {
	return &wordSource{
		words: strings.Split(content, " "),
		delay: delay,
	}
}

func (w *wordSource) Next(ctx context.Context) (string, bool, error) {
	if w.pos >= len(w.words) {
		return "", true, nil
	}

	if w.pos > 0 && w.delay > 0 {
		timer := time.NewTimer(w.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", true, ctx.Err()
		case <-timer.C:
		}
	}

	chunk := w.words[w.pos]
	w.pos++
	last := w.pos >= len(w.words)
	if !last {
		chunk += " "
	}
	return chunk, last, nil
}
