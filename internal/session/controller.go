// Package session implements the client-side chat session: one message list,
// one set of usage metrics, and at most one in-flight generation call.
// Sessions are ephemeral; nothing here touches the persisted stores.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

// Controller states. The only suspension point is the generation call;
// everything else runs under the mutex and returns immediately.
const (
	StateIdle             = "idle"
	StateAwaitingResponse = "awaitingResponse"
)

var (
	// ErrBusy rejects a Send issued while a previous Send is in flight.
	ErrBusy = errors.New("a generation request is already in flight")
	// ErrAPIKeyRequired rejects a Send when no valid key is stored.
	ErrAPIKeyRequired = errors.New("api key required")
)

// Message is one client-side chat entry. IDs are opaque; they never reach
// the persisted chat_messages table.
type Message struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Sender     string    `json:"sender"`
	Timestamp  time.Time `json:"timestamp"`
	TokensUsed int       `json:"tokensUsed,omitempty"`
}

// Metrics accumulates usage for the session: tokens sum up, processing
// speed is last-value-wins.
type Metrics struct {
	TokensUsed      int `json:"tokensUsed"`
	ProcessingSpeed int `json:"processingSpeed"`
}

// Fixed welcome message per studio, shown as the single seed message.
func welcomeFor(studioType domain.StudioType) string {
	st, _ := domain.ParseStudioType(string(studioType))
	switch st {
	case domain.StudioCode:
		return "Welcome to the Code Generation Studio! I can help you write, debug, and optimize code. What programming challenge can I assist with?"
	case domain.StudioDocument:
		return "Welcome to the Document AI Studio! I can analyze, summarize, and extract insights from your documents. Upload a file or ask me anything!"
	case domain.StudioCreative:
		return "Welcome to the Creative Writing Studio! Let's craft amazing stories, poetry, or creative content together. What shall we create?"
	default:
		return "Welcome to the Text Generation Studio! I'm here to help you create compelling content. What would you like to work on today?"
	}
}

// Controller drives one chat session against the generation endpoint.
type Controller struct {
	client    *Client
	projectID *int

	mu         sync.Mutex
	studioType domain.StudioType
	state      string
	messages   []Message
	metrics    Metrics
	cancel     context.CancelFunc
}

// NewController returns a controller seeded with the studio's welcome
// message and zeroed metrics.
func NewController(client *Client, studioType domain.StudioType) *Controller {
	c := &Controller{
		client: client,
		state:  StateIdle,
	}
	c.Initialize(studioType)
	return c
}

// WithProject associates subsequent sends with a persisted project id.
func (c *Controller) WithProject(projectID int) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectID = &projectID
	return c
}

// Initialize reseeds the session for a studio: exactly one AI welcome
// message and zeroed metrics. Called on construction and on studio change.
func (c *Controller) Initialize(studioType domain.StudioType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.studioType = studioType
	c.messages = []Message{{
		ID:        uuid.NewString(),
		Content:   welcomeFor(studioType),
		Sender:    domain.SenderAI,
		Timestamp: time.Now(),
	}}
	c.metrics = Metrics{}
}

// Send posts one user message and blocks until the AI response arrives, the
// context is cancelled, or Cancel is called. The user message is appended
// optimistically and survives failures; no automatic retry happens.
//
// Guards, in order: a Send while one is in flight fails with ErrBusy; a Send
// without a stored key fails with ErrAPIKeyRequired before anything is
// appended.
func (c *Controller) Send(ctx context.Context, content string) (*Message, error) {
	callCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.state == StateAwaitingResponse {
		c.mu.Unlock()
		cancel()
		return nil, ErrBusy
	}
	// Claim the slot and attach the cancel func before the key check, so a
	// racing Send hits the guard and a Cancel aborts the validation call too.
	c.state = StateAwaitingResponse
	c.cancel = cancel
	studioType := c.studioType
	projectID := c.projectID
	c.mu.Unlock()

	valid, err := c.client.ValidateKey(callCtx)
	if err != nil || !valid {
		c.mu.Lock()
		c.state = StateIdle
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		if err != nil {
			return nil, err
		}
		return nil, ErrAPIKeyRequired
	}

	c.mu.Lock()
	c.messages = append(c.messages, Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
	})
	c.mu.Unlock()

	res, err := c.client.Generate(callCtx, GenerateRequest{
		Message:    content,
		StudioType: string(studioType),
		ProjectID:  projectID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		// The appended user message stays; the caller surfaces the failure
		// and the user resends manually.
		return nil, err
	}

	aiMsg := Message{
		ID:         uuid.NewString(),
		Content:    res.Content,
		Sender:     domain.SenderAI,
		Timestamp:  time.Now(),
		TokensUsed: res.TokensUsed,
	}
	c.messages = append(c.messages, aiMsg)
	c.metrics.TokensUsed += res.TokensUsed
	if res.ProcessingTime > 0 {
		c.metrics.ProcessingSpeed = res.ProcessingTime
	}
	return &aiMsg, nil
}

// Cancel aborts the in-flight generation call, if any. Idempotent: calling
// it twice, or after Send completed, is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Clear resets the session to the single welcome message and zeroed
// metrics. Persisted projects and messages are untouched.
func (c *Controller) Clear() {
	c.Initialize(c.StudioType())
}

// StudioType returns the session's current studio.
func (c *Controller) StudioType() domain.StudioType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.studioType
}

// State reports the controller state (idle or awaitingResponse).
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsStreaming reports whether a generation call is in flight.
func (c *Controller) IsStreaming() bool {
	return c.State() == StateAwaitingResponse
}

// Messages returns a copy of the message list in order.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Metrics returns the current usage metrics.
func (c *Controller) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}
