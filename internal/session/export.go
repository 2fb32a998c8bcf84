package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

// ExportedSession is the downloadable artifact shape. Export is pure: it
// reads session state and never mutates it.
type ExportedSession struct {
	StudioType domain.StudioType `json:"studioType"`
	Messages   []Message         `json:"messages"`
	Metrics    Metrics           `json:"metrics"`
	ExportedAt time.Time         `json:"exportedAt"`
}

// Export serializes the session to pretty-printed JSON.
func (c *Controller) Export() ([]byte, error) {
	c.mu.Lock()
	snap := ExportedSession{
		StudioType: c.studioType,
		Messages:   make([]Message, len(c.messages)),
		Metrics:    c.metrics,
		ExportedAt: time.Now().UTC(),
	}
	copy(snap.Messages, c.messages)
	c.mu.Unlock()

	return json.MarshalIndent(snap, "", "  ")
}

// ExportFilename is the artifact name convention the UI downloads under.
func (c *Controller) ExportFilename() string {
	return fmt.Sprintf("studio-chat-%s-%s.json", c.StudioType(), time.Now().Format("2006-01-02"))
}

// Import restores an exported session: message list (order and content
// preserved), metrics and studio type. The controller returns to idle.
func (c *Controller) Import(data []byte) error {
	var snap ExportedSession
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode exported session: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingResponse {
		return ErrBusy
	}
	c.studioType = snap.StudioType
	c.messages = make([]Message, len(snap.Messages))
	copy(c.messages, snap.Messages)
	c.metrics = snap.Metrics
	c.state = StateIdle
	return nil
}
