// Package storage defines the persistence contract for users, projects and
// chat messages, with interchangeable in-memory, Postgres and Redis backends.
package storage

import (
	"context"

	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

// Store is the persistence capability the HTTP layer depends on. Validation
// happens at the boundary; the store only reports missing rows.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.InsertUser) (*domain.User, error)
	// UpdateUserAPIKey overwrites the stored provider key. The key is a
	// presence-only validity signal; no rotation or expiry exists.
	UpdateUserAPIKey(ctx context.Context, userID int, apiKey string) (*domain.User, error)

	// Projects
	GetProject(ctx context.Context, id int) (*domain.Project, error)
	// ListProjectsByUser returns projects sorted by UpdatedAt descending.
	ListProjectsByUser(ctx context.Context, userID int) ([]domain.Project, error)
	CreateProject(ctx context.Context, in domain.InsertProject) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int, upd domain.ProjectUpdate) (*domain.Project, error)
	// DeleteProject removes the project row only; messages are left behind
	// and reclaimed by the orphan sweep.
	DeleteProject(ctx context.Context, id int) (bool, error)

	// Chat messages
	// ListChatMessages returns messages in creation order ascending. A
	// project id with no rows (or no project) yields an empty list.
	ListChatMessages(ctx context.Context, projectID int) ([]domain.ChatMessage, error)
	CreateChatMessage(ctx context.Context, in domain.InsertChatMessage) (*domain.ChatMessage, error)

	// DeleteOrphanMessages removes messages whose project no longer exists
	// and reports how many were removed. Messages with a nil project id are
	// kept; they were never owned by a project.
	DeleteOrphanMessages(ctx context.Context) (int, error)

	// HealthCheck reports whether the backend can serve requests.
	HealthCheck(ctx context.Context) bool

	Close()
}
