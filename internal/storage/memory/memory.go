// Package memory provides the development Store backed by in-process maps.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

// Store keeps everything in maps guarded by one mutex. Construct one per
// process (or per test); there is no module-level singleton.
type Store struct {
	mu sync.Mutex

	users    map[int]*domain.User
	projects map[int]*domain.Project
	messages map[int]*domain.ChatMessage

	nextUserID    int
	nextProjectID int
	nextMessageID int
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store seeded with the demo user (id 1), matching the
// development default the application boots with.
func New() *Store {
	s := &Store{
		users:         make(map[int]*domain.User),
		projects:      make(map[int]*domain.Project),
		messages:      make(map[int]*domain.ChatMessage),
		nextUserID:    1,
		nextProjectID: 0,
		nextMessageID: 0,
	}

	key := "demo-api-key"
	s.users[1] = &domain.User{
		ID:        1,
		Username:  "demo_user",
		Password:  "password123",
		APIKey:    &key,
		CreatedAt: time.Now(),
	}
	return s
}

func (s *Store) GetUser(ctx context.Context, id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, in domain.InsertUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	u := &domain.User{
		ID:        s.nextUserID,
		Username:  in.Username,
		Password:  in.Password,
		APIKey:    in.APIKey,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *Store) UpdateUserAPIKey(ctx context.Context, userID int, apiKey string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.APIKey = &apiKey
	cp := *u
	return &cp, nil
}

func (s *Store) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListProjectsByUser(ctx context.Context, userID int) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Project, 0, 16)
	for _, p := range s.projects {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) CreateProject(ctx context.Context, in domain.InsertProject) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.nextProjectID++
	p := &domain.Project{
		ID:         s.nextProjectID,
		Title:      in.Title,
		Content:    in.Content,
		StudioType: in.StudioType,
		UserID:     in.UserID,
		TokensUsed: in.TokensUsed,
		Metadata:   in.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int, upd domain.ProjectUpdate) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.StudioType != nil {
		p.StudioType = *upd.StudioType
	}
	if upd.TokensUsed != nil {
		p.TokensUsed = *upd.TokensUsed
	}
	if upd.Metadata != nil {
		p.Metadata = upd.Metadata
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

func (s *Store) ListChatMessages(ctx context.Context, projectID int) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, 0, 16)
	for _, m := range s.messages {
		if m.ProjectID != nil && *m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateChatMessage(ctx context.Context, in domain.InsertChatMessage) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	m := &domain.ChatMessage{
		ID:        s.nextMessageID,
		ProjectID: in.ProjectID,
		Content:   in.Content,
		Sender:    in.Sender,
		Timestamp: time.Now(),
	}
	s.messages[m.ID] = m
	cp := *m
	return &cp, nil
}

func (s *Store) DeleteOrphanMessages(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, m := range s.messages {
		if m.ProjectID == nil {
			continue
		}
		if _, ok := s.projects[*m.ProjectID]; !ok {
			delete(s.messages, id)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) HealthCheck(ctx context.Context) bool { return true }

func (s *Store) Close() {}
