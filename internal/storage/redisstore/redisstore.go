// Package redisstore provides a Store on Redis, for deployments that want
// shared state without running Postgres. Rows are JSON values, ids come from
// INCR counters, and per-owner sets index projects and messages.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

const (
	userKeyPrefix     = "studio:user:"     // studio:user:{id} -> user JSON
	usernameKeyPrefix = "studio:username:" // studio:username:{name} -> user id
	projectKeyPrefix  = "studio:project:"  // studio:project:{id} -> project JSON
	messageKeyPrefix  = "studio:message:"  // studio:message:{id} -> message JSON

	userProjectsPrefix  = "studio:user-projects:"    // set of project ids per user
	projectMessagesPref = "studio:project-messages:" // set of message ids per project
	allMessagesKey      = "studio:messages"          // set of every message id
	seqUserKey          = "studio:seq:user"
	seqProjectKey       = "studio:seq:project"
	seqMessageKey       = "studio:seq:message"
)

type Store struct {
	client *redis.Client
}

var _ storage.Store = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// SeedDemoUser writes the demo user (id 1) unless one already exists and
// bumps the user counter past it.
func (s *Store) SeedDemoUser(ctx context.Context) error {
	key := "demo-api-key"
	u := domain.User{
		ID:        1,
		Username:  "demo_user",
		Password:  "password123",
		APIKey:    &key,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.userKey(1), data, 0).Result()
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	if ok {
		pipe := s.client.Pipeline()
		pipe.SetNX(ctx, usernameKeyPrefix+u.Username, "1", 0)
		pipe.SetNX(ctx, seqUserKey, "1", 0)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("seed demo user index: %w", err)
		}
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*domain.User, error) {
	data, err := s.client.Get(ctx, s.userKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	idStr, err := s.client.Get(ctx, usernameKeyPrefix+username).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("bad user index value %q: %w", idStr, err)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) CreateUser(ctx context.Context, in domain.InsertUser) (*domain.User, error) {
	id, err := s.client.Incr(ctx, seqUserKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next user id: %w", err)
	}
	u := domain.User{
		ID:        int(id),
		Username:  in.Username,
		Password:  in.Password,
		APIKey:    in.APIKey,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.userKey(u.ID), data, 0)
	pipe.Set(ctx, usernameKeyPrefix+u.Username, strconv.Itoa(u.ID), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateUserAPIKey(ctx context.Context, userID int, apiKey string) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.APIKey = &apiKey

	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.userKey(userID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("update api key: %w", err)
	}
	return u, nil
}

func (s *Store) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	data, err := s.client.Get(ctx, s.projectKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return &p, nil
}

func (s *Store) ListProjectsByUser(ctx context.Context, userID int) ([]domain.Project, error) {
	ids, err := s.client.SMembers(ctx, s.userProjectsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list project ids: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		p, err := s.GetProject(ctx, id)
		if err == domain.ErrProjectNotFound {
			// index entry outlived the row; skip
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
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
	id, err := s.client.Incr(ctx, seqProjectKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next project id: %w", err)
	}
	now := time.Now()
	p := domain.Project{
		ID:         int(id),
		Title:      in.Title,
		Content:    in.Content,
		StudioType: in.StudioType,
		UserID:     in.UserID,
		TokensUsed: in.TokensUsed,
		Metadata:   in.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.projectKey(p.ID), data, 0)
	if p.UserID != nil {
		pipe.SAdd(ctx, s.userProjectsKey(*p.UserID), strconv.Itoa(p.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int, upd domain.ProjectUpdate) (*domain.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
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

	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.projectKey(id), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) (bool, error) {
	p, err := s.GetProject(ctx, id)
	if err == domain.ErrProjectNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.projectKey(id))
	if p.UserID != nil {
		pipe.SRem(ctx, s.userProjectsKey(*p.UserID), strconv.Itoa(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return true, nil
}

func (s *Store) ListChatMessages(ctx context.Context, projectID int) ([]domain.ChatMessage, error) {
	ids, err := s.client.SMembers(ctx, s.projectMessagesKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list message ids: %w", err)
	}

	out := make([]domain.ChatMessage, 0, len(ids))
	for _, idStr := range ids {
		data, err := s.client.Get(ctx, messageKeyPrefix+idStr).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get message: %w", err)
		}
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateChatMessage(ctx context.Context, in domain.InsertChatMessage) (*domain.ChatMessage, error) {
	id, err := s.client.Incr(ctx, seqMessageKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next message id: %w", err)
	}
	m := domain.ChatMessage{
		ID:        int(id),
		ProjectID: in.ProjectID,
		Content:   in.Content,
		Sender:    in.Sender,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, messageKeyPrefix+strconv.Itoa(m.ID), data, 0)
	pipe.SAdd(ctx, allMessagesKey, strconv.Itoa(m.ID))
	if m.ProjectID != nil {
		pipe.SAdd(ctx, s.projectMessagesKey(*m.ProjectID), strconv.Itoa(m.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &m, nil
}

func (s *Store) DeleteOrphanMessages(ctx context.Context) (int, error) {
	ids, err := s.client.SMembers(ctx, allMessagesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("list messages: %w", err)
	}

	removed := 0
	for _, idStr := range ids {
		data, err := s.client.Get(ctx, messageKeyPrefix+idStr).Result()
		if err == redis.Nil {
			s.client.SRem(ctx, allMessagesKey, idStr)
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("get message: %w", err)
		}
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return removed, fmt.Errorf("unmarshal message: %w", err)
		}
		if m.ProjectID == nil {
			continue
		}
		exists, err := s.client.Exists(ctx, s.projectKey(*m.ProjectID)).Result()
		if err != nil {
			return removed, fmt.Errorf("check project: %w", err)
		}
		if exists > 0 {
			continue
		}

		pipe := s.client.Pipeline()
		pipe.Del(ctx, messageKeyPrefix+idStr)
		pipe.SRem(ctx, allMessagesKey, idStr)
		pipe.SRem(ctx, s.projectMessagesKey(*m.ProjectID), idStr)
		if _, err := pipe.Exec(ctx); err != nil {
			return removed, fmt.Errorf("delete orphan message: %w", err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) HealthCheck(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func (s *Store) Close() {
	_ = s.client.Close()
}

func (s *Store) userKey(id int) string            { return userKeyPrefix + strconv.Itoa(id) }
func (s *Store) projectKey(id int) string         { return projectKeyPrefix + strconv.Itoa(id) }
func (s *Store) userProjectsKey(id int) string    { return userProjectsPrefix + strconv.Itoa(id) }
func (s *Store) projectMessagesKey(id int) string { return projectMessagesPref + strconv.Itoa(id) }
