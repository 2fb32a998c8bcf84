package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := New(client)
	require.NoError(t, s.SeedDemoUser(context.Background()))
	return s
}

func intPtr(v int) *int { return &v }

func TestSeedDemoUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "demo_user", u.Username)
	assert.True(t, u.HasValidAPIKey())

	// Seeding twice must not clobber existing state.
	require.NoError(t, s.SeedDemoUser(ctx))
	again, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, u.CreatedAt.Unix(), again.CreatedAt.Unix())
}

func TestCreateUser_CounterSkipsDemoUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.InsertUser{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 2, u.ID)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, byName.ID)
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, domain.InsertProject{
		Title: "draft", Content: "hello", StudioType: domain.StudioText, UserID: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Title)

	title := "renamed"
	updated, err := s.UpdateProject(ctx, p.ID, domain.ProjectUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "hello", updated.Content)

	items, err := s.ListProjectsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	deleted, err := s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	items, err = s.ListProjectsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateProject_NotFound(t *testing.T) {
	s := newTestStore(t)
	title := "x"
	_, err := s.UpdateProject(context.Background(), 99, domain.ProjectUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestChatMessages_OrderAndOrphanSweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, domain.InsertProject{
		Title: "chat", Content: "c", StudioType: domain.StudioCode, UserID: intPtr(1),
	})
	require.NoError(t, err)

	for _, content := range []string{"one", "two"} {
		_, err := s.CreateChatMessage(ctx, domain.InsertChatMessage{
			ProjectID: &p.ID, Content: content, Sender: domain.SenderUser,
		})
		require.NoError(t, err)
	}

	msgs, err := s.ListChatMessages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)

	_, err = s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)

	removed, err := s.DeleteOrphanMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	msgs, err = s.ListChatMessages(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestUpdateUserAPIKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.UpdateUserAPIKey(ctx, 1, "rotated")
	require.NoError(t, err)
	require.NotNil(t, u.APIKey)
	assert.Equal(t, "rotated", *u.APIKey)

	_, err = s.UpdateUserAPIKey(ctx, 7, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	assert.True(t, s.HealthCheck(context.Background()))
}
