package janitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-creative-studio/studio-backend/internal/storage/memory"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

func TestSweepOnce(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	userID := 1
	p, err := store.CreateProject(ctx, domain.InsertProject{
		Title: "doomed", Content: "x", StudioType: domain.StudioText, UserID: &userID,
	})
	require.NoError(t, err)

	_, err = store.CreateChatMessage(ctx, domain.InsertChatMessage{
		ProjectID: &p.ID, Content: "hi", Sender: domain.SenderUser,
	})
	require.NoError(t, err)

	_, err = store.DeleteProject(ctx, p.ID)
	require.NoError(t, err)

	New(store, "").SweepOnce(ctx)

	msgs, err := store.ListChatMessages(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestStartStop(t *testing.T) {
	j := New(memory.New(), "@every 1h")
	require.NoError(t, j.Start())
	j.Stop()
}

func TestStart_BadSchedule(t *testing.T) {
	j := New(memory.New(), "not a schedule")
	assert.Error(t, j.Start())
}
