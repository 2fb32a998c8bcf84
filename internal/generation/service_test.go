package generation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsesFor_KnownStudios(t *testing.T) {
	assert.Equal(t, textResponses, ResponsesFor("text"))
	assert.Equal(t, codeResponses, ResponsesFor("code"))
	assert.Equal(t, documentResponses, ResponsesFor("document"))
	assert.Equal(t, creativeResponses, ResponsesFor("creative"))
}

func TestResponsesFor_UnknownFallsBackToText(t *testing.T) {
	for _, unknown := range []string{"", "video", "TEXT", "Code", "music"} {
		assert.Equal(t, textResponses, ResponsesFor(unknown), "studio type %q", unknown)
	}
}

func TestGenerate_DrawsFromStudioSet(t *testing.T) {
	svc := New(WithSeed(1))

	for i := 0; i < 20; i++ {
		res := svc.Generate("code")
		assert.Contains(t, codeResponses, res.Content)
		assert.GreaterOrEqual(t, res.TokensUsed, 100)
		assert.Less(t, res.TokensUsed, 600)
		assert.GreaterOrEqual(t, res.ProcessingTime, 50)
		assert.Less(t, res.ProcessingTime, 250)
	}
}

func TestGenerate_UnknownStudioNeverErrors(t *testing.T) {
	svc := New(WithSeed(2))
	res := svc.Generate("not-a-studio")
	assert.Contains(t, textResponses, res.Content)
}

func TestStream_ReassemblesWholeResponse(t *testing.T) {
	svc := New(WithSeed(3), WithChunkDelay(0))
	src := svc.Stream("creative")

	var b strings.Builder
	var chunks int
	for {
		chunk, done, err := src.Next(context.Background())
		require.NoError(t, err)
		b.WriteString(chunk)
		if chunk != "" {
			chunks++
		}
		if done {
			break
		}
	}

	assert.Contains(t, creativeResponses, b.String())
	assert.Greater(t, chunks, 1)
}

func TestStream_TerminalChunkHasNoTrailingSpace(t *testing.T) {
	src := newWordSource("alpha beta gamma", 0)
	ctx := context.Background()

	chunk, done, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alpha ", chunk)
	assert.False(t, done)

	chunk, done, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "beta ", chunk)
	assert.False(t, done)

	chunk, done, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gamma", chunk)
	assert.True(t, done)

	// Draining past the end keeps reporting done.
	chunk, done, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunk)
	assert.True(t, done)
}

func TestStream_CancelledContextStopsDelivery(t *testing.T) {
	src := newWordSource("alpha beta gamma", 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	_, done, err := src.Next(ctx)
	require.NoError(t, err)
	require.False(t, done)

	cancel()
	_, done, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, done)
}
