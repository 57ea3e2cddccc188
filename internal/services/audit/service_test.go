package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagvault/flagvault/internal/dependencies/mocks"
	"github.com/flagvault/flagvault/internal/storage/memory"
)

func TestRecordStampsAttempt(t *testing.T) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))
	svc := New(store, clk)
	ctx := context.Background()

	err := svc.Record(ctx, "alice", "easy-1", "flag{wrong}", false)
	require.NoError(t, err)

	attempts, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	attempt := attempts[0]
	assert.Equal(t, "alice", attempt.PlayerName)
	assert.Equal(t, "flag{wrong}", attempt.SubmittedFlag)
	assert.False(t, attempt.IsCorrect)
	assert.Equal(t, clk.CurrentTime, attempt.Timestamp)
}

func TestRecentNewestFirst(t *testing.T) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))
	svc := New(store, clk)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, svc.Record(ctx, name, "easy-1", "flag{x}", false))
		clk.Advance(time.Minute)
	}

	attempts, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "carol", attempts[0].PlayerName)
	assert.Equal(t, "bob", attempts[1].PlayerName)
}

func TestRecordKeepsCorrectAndIncorrect(t *testing.T) {
	store := memory.New()
	svc := New(store, mocks.NewMockClock(time.Now()))
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", "easy-1", "flag{typ3_c03rc10n_m4gic}", true))
	require.NoError(t, svc.Record(ctx, "alice", "easy-1", "flag{typ3_c03rc10n_m4gic}", true))

	attempts, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}
