package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/storage/memory"
)

func seedUser(t *testing.T, store *memory.Storage, username string, solves ...model.SolvedEntry) {
	t.Helper()
	user := &model.User{
		ID:               model.UserID("id-" + username),
		Username:         username,
		JoinDate:         time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		SolvedChallenges: solves,
	}
	require.NoError(t, store.SaveUser(context.Background(), user))
}

func solve(challenge string, points int, minute int) model.SolvedEntry {
	return model.SolvedEntry{
		ChallengeID: model.ChallengeID(challenge),
		Flag:        "flag{" + challenge + "}",
		Points:      points,
		Timestamp:   time.Date(2024, 3, 2, 12, minute, 0, 0, time.UTC),
	}
}

func TestStandingsRankedByPoints(t *testing.T) {
	store := memory.New()
	seedUser(t, store, "alice", solve("easy-1", 100, 0))
	seedUser(t, store, "bob", solve("easy-1", 100, 1), solve("medium-1", 200, 2))
	seedUser(t, store, "carol")

	standings, err := New(store).Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 3)

	assert.Equal(t, Standing{Rank: 1, Username: "bob", TotalPoints: 300, SolveCount: 2}, standings[0])
	assert.Equal(t, Standing{Rank: 2, Username: "alice", TotalPoints: 100, SolveCount: 1}, standings[1])
	assert.Equal(t, Standing{Rank: 3, Username: "carol", TotalPoints: 0, SolveCount: 0}, standings[2])
}

func TestStandingsTieBreaksOnEarlierSolve(t *testing.T) {
	store := memory.New()
	seedUser(t, store, "late", solve("easy-1", 100, 30))
	seedUser(t, store, "early", solve("easy-1", 100, 5))

	standings, err := New(store).Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 2)

	assert.Equal(t, "early", standings[0].Username)
	assert.Equal(t, "late", standings[1].Username)
}

func TestStandingsEmpty(t *testing.T) {
	standings, err := New(memory.New()).Standings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, standings)
}
