package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// runStoreContract checks ordering and limit behavior on an empty store.
func runStoreContract(t *testing.T, s FeedbackStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	const n = 8
	for i := 0; i < n; i++ {
		require.NoError(t, s.Insert(ctx, models.FeedbackRecord{
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
			Name:            fmt.Sprintf("user-%d", i),
			Email:           fmt.Sprintf("user-%d@example.com", i),
			FeedbackType:    models.FeedbackGeneral,
			FeedbackMessage: fmt.Sprintf("message %d", i),
		}))
	}

	recent, err := s.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i, rec := range recent {
		assert.Equal(t, fmt.Sprintf("user-%d", n-1-i), rec.Name, "position %d", i)
		assert.NotEmpty(t, rec.ID)
	}

	all, err := s.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, all, n)
	assert.Equal(t, "user-0", all[n-1].Name)

	none, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Insert(ctx, models.FeedbackRecord{
		Name:            "Alice",
		Email:           "a@x.com",
		FeedbackType:    models.FeedbackBugReport,
		FeedbackMessage: "crashes on load",
	}))
	latest, err := s.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "Alice", latest[0].Name)
	assert.Equal(t, models.FeedbackBugReport, latest[0].FeedbackType)
	assert.Equal(t, "crashes on load", latest[0].FeedbackMessage)
	assert.Equal(t, "user-7", latest[1].Name)
}
