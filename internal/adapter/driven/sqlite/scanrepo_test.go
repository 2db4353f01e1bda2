package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

func TestScanRepo_SaveAndRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanRepo(db)
	ctx := context.Background()

	rep := &model.ScanReport{
		RunID:                  "run-1",
		Timestamp:              time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		EdgeFound:              true,
		FirefoxProfilesScanned: 2,
		EntriesDecrypted:       7,
		Errors:                 []string{"one", "two"},
		ElapsedMS:              120,
	}
	require.NoError(t, repo.Save(ctx, rep))

	records, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, rep.Timestamp, rec.StartedAt)
	assert.False(t, rec.DryRun)
	assert.False(t, rec.ChromeFound)
	assert.True(t, rec.EdgeFound)
	assert.Equal(t, 2, rec.FirefoxProfilesScanned)
	assert.Equal(t, 7, rec.EntriesDecrypted)
	assert.Equal(t, 2, rec.ErrorCount)
	assert.Equal(t, int64(120), rec.ElapsedMS)
}

func TestScanRepo_RecentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanRepo(db)
	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, repo.Save(ctx, &model.ScanReport{RunID: id, Timestamp: time.Now().UTC()}))
	}

	records, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-c", records[0].RunID)
	assert.Equal(t, "run-b", records[1].RunID)
}

func TestScanRepo_RecentEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanRepo(db)

	records, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScanRepo_DryRunRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanRepo(db)
	ctx := context.Background()

	rep := &model.ScanReport{RunID: "run-dry", Timestamp: time.Now().UTC().Truncate(time.Second), DryRun: true}
	require.NoError(t, repo.Save(ctx, rep))

	records, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].DryRun)
}
