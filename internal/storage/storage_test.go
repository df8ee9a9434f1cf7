package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadsym/internal/deadcode"
	"deadsym/internal/evidence"
	"deadsym/internal/grouping"
	"deadsym/internal/slogutil"
	"deadsym/internal/symbols"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "out", "deadsym.db"), slogutil.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult(runID string, started time.Time) *deadcode.Result {
	u := symbols.NewUniverse()
	for _, n := range []string{"logo", "frame_1", "frame_2", "orphan"} {
		u.Add("png", n)
	}
	u.Add("mp3", "click")
	g := grouping.Build(u)
	v := evidence.Reconcile(u, g,
		evidence.New(evidence.SourceScan, "logo", "frame"),
		evidence.New(evidence.SourceKeep, "logo", "click"),
	)

	return &deadcode.Result{
		RunID:     runID,
		Kind:      deadcode.KindResources,
		Root:      "/proj",
		Items:     []deadcode.DeadSymbolItem{{Name: "orphan", Category: "png"}},
		Summary:   deadcode.DeadSymbolSummary{Total: 5, Used: 4, Unused: 1, FilesScanned: 12},
		Sources:   v.Consulted,
		StartedAt: started,
		Duration:  250 * time.Millisecond,
		Universe:  u,
		Groups:    g,
		Verdict:   v,
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db := setupTestDB(t)

	assert.FileExists(t, db.Path())
	version, err := db.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadsym.db")
	ctx := context.Background()

	db, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.SaveRun(ctx, sampleResult("run-1", time.Now())))
	require.NoError(t, db.Close())

	db, err = Open(path, nil)
	require.NoError(t, err)
	defer db.Close()

	run, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "resources", run.Kind)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, db.SaveRun(ctx, sampleResult("run-1", started)))

	run, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "/proj", run.Root)
	assert.True(t, started.Equal(run.StartedAt))
	assert.Equal(t, 250*time.Millisecond, run.Duration)
	assert.Equal(t, 5, run.Total)
	assert.Equal(t, 1, run.Unused)
	assert.Equal(t, 12, run.FilesScanned)
	assert.Equal(t, []string{"scan", "keep"}, run.Sources)
	assert.NotEmpty(t, run.ToolVersion)

	syms, err := db.Symbols(ctx, "run-1", false)
	require.NoError(t, err)
	require.Len(t, syms, 5)
	assert.Equal(t, SymbolRow{Category: "mp3", Name: "click", Used: true, Sources: []string{"keep"}}, syms[0])
	assert.Equal(t, SymbolRow{Category: "png", Name: "frame_1", Used: true, Sources: []string{"scan"}, Group: "frame"}, syms[1])
	assert.Equal(t, []string{"keep", "scan"}, syms[3].Sources)

	unused, err := db.Symbols(ctx, "run-1", true)
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, "orphan", unused[0].Name)
	assert.Nil(t, unused[0].Sources)
}

func TestSaveRun_Replaces(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	res := sampleResult("run-1", time.Now())
	require.NoError(t, db.SaveRun(ctx, res))
	require.NoError(t, db.SaveRun(ctx, res))

	syms, err := db.Symbols(ctx, "run-1", false)
	require.NoError(t, err)
	assert.Len(t, syms, 5)
}

func TestSaveRun_WithoutVerdict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	res := sampleResult("run-1", time.Now())
	res.Verdict = nil
	require.NoError(t, db.SaveRun(ctx, res))

	syms, err := db.Symbols(ctx, "run-1", false)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.False(t, syms[0].Used)
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveRun(ctx, sampleResult("old", base)))
	require.NoError(t, db.SaveRun(ctx, sampleResult("new", base.Add(time.Hour))))

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)

	runs, err = db.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGetRun_Missing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
