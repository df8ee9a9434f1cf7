package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadsym/internal/deadcode"
	dserrors "deadsym/internal/errors"
	"deadsym/internal/scanner"
)

func sampleResult() *deadcode.Result {
	return &deadcode.Result{
		Kind: deadcode.KindResources,
		Summary: deadcode.DeadSymbolSummary{
			Total: 5, Used: 4, Unused: 1,
			ByCategory: []deadcode.CategorySummary{
				{Category: "mp3", Total: 1, Used: 1},
				{Category: "png", Total: 4, Used: 3, Unused: 1},
			},
			Groups:       1,
			FilesTotal:   10,
			FilesScanned: 8,
			FilesSkipped: 2,
		},
		StartedAt: time.Unix(1700000000, 0),
		Duration:  1500 * time.Millisecond,
		Scan:      &scanner.Result{EarlyExit: true},
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Record(sampleResult())

	path := filepath.Join(t.TempDir(), "deadsym.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `deadsym_scan_files{kind="resources",state="scanned"} 8`)
	assert.Contains(t, out, `deadsym_scan_files{kind="resources",state="skipped"} 2`)
	assert.Contains(t, out, `deadsym_symbols{category="png",kind="resources",verdict="unused"} 1`)
	assert.Contains(t, out, `deadsym_symbols{category="mp3",kind="resources",verdict="used"} 1`)
	assert.Contains(t, out, `deadsym_scan_names_matched{kind="resources"} 4`)
	assert.Contains(t, out, `deadsym_analysis_duration_seconds{kind="resources"} 1.5`)
	assert.Contains(t, out, `deadsym_last_run_timestamp_seconds{kind="resources"} 1.7e+09`)
	assert.Contains(t, out, `deadsym_scan_early_exit{kind="resources"} 1`)
	assert.Contains(t, out, "# HELP deadsym_groups")
}

func TestRecorder_Gatherer(t *testing.T) {
	r := NewRecorder()
	r.Record(sampleResult())

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "deadsym_symbols")
	assert.Contains(t, names, "deadsym_groups")
}

func TestRecorder_WriteTextfileFails(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	require.Error(t, err)
	assert.Equal(t, dserrors.ExportFailed, dserrors.CodeOf(err))
}
