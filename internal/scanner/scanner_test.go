package scanner

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "deadsym/internal/errors"
	"deadsym/internal/testutil"
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestActiveSet(t *testing.T) {
	a := NewActiveSet(set("logo", "", "frame"))
	assert.Equal(t, 2, a.Len(), "empty names are dropped")
	assert.True(t, a.Remove("logo"))
	assert.False(t, a.Remove("logo"))
	assert.False(t, a.Has("logo"))

	c := a.Clone()
	c.Remove("frame")
	assert.True(t, a.Has("frame"), "clones are independent")
	assert.Equal(t, []string{"frame"}, a.Names())
}

func TestScan(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"App/Home.m":      `[UIImage imageNamed:@"logo"];`,
		"App/Anim.m":      `[NSString stringWithFormat:@"frame_%d", i]`,
		"App/Notes.txt":   "unused_icon",
		"App/Empty.m":     "",
		"App/Sub/Other.M": "nothing here",
	})
	active := NewActiveSet(set("logo", "frame", "unused_icon"))

	s := New(Options{Extensions: []string{".m"}})
	res, err := s.Scan(context.Background(), root, active)
	require.NoError(t, err)

	assert.Equal(t, set("logo", "frame"), res.Used)
	assert.Equal(t, []string{"unused_icon"}, active.Names())
	assert.Equal(t, 4, res.FilesTotal)
	assert.Equal(t, 4, res.FilesScanned)
	assert.False(t, res.EarlyExit)
}

func TestScan_EarlyExit(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.m": "logo",
		"b.m": "logo",
		"c.m": "logo",
	})
	files := []string{filepath.Join(root, "a.m"), filepath.Join(root, "b.m"), filepath.Join(root, "c.m")}
	active := NewActiveSet(set("logo"))

	res, err := New(Options{}).ScanFiles(context.Background(), files, active)
	require.NoError(t, err)
	assert.Equal(t, set("logo"), res.Used)
	assert.Equal(t, 1, res.FilesScanned)
	assert.True(t, res.EarlyExit)
	assert.Equal(t, 0, active.Len())
}

func TestScan_UnreadableFileIsEmpty(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.m": "logo"})
	files := []string{filepath.Join(root, "missing.m"), filepath.Join(root, "a.m")}
	active := NewActiveSet(set("logo", "ghost"))

	res, err := New(Options{}).ScanFiles(context.Background(), files, active)
	require.NoError(t, err)
	assert.Equal(t, set("logo"), res.Used)
	assert.Equal(t, 1, res.FilesUnreadable)
	assert.Equal(t, 2, res.FilesScanned)
}

func TestScan_SkipDuplicates(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.m": "same content",
		"b.m": "same content",
		"c.m": "logo",
	})
	files := []string{filepath.Join(root, "a.m"), filepath.Join(root, "b.m"), filepath.Join(root, "c.m")}
	active := NewActiveSet(set("logo", "ghost"))

	res, err := New(Options{SkipDuplicates: true}).ScanFiles(context.Background(), files, active)
	require.NoError(t, err)
	assert.Equal(t, set("logo"), res.Used)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, 2, res.FilesScanned)
}

func TestEnumerate_IgnorePaths(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"App/a.m":          "",
		"Pods/Lib/b.m":     "",
		"Vendor/c.m":       "",
		"App/d.h":          "",
		"Carthage/Build/e": "",
	})

	s := New(Options{
		Extensions:  []string{".m", ".h"},
		IgnorePaths: []string{"Pods", filepath.Join(root, "Vendor")},
	})
	files, err := s.Enumerate(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"App/a.m", "App/d.h"}, testutil.RelPaths(root, files))
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := New(Options{}).Scan(context.Background(), filepath.Join(t.TempDir(), "gone"), NewActiveSet(nil))
	require.Error(t, err)
	assert.Equal(t, dserrors.RootMissing, dserrors.CodeOf(err))
}

func TestScan_Cancelled(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.m": "logo"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	active := NewActiveSet(set("logo"))
	_, err := New(Options{}).ScanFiles(ctx, []string{filepath.Join(root, "a.m")}, active)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, active.Has("logo"))
}

// shuffleTree builds a tree where names are spread over many files, some
// shared, some absent.
func shuffleTree(t *testing.T) (root string, names map[string]bool) {
	files := make(map[string]string)
	names = make(map[string]bool)
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("asset%02d", i)
		names[name] = true
		if i%3 == 0 {
			continue // never referenced
		}
		files[fmt.Sprintf("src/f%02d.m", i)] = "use " + name + " and asset" + fmt.Sprintf("%02d", (i*7)%40)
	}
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("src/noise%02d.m", i)] = strings.Repeat("x", i)
	}
	return testutil.WriteTree(t, files), names
}

func TestScan_OrderIndependent(t *testing.T) {
	root, names := shuffleTree(t)
	s := New(Options{Extensions: []string{".m"}})

	files, err := s.Enumerate(context.Background(), root)
	require.NoError(t, err)

	baseline, err := s.ScanFiles(context.Background(), files, NewActiveSet(names))
	require.NoError(t, err)
	require.NotEmpty(t, baseline.Used)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]string(nil), files...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		res, err := s.ScanFiles(context.Background(), shuffled, NewActiveSet(names))
		require.NoError(t, err)
		assert.Equal(t, baseline.Used, res.Used, "run %d", i)
	}
}

func TestScan_ParallelMatchesSequential(t *testing.T) {
	root, names := shuffleTree(t)

	seqActive := NewActiveSet(names)
	seq, err := New(Options{Extensions: []string{".m"}}).Scan(context.Background(), root, seqActive)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 100} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			active := NewActiveSet(names)
			par, err := New(Options{Extensions: []string{".m"}, Workers: workers, SkipDuplicates: true}).
				Scan(context.Background(), root, active)
			require.NoError(t, err)
			assert.Equal(t, seq.Used, par.Used)
			assert.Equal(t, seqActive.Names(), active.Names())
			assert.Equal(t, seq.FilesTotal, par.FilesTotal)
		})
	}
}

func TestSplit(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, split(files, 3))
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}, split(files, 9))
	assert.Nil(t, split(nil, 4))
}

func TestProgress(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.m": "logo",
		"b.m": "none",
	})
	var buf bytes.Buffer
	s := New(Options{Extensions: []string{".m"}, Progress: &buf, ProgressInterval: 0})

	_, err := s.Scan(context.Background(), root, NewActiveSet(set("logo", "ghost")))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "progress: 1/2 (50.0%) | remaining: 1 | elapsed: "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "progress: 2/2 (100.0%) | remaining: 1 | elapsed: "), lines[1])
}

func TestProgress_Throttled(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 50; i++ {
		files[fmt.Sprintf("f%02d.m", i)] = "x"
	}
	root := testutil.WriteTree(t, files)

	var buf bytes.Buffer
	s := New(Options{Extensions: []string{".m"}, Progress: &buf, ProgressInterval: time.Hour})
	_, err := s.Scan(context.Background(), root, NewActiveSet(set("ghost")))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "progress:"), "only the first line fits in the interval")
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "progress: 5/20 (25.0%) | remaining: 3 | elapsed: 1.5s",
		FormatProgress(5, 20, 3, 1500*time.Millisecond))
	assert.Equal(t, "progress: 0/0 (100.0%) | remaining: 0 | elapsed: 0.0s",
		FormatProgress(0, 0, 0, 0))
	assert.Equal(t, "progress: 2/4 (50.0%) | elapsed: 2.0s",
		FormatProgress(2, 4, -1, 2*time.Second))
}

func TestProgress_ParallelOmitsRemaining(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 8; i++ {
		files[fmt.Sprintf("f%02d.m", i)] = "x"
	}
	root := testutil.WriteTree(t, files)

	var buf bytes.Buffer
	s := New(Options{Extensions: []string{".m"}, Progress: &buf, Workers: 4})
	_, err := s.Scan(context.Background(), root, NewActiveSet(set("ghost", "other")))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "progress: "), line)
		assert.NotContains(t, line, "remaining")
	}
}

func TestResolveIgnorePaths(t *testing.T) {
	root := filepath.FromSlash("MyApp")
	got := ResolveIgnorePaths(root, []string{"", " ./MyApp/Pods ", "Vendor/", "./", filepath.FromSlash("/abs/x/")})
	assert.Equal(t, []string{
		filepath.FromSlash("MyApp/MyApp/Pods"),
		filepath.FromSlash("MyApp/Pods"),
		filepath.FromSlash("MyApp/Vendor"),
		"Vendor",
		"MyApp",
		filepath.FromSlash("/abs/x"),
	}, got)
}
