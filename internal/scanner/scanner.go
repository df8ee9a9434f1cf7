package scanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	dserrors "deadsym/internal/errors"
	"deadsym/internal/textio"
)

// DefaultProgressInterval is the minimum time between two progress lines.
const DefaultProgressInterval = time.Second

// Options configures a Scanner.
type Options struct {
	// Extensions selects the code files to read, e.g. ".m".
	Extensions []string
	// IgnorePaths are path prefixes excluded from the walk, resolved with
	// ResolveIgnorePaths.
	IgnorePaths []string
	// Workers above 1 split the file list into contiguous shards.
	Workers int
	// ProgressInterval throttles progress lines. Zero or less prints one
	// line per file.
	ProgressInterval time.Duration
	// Progress receives status lines; nil disables them.
	Progress io.Writer
	// SkipDuplicates skips files whose content equals a file already read.
	SkipDuplicates bool
	// Skip excludes further files and directories below the root.
	Skip   func(path string, isDir bool) bool
	Logger *slog.Logger
}

// Result is the outcome of one scan pass.
type Result struct {
	// Used holds every name that was found and removed from the active set.
	Used            map[string]bool
	FilesTotal      int
	FilesScanned    int
	FilesSkipped    int
	FilesUnreadable int
	// EarlyExit is set when the active set emptied before the last file.
	EarlyExit bool
	Duration  time.Duration
}

// Scanner performs reference scans over a code root.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a new Scanner.
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scanner{opts: opts, logger: logger}
}

// Scan enumerates the code files under root and scans them against active,
// removing every name it finds. A missing root is fatal.
func (s *Scanner) Scan(ctx context.Context, root string, active *ActiveSet) (*Result, error) {
	files, err := s.Enumerate(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.ScanFiles(ctx, files, active)
}

// Enumerate lists the code files under root in walk order.
func (s *Scanner) Enumerate(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, dserrors.New(dserrors.RootMissing, "code root not found: "+root, err)
	}

	exts := make(map[string]bool, len(s.opts.Extensions))
	for _, e := range s.opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	ignore := ResolveIgnorePaths(root, s.opts.IgnorePaths)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if ignored(path, ignore) || (path != root && s.opts.Skip != nil && s.opts.Skip(path, d.IsDir())) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// ResolveIgnorePaths cleans ignore prefixes. A relative entry matches both
// below root and as a literal prefix of the walked path, so
// "./MyApp/Pods" skips MyApp/Pods when the root is ./MyApp.
func ResolveIgnorePaths(root string, paths []string) []string {
	var out []string
	add := func(p string) {
		for _, existing := range out {
			if existing == p {
				return
			}
		}
		out = append(out, p)
	}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			add(filepath.Clean(p))
			continue
		}
		if root != "" {
			add(filepath.Join(root, p))
		}
		if lit := filepath.Clean(p); lit != "." {
			add(lit)
		}
	}
	return out
}

func ignored(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ScanFiles scans files in the given order. The final used set does not
// depend on the order, only the amount of work does.
func (s *Scanner) ScanFiles(ctx context.Context, files []string, active *ActiveSet) (*Result, error) {
	start := time.Now()
	p := s.newProgress(len(files), start)

	s.logger.Debug("Scanning code files",
		"files", len(files),
		"active", active.Len(),
		"workers", s.opts.Workers,
	)

	var res *Result
	var err error
	if s.opts.Workers > 1 && len(files) > 1 {
		res, err = s.scanParallel(ctx, files, active, p)
	} else {
		res = &Result{Used: make(map[string]bool)}
		err = s.scanShard(ctx, files, active, res, p)
	}
	res.FilesTotal = len(files)
	res.Duration = time.Since(start)

	s.logger.Debug("Scan finished",
		"used", len(res.Used),
		"remaining", active.Len(),
		"scanned", res.FilesScanned,
		"skipped", res.FilesSkipped,
		"duration", res.Duration,
	)
	return res, err
}

// scanShard is the sequential loop. It mutates active and res.
func (s *Scanner) scanShard(ctx context.Context, files []string, active *ActiveSet, res *Result, p *progress) error {
	var seen map[[blake2b.Size256]byte]bool
	if s.opts.SkipDuplicates {
		seen = make(map[[blake2b.Size256]byte]bool)
	}

	for _, path := range files {
		if active.Len() == 0 {
			res.EarlyExit = true
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Debug("Unreadable file treated as empty", "path", path, "error", err)
			res.FilesUnreadable++
			data = nil
		}

		if seen != nil && data != nil {
			sum := blake2b.Sum256(data)
			if seen[sum] {
				res.FilesSkipped++
				p.step(active.Len())
				continue
			}
			seen[sum] = true
		}

		active.match(textio.Decode(data), res.Used)
		res.FilesScanned++
		p.step(active.Len())
	}
	return nil
}

// scanParallel gives each shard its own copy of the active set, then merges
// the per-shard used sets and subtracts them from active.
func (s *Scanner) scanParallel(ctx context.Context, files []string, active *ActiveSet, p *progress) (*Result, error) {
	shards := split(files, s.opts.Workers)
	results := make([]*Result, len(shards))
	p.sharded = true

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		results[i] = &Result{Used: make(map[string]bool)}
		local := active.Clone()
		g.Go(func() error {
			return s.scanShard(gctx, shard, local, results[i], p)
		})
	}
	err := g.Wait()

	merged := &Result{Used: make(map[string]bool)}
	for _, r := range results {
		for n := range r.Used {
			if active.Remove(n) {
				merged.Used[n] = true
			}
		}
		merged.FilesScanned += r.FilesScanned
		merged.FilesSkipped += r.FilesSkipped
		merged.FilesUnreadable += r.FilesUnreadable
		merged.EarlyExit = merged.EarlyExit || r.EarlyExit
	}
	return merged, err
}

// split cuts files into at most n contiguous shards of near-equal size.
func split(files []string, n int) [][]string {
	if n > len(files) {
		n = len(files)
	}
	if n < 1 {
		return nil
	}
	shards := make([][]string, 0, n)
	size, rem := len(files)/n, len(files)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		shards = append(shards, files[start:end])
		start = end
	}
	return shards
}

// progress prints throttled status lines. Safe for concurrent use.
type progress struct {
	w     io.Writer
	total int
	start time.Time
	done  atomic.Int64
	every *rate.Sometimes
	// sharded drops the remaining count: each shard only knows its own copy.
	sharded bool
}

func (s *Scanner) newProgress(total int, start time.Time) *progress {
	sometimes := &rate.Sometimes{Interval: s.opts.ProgressInterval}
	if s.opts.ProgressInterval <= 0 {
		sometimes = &rate.Sometimes{Every: 1}
	}
	return &progress{w: s.opts.Progress, total: total, start: start, every: sometimes}
}

func (p *progress) step(remaining int) {
	n := p.done.Add(1)
	if p.w == nil {
		return
	}
	if p.sharded {
		remaining = -1
	}
	p.every.Do(func() {
		fmt.Fprintln(p.w, FormatProgress(int(n), p.total, remaining, time.Since(p.start)))
	})
}

// FormatProgress renders one status line. A negative remaining count is
// left out.
func FormatProgress(done, total, remaining int, elapsed time.Duration) string {
	pct := 100.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	if remaining < 0 {
		return fmt.Sprintf("progress: %d/%d (%.1f%%) | elapsed: %.1fs",
			done, total, pct, elapsed.Seconds())
	}
	return fmt.Sprintf("progress: %d/%d (%.1f%%) | remaining: %d | elapsed: %.1fs",
		done, total, pct, remaining, elapsed.Seconds())
}
