package deadcode

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	dserrors "deadsym/internal/errors"
	"deadsym/internal/evidence"
	"deadsym/internal/grouping"
	"deadsym/internal/scanner"
	"deadsym/internal/symbols"
)

// Analyzer runs the collect, group, scan and reconcile pipeline.
type Analyzer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyzer creates a new dead symbol analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{logger: logger, now: time.Now}
}

// AnalyzeResources finds resource files whose base name appears in no code
// file under the project root.
func (a *Analyzer) AnalyzeResources(ctx context.Context, opts ResourceOptions) (*Result, error) {
	start := a.now()
	if err := symbols.CheckRoot(opts.ProjectRoot); err != nil {
		return nil, err
	}

	rules := NewExclusionRules(ExclusionConfig{
		Root:        opts.ProjectRoot,
		Patterns:    opts.ExcludePatterns,
		IgnorePaths: opts.IgnorePaths,
	})

	a.logger.Debug("Starting resource analysis",
		"project", opts.ProjectRoot,
		"resources", opts.ResourceRoot,
		"resourceExts", opts.ResourceExtensions,
		"codeExts", opts.CodeExtensions,
	)

	coll, err := symbols.CollectResources(ctx, opts.ResourceRoot, opts.ResourceExtensions, rules)
	if err != nil {
		return nil, err
	}

	res := a.newResult(KindResources, opts.ProjectRoot, start, coll.Universe)
	if res.Empty() {
		a.logger.Info("No resource candidates found", "root", opts.ResourceRoot)
		return a.finish(res, coll, ConfidenceTextOnly), nil
	}

	if opts.Grouping {
		res.Groups = grouping.Build(coll.Universe)
	}
	active := scanner.NewActiveSet(grouping.BuildActiveSet(coll.Universe, res.Groups))

	sc := scanner.New(scanner.Options{
		Extensions:       opts.CodeExtensions,
		IgnorePaths:      rules.IgnorePaths(),
		Workers:          opts.Scan.Workers,
		ProgressInterval: opts.Scan.ProgressInterval,
		Progress:         opts.Scan.Progress,
		SkipDuplicates:   opts.Scan.SkipDuplicates,
		Skip:             rules.SkipPath,
		Logger:           a.logger,
	})
	scan, err := sc.Scan(ctx, opts.ProjectRoot, active)
	if err != nil {
		return nil, err
	}
	res.Scan = scan

	evs := []evidence.Evidence{evidence.FromSet(evidence.SourceScan, scan.Used)}
	evs = append(evs, a.optionalEvidence(coll.Universe, opts.KeepFile, opts.SCIPIndex)...)

	res.Verdict = evidence.Reconcile(coll.Universe, res.Groups, evs...)
	return a.finish(res, coll, ConfidenceTextOnly), nil
}

// AnalyzeClasses finds declared classes that no other file, and no binary
// table, refers to.
func (a *Analyzer) AnalyzeClasses(ctx context.Context, opts ClassOptions) (*Result, error) {
	start := a.now()
	if err := symbols.CheckRoot(opts.ProjectRoot); err != nil {
		return nil, err
	}

	patterns, err := compilePatterns(opts.DeclarationPatterns)
	if err != nil {
		return nil, err
	}

	rules := NewExclusionRules(ExclusionConfig{
		Root:           opts.ProjectRoot,
		Patterns:       opts.ExcludePatterns,
		IgnorePaths:    opts.IgnorePaths,
		IgnorePrefixes: opts.IgnorePrefixes,
		Whitelist:      opts.Whitelist,
		SkipVendored:   true,
	})

	a.logger.Debug("Starting class analysis",
		"project", opts.ProjectRoot,
		"exts", opts.Extensions,
		"swift", opts.Swift && symbols.SwiftAvailable(),
		"binary", opts.Binary,
		"linkmap", opts.LinkMap,
	)

	coll, err := symbols.CollectDeclarations(ctx, opts.ProjectRoot, symbols.DeclarationOptions{
		Extensions: opts.Extensions,
		Patterns:   patterns,
		Swift:      opts.Swift,
		Filter:     rules,
	})
	if err != nil {
		return nil, err
	}

	var evs []evidence.Evidence
	binaryConsulted := false
	if opts.Binary != "" {
		br, err := evidence.CollectBinary(ctx, evidence.BinaryOptions{
			Binary:         opts.Binary,
			LinkMap:        opts.LinkMap,
			IgnorePrefixes: opts.IgnorePrefixes,
			Inspector:      opts.Inspector,
			Logger:         a.logger,
		})
		if err != nil {
			a.logger.Warn("Binary evidence unavailable, continuing with source evidence only",
				"binary", opts.Binary, "error", err)
		} else {
			binaryConsulted = true
			for _, name := range br.Defined {
				if !coll.Universe.Contains(name) && !rules.SkipName(name) {
					coll.Universe.Add("binary", name)
				}
			}
			evs = append(evs, br.Evidence()...)
		}
	}

	res := a.newResult(KindClasses, opts.ProjectRoot, start, coll.Universe)
	if res.Empty() {
		a.logger.Info("No class candidates found", "root", opts.ProjectRoot)
		return a.finish(res, coll, ConfidenceTextOnly), nil
	}
	if opts.Grouping {
		res.Groups = grouping.Build(coll.Universe)
	}

	exts := append([]string(nil), opts.Extensions...)
	if opts.Swift {
		exts = append(exts, ".swift")
	}
	files, err := scanner.New(scanner.Options{
		Extensions:  exts,
		IgnorePaths: rules.IgnorePaths(),
		Skip:        rules.SkipPath,
	}).Enumerate(ctx, opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	pr, err := evidence.ScanPatterns(ctx, files, coll.ByFile)
	if err != nil {
		return nil, err
	}
	evs = append([]evidence.Evidence{pr.Evidence}, evs...)
	evs = append(evs, a.optionalEvidence(coll.Universe, opts.KeepFile, opts.SCIPIndex)...)

	res.Verdict = evidence.Reconcile(coll.Universe, res.Groups, evs...)
	res.Summary.FilesTotal = len(files)
	res.Summary.FilesScanned = len(files) - pr.Skipped
	res.Summary.FilesUnreadable = pr.Skipped

	confidence := ConfidenceTextOnly
	if binaryConsulted {
		confidence = ConfidenceWithBinary
	}
	res = a.finish(res, coll, confidence)
	res.Files = fileVerdicts(files, coll.Universe, res.Verdict)
	return res, nil
}

// optionalEvidence loads the keep list and SCIP index when configured.
// Either one failing only drops that source.
func (a *Analyzer) optionalEvidence(u *symbols.Universe, keepFile, scipIndex string) []evidence.Evidence {
	var evs []evidence.Evidence
	if keepFile != "" {
		if k, err := evidence.LoadKeepList(keepFile); err != nil {
			a.logger.Warn("Keep list ignored", "path", keepFile, "error", err)
		} else {
			evs = append(evs, k.Evidence(u))
		}
	}
	if scipIndex != "" {
		if e, err := evidence.LoadSCIPEvidence(scipIndex); err != nil {
			a.logger.Warn("SCIP index ignored", "path", scipIndex, "error", err)
		} else {
			evs = append(evs, e)
		}
	}
	return evs
}

func (a *Analyzer) newResult(kind AnalysisKind, root string, start time.Time, u *symbols.Universe) *Result {
	return &Result{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Root:      root,
		Caveats:   Caveats,
		StartedAt: start,
		Universe:  u,
		Groups:    grouping.Empty(),
		Items:     []DeadSymbolItem{},
	}
}

// finish derives items and summary from the verdict.
func (a *Analyzer) finish(res *Result, coll *symbols.Collection, conf float64) *Result {
	if res.Verdict == nil {
		res.Verdict = evidence.Reconcile(res.Universe, res.Groups)
	}

	res.Sources = res.Verdict.Consulted
	reason := "no reference found"
	if len(res.Sources) > 0 {
		reason = "no reference found by " + strings.Join(res.Sources, ", ")
	}

	for _, ref := range res.Verdict.Unused {
		files := append([]string(nil), coll.Files[ref]...)
		sort.Strings(files)
		res.Items = append(res.Items, DeadSymbolItem{
			Name:       ref.Name,
			Category:   ref.Category,
			Files:      files,
			Group:      res.Groups.KeyOf[ref.Name],
			Confidence: conf,
			Reason:     reason,
		})
	}

	res.Summary = summarize(res)
	res.Duration = a.now().Sub(res.StartedAt)

	a.logger.Debug("Dead symbol analysis completed",
		"kind", res.Kind,
		"total", res.Summary.Total,
		"used", res.Summary.Used,
		"unused", res.Summary.Unused,
		"groups", res.Summary.Groups,
		"duration", res.Duration,
	)
	return res
}

func summarize(res *Result) DeadSymbolSummary {
	s := res.Summary
	s.Groups = res.Groups.Len()

	names := res.Universe.Names()
	s.Total = len(names)
	s.Used, s.Unused = 0, 0
	for _, n := range names {
		if res.Verdict.IsUsed(n) {
			s.Used++
		} else {
			s.Unused++
		}
	}

	s.ByCategory = make([]CategorySummary, 0, len(res.Universe.Categories()))
	for _, c := range res.Universe.Categories() {
		used := len(res.Verdict.UsedIn(c))
		unused := len(res.Verdict.UnusedIn(c))
		s.ByCategory = append(s.ByCategory, CategorySummary{
			Category: c,
			Total:    used + unused,
			Used:     used,
			Unused:   unused,
		})
	}

	if res.Scan != nil {
		s.FilesTotal = res.Scan.FilesTotal
		s.FilesScanned = res.Scan.FilesScanned
		s.FilesSkipped = res.Scan.FilesSkipped
		s.FilesUnreadable = res.Scan.FilesUnreadable
	}
	return s
}

// fileVerdicts lists every .m file with whether the class it is named after
// was found used. Files not named after a known class are unreferenced.
func fileVerdicts(files []string, u *symbols.Universe, v *evidence.Verdict) []FileVerdict {
	var out []FileVerdict
	for _, f := range files {
		if strings.ToLower(filepath.Ext(f)) != ".m" {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		fv := FileVerdict{Path: f}
		if u.Contains(stem) {
			fv.Class = stem
			fv.Referenced = v.IsUsed(stem)
		}
		out = append(out, fv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, dserrors.New(dserrors.ConfigInvalid, fmt.Sprintf("invalid declaration pattern %q", p), err)
		}
		if re.NumSubexp() < 1 {
			return nil, dserrors.Newf(dserrors.ConfigInvalid, "declaration pattern %q has no capture group", p)
		}
		out = append(out, re)
	}
	if len(out) == 0 {
		return nil, dserrors.Newf(dserrors.ConfigInvalid, "no declaration patterns configured")
	}
	return out, nil
}
