package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/config"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/engine"
	"sveltedoctor/internal/fix"
	"sveltedoctor/internal/observ"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/scan"
	"sveltedoctor/internal/score"
	"sveltedoctor/internal/source"
	"sveltedoctor/internal/trace"
)

// Options configures Diagnose. The zero value scans "." with every rule.
type Options struct {
	Root string
	// Jobs bounds the analysis workers; <= 0 means GOMAXPROCS.
	Jobs int
	// IgnoreRules are added to the config's ignore.rules.
	IgnoreRules []string
	// Registry defaults to rules.Default().
	Registry *rules.Registry

	Fix     bool
	FixMode fix.ApplyMode
	// Confirm gates applying fixes; nil accepts.
	Confirm func(fixable int) bool

	// MaxDiagnostics caps Result.Diagnostics (0 = unlimited). The score is
	// computed on the uncapped list.
	MaxDiagnostics int

	Baseline      string // snapshot whose findings are hidden
	BaselineWrite string // snapshot to write with the current findings

	Progress ProgressSink
	Timer    *observ.Timer
}

// Result is the outcome of one scan.
type Result struct {
	Root         string
	Score        score.Result
	Diagnostics  []*diag.Diagnostic
	FilesScanned int
	Fix          *fix.ApplyResult // nil unless fixes were applied or dry-run
	Config       *config.Config
	Registry     *rules.Registry // the effective catalog after ignores
	Dropped      int             // cut by MaxDiagnostics
	Baselined    int             // hidden by the baseline
	// Files holds every analyzed text; re-analysis after a fix adds a new
	// version, so spans resolve against the text that produced them.
	Files *source.FileSet
}

type fileResult struct {
	file  scan.File
	role  classify.Role
	diags []*diag.Diagnostic
}

// Diagnose scans the project at opts.Root: config, scan, classify, parallel
// analysis, optional fixes with re-analysis, baseline, score. Analysis
// failures never surface as errors; a missing root, an unreadable file or a
// bad baseline do.
func Diagnose(ctx context.Context, opts Options) (*Result, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", root, err)
	}

	ctx, span := trace.StartPhase(ctx, "diagnose")
	defer span.End("")

	timer := opts.Timer

	idx := timer.Begin("config")
	cfg := config.LoadOrDefault(ctx, abs)
	reg := opts.Registry
	if reg == nil {
		reg = rules.Default()
	}
	ignored := append(append([]string(nil), cfg.Ignore.Rules...), opts.IgnoreRules...)
	reg, unknown := reg.Without(ignored)
	for _, id := range unknown {
		trace.Warn(ctx, "unknown rule", id)
	}
	timer.End(idx, strconv.Itoa(reg.Len())+" rules")

	idx = timer.Begin("scan")
	start := time.Now()
	files, err := scan.Files(ctx, abs, scan.Options{Exclude: cfg.Ignore.Files})
	if err != nil {
		timer.End(idx, "error")
		emit(opts.Progress, Event{Stage: StageScan, Status: StatusError, Err: err})
		return nil, err
	}
	timer.End(idx, strconv.Itoa(len(files))+" files")
	emit(opts.Progress, Event{Stage: StageScan, Status: StatusDone, Total: len(files), Elapsed: time.Since(start)})

	fileSet := source.NewFileSetWithBase(abs)
	idx = timer.Begin("analyze")
	results, err := analyzeAll(ctx, fileSet, files, reg, opts.Jobs, opts.Progress)
	timer.End(idx, "")
	if err != nil {
		return nil, err
	}

	res := &Result{
		Root:         abs,
		FilesScanned: len(files),
		Config:       cfg,
		Registry:     reg,
		Files:        fileSet,
	}

	if opts.Fix {
		idx = timer.Begin("fix")
		res.Fix, err = applyFixes(ctx, fileSet, results, reg, opts)
		timer.End(idx, "")
		if err != nil {
			emit(opts.Progress, Event{Stage: StageFix, Status: StatusError, Err: err})
			return nil, err
		}
		emit(opts.Progress, Event{Stage: StageFix, Status: StatusDone})
	}

	all := make([]*diag.Diagnostic, 0)
	for i := range results {
		all = append(all, results[i].diags...)
	}

	if opts.Baseline != "" || opts.BaselineWrite != "" {
		idx = timer.Begin("baseline")
		all, res.Baselined, err = applyBaseline(all, opts.Baseline, opts.BaselineWrite)
		timer.End(idx, "")
		if err != nil {
			return nil, err
		}
	}

	res.Score = score.Calculate(all, len(files))
	emit(opts.Progress, Event{Stage: StageScore, Status: StatusDone, Diagnostics: len(all)})

	bag := diag.NewBag(opts.MaxDiagnostics)
	for _, d := range all {
		bag.Add(d)
	}
	res.Diagnostics = bag.Items()
	res.Dropped = bag.Dropped()

	span.Set("files", strconv.Itoa(len(files))).Set("diagnostics", strconv.Itoa(len(all)))
	return res, nil
}

// analyzeAll runs the engine over files with a bounded worker pool. Results
// keep scan order whatever order workers finish in.
func analyzeAll(ctx context.Context, fileSet *source.FileSet, files []scan.File, reg *rules.Registry, jobs int, sink ProgressSink) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, f := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(sink, Event{File: f.Rel, Stage: StageAnalyze, Status: StatusWorking})
			start := time.Now()

			role := classify.File(f.Rel)
			diags, err := analyzePath(gctx, fileSet, f, role, reg)
			if err != nil {
				failed.Add(1)
				emit(sink, Event{File: f.Rel, Stage: StageAnalyze, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return err
			}
			results[i] = fileResult{file: f, role: role, diags: diags}
			emit(sink, Event{File: f.Rel, Stage: StageAnalyze, Status: StatusDone, Diagnostics: len(diags), Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		trace.Debug(ctx, "analysis aborted", err.Error(), "failed", strconv.FormatInt(failed.Load(), 10))
		return nil, err
	}
	return results, nil
}

func analyzePath(ctx context.Context, fileSet *source.FileSet, f scan.File, role classify.Role, reg *rules.Registry) ([]*diag.Diagnostic, error) {
	id, err := fileSet.Load(f.Abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Rel, err)
	}
	return engine.AnalyzeSource(ctx, fileSet.Get(id), role, reg), nil
}

// applyFixes runs the fixer over files with fixable findings and, when files
// were written, re-reads and re-analyzes them so results reflect the patched
// text.
func applyFixes(ctx context.Context, fileSet *source.FileSet, results []fileResult, reg *rules.Registry, opts Options) (*fix.ApplyResult, error) {
	fixFiles := make([]fix.File, 0)
	byRel := make(map[string]int)
	for i, r := range results {
		fixFiles = append(fixFiles, fix.File{Path: r.file.Abs, DisplayPath: r.file.Rel, Role: r.role, Diagnostics: r.diags})
		byRel[r.file.Rel] = i
	}
	n := fix.FixableCount(fixFiles)
	if n == 0 {
		return nil, nil
	}
	if opts.Confirm != nil && !opts.Confirm(n) {
		trace.Info(ctx, "fixes declined", strconv.Itoa(n))
		return nil, nil
	}

	applied, err := fix.Apply(ctx, fixFiles, fix.ApplyOptions{Mode: opts.FixMode, Registry: reg})
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		return applied, err
	}

	for _, change := range applied.FileChanges {
		if !change.Written {
			continue
		}
		i, ok := byRel[change.Path]
		if !ok {
			continue
		}
		r := &results[i]
		diags, err := analyzePath(ctx, fileSet, r.file, r.role, reg)
		if err != nil {
			return applied, err
		}
		r.diags = diags
		emit(opts.Progress, Event{File: r.file.Rel, Stage: StageFix, Status: StatusDone, Diagnostics: len(diags)})
	}
	return applied, nil
}

// applyBaseline hides findings recorded in the read snapshot and stores the
// unfiltered findings in the write snapshot. The same path may be used for
// both.
func applyBaseline(all []*diag.Diagnostic, readPath, writePath string) ([]*diag.Diagnostic, int, error) {
	var base *Baseline
	if readPath != "" {
		var err error
		base, err = ReadBaseline(readPath)
		if err != nil {
			return nil, 0, err
		}
	}
	if writePath != "" {
		if err := WriteBaseline(writePath, NewBaseline(all)); err != nil {
			return nil, 0, err
		}
	}
	kept, hidden := base.Filter(all)
	return kept, hidden, nil
}
