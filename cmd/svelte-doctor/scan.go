package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"sveltedoctor/internal/diagfmt"
	"sveltedoctor/internal/driver"
	"sveltedoctor/internal/fix"
	"sveltedoctor/internal/observ"
	"sveltedoctor/internal/project"
	"sveltedoctor/internal/version"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatAgent  outputFormat = "agent"
	formatJSON   outputFormat = "json"
	formatSarif  outputFormat = "sarif"
	formatScore  outputFormat = "score"
)

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("verbose", false, "show file details per rule")
	cmd.Flags().Bool("score", false, "output only the score")
	cmd.Flags().Bool("agent", false, "output structured XML for LLM consumption")
	cmd.Flags().String("format", "pretty", "output format (pretty|agent|json|sarif)")
	cmd.Flags().Bool("fix", false, "auto-fix all fixable issues")
	cmd.Flags().BoolP("yes", "y", false, "skip prompts")
	cmd.Flags().Bool("dry-run", false, "with --fix, report fixes without writing files")
	cmd.Flags().StringArray("ignore-rule", nil, "rule id to skip (repeatable)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=GOMAXPROCS)")
	cmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics to report (0=unlimited)")
	cmd.Flags().String("baseline", "", "hide findings recorded in this baseline snapshot")
	cmd.Flags().String("baseline-write", "", "write the current findings to a baseline snapshot")
}

type scanOptions struct {
	format         outputFormat
	verbose        bool
	fix            bool
	yes            bool
	dryRun         bool
	ignoreRules    []string
	jobs           int
	maxDiagnostics int
	baseline       string
	baselineWrite  string
	color          bool
	ui             uiMode
	quiet          bool
	timings        bool
}

// readScanOptions collects flags of the root and fix commands; forceFix is
// set by `svelte-doctor fix`.
func readScanOptions(cmd *cobra.Command, forceFix bool) (scanOptions, error) {
	var opts scanOptions
	var err error
	flags := cmd.Flags()

	if opts.verbose, err = flags.GetBool("verbose"); err != nil {
		return opts, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	scoreOnly, err := flags.GetBool("score")
	if err != nil {
		return opts, fmt.Errorf("failed to get score flag: %w", err)
	}
	agent, err := flags.GetBool("agent")
	if err != nil {
		return opts, fmt.Errorf("failed to get agent flag: %w", err)
	}
	formatStr, err := flags.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.format, err = resolveFormat(formatStr, scoreOnly, agent); err != nil {
		return opts, err
	}
	if opts.fix, err = flags.GetBool("fix"); err != nil {
		return opts, fmt.Errorf("failed to get fix flag: %w", err)
	}
	opts.fix = opts.fix || forceFix
	if opts.yes, err = flags.GetBool("yes"); err != nil {
		return opts, fmt.Errorf("failed to get yes flag: %w", err)
	}
	if opts.dryRun, err = flags.GetBool("dry-run"); err != nil {
		return opts, fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if opts.dryRun && !opts.fix {
		return opts, fmt.Errorf("--dry-run requires --fix")
	}
	if opts.ignoreRules, err = flags.GetStringArray("ignore-rule"); err != nil {
		return opts, fmt.Errorf("failed to get ignore-rule flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.jobs <= 0 {
		opts.jobs = runtime.GOMAXPROCS(0)
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.baseline, err = flags.GetString("baseline"); err != nil {
		return opts, fmt.Errorf("failed to get baseline flag: %w", err)
	}
	if opts.baselineWrite, err = flags.GetString("baseline-write"); err != nil {
		return opts, fmt.Errorf("failed to get baseline-write flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	colorStr, err := root.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.color, err = readColorMode(colorStr, stdoutFile(cmd)); err != nil {
		return opts, err
	}
	uiStr, err := root.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}
	if opts.quiet, err = root.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = root.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

// resolveFormat: --score and --agent win over --format.
func resolveFormat(value string, scoreOnly, agent bool) (outputFormat, error) {
	switch {
	case scoreOnly:
		return formatScore, nil
	case agent:
		return formatAgent, nil
	}
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "", formatPretty:
		return formatPretty, nil
	case formatAgent, formatJSON, formatSarif, formatScore:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty, agent, json or sarif)", value)
	}
}

// stdoutFile returns the command's output as a file when it is one.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}

// resolveRoot picks the scan directory: the argument, else the project root
// above the working directory, else ".".
func resolveRoot(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, ok, err := project.FindProjectRoot(wd); err == nil && ok {
		return root
	}
	return "."
}

func runScan(cmd *cobra.Command, args []string, forceFix bool) error {
	opts, err := readScanOptions(cmd, forceFix)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}

	dopts := driver.Options{
		Root:           resolveRoot(args),
		Jobs:           opts.jobs,
		IgnoreRules:    opts.ignoreRules,
		Fix:            opts.fix,
		FixMode:        fix.ApplyModeAll,
		MaxDiagnostics: opts.maxDiagnostics,
		Baseline:       opts.baseline,
		BaselineWrite:  opts.baselineWrite,
		Timer:          timer,
	}
	if opts.dryRun {
		dopts.FixMode = fix.ApplyModeDryRun
	}
	if opts.fix && !opts.yes && !opts.dryRun {
		in := cmd.InOrStdin()
		dopts.Confirm = func(n int) bool {
			return confirmFixes(in, errOut, n)
		}
	}

	// the progress view would fight with the confirmation prompt
	useTUI := !opts.quiet && dopts.Confirm == nil && shouldUseTUI(opts.ui)

	var res *driver.Result
	if useTUI {
		res, err = runDiagnoseWithUI(cmd.Context(), dopts)
	} else {
		res, err = driver.Diagnose(cmd.Context(), dopts)
	}
	if err != nil {
		return err
	}

	if err := writeReport(out, res, opts, args); err != nil {
		return err
	}
	if opts.timings {
		fmt.Fprint(errOut, timer.Summary())
	}
	if !res.Score.Passed() {
		return errScoreBelowThreshold
	}
	return nil
}

func writeReport(out io.Writer, res *driver.Result, opts scanOptions, args []string) error {
	rep := &diagfmt.Report{
		Score:        res.Score,
		Diagnostics:  res.Diagnostics,
		FilesScanned: res.FilesScanned,
		Registry:     res.Registry,
		Files:        res.Files,
	}
	switch opts.format {
	case formatScore:
		return diagfmt.ScoreOnly(out, rep)
	case formatAgent:
		return diagfmt.Agent(out, rep)
	case formatJSON:
		return diagfmt.JSON(out, rep)
	case formatSarif:
		return diagfmt.Sarif(out, rep, diagfmt.SarifRunMeta{
			ToolName:       "svelte-doctor",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	}

	if !opts.quiet {
		if err := diagfmt.FixSummary(out, res.Fix, opts.dryRun, opts.color); err != nil {
			return err
		}
	}
	if err := diagfmt.Pretty(out, rep, diagfmt.PrettyOpts{Color: opts.color, Verbose: opts.verbose}); err != nil {
		return err
	}
	if !opts.quiet {
		if res.Dropped > 0 {
			fmt.Fprintf(out, "  %d more diagnostic(s) not shown (--max-diagnostics)\n\n", res.Dropped)
		}
		if res.Baselined > 0 {
			fmt.Fprintf(out, "  %d known diagnostic(s) hidden by the baseline\n\n", res.Baselined)
		}
	}
	return nil
}

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [directory]",
		Short: "Apply every available fix, then report what is left",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, true)
		},
	}
	addScanFlags(cmd)
	return cmd
}
