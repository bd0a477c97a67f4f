package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sveltedoctor/internal/trace"
)

// setupTracing installs the stderr warning sink plus the optional --trace
// sink and returns the cleanup to run after the command.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	quiet, err := root.PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	stderrLevel := trace.LevelWarn
	if quiet {
		stderrLevel = trace.LevelError
	}
	tracers := make([]trace.Tracer, 0, 2)

	switch traceOutput {
	case "":
	case "-":
		// --trace - replaces the default stderr sink
		if level > stderrLevel {
			stderrLevel = level
		}
	default:
		fileTracer, err := trace.New(trace.Config{Level: level, OutputPath: traceOutput})
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		tracers = append(tracers, fileTracer)
	}

	stderrTracer, err := trace.New(trace.Config{Level: stderrLevel, Format: trace.FormatText, OutputPath: "-"})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	tracers = append(tracers, stderrTracer)

	tracer := trace.NewMultiTracer(tracers...)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
