package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sveltedoctor/internal/version"
)

// errScoreBelowThreshold fails the process without printing anything: the
// report already says why.
var errScoreBelowThreshold = errors.New("score below threshold")

// session holds the cleanups installed before a command runs. cobra skips
// post-run hooks when RunE fails, so main closes it after Execute.
type session struct {
	cleanups []func()
}

func (s *session) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

func newRootCmd() (*cobra.Command, *session) {
	rootCmd := &cobra.Command{
		Use:           "svelte-doctor [directory]",
		Short:         "Diagnose and fix Svelte 5 anti-patterns in your codebase",
		Long:          `svelte-doctor scans Svelte components and SvelteKit modules for legacy syntax, reactivity bugs and performance pitfalls, and scores the project.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, false)
		},
	}
	addScanFlags(rootCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("ui", "auto", "interactive progress view (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "info", "trace level for --trace (off|error|warn|info|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	sess := &session{}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		sess.cleanups = append(sess.cleanups, stopTracing)
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		sess.cleanups = append(sess.cleanups, stopProfiling)
		return nil
	}

	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd, sess
}

func main() {
	rootCmd, sess := newRootCmd()
	err := rootCmd.Execute()
	sess.close()
	if err != nil {
		if !errors.Is(err, errScoreBelowThreshold) {
			fmt.Fprintf(os.Stderr, "svelte-doctor: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
