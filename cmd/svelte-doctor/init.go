package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sveltedoctor/internal/scaffold"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Generate agent context files, CI workflow, and hook configs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite files that already exist")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n  svelte-doctor init")
	fmt.Fprintln(out)

	res, err := scaffold.Init(dir, force)
	if res != nil {
		for _, p := range res.Created {
			fmt.Fprintf(out, "  Created %s\n", p)
		}
		for _, p := range res.Skipped {
			fmt.Fprintf(out, "  Skipped %s (exists, use --force to overwrite)\n", p)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Next steps:")
	fmt.Fprintln(out, "    CI:     Workflow runs on push/PR to main")
	fmt.Fprintln(out, "    Husky:  Add to .husky/pre-commit: sh .husky/svelte-doctor")
	fmt.Fprintln(out, "    Agents: .cursorrules, .windsurfrules and the Claude skill describe the rules")
	fmt.Fprintln(out, "\n  Done! Integration configs generated.")
	fmt.Fprintln(out)
	return nil
}
