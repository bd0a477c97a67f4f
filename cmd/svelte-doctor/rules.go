package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/rules"
)

type ruleInfo struct {
	ID          string   `json:"id"`
	Severity    string   `json:"severity"`
	Roles       []string `json:"roles"`
	Fixable     bool     `json:"fixable"`
	Description string   `json:"description"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	colorStr, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := readColorMode(colorStr, stdoutFile(cmd))
	if err != nil {
		return err
	}

	infos := collectRules(rules.Default())
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		renderRulesPretty(cmd.OutOrStdout(), infos, useColor)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func collectRules(reg *rules.Registry) []ruleInfo {
	all := reg.All()
	out := make([]ruleInfo, 0, len(all))
	for _, r := range all {
		roles := r.Roles.List()
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = role.String()
		}
		out = append(out, ruleInfo{
			ID:          r.ID,
			Severity:    r.Severity.String(),
			Roles:       names,
			Fixable:     r.Fixable(),
			Description: r.Description,
		})
	}
	return out
}

func renderRulesPretty(out io.Writer, infos []ruleInfo, useColor bool) {
	idWidth := 0
	for _, info := range infos {
		idWidth = max(idWidth, runewidth.StringWidth(info.ID))
	}
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)
	for _, c := range []*color.Color{bold, dim, errColor, warnColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, info := range infos {
		sev := warnColor.Sprint(runewidth.FillRight(info.Severity, 7))
		if info.Severity == diag.SevError.String() {
			sev = errColor.Sprint(runewidth.FillRight(info.Severity, 7))
		}
		fixable := ""
		if info.Fixable {
			fixable = dim.Sprint(" (fixable)")
		}
		fmt.Fprintf(out, "%s  %s  %s%s\n", bold.Sprint(runewidth.FillRight(info.ID, idWidth)), sev, info.Description, fixable)
		fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", idWidth), dim.Sprint(strings.Join(info.Roles, ", ")))
	}
}
