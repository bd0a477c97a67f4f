package diagfmt

import (
	"encoding/json"
	"io"

	"sveltedoctor/internal/diag"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifText          `json:"shortDescription"`
	Help                 *sarifText         `json:"help,omitempty"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
	Properties           map[string]any     `json:"properties,omitempty"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine   int        `json:"startLine"`
	StartColumn int        `json:"startColumn"`
	EndLine     int        `json:"endLine,omitempty"`
	EndColumn   int        `json:"endColumn,omitempty"`
	Snippet     *sarifText `json:"snippet,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	if s == diag.SevError {
		return "error"
	}
	return "warning"
}

// resolveEnd fills the region end from the primary span when the report
// carries the file set that produced it.
func (r *Report) resolveEnd(d *diag.Diagnostic, region *sarifRegion) {
	if r.Files == nil || d.Primary.Empty() {
		return
	}
	f := r.Files.Get(d.Primary.File)
	if f == nil || f.Path != d.FilePath {
		return
	}
	_, end := r.Files.Resolve(d.Primary)
	region.EndLine = int(end.Line)
	region.EndColumn = int(end.Col)
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0): один run, каталог
// правил в tool.driver.rules, по результату на диагностику.
func Sarif(w io.Writer, rep *Report, meta SarifRunMeta) error {
	name := meta.ToolName
	if name == "" {
		name = "svelte-doctor"
	}
	catalog := rep.registry().All()
	ruleIndex := make(map[string]int, len(catalog))
	driver := sarifDriver{
		Name:    name,
		Version: meta.ToolVersion,
		Rules:   make([]sarifRule, 0, len(catalog)),
	}
	for i, r := range catalog {
		ruleIndex[r.ID] = i
		rule := sarifRule{
			ID:                   r.ID,
			ShortDescription:     sarifText{Text: r.Description},
			DefaultConfiguration: sarifConfiguration{Level: sarifLevel(r.Severity)},
			Properties: map[string]any{
				"fixable": r.Fixable(),
				"roles":   r.Roles.String(),
			},
		}
		if r.AgentPrompt != "" {
			rule.Help = &sarifText{Text: r.AgentPrompt}
		}
		driver.Rules = append(driver.Rules, rule)
	}

	run := sarifRun{
		Tool:    sarifTool{Driver: driver},
		Results: make([]sarifResult, 0, len(rep.Diagnostics)),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	for _, d := range rep.Diagnostics {
		idx, ok := ruleIndex[d.RuleID]
		if !ok {
			idx = -1
		}
		region := sarifRegion{StartLine: max(d.Line, 1), StartColumn: d.Column + 1}
		rep.resolveEnd(d, &region)
		if d.CodeSnippet != "" {
			region.Snippet = &sarifText{Text: d.CodeSnippet}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    d.RuleID,
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: d.FilePath, URIBaseID: "%SRCROOT%"},
					Region:           region,
				},
			}},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
