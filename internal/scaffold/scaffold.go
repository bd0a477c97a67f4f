// Package scaffold writes the files `svelte-doctor init` sets up: agent rule
// files, a Claude skill, a GitHub workflow and a husky hook.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.md
var templates embed.FS

// HookCommand is what CI and the git hook run.
const HookCommand = "npx svelte-doctor . --score"

// File is one generated file; Path is slash-separated and relative to the
// project root.
type File struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// Result lists what Init did, by project-relative path.
type Result struct {
	Created []string
	Skipped []string // already present and kept
}

// Files renders every scaffold file in the order Init writes them.
func Files() ([]File, error) {
	rules, err := templates.ReadFile("templates/agent-rules.md")
	if err != nil {
		return nil, err
	}
	skill, err := templates.ReadFile("templates/claude-skill.md")
	if err != nil {
		return nil, err
	}
	workflow, err := WorkflowYAML()
	if err != nil {
		return nil, err
	}
	return []File{
		{Path: ".cursorrules", Content: rules, Mode: 0o644},
		{Path: ".windsurfrules", Content: rules, Mode: 0o644},
		{Path: ".claude/skills/svelte-doctor.md", Content: skill, Mode: 0o644},
		{Path: ".github/workflows/svelte-doctor.yml", Content: workflow, Mode: 0o644},
		{Path: ".husky/svelte-doctor", Content: []byte(HookCommand + "\n"), Mode: 0o755},
	}, nil
}

// Init writes the scaffold under root. Existing files are kept unless force.
func Init(root string, force bool) (*Result, error) {
	files, err := Files()
	if err != nil {
		return nil, err
	}
	res := &Result{}
	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		if !force {
			if _, err := os.Stat(target); err == nil {
				res.Skipped = append(res.Skipped, f.Path)
				continue
			} else if !errors.Is(err, os.ErrNotExist) {
				return res, fmt.Errorf("failed to stat %q: %w", target, err)
			}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return res, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, f.Content, f.Mode); err != nil {
			return res, fmt.Errorf("write %s: %w", f.Path, err)
		}
		res.Created = append(res.Created, f.Path)
	}
	return res, nil
}

// Workflow is the subset of the GitHub Actions schema the generated
// workflow needs.
type Workflow struct {
	Name string         `yaml:"name"`
	On   WorkflowEvents `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

type WorkflowEvents struct {
	Push        *BranchFilter `yaml:"push,omitempty"`
	PullRequest *BranchFilter `yaml:"pull_request,omitempty"`
}

type BranchFilter struct {
	Branches []string `yaml:"branches,flow"`
}

type Job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

// DefaultWorkflow runs the score check on pushes and pull requests to main.
func DefaultWorkflow() Workflow {
	main := &BranchFilter{Branches: []string{"main"}}
	return Workflow{
		Name: "Svelte Doctor",
		On:   WorkflowEvents{Push: main, PullRequest: main},
		Jobs: map[string]Job{
			"svelte-doctor": {
				RunsOn: "ubuntu-latest",
				Steps: []Step{
					{Uses: "actions/checkout@v4"},
					{Uses: "actions/setup-node@v4", With: map[string]string{"node-version": "18"}},
					{Run: "npm ci"},
					{Name: "Run Svelte Doctor", Run: HookCommand},
				},
			},
		},
	}
}

// WorkflowYAML renders DefaultWorkflow with two-space indentation.
func WorkflowYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(DefaultWorkflow()); err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	return buf.Bytes(), nil
}
