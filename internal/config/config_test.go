package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sveltedoctor/internal/trace"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		want     Config
		wantFile string
		warnings []string
	}{
		{
			name: "json",
			files: map[string]string{
				JSONFile: `{"ignore": {"rules": ["sv-no-export-let"], "files": ["src/legacy/**"]}, "verbose": true, "diff": "main"}`,
			},
			want: Config{
				Ignore:  Ignore{Rules: []string{"sv-no-export-let"}, Files: []string{"src/legacy/**"}},
				Verbose: true,
				Diff:    Diff{Enabled: true, Base: "main"},
			},
			wantFile: JSONFile,
		},
		{
			name: "json wins over toml",
			files: map[string]string{
				JSONFile: `{"verbose": false, "diff": true}`,
				TOMLFile: "verbose = true\n",
			},
			want:     Config{Diff: Diff{Enabled: true}},
			wantFile: JSONFile,
		},
		{
			name: "toml with unknown key",
			files: map[string]string{
				TOMLFile: "verbose = true\ncolour = \"red\"\n\n[ignore]\nrules = [\"perf-prefer-state-raw\"]\nfiles = [\"[bad\"]\n",
			},
			want: Config{
				Ignore:  Ignore{Rules: []string{"perf-prefer-state-raw"}, Files: []string{}},
				Verbose: true,
			},
			wantFile: TOMLFile,
			warnings: []string{`unknown key "colour"`, `invalid ignore pattern "[bad"`},
		},
		{
			name: "package.json key",
			files: map[string]string{
				PackageFile: `{"name": "app", "svelteDoctor": {"ignore": {"rules": ["kit-require-use-enhance"]}}}`,
			},
			want:     Config{Ignore: Ignore{Rules: []string{"kit-require-use-enhance"}}},
			wantFile: PackageFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				write(t, dir, name, content)
			}
			cfg, warnings, err := Load(dir)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Path != filepath.Join(dir, tt.wantFile) {
				t.Fatalf("Path = %q, want %q", cfg.Path, tt.wantFile)
			}
			got := *cfg
			got.Path = ""
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.warnings, warnings); diff != "" {
				t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, PackageFile, `{"name": "app"}`)
	if _, _, err := Load(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadOrDefaultMalformed(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, JSONFile, `{"ignore": `)

	var logs bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&logs, trace.LevelWarn, trace.FormatText))
	cfg := LoadOrDefault(ctx, dir)
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Fatalf("malformed config must yield defaults (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "config ignored") {
		t.Fatalf("no warning logged: %q", logs.String())
	}
}

func TestUnknownRules(t *testing.T) {
	cfg := &Config{Ignore: Ignore{Rules: []string{"sv-no-export-let", "sv-typo"}}}
	got := cfg.UnknownRules(func(id string) bool { return id == "sv-no-export-let" })
	if diff := cmp.Diff([]string{"sv-typo"}, got); diff != "" {
		t.Fatalf("unknown rules mismatch (-want +got):\n%s", diff)
	}
}
