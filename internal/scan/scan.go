// Package scan lists the source files of a project: .svelte, .ts and .js
// files under the root minus built-in, configured and .gitignore exclusions.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	"sveltedoctor/internal/trace"
)

// Include matches the analyzed extensions.
var Include = []string{"**/*.svelte", "**/*.ts", "**/*.js"}

// DefaultExclude is always applied.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/.svelte-kit/**",
}

// Options configures Files.
type Options struct {
	// Exclude holds extra doublestar patterns, relative to the root.
	Exclude []string
	// NoGitignore disables reading <root>/.gitignore.
	NoGitignore bool
}

// File is one scanned source file.
type File struct {
	Abs string // absolute path
	Rel string // slash-separated, NFC-normalised, relative to the root
}

// Files walks root and returns matching files sorted by absolute path.
func Files(ctx context.Context, root string, opts Options) ([]File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %q is not a directory", root)
	}

	exclude := append([]string(nil), DefaultExclude...)
	exclude = append(exclude, opts.Exclude...)
	if !opts.NoGitignore {
		patterns, err := GitignorePatterns(filepath.Join(abs, ".gitignore"))
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, patterns...)
	}
	m := &matcher{exclude: exclude}

	var files []File
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == abs {
				return err
			}
			// нечитаемые подкаталоги пропускаем
			trace.Debug(ctx, "scan skip", err.Error())
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == abs {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		rel = norm.NFC.String(filepath.ToSlash(rel))

		if d.IsDir() {
			if m.excludedDir(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !m.included(rel) || m.excluded(rel) {
			return nil
		}
		files = append(files, File{Abs: p, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Abs < files[j].Abs })
	return files, nil
}

type matcher struct {
	exclude []string
}

func (m *matcher) included(rel string) bool {
	return matchAny(Include, rel)
}

func (m *matcher) excluded(rel string) bool {
	return matchAny(m.exclude, rel)
}

// excludedDir reports whether everything below dir is excluded: some
// pattern matches a hypothetical child, or the directory itself.
func (m *matcher) excludedDir(dir string) bool {
	return matchAny(m.exclude, dir) || matchAny(m.exclude, path.Join(dir, "x"))
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// GitignorePatterns converts the lines of a .gitignore file into exclusion
// globs. Blank lines, comments and negations are skipped; every pattern is
// anchored anywhere with **/ and a trailing slash matches the directory's
// contents. A missing file yields no patterns.
func GitignorePatterns(file string) ([]string, error) {
	// #nosec G304 -- fixed name under the scan root
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		out = append(out, gitignoreGlob(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return out, nil
}

func gitignoreGlob(line string) string {
	line = strings.TrimPrefix(line, "/")
	if !strings.HasPrefix(line, "**/") {
		line = "**/" + line
	}
	if strings.HasSuffix(line, "/") {
		line += "**"
	}
	return line
}
